package ingest

import (
	"sort"
	"sync"
	"time"

	"github.com/batchlens/batchlens/internal/pipeline"
)

// Document is one ingested batch record.
type Document struct {
	ID         string       `json:"id"`
	Filename   string       `json:"filename"`
	PageCount  int          `json:"page_count"`
	Path       string       `json:"path,omitempty"`
	Status     IntakeStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
	IngestedAt time.Time    `json:"ingested_at"`

	// Result holds the latest processing run, nil until processed.
	Result *pipeline.Result `json:"result,omitempty"`
}

// Store is an in-memory document registry keyed by document id.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Add registers a document, replacing any existing entry with the same id.
func (s *Store) Add(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

// Get returns the document with the given id, or nil.
func (s *Store) Get(id string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[id]
}

// List returns all documents ordered by ingest time, oldest first.
func (s *Store) List() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IngestedAt.Equal(out[j].IngestedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].IngestedAt.Before(out[j].IngestedAt)
	})
	return out
}

// SetResult records a processing run against a document. Returns false if the
// document is unknown.
func (s *Store) SetResult(id string, result *pipeline.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return false
	}
	doc.Result = result
	return true
}

// Count returns the number of registered documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
