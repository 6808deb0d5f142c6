// Package endpoints defines every HTTP endpoint of the batchlens server and
// its paired CLI command.
package endpoints

import (
	"github.com/batchlens/batchlens/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Analysis endpoints
		&AnalyzeLayoutEndpoint{},
		&ClassifyPageEndpoint{},
		&DocumentQualityEndpoint{},

		// QA endpoints
		&ChecklistEndpoint{},
		&ReportEndpoint{},

		// Document endpoints
		&IngestDocumentEndpoint{},
		&ListDocumentsEndpoint{},
		&GetDocumentEndpoint{},
		&ProcessDocumentEndpoint{},
	}
}
