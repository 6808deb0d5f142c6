package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	ResponseJSON json.RawMessage

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// RequestCount returns how many Chat calls were made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Chat returns the configured canned response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	count := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	if c.ShouldFail || (c.FailAfter > 0 && count > int64(c.FailAfter)) {
		return &ChatResult{
			Provider:     MockClientName,
			RequestID:    req.RequestID,
			ErrorType:    "mock_error",
			ErrorMessage: "mock failure",
		}, fmt.Errorf("mock failure")
	}

	result := &ChatResult{
		Content:   c.ResponseText,
		Provider:  MockClientName,
		ModelUsed: "mock-model",
		RequestID: req.RequestID,
		Success:   true,
	}
	if len(c.ResponseJSON) > 0 {
		result.Content = string(c.ResponseJSON)
		result.ParsedJSON = c.ResponseJSON
	}
	return result, nil
}
