package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrNoResponses indicates the mock's canned-response queue is empty.
var ErrNoResponses = errors.New("mock: no canned responses left")

// MockResponse is a canned response for the MockClient.
type MockResponse struct {
	JSON   string
	Stream []string
	Vector []float64
	Err    error
}

// MockClient is a deterministic Client for testing. It returns canned
// responses in FIFO order and records all prompts.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse

	// Prompts records the user prompt of every GenerateJSON call.
	Prompts []string
}

// NewMockClient creates a MockClient with the given canned responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// AddResponse appends a canned response to the queue.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockClient) next() (MockResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return MockResponse{}, ErrNoResponses
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return MockResponse{}, resp.Err
	}
	return resp, nil
}

func (m *MockClient) GenerateJSON(_ context.Context, _, user string, schema *Schema, out any) error {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, user)
	m.mu.Unlock()

	resp, err := m.next()
	if err != nil {
		return err
	}

	raw, err := ExtractJSONObject(resp.JSON)
	if err != nil {
		return err
	}
	if err := schema.Validate(json.RawMessage(raw)); err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (m *MockClient) StreamChat(_ context.Context, _ string, _ []Message, onDelta func(delta string) error) (string, error) {
	resp, err := m.next()
	if err != nil {
		return "", err
	}

	var full string
	for _, delta := range resp.Stream {
		full += delta
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return full, err
			}
		}
	}
	return full, nil
}

func (m *MockClient) Embed(_ context.Context, _ string) ([]float64, error) {
	resp, err := m.next()
	if err != nil {
		return nil, err
	}
	return resp.Vector, nil
}

func (m *MockClient) ModelID() string {
	return "mock"
}

var _ Client = (*MockClient)(nil)
