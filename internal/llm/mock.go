package llm

import (
	"context"
	"sync"
)

// Mock is a scripted Generator for tests. Responses are consumed in order;
// once exhausted the last one repeats. A non-nil Err fails every call.
type Mock struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Prompts   []string
}

// NewMock builds a mock returning the given responses in order.
func NewMock(responses ...string) *Mock {
	return &Mock{Responses: responses}
}

func (m *Mock) Generate(_ context.Context, prompt string, _ Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", ErrDisabled
	}
	resp := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return resp, nil
}

// CallCount reports how many generations were requested.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
