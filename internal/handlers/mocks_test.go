package handlers

import (
	"context"
	"strings"
	"sync"

	"github.com/klauern/hookrelay/internal/store"
)

// MockCommandExecutor records requests and replays pre-configured responses
type MockCommandExecutor struct {
	Requests  []CommandRequest
	Responses map[string]MockCommandResponse
	mu        sync.Mutex
}

// MockCommandResponse is keyed by the full command line, e.g. "sh -c exit 1"
type MockCommandResponse struct {
	Result CommandResult
	Error  error
}

func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{Responses: make(map[string]MockCommandResponse)}
}

func (m *MockCommandExecutor) Execute(_ context.Context, req CommandRequest) (CommandResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if resp, ok := m.Responses[commandLine(req)]; ok {
		return resp.Result, resp.Error
	}
	return CommandResult{}, nil
}

func (m *MockCommandExecutor) Last() CommandRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Requests[len(m.Requests)-1]
}

func commandLine(req CommandRequest) string {
	return strings.TrimSpace(req.Name + " " + strings.Join(req.Args, " "))
}

type notification struct {
	title, body string
}

type mockNotifier struct {
	sent []notification
	err  error
}

func (n *mockNotifier) Notify(_ context.Context, title, body string) error {
	n.sent = append(n.sent, notification{title, body})
	return n.err
}

type mockStore struct {
	mu   sync.Mutex
	docs []store.Document
	err  error
}

func (s *mockStore) Index(_ context.Context, doc store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *mockStore) Close() error { return nil }
