package docs

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// MockExecutor records git invocations and replays configured responses.
// Exported so integration tests can drive sync flows without a git binary.
type MockExecutor struct {
	responses []MockResponse
	calls     []ExecutorCall
}

// MockResponse is a canned response consumed by the first command whose
// rendered form starts with Prefix.
type MockResponse struct {
	Prefix string
	Output []byte
	Err    error
}

// ExecutorCall records a single command invocation.
type ExecutorCall struct {
	Dir  string
	Name string
	Args []string
}

// NewMockExecutor creates an empty mock executor. Commands with no matching
// response fail, so tests only configure the calls they expect.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// AddResponse queues a response for the next command matching the prefix.
// Each response is consumed once.
func (m *MockExecutor) AddResponse(prefix string, output []byte, err error) {
	m.responses = append(m.responses, MockResponse{
		Prefix: prefix,
		Output: output,
		Err:    err,
	})
}

// Run records the invocation and returns the first queued response whose
// prefix matches "name arg1 arg2 ...".
func (m *MockExecutor) Run(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, ExecutorCall{Dir: dir, Name: name, Args: args})

	rendered := name + " " + strings.Join(args, " ")
	for i, resp := range m.responses {
		if strings.HasPrefix(rendered, resp.Prefix) {
			m.responses = append(m.responses[:i], m.responses[i+1:]...)
			return resp.Output, resp.Err
		}
	}

	return nil, errors.New("no mock response configured for: " + rendered)
}

// GetCalls returns all recorded invocations in order.
func (m *MockExecutor) GetCalls() []ExecutorCall {
	return m.calls
}

// CallsMatching returns the recorded invocations whose rendered command
// starts with the given prefix.
func (m *MockExecutor) CallsMatching(prefix string) []ExecutorCall {
	var matched []ExecutorCall
	for _, call := range m.calls {
		rendered := call.Name + " " + strings.Join(call.Args, " ")
		if strings.HasPrefix(rendered, prefix) {
			matched = append(matched, call)
		}
	}
	return matched
}

// MustGetLastCall returns the last recorded invocation, failing the test if
// none were made.
func (m *MockExecutor) MustGetLastCall(t *testing.T) ExecutorCall {
	t.Helper()
	if len(m.calls) == 0 {
		t.Fatal("Expected at least one command call")
	}
	return m.calls[len(m.calls)-1]
}
