package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteForwardsSnippet(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"run": {"stdout": "hello\n", "stderr": "", "code": 0}}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	result, err := client.Execute(context.Background(), ExecRequest{
		Language: "python",
		Source:   `print("hello")`,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Equal(t, "", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
}

func TestExecuteSurfacesUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad language", http.StatusBadRequest)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	_, err := client.Execute(context.Background(), ExecRequest{Language: "nope", Source: "x"})
	assert.Error(t, err)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	// Trip threshold is 3 requests with a 60% failure ratio; the limiter's
	// burst covers these calls without waiting.
	var lastErr error
	for i := 0; i < 4; i++ {
		_, lastErr = client.Execute(context.Background(), ExecRequest{Language: "go", Source: "x"})
		require.Error(t, lastErr)
	}
	assert.ErrorIs(t, lastErr, gobreaker.ErrOpenState)
}
