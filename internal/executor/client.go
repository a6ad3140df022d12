// Package executor forwards code snippets to a third-party execution API
// (a Piston-compatible endpoint). The upstream is outside our control, so
// calls go through a circuit breaker and a client-side rate limiter.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shareboard/pkg/logger"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ExecRequest is the snippet submitted for execution.
type ExecRequest struct {
	Language string `json:"language" validate:"required"`
	Source   string `json:"source" validate:"required"`
}

// ExecResult is the outcome of running a snippet upstream.
type ExecResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// pistonRequest / pistonResponse mirror the upstream wire format.
type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonResponse struct {
	Run struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Code   int    `json:"code"`
	} `json:"run"`
}

type Client struct {
	url     string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewClient(url string) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ExecutorAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Sugar.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	// Public Piston instances allow 5 req/s; stay under that.
	limiter := rate.NewLimiter(rate.Limit(4), 4)

	return &Client{
		url:     url,
		http:    &http.Client{Timeout: 15 * time.Second},
		breaker: breaker,
		limiter: limiter,
	}
}

// Execute runs the snippet upstream and returns its output.
func (c *Client) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return ExecResult{}, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		return ExecResult{}, err
	}
	return out.(ExecResult), nil
}

func (c *Client) post(ctx context.Context, req ExecRequest) (ExecResult, error) {
	body, err := json.Marshal(pistonRequest{
		Language: req.Language,
		Version:  "*",
		Files:    []pistonFile{{Content: req.Source}},
	})
	if err != nil {
		return ExecResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return ExecResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ExecResult{}, fmt.Errorf("calling executor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ExecResult{}, fmt.Errorf("executor returned %d: %s", resp.StatusCode, data)
	}

	var pr pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return ExecResult{}, fmt.Errorf("decoding executor response: %w", err)
	}

	return ExecResult{
		Stdout:   pr.Run.Stdout,
		Stderr:   pr.Run.Stderr,
		ExitCode: pr.Run.Code,
	}, nil
}
