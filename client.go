// Package vastcap is a client for the VastCap captcha-solving API.
//
// Client blocks the calling goroutine for each call. AsyncClient runs the
// same operations in the background over a session that must be opened
// before use and closed afterwards.
package vastcap

import (
	"context"
	"fmt"
)

// Client is the blocking VastCap client. It is safe for concurrent use.
type Client struct {
	core
	tr transport
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	cfg.defaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vastcap: empty API key")
	}
	tr, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{core: core{cfg: cfg, log: cfg.Logger}, tr: tr}, nil
}

// NewWithKey creates a Client with default settings.
func NewWithKey(apiKey string) (*Client, error) {
	return New(Config{APIKey: apiKey})
}

// Config returns the client's effective configuration, defaults applied.
func (c *Client) Config() Config { return c.cfg }

// CreateTask submits task and returns the server-issued task id.
func (c *Client) CreateTask(ctx context.Context, task Task) (string, error) {
	return c.createTask(ctx, c.tr, task)
}

// GetTaskResult fetches the current state of a task.
func (c *Client) GetTaskResult(ctx context.Context, taskID string) (*TaskResult, error) {
	return c.getTaskResult(ctx, c.tr, taskID)
}

// GetBalance returns the account balance.
func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	return c.getBalance(ctx, c.tr)
}

// Solve submits task and polls until it is solved, fails, or times out.
func (c *Client) Solve(ctx context.Context, task Task, opts ...SolveOption) (*TaskSolution, error) {
	return c.solve(ctx, c.tr, task, opts)
}
