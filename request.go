package vastcap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// core implements the task lifecycle over a transport. Client and
// AsyncClient both delegate to it.
type core struct {
	cfg Config
	log *slog.Logger
}

// call POSTs clientKey plus fields to endpoint and returns the raw body.
// Non-2xx responses become an *APIError when they carry an error object,
// an *HTTPError otherwise.
func (c *core) call(ctx context.Context, tr transport, endpoint Endpoint, fields map[string]any) ([]byte, error) {
	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["clientKey"] = c.cfg.APIKey

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", endpoint, err)
	}

	data, status, err := tr.post(ctx, endpoint.URL(c.cfg.BaseURL), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	if status < 200 || status > 299 {
		if apiErr := checkAPIError(data); apiErr != nil {
			return nil, apiErr
		}
		return nil, fmt.Errorf("%s: %w", endpoint, &HTTPError{StatusCode: status, Body: truncateBytes(data, 200)})
	}
	return data, nil
}

func (c *core) createTask(ctx context.Context, tr transport, task Task) (string, error) {
	if task == nil {
		return "", &ValidationError{Field: "task", Reason: "is nil"}
	}
	if err := task.Validate(); err != nil {
		return "", err
	}

	body, err := c.call(ctx, tr, EndpointCreateTask, map[string]any{"task": task.Payload()})
	if err != nil {
		return "", err
	}
	id, err := parseCreateTask(body)
	if err != nil {
		return "", err
	}

	attrs := []any{slog.String("taskId", id), slog.String("type", string(task.Type()))}
	if p, ok := task.Payload()["proxy"].(string); ok {
		attrs = append(attrs, slog.String("proxy", stealth.MaskProxy(p)))
	}
	c.log.Info("captcha task created", attrs...)
	return id, nil
}

func (c *core) getTaskResult(ctx context.Context, tr transport, taskID string) (*TaskResult, error) {
	body, err := c.call(ctx, tr, EndpointGetTaskResult, map[string]any{"taskId": taskID})
	if err != nil {
		return nil, err
	}
	return parseTaskResult(body)
}

func (c *core) getBalance(ctx context.Context, tr transport) (float64, error) {
	body, err := c.call(ctx, tr, EndpointGetBalance, nil)
	if err != nil {
		return 0, err
	}
	bal, err := parseBalance(body)
	if err != nil {
		return 0, err
	}
	if c.cfg.BalanceWarnLevel > 0 && bal < c.cfg.BalanceWarnLevel {
		c.log.Warn("vastcap balance low", slog.Float64("balance", bal), slog.Float64("warn_level", c.cfg.BalanceWarnLevel))
	}
	return bal, nil
}

// solve creates the task and polls until it is ready, failed, or the
// timeout elapses. No poll starts at or after the deadline: once the next
// poll would fall past it, a TimeoutError is returned without waiting.
func (c *core) solve(ctx context.Context, tr transport, task Task, opts []SolveOption) (*TaskSolution, error) {
	o := c.cfg.solveOptions(opts)
	deadline := time.Now().Add(o.timeout)

	taskID, err := c.createTask(ctx, tr, task)
	if err != nil {
		return nil, err
	}

	for polls := 1; ; polls++ {
		if !time.Now().Before(deadline) {
			return nil, &TimeoutError{TaskID: taskID, Timeout: o.timeout}
		}
		res, err := c.getTaskResult(ctx, tr, taskID)
		if err != nil {
			return nil, err
		}

		switch res.Status {
		case StatusReady:
			c.log.Info("captcha solved", slog.String("taskId", taskID), slog.Int("polls", polls))
			return res.Solution, nil
		case StatusFailed:
			c.log.Warn("captcha task failed",
				slog.String("taskId", taskID),
				slog.String("code", res.Error.ErrorCode),
				slog.String("description", res.Error.ErrorDescription))
			return nil, &TaskFailedError{TaskID: taskID, Solver: *res.Error}
		}

		c.log.Debug("captcha task processing", slog.String("taskId", taskID), slog.Int("poll", polls))
		if !time.Now().Add(o.polling).Before(deadline) {
			return nil, &TimeoutError{TaskID: taskID, Timeout: o.timeout}
		}

		timer := time.NewTimer(o.polling)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}
