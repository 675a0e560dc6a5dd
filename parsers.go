package vastcap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// errorObject is the service error payload, both for request errors and
// for failed tasks.
type errorObject struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode"`
	ErrorDescription string `json:"errorDescription"`
}

// checkAPIError returns an *APIError when the body carries a non-empty
// top-level "error" value.
func checkAPIError(body []byte) error {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return nil
	}
	raw := bytes.TrimSpace(envelope.Error)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" ||
		string(raw) == `""` || string(raw) == "false" {
		return nil
	}

	var obj errorObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		// Some gateways answer with a bare string.
		var msg string
		if json.Unmarshal(raw, &msg) == nil {
			return newAPIError(0, "", msg)
		}
		return newAPIError(0, "", string(raw))
	}
	return newAPIError(obj.ErrorID, obj.ErrorCode, obj.ErrorDescription)
}

// parseCreateTask extracts the task id from a createTask response.
func parseCreateTask(body []byte) (string, error) {
	if err := checkAPIError(body); err != nil {
		return "", err
	}
	var resp struct {
		TaskID json.RawMessage `json:"taskId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode createTask: %w", err)
	}
	id := rawScalar(resp.TaskID)
	if id == "" {
		return "", fmt.Errorf("createTask: empty taskId in response")
	}
	return id, nil
}

// parseTaskResult decodes a getTaskResult response. When the status is
// failed, the "error" object describes the task failure and is returned
// as TaskResult.Error instead of an error.
func parseTaskResult(body []byte) (*TaskResult, error) {
	var resp struct {
		Status   TaskStatus    `json:"status"`
		Solution *TaskSolution `json:"solution"`
		Error    *errorObject  `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		if apiErr := checkAPIError(body); apiErr != nil {
			return nil, apiErr
		}
		return nil, fmt.Errorf("decode getTaskResult: %w", err)
	}
	if resp.Status != StatusFailed {
		if err := checkAPIError(body); err != nil {
			return nil, err
		}
	}
	if !resp.Status.valid() {
		return nil, fmt.Errorf("getTaskResult: unexpected status %q", resp.Status)
	}

	switch resp.Status {
	case StatusReady:
		if resp.Solution == nil {
			return nil, fmt.Errorf("getTaskResult: ready without solution")
		}
		return &TaskResult{Status: StatusReady, Solution: resp.Solution}, nil
	case StatusFailed:
		if resp.Error == nil {
			return nil, fmt.Errorf("getTaskResult: failed without error object")
		}
		return &TaskResult{Status: StatusFailed, Error: &SolverError{
			ErrorID:          resp.Error.ErrorID,
			ErrorCode:        resp.Error.ErrorCode,
			ErrorDescription: resp.Error.ErrorDescription,
		}}, nil
	default:
		return &TaskResult{Status: StatusProcessing}, nil
	}
}

// parseBalance extracts the account balance from a getBalance response.
func parseBalance(body []byte) (float64, error) {
	if err := checkAPIError(body); err != nil {
		return 0, err
	}
	var resp struct {
		Balance json.RawMessage `json:"balance"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("decode getBalance: %w", err)
	}
	s := rawScalar(resp.Balance)
	if s == "" {
		return 0, fmt.Errorf("getBalance: missing balance in response")
	}
	bal, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("getBalance: invalid balance %q: %w", s, err)
	}
	return bal, nil
}

// rawScalar renders a JSON string or number as a plain string.
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
