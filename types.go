package vastcap

// TaskStatus is the remote task state at poll time.
type TaskStatus string

const (
	StatusProcessing TaskStatus = "processing"
	StatusReady      TaskStatus = "ready"
	StatusFailed     TaskStatus = "failed"
)

func (s TaskStatus) valid() bool {
	switch s {
	case StatusProcessing, StatusReady, StatusFailed:
		return true
	}
	return false
}

// TaskSolution is the solution payload of a ready task.
// Only the fields matching the captcha type are set.
type TaskSolution struct {
	GRecaptchaResponse string   `json:"gRecaptchaResponse,omitempty"`
	HCaptchaResponse   string   `json:"hCaptchaResponse,omitempty"`
	TurnstileResponse  string   `json:"turnstileResponse,omitempty"`
	Token              string   `json:"token,omitempty"` // FunCaptcha
	Score              *float64 `json:"score,omitempty"`
	UserAgent          string   `json:"userAgent,omitempty"`
}

// Value returns the first non-empty response token.
func (s *TaskSolution) Value() string {
	for _, v := range []string{s.GRecaptchaResponse, s.HCaptchaResponse, s.TurnstileResponse, s.Token} {
		if v != "" {
			return v
		}
	}
	return ""
}

// SolverError is the failure payload of a failed task.
type SolverError struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode"`
	ErrorDescription string `json:"errorDescription"`
}

// TaskResult is one getTaskResult answer. Solution is set only when Status
// is ready, Error only when it is failed.
type TaskResult struct {
	Status   TaskStatus
	Solution *TaskSolution
	Error    *SolverError
}
