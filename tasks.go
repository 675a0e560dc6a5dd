package vastcap

import (
	"net"
	"strconv"
	"strings"
)

// TaskType is the wire type tag of a task.
type TaskType string

const (
	TaskRecaptchaV2 TaskType = "RecaptchaV2Task"
	TaskRecaptchaV3 TaskType = "RecaptchaV3Task"
	TaskHCaptcha    TaskType = "HCaptchaTask"
	TaskTurnstile   TaskType = "TurnstileTask"
	TaskFunCaptcha  TaskType = "FunCaptchaTask"
)

// Task is a captcha-solving request.
type Task interface {
	// Type returns the wire type tag.
	Type() TaskType
	// Payload returns the wire JSON object. Absent optional fields are omitted.
	Payload() map[string]any
	// Validate checks required fields before the task is submitted.
	Validate() error
}

// BaseTask holds the fields shared by every captcha variant.
// Empty UserAgent and Proxy are treated as absent.
type BaseTask struct {
	WebsiteURL string
	WebsiteKey string
	UserAgent  string
	Proxy      string // user:pass@ip:port
}

func (b BaseTask) payload(t TaskType) map[string]any {
	m := map[string]any{
		"type":       string(t),
		"websiteURL": b.WebsiteURL,
		"websiteKey": b.WebsiteKey,
	}
	if b.UserAgent != "" {
		m["userAgent"] = b.UserAgent
	}
	if b.Proxy != "" {
		m["proxy"] = b.Proxy
	}
	return m
}

func (b BaseTask) validate() error {
	if strings.TrimSpace(b.WebsiteURL) == "" {
		return &ValidationError{Field: "websiteURL", Reason: "is required"}
	}
	if strings.TrimSpace(b.WebsiteKey) == "" {
		return &ValidationError{Field: "websiteKey", Reason: "is required"}
	}
	if b.Proxy != "" {
		if _, err := ParseProxy(b.Proxy); err != nil {
			return err
		}
	}
	return nil
}

// RecaptchaV2Task solves a reCAPTCHA v2 checkbox or invisible challenge.
type RecaptchaV2Task struct {
	BaseTask
	IsInvisible bool
}

func (t RecaptchaV2Task) Type() TaskType  { return TaskRecaptchaV2 }
func (t RecaptchaV2Task) Validate() error { return t.validate() }

func (t RecaptchaV2Task) Payload() map[string]any {
	m := t.payload(t.Type())
	m["isInvisible"] = t.IsInvisible
	return m
}

// RecaptchaV3Task solves a score-based reCAPTCHA v3 challenge.
type RecaptchaV3Task struct {
	BaseTask
	MinScore   *float64
	PageAction string
}

func (t RecaptchaV3Task) Type() TaskType { return TaskRecaptchaV3 }

func (t RecaptchaV3Task) Validate() error {
	if err := t.validate(); err != nil {
		return err
	}
	if t.MinScore != nil && (*t.MinScore < 0 || *t.MinScore > 1) {
		return &ValidationError{Field: "minScore", Reason: "must be within [0, 1]"}
	}
	return nil
}

func (t RecaptchaV3Task) Payload() map[string]any {
	m := t.payload(t.Type())
	if t.MinScore != nil {
		m["minScore"] = *t.MinScore
	}
	if t.PageAction != "" {
		m["pageAction"] = t.PageAction
	}
	return m
}

// HCaptchaTask solves an hCaptcha challenge.
type HCaptchaTask struct {
	BaseTask
	Invisible  bool
	Enterprise bool
}

func (t HCaptchaTask) Type() TaskType  { return TaskHCaptcha }
func (t HCaptchaTask) Validate() error { return t.validate() }

func (t HCaptchaTask) Payload() map[string]any {
	m := t.payload(t.Type())
	m["invisible"] = t.Invisible
	m["enterprise"] = t.Enterprise
	return m
}

// TurnstileTask solves a Cloudflare Turnstile challenge.
type TurnstileTask struct {
	BaseTask
}

func (t TurnstileTask) Type() TaskType          { return TaskTurnstile }
func (t TurnstileTask) Validate() error         { return t.validate() }
func (t TurnstileTask) Payload() map[string]any { return t.payload(t.Type()) }

// FunCaptchaTask solves an Arkose Labs FunCaptcha challenge.
type FunCaptchaTask struct {
	BaseTask
}

func (t FunCaptchaTask) Type() TaskType          { return TaskFunCaptcha }
func (t FunCaptchaTask) Validate() error         { return t.validate() }
func (t FunCaptchaTask) Payload() map[string]any { return t.payload(t.Type()) }

// NewTask builds a task of the given type with only the common fields set.
// It returns nil for an unknown type.
func NewTask(typ TaskType, base BaseTask) Task {
	switch typ {
	case TaskRecaptchaV2:
		return RecaptchaV2Task{BaseTask: base}
	case TaskRecaptchaV3:
		return RecaptchaV3Task{BaseTask: base}
	case TaskHCaptcha:
		return HCaptchaTask{BaseTask: base}
	case TaskTurnstile:
		return TurnstileTask{BaseTask: base}
	case TaskFunCaptcha:
		return FunCaptchaTask{BaseTask: base}
	}
	return nil
}

// Proxy is a parsed task proxy in user:pass@host:port form.
type Proxy struct {
	Username string
	Password string
	Host     string
	Port     int
}

// ParseProxy parses "[user:pass@]host:port".
func ParseProxy(raw string) (Proxy, error) {
	var p Proxy
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "://") {
		return Proxy{}, &ValidationError{Field: "proxy", Reason: "must not carry a scheme"}
	}
	hostPort := raw
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		creds := strings.SplitN(raw[:at], ":", 2)
		if len(creds) != 2 || creds[0] == "" {
			return Proxy{}, &ValidationError{Field: "proxy", Reason: "credentials must be user:pass"}
		}
		p.Username, p.Password = creds[0], creds[1]
		hostPort = raw[at+1:]
	}
	host, port, err := net.SplitHostPort(hostPort)
	if err != nil || host == "" {
		return Proxy{}, &ValidationError{Field: "proxy", Reason: "must be host:port"}
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return Proxy{}, &ValidationError{Field: "proxy", Reason: "has an invalid port"}
	}
	p.Host, p.Port = host, n
	return p, nil
}

// String renders the proxy back to its wire form.
func (p Proxy) String() string {
	hp := net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	if p.Username == "" {
		return hp
	}
	return p.Username + ":" + p.Password + "@" + hp
}
