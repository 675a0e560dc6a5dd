package captcha

import (
	"context"
	"fmt"
	"log/slog"

	vastcap "github.com/anatolykoptev/go-vastcap"
)

// Vast implements Solver using the VastCap API for one captcha type.
type Vast struct {
	client    *vastcap.Client
	taskType  vastcap.TaskType
	proxy     string
	userAgent string
	opts      []vastcap.SolveOption
	warnBelow float64 // 0 disables the pre-solve balance check
}

// Option configures a Vast solver.
type Option func(*Vast)

// WithProxy makes the service solve through proxy (user:pass@ip:port).
func WithProxy(proxy string) Option { return func(v *Vast) { v.proxy = proxy } }

// WithUserAgent sets the browser user agent the token is bound to.
func WithUserAgent(ua string) Option { return func(v *Vast) { v.userAgent = ua } }

// WithSolveOptions passes per-call timeout and polling overrides to every solve.
func WithSolveOptions(opts ...vastcap.SolveOption) Option {
	return func(v *Vast) { v.opts = append(v.opts, opts...) }
}

// WithBalanceCheck looks up the balance before each solve and logs a
// warning when it is below level. Each check costs one extra API call.
func WithBalanceCheck(level float64) Option { return func(v *Vast) { v.warnBelow = level } }

// NewVast creates a Solver for taskType backed by client.
func NewVast(client *vastcap.Client, taskType vastcap.TaskType, opts ...Option) (*Vast, error) {
	if vastcap.NewTask(taskType, vastcap.BaseTask{}) == nil {
		return nil, fmt.Errorf("vast: unsupported task type %q", taskType)
	}
	v := &Vast{client: client, taskType: taskType}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Solve submits a challenge of the configured type and polls for the token.
func (v *Vast) Solve(ctx context.Context, siteKey, pageURL string) (string, error) {
	if v.warnBelow > 0 {
		v.checkBalance(ctx)
	}

	task := vastcap.NewTask(v.taskType, vastcap.BaseTask{
		WebsiteURL: pageURL,
		WebsiteKey: siteKey,
		UserAgent:  v.userAgent,
		Proxy:      v.proxy,
	})

	sol, err := v.client.Solve(ctx, task, v.opts...)
	if err != nil {
		return "", fmt.Errorf("vast solve %s: %w", v.taskType, err)
	}
	token := sol.Value()
	if token == "" {
		return "", fmt.Errorf("vast: ready but empty token")
	}
	return token, nil
}

// checkBalance warns when the balance is below warnBelow. The client already
// warns below its own BalanceWarnLevel, so that case is not logged twice.
func (v *Vast) checkBalance(ctx context.Context) {
	bal, err := v.Balance(ctx)
	if err != nil || bal >= v.warnBelow {
		return
	}
	cfg := v.client.Config()
	if cfg.BalanceWarnLevel > 0 && bal < cfg.BalanceWarnLevel {
		return
	}
	cfg.Logger.Warn("vastcap balance low",
		slog.String("type", string(v.taskType)),
		slog.Float64("balance", bal),
		slog.Float64("warn_level", v.warnBelow))
}

// Balance returns the VastCap account balance in USD.
func (v *Vast) Balance(ctx context.Context) (float64, error) {
	return v.client.GetBalance(ctx)
}

var _ Solver = (*Vast)(nil)
