// Package relay bridges a request to a one-shot external interpreter process
// and turns what the process printed into a single terminal outcome.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultWaitDelay = 2 * time.Second

	unknownErrorDetail = "Unknown error."
)

// Config controls how processes are launched.
type Config struct {
	// Interpreter is the executable every script is handed to, e.g. "python".
	Interpreter string
	// Timeout is the wall-clock budget of one process.
	Timeout time.Duration
	// WaitDelay bounds how long output pipes are drained after the process
	// is killed.
	WaitDelay time.Duration
}

// Invocation describes one process run.
type Invocation struct {
	Endpoint string
	Script   string
	Args     []string
	// TempFile is removed once the outcome is known. Empty means none.
	TempFile string
	// DefaultSuccess adds success:true to object payloads that lack the field.
	DefaultSuccess bool
}

// Argv returns the argument vector handed to the interpreter.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Args)+1)
	argv = append(argv, inv.Script)
	return append(argv, inv.Args...)
}

// ProcessResult is what the process left behind.
type ProcessResult struct {
	PID      int
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Outcome is the terminal result of Execute. Exactly one of Payload and Err is set.
type Outcome struct {
	Payload any
	Process *ProcessResult
	Err     error
	// Killed is true when the process was still running and got terminated.
	Killed  bool
	Elapsed time.Duration
}

// Label names the outcome: "success" or the failure kind.
func (o Outcome) Label() string {
	if o.Err == nil {
		return OutcomeSuccess
	}
	if kind := KindOf(o.Err); kind != "" {
		return string(kind)
	}
	return "error"
}

// Relay runs invocations. It holds no per-request state and is safe for
// concurrent use.
type Relay struct {
	cfg     Config
	limiter *Limiter
	metrics *Metrics
	logger  *zap.Logger
}

// New creates a relay. limiter and metrics may be nil.
func New(cfg Config, limiter *Limiter, metrics *Metrics, logger *zap.Logger) *Relay {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = DefaultWaitDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{cfg: cfg, limiter: limiter, metrics: metrics, logger: logger}
}

// Timeout returns the per-process budget.
func (r *Relay) Timeout() time.Duration {
	return r.cfg.Timeout
}

// Execute runs inv and returns exactly one outcome. The temp file of inv is
// gone when Execute returns, whatever the outcome.
func (r *Relay) Execute(ctx context.Context, inv Invocation) Outcome {
	start := time.Now()
	defer r.removeTempFile(inv)

	log := r.logger.With(zap.String("endpoint", inv.Endpoint))

	var out Outcome
	release, err := r.limiter.Acquire(ctx, inv.Endpoint)
	if err != nil {
		out = Outcome{Err: err}
	} else {
		out = r.run(ctx, inv, log, release)
	}
	out.Elapsed = time.Since(start)

	r.metrics.observe(inv.Endpoint, out, out.Elapsed)
	if out.Err != nil {
		log.Warn("Relay invocation failed",
			zap.Error(out.Err),
			zap.Bool("killed", out.Killed),
			zap.Duration("elapsed", out.Elapsed),
		)
	} else {
		log.Info("Relay invocation succeeded", zap.Duration("elapsed", out.Elapsed))
	}
	return out
}

// run owns release: the slot is given back once the process has been reaped,
// which on a kill can be after run returns.
func (r *Relay) run(ctx context.Context, inv Invocation, log *zap.Logger, release func()) Outcome {
	cmd := exec.Command(r.cfg.Interpreter, inv.Argv()...)
	isolate(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.cfg.WaitDelay

	log.Debug("Spawning process",
		zap.String("interpreter", r.cfg.Interpreter),
		zap.Strings("argv", inv.Argv()),
	)

	started := time.Now()
	if err := cmd.Start(); err != nil {
		release()
		return Outcome{Err: &Error{
			Kind:     KindSpawn,
			Endpoint: inv.Endpoint,
			Detail:   err.Error(),
			Err:      err,
		}}
	}

	token := newCompletion()

	go func() {
		waitErr := cmd.Wait()
		release()
		res := &ProcessResult{
			PID:      cmd.Process.Pid,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: cmd.ProcessState.ExitCode(),
			Duration: time.Since(started),
		}
		token.resolve(sourceExit, classify(inv, res, waitErr))
	}()

	timer := time.AfterFunc(r.cfg.Timeout, func() {
		token.resolve(sourceTimeout, Outcome{Err: &Error{
			Kind:     KindTimeout,
			Endpoint: inv.Endpoint,
			Err:      context.DeadlineExceeded,
		}})
	})
	defer timer.Stop()

	stop := context.AfterFunc(ctx, func() {
		token.resolve(sourceCancel, Outcome{Err: &Error{
			Kind:     KindCanceled,
			Endpoint: inv.Endpoint,
			Err:      ctx.Err(),
		}})
	})
	defer stop()

	out, from := token.wait()
	if from != sourceExit {
		switch err := kill(cmd); {
		case err == nil:
			out.Killed = true
		case errors.Is(err, os.ErrProcessDone):
		default:
			log.Error("Failed to kill process", zap.Int("pid", cmd.Process.Pid), zap.Error(err))
		}
		out.Process = &ProcessResult{PID: cmd.Process.Pid, ExitCode: -1, Duration: time.Since(started)}
	}
	return out
}

// classify turns a finished process into an outcome.
func classify(inv Invocation, res *ProcessResult, waitErr error) Outcome {
	// A clean exit whose pipes were held open by a grandchild still counts as an exit.
	if errors.Is(waitErr, exec.ErrWaitDelay) && res.ExitCode == 0 {
		waitErr = nil
	}
	if waitErr != nil {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = unknownErrorDetail
		}
		return Outcome{Process: res, Err: &Error{
			Kind:     KindExit,
			Endpoint: inv.Endpoint,
			Detail:   detail,
			ExitCode: res.ExitCode,
			Err:      waitErr,
		}}
	}

	payload, err := decodeDocument(res.Stdout)
	if err != nil {
		return Outcome{Process: res, Err: &Error{
			Kind:      KindParse,
			Endpoint:  inv.Endpoint,
			RawOutput: res.Stdout,
			Err:       err,
		}}
	}

	if inv.DefaultSuccess {
		if obj, ok := payload.(map[string]any); ok {
			if _, set := obj["success"]; !set {
				obj["success"] = true
			}
		}
	}
	return Outcome{Payload: payload, Process: res}
}

// decodeDocument parses exactly one JSON document from raw.
func decodeDocument(raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("empty output")
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON document")
	}
	return payload, nil
}

func (r *Relay) removeTempFile(inv Invocation) {
	if inv.TempFile == "" {
		return
	}
	if err := os.Remove(inv.TempFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("Failed to delete temp file",
			zap.String("endpoint", inv.Endpoint),
			zap.String("path", inv.TempFile),
			zap.Error(err),
		)
	}
}
