package dispatcher

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dshills/texcore/internal/dispatcher/hook"
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// Logger receives dispatcher diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// ErrorHandler decides whether a run continues after a recoverable error.
// It returns true to continue with the next token.
type ErrorHandler func(err error, ctx *state.Context) bool

// Dispatcher is the top-level interpreter loop. It reads tokens, resolves
// them through the context's code store and executes the primitives they
// mean, accumulating prefix flags between them.
type Dispatcher struct {
	config     Config
	registry   *Registry
	hooks      *hook.Manager
	metrics    *Metrics
	logger     Logger
	out        primitive.Output
	typesetter primitive.Typesetter
	onError    ErrorHandler

	flags  primitive.Flags
	errors int
}

// New creates a dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		config:     config,
		registry:   NewRegistry(),
		hooks:      hook.NewManager(),
		logger:     nopLogger{},
		out:        primitive.Discard,
		typesetter: &primitive.Collector{},
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// Run processes src until it is exhausted or an error stops the run.
// Prefixes still pending when src ends are an error.
//
// Recoverable errors are counted and handed to the error handler; without
// one, or when it declines, the error is returned. Once MaxErrors errors
// have been counted the run stops with an error-limit panic.
func (d *Dispatcher) Run(ctx *state.Context, src token.Source) error {
	d.errors = 0
	d.flags.Clear()

	for {
		tok, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil {
			err = d.Step(ctx, tok, src)
		}
		if err != nil {
			if err := d.handleError(ctx, err); err != nil {
				return err
			}
		}
	}

	if d.flags.IsDirty() {
		d.flags.Clear()
		if err := d.handleError(ctx, texerr.Interpreter(texerr.KeyInvalidPrefix, "end of input")); err != nil {
			return err
		}
	}

	if level := ctx.GroupLevel(); level > 0 {
		d.logger.Error("input ended inside %d open group(s) %v", level, ctx.GroupTypes())
	}
	return nil
}

// Step processes a single token that has already been read from src.
func (d *Dispatcher) Step(ctx *state.Context, tok token.Token, src token.Source) error {
	switch tok.Kind {
	case token.ControlSequence, token.Active:
		return d.execute(ctx, tok, src)
	case token.BeginGroup:
		if err := d.rejectPrefix(tok); err != nil {
			return err
		}
		ctx.BeginGroup()
		return nil
	case token.EndGroup:
		if err := d.rejectPrefix(tok); err != nil {
			return err
		}
		return primitive.CloseGroup(ctx, src, state.SimpleGroup)
	default:
		if err := d.rejectPrefix(tok); err != nil {
			return err
		}
		return d.typesetter.Add(tok.Text)
	}
}

// rejectPrefix fails when prefixes precede a token that cannot take them.
func (d *Dispatcher) rejectPrefix(tok token.Token) error {
	if !d.flags.IsDirty() {
		return nil
	}
	d.flags.Clear()
	return texerr.Interpreter(texerr.KeyInvalidPrefix, fmt.Sprintf("the %s %s", tok.Kind, tok))
}

func (d *Dispatcher) execute(ctx *state.Context, tok token.Token, src token.Source) error {
	code := ctx.Code(tok)
	if code == nil {
		d.flags.Clear()
		return texerr.Interpreter(texerr.KeyUndefinedToken, tok.String())
	}
	p, ok := code.(primitive.Primitive)
	if !ok {
		d.flags.Clear()
		return texerr.Interpreter(texerr.KeyNotPrimitive, tok.String())
	}

	ev := &hook.Event{
		Token:     tok,
		Primitive: p,
		Context:   ctx,
		Flags:     d.flags.Copy(),
		Output:    d.out,
		Started:   time.Now(),
	}
	if !d.hooks.RunPreDispatch(ev) {
		d.flags.Clear()
		if ev.Reason != "" {
			return fmt.Errorf("%w: %s", ErrCancelled, ev.Reason)
		}
		return ErrCancelled
	}

	ev.Err = d.executeWithRecovery(p, ctx, src)
	if ev.Err != nil {
		d.flags.Clear()
	} else if _, prefix := p.(primitive.Prefix); !prefix && d.flags.IsDirty() {
		d.flags.Clear()
		ev.Err = texerr.Interpreter(texerr.KeyInvalidPrefix, tok.String())
	}

	d.hooks.RunPostDispatch(ev)
	if d.metrics != nil {
		d.metrics.RecordDispatch(p.Name(), time.Since(ev.Started), ev.Err)
	}
	return ev.Err
}

// executeWithRecovery executes a primitive with panic recovery.
func (d *Dispatcher) executeWithRecovery(p primitive.Primitive, ctx *state.Context, src token.Source) (err error) {
	if !d.config.RecoverFromPanic {
		return p.Execute(&d.flags, ctx, src, d.out)
	}
	defer func() {
		if r := recover(); r != nil {
			if d.metrics != nil {
				d.metrics.RecordPanic(p.Name())
			}
			d.logger.Error("primitive %s panicked: %v", p.Name(), r)
			err = texerr.Panic(texerr.KeyPrimitivePanic, p.Name(), r)
		}
	}()
	return p.Execute(&d.flags, ctx, src, d.out)
}

func (d *Dispatcher) handleError(ctx *state.Context, err error) error {
	if !texerr.Recoverable(err) {
		return err
	}
	d.errors++
	if d.config.MaxErrors > 0 && d.errors >= d.config.MaxErrors {
		return texerr.Panic(texerr.KeyErrorLimitReached, d.errors).WithCause(err)
	}
	if d.onError == nil || !d.onError(err, ctx) {
		return err
	}
	d.logger.Warn("recovered: %v", err)
	return nil
}

// ErrorCount returns the number of recoverable errors seen by the current
// or last run.
func (d *Dispatcher) ErrorCount() int {
	return d.errors
}

// Flags returns a copy of the pending prefix flags.
func (d *Dispatcher) Flags() *primitive.Flags {
	return d.flags.Copy()
}

// Registry returns the primitive registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *hook.Manager {
	return d.hooks
}

// RegisterPreHook adds a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(h hook.PreDispatchHook) {
	d.hooks.RegisterPre(h)
}

// RegisterPostHook adds a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(h hook.PostDispatchHook) {
	d.hooks.RegisterPost(h)
}

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// SetLogger sets the diagnostics logger. A nil logger discards.
func (d *Dispatcher) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	d.logger = l
}

// SetOutput sets the message sink passed to primitives.
func (d *Dispatcher) SetOutput(out primitive.Output) {
	if out == nil {
		out = primitive.Discard
	}
	d.out = out
}

// Output returns the message sink.
func (d *Dispatcher) Output() primitive.Output {
	return d.out
}

// SetTypesetter sets the receiver of uninterpreted characters.
func (d *Dispatcher) SetTypesetter(t primitive.Typesetter) {
	d.typesetter = t
}

// Typesetter returns the receiver of uninterpreted characters.
func (d *Dispatcher) Typesetter() primitive.Typesetter {
	return d.typesetter
}

// SetErrorHandler sets the recovery policy.
func (d *Dispatcher) SetErrorHandler(h ErrorHandler) {
	d.onError = h
}
