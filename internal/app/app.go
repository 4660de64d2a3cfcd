package app

import (
	"io"
	"os"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/config/notify"
	"github.com/dshills/texcore/internal/config/watcher"
	"github.com/dshills/texcore/internal/dispatcher"
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/dispatcher/primitives"
	"github.com/dshills/texcore/internal/extension"
	"github.com/dshills/texcore/internal/i18n"
	"github.com/dshills/texcore/internal/loader"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// Runtime is one interpreter run: a context, the dispatcher driving it and
// the configuration-backed services around them. A Runtime is used from a
// single goroutine; only the configuration watcher runs concurrently and it
// never touches the context.
type Runtime struct {
	opts   Options
	logger *Logger

	holder     *config.Holder
	reloads    *notify.Subscription
	watcher    *watcher.Watcher
	localizer  *i18n.Localizer
	extensions *extension.Registry
	named      *primitives.NamedRegisters

	ctx        *state.Context
	dispatcher *dispatcher.Dispatcher
	typeset    *primitive.Collector

	loaders *loader.Registry
	loaded  []loader.Loader

	closed bool
}

// New creates a runtime with the given options.
func New(opts Options) (*Runtime, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}

	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(opts.LogLevel)
	cfg.Output = opts.Log

	r := &Runtime{
		opts:    opts,
		logger:  NewLogger(cfg),
		typeset: &primitive.Collector{},
	}
	if err := newBootstrapper(r).bootstrap(); err != nil {
		return nil, err
	}
	return r, nil
}

// Context returns the interpreter context.
func (r *Runtime) Context() *state.Context {
	return r.ctx
}

// Dispatcher returns the dispatcher.
func (r *Runtime) Dispatcher() *dispatcher.Dispatcher {
	return r.dispatcher
}

// Config returns the active configuration.
func (r *Runtime) Config() *config.Config {
	return r.holder.Current()
}

// Logger returns the logger of this run. Its lines carry the run id.
func (r *Runtime) Logger() *Logger {
	return r.logger
}

// Localizer returns the message localizer.
func (r *Runtime) Localizer() *i18n.Localizer {
	return r.localizer
}

// Loaders returns the loaders that contributed primitives.
func (r *Runtime) Loaders() []loader.Loader {
	return r.loaded
}

// RunString interprets text. name identifies the input in diagnostics.
func (r *Runtime) RunString(name, text string) error {
	if r.closed {
		return ErrClosed
	}
	r.logger.Debug("run %s", name)
	err := r.dispatcher.Run(r.ctx, token.NewScanner(name, text))
	if n := r.dispatcher.ErrorCount(); n > 0 {
		r.logger.Info("%s: %d error(s)", name, n)
	}
	if m := r.dispatcher.Metrics(); m != nil {
		r.logger.Debug("%s: %d dispatches, %d failed, %s total",
			name, m.TotalDispatches(), m.TotalErrors(), m.TotalDuration())
	}
	return err
}

// RunFile interprets the contents of path.
func (r *Runtime) RunFile(path string) error {
	if r.closed {
		return ErrClosed
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return NewOperationError("read", path, err)
	}
	return r.RunString(path, string(data))
}

// Message renders err in the runtime's locale.
func (r *Runtime) Message(err error) string {
	return texerr.Message(err, r.localizer)
}

// Reported reports whether err, returned by a run, was already printed to
// the terminal output by the interaction error handler.
func (r *Runtime) Reported(err error) bool {
	return texerr.Recoverable(err) && r.ctx.Interaction() != state.BatchMode
}

// Typeset returns the material passed to the typesetter so far.
func (r *Runtime) Typeset() string {
	return r.typeset.String()
}

// Reload reads the configuration file again. Extensions that have not been
// constructed yet see the new configuration.
func (r *Runtime) Reload() error {
	if r.closed {
		return ErrClosed
	}
	if r.holder.Path() == "" {
		return nil
	}
	if err := r.holder.Reload(); err != nil {
		return NewOperationError("reload", r.holder.Path(), err)
	}
	return nil
}

// Close stops the watcher and releases the loaders. It is safe to call
// more than once.
func (r *Runtime) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs ErrorList
	if r.watcher != nil {
		errs.Add(r.watcher.Stop())
	}
	for _, l := range r.loaded {
		if c, ok := l.(io.Closer); ok {
			errs.Add(c.Close())
		}
	}
	if r.reloads != nil {
		r.reloads.Unsubscribe()
	}
	r.holder.Close()
	return errs.AsError()
}
