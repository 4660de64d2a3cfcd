package app

import (
	"time"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/config/notify"
	"github.com/dshills/texcore/internal/config/watcher"
	"github.com/dshills/texcore/internal/dispatcher"
	"github.com/dshills/texcore/internal/dispatcher/hook"
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/dispatcher/primitives"
	"github.com/dshills/texcore/internal/extension"
	"github.com/dshills/texcore/internal/i18n"
	"github.com/dshills/texcore/internal/loader"
	"github.com/dshills/texcore/internal/plugin/lua"
	"github.com/dshills/texcore/internal/state"
)

// watchDebounce is how long the watcher waits for a file to settle.
const watchDebounce = 200 * time.Millisecond

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	rt        *Runtime
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the runtime.
func newBootstrapper(rt *Runtime) *bootstrapper {
	return &bootstrapper{
		rt:        rt,
		opts:      rt.opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLocalizer,
		b.initContext,
		b.initDispatcher,
		b.initLoaders,
		b.initRegisters,
		b.initHooks,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads the configuration file, if any.
func (b *bootstrapper) initConfig() error {
	cfg := config.Empty()
	if b.opts.ConfigPath != "" {
		loaded, err := config.LoadFile(b.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	b.rt.holder = config.NewHolder(cfg, b.opts.ConfigPath)
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLocalizer builds the message localizer.
func (b *bootstrapper) initLocalizer() error {
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return &InitError{Component: "i18n", Err: err}
	}
	l, err := i18n.NewLocalizer(bundle, b.opts.Locale)
	if err != nil {
		return &InitError{Component: "i18n", Err: err}
	}
	b.rt.localizer = l
	return nil
}

// initContext creates the extension registry and the context. From here on
// log lines carry the run id.
func (b *bootstrapper) initContext() error {
	ext := extension.NewRegistry(b.rt.holder.Current)
	if err := ext.Define(extension.MagnificationID, extension.NewMagnification); err != nil {
		return &InitError{Component: "extensions", Err: err}
	}
	b.rt.extensions = ext
	b.rt.ctx = state.New(state.WithExtensions(ext))
	b.rt.logger = b.rt.logger.WithField("run", b.rt.ctx.ID())
	return nil
}

// initDispatcher creates the dispatcher and registers the built-in and
// named-register primitives.
func (b *bootstrapper) initDispatcher() error {
	cfg := dispatcher.DefaultConfig().WithMaxErrors(b.opts.MaxErrors)
	if b.opts.Metrics {
		cfg = cfg.WithMetrics()
	}
	d := dispatcher.New(cfg)
	d.SetLogger(b.rt.logger.WithComponent("dispatcher"))
	out := primitive.WriterOutput{W: b.opts.Out}
	d.SetOutput(out)
	d.SetTypesetter(b.rt.typeset)
	d.SetErrorHandler(dispatcher.InteractionHandler(out, b.rt.localizer))

	if err := primitives.Register(d.Registry()); err != nil {
		return &InitError{Component: "primitives", Err: err}
	}
	named, err := primitives.LoadNamedRegisters(b.rt.holder.Current())
	if err != nil {
		return &InitError{Component: "registers", Err: err}
	}
	if err := named.Register(d.Registry()); err != nil {
		return &InitError{Component: "registers", Err: err}
	}

	b.rt.named = named
	b.rt.dispatcher = d
	return nil
}

// initLoaders runs every loader declared in the configuration.
func (b *bootstrapper) initLoaders() error {
	log := b.rt.logger.WithComponent("loader")
	reg := loader.NewRegistry(b.rt.holder.Current)
	if err := reg.RegisterFactory(lua.Class, lua.NewLoader); err != nil {
		return &InitError{Component: "loaders", Err: err}
	}
	b.rt.loaders = reg
	b.initOrder = append(b.initOrder, "loaders")

	loaded, err := reg.LoadAll(b.rt.dispatcher.Registry())
	b.rt.loaded = loaded
	for _, l := range loaded {
		log.Debug("loaded %s", l.Name())
	}
	if err != nil {
		return &InitError{Component: "loaders", Err: err}
	}
	return nil
}

// initRegisters installs all primitives into the context and assigns the
// initial register values.
func (b *bootstrapper) initRegisters() error {
	if err := b.rt.dispatcher.Registry().Install(b.rt.ctx); err != nil {
		return &InitError{Component: "registers", Err: err}
	}
	if err := b.rt.named.Initialize(b.rt.ctx); err != nil {
		return &InitError{Component: "registers", Err: err}
	}
	b.rt.logger.Debug("%d primitives installed", b.rt.dispatcher.Registry().Count())
	return nil
}

// initHooks registers the dispatch hooks.
func (b *bootstrapper) initHooks() error {
	d := b.rt.dispatcher
	if b.rt.logger.Level() <= LogLevelDebug {
		d.Hooks().Register(hook.NewAuditHook(b.rt.logger.WithComponent("audit")))
	}
	d.RegisterPreHook(hook.NewTraceHook())
	if len(b.opts.Deny) > 0 {
		d.RegisterPreHook(hook.NewDenyHook(b.opts.Deny...))
	}
	return nil
}

// initWatcher reloads the configuration when its file changes.
func (b *bootstrapper) initWatcher() error {
	log := b.rt.logger.WithComponent("config")
	b.rt.reloads = b.rt.holder.Subscribe(func(c notify.Change) {
		if c.Type == notify.ChangeError {
			log.Warn("reload %s failed: %v", c.Source, c.Err)
			return
		}
		log.Info("reloaded %s", c.Source)
	})
	b.initOrder = append(b.initOrder, "reloads")

	if !b.opts.Watch {
		return nil
	}
	w, err := watcher.New(
		watcher.WithDebounce(watchDebounce),
		watcher.WithErrorHandler(func(err error) {
			log.Error("watch: %v", err)
		}),
	)
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	b.rt.watcher = w
	b.initOrder = append(b.initOrder, "watcher")

	w.OnChange(func(ev watcher.Event) {
		log.Debug("%s %s", ev.Op, ev.Path)
		_ = b.rt.holder.Reload()
	})
	if err := w.Watch(b.opts.ConfigPath); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent releases a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "config":
		b.rt.holder.Close()
	case "loaders":
		for _, l := range b.rt.loaded {
			if c, ok := l.(interface{ Close() error }); ok {
				_ = c.Close()
			}
		}
		b.rt.loaded = nil
	case "reloads":
		b.rt.reloads.Unsubscribe()
	case "watcher":
		_ = b.rt.watcher.Stop()
		b.rt.watcher = nil
	}
}
