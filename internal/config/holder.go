package config

import (
	"sync/atomic"

	"github.com/dshills/texcore/internal/config/notify"
)

// Holder owns the active configuration of a process. Readers call Current;
// a reload swaps the whole tree atomically.
type Holder struct {
	current  atomic.Pointer[Config]
	path     string
	notifier *notify.Notifier
}

// NewHolder creates a holder with an initial configuration. path is the
// file Reload reads and may be empty.
func NewHolder(cfg *Config, path string) *Holder {
	if cfg == nil {
		cfg = Empty()
	}
	h := &Holder{path: path, notifier: notify.New()}
	h.current.Store(cfg)
	return h
}

// Current returns the active configuration.
func (h *Holder) Current() *Config {
	return h.current.Load()
}

// Path returns the file backing the holder.
func (h *Holder) Path() string {
	return h.path
}

// Replace installs cfg and notifies subscribers.
func (h *Holder) Replace(cfg *Config) {
	h.current.Store(cfg)
	h.notifier.Notify(notify.Change{Type: notify.ChangeReload, Source: h.path})
}

// Reload reads the backing file again. On failure the active configuration
// is kept and subscribers receive a ChangeError.
func (h *Holder) Reload() error {
	cfg, err := LoadFile(h.path)
	if err != nil {
		h.notifier.Notify(notify.Change{Type: notify.ChangeError, Source: h.path, Err: err})
		return err
	}
	h.Replace(cfg)
	return nil
}

// Subscribe registers an observer for reloads.
func (h *Holder) Subscribe(obs notify.Observer) *notify.Subscription {
	return h.notifier.Subscribe(obs)
}

// Close stops notification delivery.
func (h *Holder) Close() {
	h.notifier.Close()
}
