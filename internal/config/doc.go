// Package config provides the hierarchical configuration consumed by the
// interpreter core.
//
// A configuration is a tree of sections. Leaves are scalar values, lists or
// attributes; inner nodes are sections addressed by name. The loader and
// extension registries resolve implementations through it:
//
//	[Loaders.lua]
//	class  = "lua"
//	script = "macros.lua"
//
// # Sub-packages
//
//   - loader: file loading (TOML, YAML) with @include support
//   - watcher: fsnotify based file watching for live reload
//   - notify: reload notification for hosts holding a Holder
//
// # Basic Usage
//
//	cfg, err := config.LoadFile("texcore.toml")
//	if err != nil {
//	    return err
//	}
//	sec, err := cfg.Section("Loaders")
//
// A Holder keeps the active configuration and lets a watcher swap it in
// while an interpreter run reads it through Current.
package config
