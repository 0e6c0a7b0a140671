// Package config loads and serves markpad settings.
//
// Settings come from four layers, lowest priority first:
//
//	defaults     compiled in, see defaultConfig
//	user         $XDG_CONFIG_HOME/markpad/settings.toml (or -config)
//	environment  MARKPAD_* variables
//	arguments    command-line flags
//
// Values changed at runtime with Set go to a fifth, session layer. When the
// watcher is enabled, edits to the user file are picked up live and
// subscribers are told through the notify package.
//
// A minimal settings.toml:
//
//	[history]
//	capacity = 200
//
//	[render]
//	highlightStyle = "monokai"
//	plugins = ["toc.lua"]
//
//	[keymap]
//	"Ctrl+K" = "insert.link"
package config
