// Package config holds the wipe settings and their on-disk store.
//
// WipeConfig is the only durable state uee keeps. It lives in a small YAML
// file in the working directory:
//
//	# uee wipe configuration
//	passes: 3
//	pattern: random
//	verify: false
//	post_action: none
//
// Files written by older releases were JSON with the same keys; those load
// unchanged. A missing, unreadable or invalid file never stops the program:
// Load returns the defaults together with a *ConfigError for the log.
package config
