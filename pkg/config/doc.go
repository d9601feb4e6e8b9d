// Package config loads the install-location variables and tool options from
// their four layers: embedded defaults, an optional .calstage.toml in the
// package checkout, the process environment, and VAR=value command-line
// arguments. Later layers win.
package config
