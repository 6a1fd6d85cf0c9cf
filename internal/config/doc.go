// Package config loads and validates the discid configuration file.
//
// Configuration lives at ~/.config/discid/config.toml by default; a
// discid.toml in the working directory is honored as a project-local
// override. All values have defaults, so running without a file works.
package config
