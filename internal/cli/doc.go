// Package cli wires together the Cobra command tree for the codementor binary.
//
// It defines the root command and all subcommands (review, shell, watch,
// remote, config, hook, version), binds flags, reads configuration, drives a
// review session, and returns deterministic exit codes for CI gating.
package cli
