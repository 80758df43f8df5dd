// Package main hosts the cargo-sweep CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into sweeps
// over Cargo target directories: age-based pruning, toolchain keep-set
// pruning, size-budget pruning, stamp management, usage statistics, and the
// local run history. It centralizes configuration resolution, logger setup,
// and project discovery so subcommands can focus on user experience instead
// of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
