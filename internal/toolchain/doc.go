// Package toolchain enumerates the Rust toolchains installed on the host
// via rustup, for building toolchain keep-sets.
package toolchain
