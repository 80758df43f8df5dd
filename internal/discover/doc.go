// Package discover locates Cargo projects beneath a directory tree and
// resolves their target directories for sweeping.
package discover
