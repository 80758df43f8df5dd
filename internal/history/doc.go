// Package history persists a local record of past sweep runs so operators
// can audit what was reclaimed, when, and under which policy.
package history
