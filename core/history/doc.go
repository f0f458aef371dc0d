// Package history persists calculation records so past results can be
// listed and audited. Stores are selected from configuration: memory, jsonl
// (optionally rotated with lumberjack when max_size_mb is set) and sqlite.
package history
