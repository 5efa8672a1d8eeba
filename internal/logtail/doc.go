// Package logtail reads the tail of recgrid's log file for the in-app log
// viewer.
//
// Read keeps a ring buffer of the last N lines, so memory stays bounded by
// N regardless of file size. Parse decodes the JSON records written by the
// logging package and Format renders them as one compact line:
//
//	21:01:05 WARN  row update failed error="connection refused" row=7
//
// Lines that are not JSON (a stray panic trace, for instance) pass through
// Tail unchanged.
package logtail
