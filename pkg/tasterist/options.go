// Package tasterist imports taster/leaver workbooks into the relational
// store and syncs individual record changes back into the originating cells.
package tasterist

import (
	"io"
	"log"
)

// Options configures one import run.
type Options struct {
	// SourceFolder is the primary workbook root (typically a synced cloud
	// folder). Required.
	SourceFolder string
	// FallbackFolder optionally holds known-good local copies substituted
	// when a primary workbook is missing or unreadable.
	FallbackFolder string
	// Replace clears all stored tasters and leavers before importing.
	// Destructive; callers must gate it behind an explicit opt-in.
	Replace bool
	// Actor is recorded in the audit trail for this run.
	Actor string
	// Logger receives per-file/per-sheet progress lines. Defaults to a
	// stderr logger.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// DiscardLogger silences import progress output, mainly for tests.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
