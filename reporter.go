// Package kinetoscope provides a Go library that emulates the Sega
// Kinetoscope streaming cartridge.
//
// This file re-exports the internal Reporter interface and associated
// types to allow callers to receive all device events directly.
package kinetoscope

import "github.com/joeyparrish/kinetoscope/internal/reporter"

// Reporter defines the interface for observing device activity.
// Implement this interface to receive catalog, stream, bank-fill,
// march-test, and error events directly.
type Reporter = reporter.Reporter

// NullReporter is a no-op reporter that discards all updates.
type NullReporter = reporter.NullReporter

// DeviceSummary describes the emulator instance at startup.
type DeviceSummary = reporter.DeviceSummary

// CatalogSummary describes a completed LIST_VIDEOS fetch.
type CatalogSummary = reporter.CatalogSummary

// StreamSummary describes a video chosen by START_VIDEO.
type StreamSummary = reporter.StreamSummary

// StageProgress represents a generic stage-transition update.
type StageProgress = reporter.StageProgress

// BankFillUpdate reports one bank having been filled with a chunk.
type BankFillUpdate = reporter.BankFillUpdate

// MarchTestUpdate reports completion of one march test pass.
type MarchTestUpdate = reporter.MarchTestUpdate

// ReporterError contains latched device error information.
type ReporterError = reporter.ReporterError

// CompositeReporter fans every call out to all of its members, in order.
type CompositeReporter = reporter.CompositeReporter

// NewCompositeReporter returns a Reporter that forwards to every rs in
// order.
func NewCompositeReporter(rs ...Reporter) *CompositeReporter {
	return reporter.NewCompositeReporter(rs...)
}
