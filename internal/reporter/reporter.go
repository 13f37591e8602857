// Package reporter defines the event sink the Kinetoscope emulator
// reports device activity through, mirroring the teacher's
// internal/reporter package structure (Reporter interface, NullReporter,
// a terminal implementation and a log-file implementation) one-for-one,
// with encoding-domain events renamed to streaming-domain events.
package reporter

import "time"

// Reporter receives device activity events during emulation. Implement
// this to observe catalog fetches, bank fills, march-test passes, and
// errors as they happen.
type Reporter interface {
	DeviceProbe(DeviceSummary)
	CatalogFetched(CatalogSummary)
	StreamStarted(StreamSummary)
	StageProgress(StageProgress)
	BankFilled(BankFillUpdate)
	MarchTestPass(MarchTestUpdate)
	Underflow(message string)
	Warning(message string)
	Error(ReporterError)
	OperationComplete(message string)
	Verbose(message string)
}

// DeviceSummary describes the emulator instance at startup.
type DeviceSummary struct {
	ServerHost string
	ServerPort int
	BasePath   string
	SRAMBytes  uint64
}

// CatalogSummary describes a completed LIST_VIDEOS fetch.
type CatalogSummary struct {
	EntryCount int
	Bytes      uint64
}

// StreamSummary describes a video chosen by START_VIDEO, before any
// chunks have been fetched.
type StreamSummary struct {
	Index       int
	Title       string
	Compressed  bool
	ChunkSize   uint32
	TotalChunks uint32
}

// StageProgress is a generic stage-transition update, used for coarse
// phase announcements (e.g. "fetching catalog", "priming pipeline").
type StageProgress struct {
	Stage   string
	Message string
}

// BankFillUpdate reports one bank having been filled with a chunk.
type BankFillUpdate struct {
	ChunkNum   uint32
	Bank       int
	Bytes      uint64
	FetchTime  time.Duration
}

// MarchTestUpdate reports completion of one march test pass.
type MarchTestUpdate struct {
	Pass   int
	Bank   int
	Passed bool // only meaningful once the console has verified the pass
}

// ReporterError contains error information, mirroring the error fields
// the command processor latches into error_str.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// NullReporter discards all updates. It is the default when no reporter
// is provided.
type NullReporter struct{}

func (NullReporter) DeviceProbe(DeviceSummary)       {}
func (NullReporter) CatalogFetched(CatalogSummary)   {}
func (NullReporter) StreamStarted(StreamSummary)     {}
func (NullReporter) StageProgress(StageProgress)     {}
func (NullReporter) BankFilled(BankFillUpdate)       {}
func (NullReporter) MarchTestPass(MarchTestUpdate)   {}
func (NullReporter) Underflow(string)                {}
func (NullReporter) Warning(string)                  {}
func (NullReporter) Error(ReporterError)              {}
func (NullReporter) OperationComplete(string)         {}
func (NullReporter) Verbose(string)                   {}

// CompositeReporter fans every call out to all of its members, in order.
// Used by the CLI to send events to both the terminal and the log file.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter returns a Reporter that forwards to every rs in order.
func NewCompositeReporter(rs ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: rs}
}

func (c *CompositeReporter) DeviceProbe(s DeviceSummary) {
	for _, r := range c.reporters {
		r.DeviceProbe(s)
	}
}

func (c *CompositeReporter) CatalogFetched(s CatalogSummary) {
	for _, r := range c.reporters {
		r.CatalogFetched(s)
	}
}

func (c *CompositeReporter) StreamStarted(s StreamSummary) {
	for _, r := range c.reporters {
		r.StreamStarted(s)
	}
}

func (c *CompositeReporter) StageProgress(s StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(s)
	}
}

func (c *CompositeReporter) BankFilled(u BankFillUpdate) {
	for _, r := range c.reporters {
		r.BankFilled(u)
	}
}

func (c *CompositeReporter) MarchTestPass(u MarchTestUpdate) {
	for _, r := range c.reporters {
		r.MarchTestPass(u)
	}
}

func (c *CompositeReporter) Underflow(message string) {
	for _, r := range c.reporters {
		r.Underflow(message)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(e ReporterError) {
	for _, r := range c.reporters {
		r.Error(e)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
