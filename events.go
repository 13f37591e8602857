// Package kinetoscope provides a Go library that emulates the Sega
// Kinetoscope streaming cartridge.
package kinetoscope

import "time"

// Event types for downstream integrations that consume JSON events
// instead of calling a Reporter directly.
const (
	EventTypeDeviceProbe      = "device_probe"
	EventTypeCatalogFetched   = "catalog_fetched"
	EventTypeStreamStarted    = "stream_started"
	EventTypeStageProgress    = "stage_progress"
	EventTypeBankFilled       = "bank_filled"
	EventTypeMarchTestPass    = "march_test_pass"
	EventTypeUnderflow        = "underflow"
	EventTypeWarning          = "warning"
	EventTypeError            = "error"
	EventTypeOperationComplete = "operation_complete"
)

// Event is the interface for all kinetoscope events.
type Event interface {
	Type() string
	Timestamp() int64
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventType string `json:"type"`
	Time      int64  `json:"timestamp"`
}

func (e BaseEvent) Type() string     { return e.EventType }
func (e BaseEvent) Timestamp() int64 { return e.Time }

// DeviceProbeEvent reports the emulator instance's configuration at
// startup.
type DeviceProbeEvent struct {
	BaseEvent
	ServerHost string `json:"server_host"`
	ServerPort int    `json:"server_port"`
	BasePath   string `json:"base_path"`
	SRAMBytes  uint64 `json:"sram_bytes"`
}

// CatalogFetchedEvent reports a completed LIST_VIDEOS fetch.
type CatalogFetchedEvent struct {
	BaseEvent
	EntryCount int    `json:"entry_count"`
	Bytes      uint64 `json:"bytes"`
}

// StreamStartedEvent reports a video chosen by START_VIDEO.
type StreamStartedEvent struct {
	BaseEvent
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Compressed  bool   `json:"compressed"`
	ChunkSize   uint32 `json:"chunk_size"`
	TotalChunks uint32 `json:"total_chunks"`
}

// StageProgressEvent is a generic stage-transition update.
type StageProgressEvent struct {
	BaseEvent
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// BankFilledEvent reports one bank having been filled with a chunk.
type BankFilledEvent struct {
	BaseEvent
	ChunkNum      uint32 `json:"chunk_num"`
	Bank          int    `json:"bank"`
	Bytes         uint64 `json:"bytes"`
	FetchTimeMsec int64  `json:"fetch_time_msec"`
}

// MarchTestPassEvent reports completion of one march test pass.
type MarchTestPassEvent struct {
	BaseEvent
	Pass   int  `json:"pass"`
	Bank   int  `json:"bank"`
	Passed bool `json:"passed"`
}

// UnderflowEvent reports fetch_busy back-pressure being hit.
type UnderflowEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// WarningEvent represents a warning message.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// ErrorEvent represents a latched device error.
type ErrorEvent struct {
	BaseEvent
	Title      string `json:"title"`
	Message    string `json:"message"`
	Context    string `json:"context"`
	Suggestion string `json:"suggestion"`
}

// OperationCompleteEvent marks the end of a long-running operation.
type OperationCompleteEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// EventHandler is called with events as they occur.
type EventHandler func(Event) error

// NewTimestamp returns the current Unix timestamp.
func NewTimestamp() int64 {
	return time.Now().Unix()
}

// eventReporter adapts an EventHandler to the internal Reporter
// interface, letting library callers receive JSON-taggable events
// without depending on internal/reporter directly.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) DeviceProbe(s DeviceSummary) {
	_ = r.handler(DeviceProbeEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeDeviceProbe, Time: NewTimestamp()},
		ServerHost: s.ServerHost, ServerPort: s.ServerPort, BasePath: s.BasePath, SRAMBytes: s.SRAMBytes,
	})
}

func (r *eventReporter) CatalogFetched(s CatalogSummary) {
	_ = r.handler(CatalogFetchedEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeCatalogFetched, Time: NewTimestamp()},
		EntryCount: s.EntryCount, Bytes: s.Bytes,
	})
}

func (r *eventReporter) StreamStarted(s StreamSummary) {
	_ = r.handler(StreamStartedEvent{
		BaseEvent:   BaseEvent{EventType: EventTypeStreamStarted, Time: NewTimestamp()},
		Index:       s.Index, Title: s.Title, Compressed: s.Compressed,
		ChunkSize: s.ChunkSize, TotalChunks: s.TotalChunks,
	})
}

func (r *eventReporter) StageProgress(s StageProgress) {
	_ = r.handler(StageProgressEvent{
		BaseEvent: BaseEvent{EventType: EventTypeStageProgress, Time: NewTimestamp()},
		Stage:     s.Stage, Message: s.Message,
	})
}

func (r *eventReporter) BankFilled(u BankFillUpdate) {
	_ = r.handler(BankFilledEvent{
		BaseEvent:     BaseEvent{EventType: EventTypeBankFilled, Time: NewTimestamp()},
		ChunkNum:      u.ChunkNum, Bank: u.Bank, Bytes: u.Bytes,
		FetchTimeMsec: u.FetchTime.Milliseconds(),
	})
}

func (r *eventReporter) MarchTestPass(u MarchTestUpdate) {
	_ = r.handler(MarchTestPassEvent{
		BaseEvent: BaseEvent{EventType: EventTypeMarchTestPass, Time: NewTimestamp()},
		Pass:      u.Pass, Bank: u.Bank, Passed: u.Passed,
	})
}

func (r *eventReporter) Underflow(message string) {
	_ = r.handler(UnderflowEvent{
		BaseEvent: BaseEvent{EventType: EventTypeUnderflow, Time: NewTimestamp()},
		Message:   message,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: BaseEvent{EventType: EventTypeWarning, Time: NewTimestamp()},
		Message:   message,
	})
}

func (r *eventReporter) Error(e ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeError, Time: NewTimestamp()},
		Title:      e.Title, Message: e.Message, Context: e.Context, Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) OperationComplete(message string) {
	_ = r.handler(OperationCompleteEvent{
		BaseEvent: BaseEvent{EventType: EventTypeOperationComplete, Time: NewTimestamp()},
		Message:   message,
	})
}

func (r *eventReporter) Verbose(string) {}
