package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/joeyparrish/kinetoscope/internal/util"
)

// LogReporter writes streaming events to a log file.
type LogReporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewLogReporter creates a new log reporter that writes to the given writer.
func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{w: w}
}

func (r *LogReporter) log(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(r.w, "%s [%s] %s\n", timestamp, level, msg)
}

func (r *LogReporter) DeviceProbe(s DeviceSummary) {
	r.log("INFO", "=== DEVICE ===")
	r.log("INFO", "Server: %s:%d%s", s.ServerHost, s.ServerPort, s.BasePath)
	r.log("INFO", "SRAM: %s", util.FormatBytesReadable(s.SRAMBytes))
}

func (r *LogReporter) CatalogFetched(s CatalogSummary) {
	r.log("INFO", "=== CATALOG ===")
	r.log("INFO", "Entries: %d", s.EntryCount)
	r.log("INFO", "Size: %s", util.FormatBytes(s.Bytes))
}

func (r *LogReporter) StreamStarted(s StreamSummary) {
	r.log("INFO", "=== STREAM ===")
	r.log("INFO", "Title: %s", s.Title)
	r.log("INFO", "Index: %d", s.Index)
	r.log("INFO", "Chunks: %d (chunk size %d)", s.TotalChunks, s.ChunkSize)
	r.log("INFO", "Compressed: %v", s.Compressed)
}

func (r *LogReporter) StageProgress(u StageProgress) {
	r.log("INFO", "[%s] %s", u.Stage, u.Message)
}

func (r *LogReporter) BankFilled(u BankFillUpdate) {
	r.log("INFO", "Bank filled: chunk=%d bank=%d bytes=%s fetch_time=%s",
		u.ChunkNum, u.Bank, util.FormatBytes(u.Bytes), u.FetchTime.Round(time.Millisecond))
}

func (r *LogReporter) MarchTestPass(u MarchTestUpdate) {
	status := "written"
	if u.Passed {
		status = "verified"
	}
	r.log("INFO", "March test: pass=%d bank=%d %s", u.Pass, u.Bank, status)
}

func (r *LogReporter) Underflow(message string) {
	r.log("WARN", "UNDERFLOW: %s", message)
}

func (r *LogReporter) Warning(message string) {
	r.log("WARN", "%s", message)
}

func (r *LogReporter) Error(e ReporterError) {
	r.log("ERROR", "%s: %s", e.Title, e.Message)
	if e.Context != "" {
		r.log("ERROR", "  Context: %s", e.Context)
	}
	if e.Suggestion != "" {
		r.log("ERROR", "  Suggestion: %s", e.Suggestion)
	}
}

func (r *LogReporter) OperationComplete(message string) {
	r.log("INFO", "=== COMPLETE === %s", message)
}

func (r *LogReporter) Verbose(message string) {
	r.log("DEBUG", "%s", message)
}
