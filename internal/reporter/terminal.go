package reporter

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/joeyparrish/kinetoscope/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu        sync.Mutex
	lastStage string
	verbose   bool
	cyan      *color.Color
	green     *color.Color
	yellow    *color.Color
	red       *color.Color
	magenta   *color.Color
	bold      *color.Color
	dim       *color.Color

	// bar tracks chunk-fill progress across a streaming session, and
	// pass progress across a full march-test run.
	bar *progressbar.ProgressBar
}

// NewTerminalReporter creates a new terminal reporter with verbose mode disabled.
func NewTerminalReporter() *TerminalReporter {
	return NewTerminalReporterVerbose(false)
}

// NewTerminalReporterVerbose creates a new terminal reporter with configurable verbose mode.
func NewTerminalReporterVerbose(verbose bool) *TerminalReporter {
	return &TerminalReporter{
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
		dim:     color.New(color.Faint),
	}
}

// labelWidth is the global width for all labels to ensure consistent alignment.
const labelWidth = 16

// printLabel prints a bold label with fixed width padding followed by a value.
func (r *TerminalReporter) printLabel(label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", labelWidth, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) DeviceProbe(summary DeviceSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("DEVICE")
	r.printLabel("Server:", fmt.Sprintf("%s:%d%s", summary.ServerHost, summary.ServerPort, summary.BasePath))
	r.printLabel("SRAM:", util.FormatBytesReadable(summary.SRAMBytes))
}

func (r *TerminalReporter) CatalogFetched(summary CatalogSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("CATALOG")
	r.printLabel("Entries:", fmt.Sprintf("%d", summary.EntryCount))
	r.printLabel("Size:", util.FormatBytesReadable(summary.Bytes))
}

func (r *TerminalReporter) StreamStarted(summary StreamSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("STREAM")
	r.printLabel("Title:", summary.Title)
	r.printLabel("Index:", fmt.Sprintf("%d", summary.Index))
	r.printLabel("Chunks:", fmt.Sprintf("%d", summary.TotalChunks))
	r.printLabel("Chunk size:", util.FormatBytes(uint64(summary.ChunkSize)))
	compression := "raw"
	if summary.Compressed {
		compression = "RLE"
	}
	r.printLabel("Compression:", compression)

	r.mu.Lock()
	r.bar = progressbar.NewOptions(int(summary.TotalChunks),
		progressbar.OptionSetDescription("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	r.mu.Unlock()
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	if r.lastStage != update.Stage {
		r.mu.Unlock()
		fmt.Println()
		_, _ = r.cyan.Println(update.Stage)
		r.mu.Lock()
		r.lastStage = update.Stage
	}
	r.mu.Unlock()
	fmt.Printf("  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) BankFilled(update BankFillUpdate) {
	r.mu.Lock()
	bar := r.bar
	r.mu.Unlock()
	if bar != nil {
		_ = bar.Add(1)
	}
	fmt.Printf("  %s chunk %d -> bank %d (%s, %s)\n",
		r.green.Sprint("✓"), update.ChunkNum, update.Bank,
		util.FormatBytes(update.Bytes), update.FetchTime.Round(time.Millisecond))
}

func (r *TerminalReporter) MarchTestPass(update MarchTestUpdate) {
	r.mu.Lock()
	if update.Pass == 0 {
		r.bar = progressbar.NewOptions(22,
			progressbar.OptionSetDescription("march test"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	bar := r.bar
	r.mu.Unlock()
	if bar != nil {
		_ = bar.Add(1)
	}

	status := r.dim.Sprint("written")
	if update.Passed {
		status = r.green.Sprint("verified")
	}
	fmt.Printf("  pass %2d/%d bank %d: %s\n", update.Pass+1, 22, update.Bank, status)
}

func (r *TerminalReporter) Underflow(message string) {
	fmt.Println()
	_, _ = r.red.Printf("UNDERFLOW: %s\n", message)
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s %s\n", r.dim.Sprint("›"), r.dim.Sprint(message))
}
