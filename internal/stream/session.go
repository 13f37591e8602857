// Package stream implements the streaming session state machine:
// catalog/header/index fetch, double-buffer priming, and the
// one-chunk-ahead fill pipeline described in spec.md §4.E. It mirrors the
// teacher's internal/processing orchestration idiom (a single entry
// struct, reporter events per stage), and borrows errgroup.Group as the
// handle for its single background fetch goroutine — not for joining a
// bounded fan-out, but for the Wait-drains-whatever-was-Go'd property
// that lets StartVideo block on a still-running prior FlipRegion fetch.
package stream

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joeyparrish/kinetoscope/internal/config"
	"github.com/joeyparrish/kinetoscope/internal/httpfetch"
	"github.com/joeyparrish/kinetoscope/internal/reporter"
	"github.com/joeyparrish/kinetoscope/internal/rle"
	"github.com/joeyparrish/kinetoscope/internal/sram"
	"github.com/joeyparrish/kinetoscope/internal/wire"
)

// State names the session's position in the pipeline state machine.
type State int

const (
	StateIdle State = iota
	StateFetchingCatalogEntry
	StateFetchingHeader
	StateFetchingIndex
	StateFillingBank0
	StateFillingBank1
	StatePlayingSteadyState
	StateFillingNextBank
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFetchingCatalogEntry:
		return "FetchingCatalogEntry"
	case StateFetchingHeader:
		return "FetchingHeader"
	case StateFetchingIndex:
		return "FetchingIndex"
	case StateFillingBank0:
		return "FillingBank0"
	case StateFillingBank1:
		return "FillingBank1"
	case StatePlayingSteadyState:
		return "PlayingSteadyState"
	case StateFillingNextBank:
		return "FillingNextBank"
	default:
		return "Unknown"
	}
}

const maxCatalogIndex = 127

// ErrUnderflow is returned by FlipRegion when the console asks for the
// next bank before the background fetch for it has finished — spec.md
// §4.E's sole back-pressure signal.
var ErrUnderflow = fmt.Errorf("Underflow detected! Internet too slow?")

// Session holds the state created by StartVideo and destroyed by
// StopVideo or a new StartVideo, per spec.md §3's "Streaming session
// state". StartVideo's priming fetches run synchronously (there is
// nothing for the console to read yet); FlipRegion's refill fetch is
// handed to an errgroup.Group, exactly mirroring spec.md §5's "single
// background worker... at most one HTTP fetch in flight" — the group
// never holds more than one in-flight Go() at a time, and Wait() is how
// StartVideo blocks on a prior session's still-draining fetch.
type Session struct {
	cfg     *config.Config
	fetcher *httpfetch.Fetcher
	sram    *sram.Buffer
	rep     reporter.Reporter
	eg      *errgroup.Group

	mu    sync.Mutex
	state State

	videoURL       string
	compressed     bool
	index          wire.Index
	chunkSize      uint32
	totalChunks    uint32
	nextChunkNum   uint32
	nextReadOffset uint32

	currentBank int // bank the console is currently reading
	fetchBusy   bool

	decoder *rle.Decoder
}

// New constructs an idle Session. fetcher and buf are shared with the
// owning Device; rep observes fill/progress events.
func New(cfg *config.Config, fetcher *httpfetch.Fetcher, buf *sram.Buffer, rep reporter.Reporter) *Session {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Session{
		cfg:     cfg,
		fetcher: fetcher,
		sram:    buf,
		rep:     rep,
		eg:      &errgroup.Group{},
		state:   StateIdle,
		decoder: rle.New(),
	}
}

// State returns the session's current pipeline state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FetchBusy reports whether a background fetch is in flight.
func (s *Session) FetchBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchBusy
}

// StartVideo begins a streaming session for catalog index, per spec.md
// §4.E's start_video steps 1-6. The catalog/header/index fetches and the
// two priming chunk fetches all run synchronously: there is no prior
// content in either bank for the console to read while they complete.
func (s *Session) StartVideo(index uint16) error {
	if index > maxCatalogIndex {
		return fmt.Errorf("invalid video index %d (max %d)", index, maxCatalogIndex)
	}

	s.waitForBackgroundFetch()
	s.reset()

	s.setState(StateFetchingCatalogEntry)
	s.rep.StageProgress(reporter.StageProgress{Stage: "Catalog", Message: fmt.Sprintf("fetching entry %d", index)})

	entry, err := s.fetchExact(s.cfg.CatalogURL(), int64(uint32(index)*wire.HeaderSize), wire.HeaderSize)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog entry %d: %w", index, err)
	}

	header, err := wire.DecodeHeader(entry)
	if err != nil {
		return fmt.Errorf("invalid catalog entry %d: %w", index, err)
	}

	relURL, err := header.RelativeURLString()
	if err != nil {
		return fmt.Errorf("invalid catalog entry %d: %w", index, err)
	}
	videoURL := s.cfg.VideoURL(relURL)

	s.setState(StateFetchingHeader)
	s.rep.StageProgress(reporter.StageProgress{Stage: "Header", Message: videoURL})

	headerBytes, err := s.fetchExact(videoURL, 0, wire.HeaderSize)
	if err != nil {
		return fmt.Errorf("failed to fetch video header: %w", err)
	}

	if !wire.ValidateHeader(headerBytes) {
		return fmt.Errorf("header validation failed: bad magic or format version")
	}
	vh, err := wire.DecodeHeader(headerBytes)
	if err != nil {
		return fmt.Errorf("header validation failed: %w", err)
	}

	compressed := vh.Compression != 0
	firstChunkOffset := uint32(wire.HeaderSize)

	var idx wire.Index
	if compressed {
		s.setState(StateFetchingIndex)
		s.rep.StageProgress(reporter.StageProgress{Stage: "Index", Message: "fetching chunk index"})

		indexSize := wire.IndexByteSize(vh.TotalChunks)
		indexBytes, err := s.fetchExact(videoURL, wire.HeaderSize, indexSize)
		if err != nil {
			return fmt.Errorf("failed to fetch chunk index: %w", err)
		}
		idx, err = wire.DecodeIndex(indexBytes, vh.TotalChunks)
		if err != nil {
			return fmt.Errorf("invalid chunk index: %w", err)
		}
		firstChunkOffset = idx.Offsets[0]
	}

	s.mu.Lock()
	s.videoURL = videoURL
	s.compressed = compressed
	s.index = idx
	s.chunkSize = vh.ChunkSize
	s.totalChunks = vh.TotalChunks
	s.nextChunkNum = 0
	s.nextReadOffset = firstChunkOffset
	s.mu.Unlock()

	// The console never sees the compressed flag; the header handed to
	// SRAM always reads as raw.
	vh.Compression = 0
	s.sram.ResetBank(0)
	s.sram.Write(wire.EncodeHeader(vh))

	s.rep.StreamStarted(reporter.StreamSummary{
		Index: int(index), Title: vh.TitleString(), Compressed: compressed,
		ChunkSize: vh.ChunkSize, TotalChunks: vh.TotalChunks,
	})

	s.decoder.Reset()

	s.setState(StateFillingBank0)
	// Chunk 0 continues writing into bank 0 right where the header write
	// left off (spec.md §4.E step 6: "fills the remainder of bank 0");
	// the bank must not be reset, or the header just written would be
	// overwritten.
	if err := s.fetchChunkLocked(0, false); err != nil {
		return fmt.Errorf("failed to prime bank 0: %w", err)
	}

	s.setState(StateFillingBank1)
	if err := s.fetchChunkLocked(1, true); err != nil {
		return fmt.Errorf("failed to prime bank 1: %w", err)
	}

	s.mu.Lock()
	s.currentBank = 0
	s.mu.Unlock()
	s.setState(StatePlayingSteadyState)
	return nil
}

// FlipRegion advances to the next prefetched chunk, per spec.md §4.E.
// It starts the refill fetch on a background goroutine and returns
// immediately without waiting for it — the console "sends it without
// awaiting a reply and continues playback immediately" (spec.md §5).
// Returns ErrUnderflow if a fetch is already in flight.
func (s *Session) FlipRegion() error {
	s.mu.Lock()
	if s.state != StatePlayingSteadyState && s.state != StateFillingNextBank {
		s.mu.Unlock()
		return fmt.Errorf("flip_region with no active stream")
	}
	if s.fetchBusy {
		s.mu.Unlock()
		return ErrUnderflow
	}

	s.currentBank = 1 - s.currentBank
	if s.nextChunkNum >= s.totalChunks {
		// Nothing left to prefetch; steady state continues with no new fetch.
		s.mu.Unlock()
		return nil
	}

	refillBank := 1 - s.currentBank
	s.fetchBusy = true
	s.state = StateFillingNextBank
	s.mu.Unlock()

	s.eg.Go(func() error {
		err := s.fetchChunkLocked(refillBank, true)
		s.mu.Lock()
		s.fetchBusy = false
		if s.state == StateFillingNextBank {
			s.state = StatePlayingSteadyState
		}
		s.mu.Unlock()
		if err != nil {
			s.rep.Error(reporter.ReporterError{Title: "fetch failed", Message: err.Error()})
		}
		return err
	})

	return nil
}

// StopVideo tears down the session, per spec.md §4.E. A fetch already in
// flight is allowed to drain and its output is discarded — the design
// explicitly permits this instead of requiring cancellation.
func (s *Session) StopVideo() {
	s.reset()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// waitForBackgroundFetch blocks until any in-flight FlipRegion fetch from
// a prior session has finished draining. The group is safe to reuse for
// the new session's own Go() calls once Wait returns.
func (s *Session) waitForBackgroundFetch() {
	_ = s.eg.Wait()
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.videoURL = ""
	s.compressed = false
	s.index = wire.Index{}
	s.chunkSize, s.totalChunks, s.nextChunkNum, s.nextReadOffset = 0, 0, 0, 0
	s.fetchBusy = false
	s.decoder.Reset()
}

// fetchChunkLocked performs the actual chunk fetch for chunk
// nextChunkNum into bank. Called either directly from StartVideo (no
// other fetch can be running) or from within the errgroup goroutine
// FlipRegion starts; it does not take s.mu except to read/update the
// small set of fields it touches. resetBank is false only for bank 0's
// first chunk, which must continue writing right after the header
// already written there.
func (s *Session) fetchChunkLocked(bank int, resetBank bool) error {
	s.mu.Lock()
	chunkNum := s.nextChunkNum
	if chunkNum >= s.totalChunks {
		s.mu.Unlock()
		return nil
	}
	compressed := s.compressed
	videoURL := s.videoURL
	readOffset := s.nextReadOffset
	var size uint32
	if compressed {
		start, end := s.index.ChunkByteRange(chunkNum)
		size = end - start
	} else {
		size = s.chunkSize
	}
	s.mu.Unlock()

	start := time.Now()
	if resetBank {
		s.sram.ResetBank(bank)
	}

	var written uint64
	sink := func(data []byte) bool {
		written += uint64(len(data))
		if compressed {
			s.decoder.Feed(s.sram, data)
		} else {
			s.sram.Write(data)
		}
		return true
	}

	if err := s.fetcher.FetchRange(videoURL, int64(readOffset), int64(size), sink); err != nil {
		return err
	}

	s.mu.Lock()
	s.nextReadOffset += size
	s.nextChunkNum++
	s.mu.Unlock()

	s.rep.BankFilled(reporter.BankFillUpdate{
		ChunkNum: chunkNum, Bank: bank, Bytes: written, FetchTime: time.Since(start),
	})
	return nil
}

// fetchExact fetches exactly size bytes starting at offset into a heap
// buffer, used for the catalog entry, header, and index fetches which
// need a contiguous in-memory copy before any SRAM write.
func (s *Session) fetchExact(url string, offset int64, size int) ([]byte, error) {
	buf := make([]byte, 0, size)
	err := s.fetcher.FetchRange(url, offset, int64(size), func(data []byte) bool {
		buf = append(buf, data...)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(buf) != size {
		return nil, fmt.Errorf("short fetch: got %d bytes, want %d", len(buf), size)
	}
	return buf, nil
}
