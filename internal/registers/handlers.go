package registers

import (
	"fmt"

	"github.com/joeyparrish/kinetoscope/internal/httpfetch"
	"github.com/joeyparrish/kinetoscope/internal/march"
	"github.com/joeyparrish/kinetoscope/internal/reporter"
	"github.com/joeyparrish/kinetoscope/internal/stream"
	"github.com/joeyparrish/kinetoscope/internal/wire"
)

func (d *Device) handleListVideos(latch errorLatcher) {
	d.rep.StageProgress(reporter.StageProgress{Stage: "Catalog", Message: "fetching"})

	var body []byte
	err := d.fetcher.FetchRange(d.cfg.CatalogURL(), 0, httpfetch.SizeAll, func(data []byte) bool {
		body = append(body, data...)
		return true
	})
	if err != nil {
		latch(fmt.Sprintf("Failed to fetch catalog: %v", err))
		return
	}

	d.sram.ResetBank(0)
	d.sram.Write(body)

	entries := 0
	for off := 0; off+wire.HeaderSize <= len(body); off += wire.HeaderSize {
		if body[off] == 0 {
			break
		}
		entries++
	}
	d.rep.CatalogFetched(reporter.CatalogSummary{EntryCount: entries, Bytes: uint64(len(body))})
}

func (d *Device) ensureSession() *stream.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		d.session = stream.New(d.cfg, d.fetcher, d.sram, d.rep)
	}
	return d.session
}

func (d *Device) handleStartVideo(index uint16, latch errorLatcher) {
	sess := d.ensureSession()
	if err := sess.StartVideo(index); err != nil {
		latch(err.Error())
	}
}

func (d *Device) handleStopVideo() {
	d.mu.Lock()
	sess := d.session
	d.mu.Unlock()
	if sess != nil {
		sess.StopVideo()
	}
}

func (d *Device) handleFlipRegion(latch errorLatcher) {
	d.mu.Lock()
	sess := d.session
	d.mu.Unlock()
	if sess == nil {
		latch("flip_region with no active stream")
		return
	}
	if err := sess.FlipRegion(); err != nil {
		latch(err.Error())
	}
}

func (d *Device) handleMarchTest(pass uint16, latch errorLatcher) {
	if int(pass) >= march.NumPasses {
		latch(fmt.Sprintf("invalid march test pass %d", pass))
		return
	}
	bank := march.Bank(int(pass))
	d.sram.ResetBank(bank)
	march.Run(int(pass), d.sram)
	// The device only reports that the write completed; verifying the
	// pattern is the console's job (spec.md §7's self-test error category).
	d.rep.MarchTestPass(reporter.MarchTestUpdate{Pass: int(pass), Bank: bank, Passed: false})
}
