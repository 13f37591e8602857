package marchcheck

import (
	"testing"

	"github.com/joeyparrish/kinetoscope/internal/march"
	"github.com/joeyparrish/kinetoscope/internal/sram"
)

func newSRAMBuffer(t *testing.T) *sram.Buffer {
	t.Helper()
	buf, err := sram.NewBuffer()
	if err != nil {
		t.Fatalf("sram.NewBuffer: %v", err)
	}
	t.Cleanup(func() { _ = buf.Close() })
	return buf
}

func TestVerifyBankPassesOnCorrectlyWrittenPattern(t *testing.T) {
	buf := newSRAMBuffer(t)
	march.Run(3, buf)

	r := VerifyBank(buf, 3)
	if !r.Passed {
		t.Fatalf("expected pass 3 to verify clean, got: %s", r.Message)
	}
}

func TestVerifyBankCatchesCorruption(t *testing.T) {
	buf := newSRAMBuffer(t)
	march.Run(5, buf)

	// Corrupt one byte in the middle of the bank.
	buf.WriteAt(march.Bank(5), 12345, []byte{0xee})

	r := VerifyBank(buf, 5)
	if r.Passed {
		t.Fatal("expected corruption to be detected")
	}
	if r.MismatchAt != 12345 {
		t.Fatalf("MismatchAt = %d, want 12345", r.MismatchAt)
	}
}

func TestVerifyAllStopsAtFirstFailure(t *testing.T) {
	buf := newSRAMBuffer(t)
	// Pass 0 and pass 2 both target bank 0, but with different patterns.
	// Writing pass 2's pattern then checking pass 0 must fail.
	march.Run(2, buf)

	results := VerifyAll(buf)
	if len(results) != 1 {
		t.Fatalf("expected VerifyAll to stop after the first (failing) pass, got %d results", len(results))
	}
	if results[0].Passed {
		t.Fatal("expected pass 0 to fail verification against pass 2's pattern")
	}
}
