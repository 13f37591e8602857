package rle

import (
	"bytes"
	"math/rand"
	"testing"
)

// fakeWriter is a minimal sram.Writer that just appends to a buffer, for
// testing the decoder in isolation from a real SRAM allocation.
type fakeWriter struct {
	buf bytes.Buffer
}

func (w *fakeWriter) ResetBank(bank int) { w.buf.Reset() }
func (w *fakeWriter) Write(data []byte)  { w.buf.Write(data) }

// encode is a minimal reference encoder for the same grammar, used only
// to build round-trip test fixtures.
func encode(s []byte) []byte {
	var out []byte
	i := 0
	for i < len(s) {
		// Look for a run of the same byte, up to 127 long.
		runLen := 1
		for i+runLen < len(s) && s[i+runLen] == s[i] && runLen < 0x7f {
			runLen++
		}
		if runLen >= 2 {
			out = append(out, byte(0x80|runLen), s[i])
			i += runLen
			continue
		}
		// Literal run: up to 127 bytes, stopping before the next repeat.
		start := i
		for i < len(s) && i-start < 0x7f {
			// Stop the literal run if the next two bytes would repeat.
			if i+1 < len(s) && s[i] == s[i+1] {
				break
			}
			i++
		}
		n := i - start
		out = append(out, byte(n))
		out = append(out, s[start:i]...)
	}
	return out
}

func TestFragmentationScenarioFromSpec(t *testing.T) {
	// spec.md §8 scenario 5: [0x82, 0xAB, 0x03, 0x10, 0x20, 0x30] fed as
	// two buffers produces AB AB 10 20 30.
	w := &fakeWriter{}
	d := New()
	d.Feed(w, []byte{0x82})
	d.Feed(w, []byte{0xAB, 0x03, 0x10, 0x20, 0x30})

	want := []byte{0xAB, 0xAB, 0x10, 0x20, 0x30}
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("got %x, want %x", w.buf.Bytes(), want)
	}
}

func TestRepeatControlByteAsLastByteOfBuffer(t *testing.T) {
	w := &fakeWriter{}
	d := New()
	d.Feed(w, []byte{0x83}) // repeat count 3, no data byte yet
	if d.pendingRepeats != 3 {
		t.Fatalf("pendingRepeats = %d, want 3", d.pendingRepeats)
	}
	d.Feed(w, []byte{0x7f})
	want := []byte{0x7f, 0x7f, 0x7f}
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("got %x, want %x", w.buf.Bytes(), want)
	}
}

func TestLiteralZeroIsNoOp(t *testing.T) {
	w := &fakeWriter{}
	d := New()
	d.Feed(w, []byte{0x00, 0xAA}) // literal count 0, then a fresh control byte
	// 0xAA = repeat bit set, n=0x2a, data byte missing -> carried over
	if d.pendingRepeats != 0x2a {
		t.Fatalf("pendingRepeats = %d, want %d", d.pendingRepeats, 0x2a)
	}
	if w.buf.Len() != 0 {
		t.Fatalf("literal n=0 must write nothing, got %x", w.buf.Bytes())
	}
}

func TestRepeatZeroConsumesDataByteWritesNothing(t *testing.T) {
	w := &fakeWriter{}
	d := New()
	d.Feed(w, []byte{0x80, 0x99, 0x01, 0x42}) // repeat n=0 consumes 0x99, then literal 1 byte 0x42
	want := []byte{0x42}
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("got %x, want %x", w.buf.Bytes(), want)
	}
}

func TestEmptyBufferIsNoOp(t *testing.T) {
	w := &fakeWriter{}
	d := New()
	d.Feed(w, nil)
	if w.buf.Len() != 0 {
		t.Fatal("empty buffer must be a no-op")
	}
}

func TestRoundTripAcrossArbitrarySplits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(500)
		s := make([]byte, n)
		for i := range s {
			// Bias toward runs so the repeat path gets exercised.
			s[i] = byte(rng.Intn(6))
		}
		compressed := encode(s)

		for splits := 0; splits < 5; splits++ {
			w := &fakeWriter{}
			d := New()
			pos := 0
			for pos < len(compressed) {
				remaining := len(compressed) - pos
				chunkLen := 1
				if remaining > 1 {
					chunkLen = 1 + rng.Intn(remaining)
				}
				d.Feed(w, compressed[pos:pos+chunkLen])
				pos += chunkLen
			}
			if !bytes.Equal(w.buf.Bytes(), s) {
				t.Fatalf("trial %d split %d: round trip mismatch:\n got  %x\n want %x", trial, splits, w.buf.Bytes(), s)
			}
		}
	}
}

func TestResetClearsPendingState(t *testing.T) {
	w := &fakeWriter{}
	d := New()
	d.Feed(w, []byte{0x83}) // pending repeat
	d.Reset()
	if d.pendingRepeats != 0 || d.pendingLiterals != 0 {
		t.Fatal("Reset must zero both pending counters")
	}
}
