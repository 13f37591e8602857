package wire

import "testing"

func sampleHeaderBytes() []byte {
	h := Header{
		Format:       CurrentFormat,
		FrameRate:    60,
		SampleRate:   44100,
		TotalFrames:  1800,
		TotalSamples: 1323000,
		ChunkSize:    0x80000,
		TotalChunks:  3,
		Compression:  1,
	}
	copy(h.Magic[:], Magic)
	copy(h.Title[:], "A")
	copy(h.RelativeURL[:], "videos/a.bin")
	return EncodeHeader(h)
}

func TestValidateHeaderAccepts(t *testing.T) {
	buf := sampleHeaderBytes()
	if !ValidateHeader(buf) {
		t.Fatal("expected a well-formed header to validate")
	}
}

func TestValidateHeaderRejectsMagicMutation(t *testing.T) {
	buf := sampleHeaderBytes()
	for i := 0; i < magicSize; i++ {
		mutated := append([]byte(nil), buf...)
		mutated[i] ^= 0xff
		if ValidateHeader(mutated) {
			t.Fatalf("expected mutation at magic byte %d to fail validation", i)
		}
	}
}

func TestValidateHeaderRejectsFormatVersion(t *testing.T) {
	for _, format := range []uint16{0, 1, 2, 4, 0xffff} {
		h := Header{Format: format}
		copy(h.Magic[:], Magic)
		buf := EncodeHeader(h)
		if ValidateHeader(buf) {
			t.Fatalf("expected format %d to be rejected", format)
		}
	}
}

func TestValidateHeaderRejectsShortInput(t *testing.T) {
	if ValidateHeader(sampleHeaderBytes()[:HeaderSize-1]) {
		t.Fatal("expected a truncated header to fail validation")
	}
}

func TestDecodeHeaderRoundTrip(t *testing.T) {
	buf := sampleHeaderBytes()
	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if h.Format != CurrentFormat || h.FrameRate != 60 || h.TotalChunks != 3 {
		t.Fatalf("unexpected decoded fields: %+v", h)
	}

	again := EncodeHeader(h)
	if string(again) != string(buf) {
		t.Fatal("byte-swap idempotence: encode(decode(buf)) != buf")
	}
}

func TestRelativeURLStringRequiresTerminator(t *testing.T) {
	h := Header{}
	for i := range h.RelativeURL {
		h.RelativeURL[i] = 'x'
	}
	if _, err := h.RelativeURLString(); err == nil {
		t.Fatal("expected an error for a relative_url field with no NUL terminator")
	}
}

func TestRelativeURLStringTrims(t *testing.T) {
	h := Header{}
	copy(h.RelativeURL[:], "videos/b.bin")
	got, err := h.RelativeURLString()
	if err != nil {
		t.Fatalf("RelativeURLString: %v", err)
	}
	if got != "videos/b.bin" {
		t.Fatalf("got %q, want %q", got, "videos/b.bin")
	}
}
