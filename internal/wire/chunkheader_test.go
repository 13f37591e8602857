package wire

import "testing"

func TestParseChunkHeaderLayout(t *testing.T) {
	h := ChunkHeader{
		Samples:          100,
		Frames:           30,
		PrePaddingBytes:  4,
		PostPaddingBytes: 8,
	}
	buf := append(EncodeChunkHeader(h), make([]byte, 4096)...)

	const sampleSize = 2
	const frameSize = 1024

	decoded, layout, err := ParseChunkHeader(buf, sampleSize, frameSize)
	if err != nil {
		t.Fatalf("ParseChunkHeader: %v", err)
	}
	if decoded != h {
		t.Fatalf("decoded header = %+v, want %+v", decoded, h)
	}

	wantAudioStart := uint32(ChunkHeaderSize) + 4
	wantFramesStart := wantAudioStart + 100*sampleSize
	wantEnd := wantFramesStart + 30*frameSize + 8

	if layout.AudioStart != wantAudioStart {
		t.Errorf("AudioStart = %d, want %d", layout.AudioStart, wantAudioStart)
	}
	if layout.FramesStart != wantFramesStart {
		t.Errorf("FramesStart = %d, want %d", layout.FramesStart, wantFramesStart)
	}
	if layout.End != wantEnd {
		t.Errorf("End = %d, want %d", layout.End, wantEnd)
	}
}

func TestParseChunkHeaderRejectsShortInput(t *testing.T) {
	if _, _, err := ParseChunkHeader(make([]byte, ChunkHeaderSize-1), 2, 1024); err == nil {
		t.Fatal("expected an error for a too-short buffer")
	}
}
