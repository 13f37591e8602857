package wire

import "testing"

func TestIndexByteSizePadsTo256(t *testing.T) {
	cases := []struct {
		totalChunks uint32
		want        int
	}{
		{0, 256},  // 1 entry -> 4 bytes, padded up
		{63, 256}, // 64 entries -> 256 bytes exactly
		{64, 512}, // 65 entries -> 260 bytes, padded up
	}
	for _, c := range cases {
		got := IndexByteSize(c.totalChunks)
		if got != c.want {
			t.Errorf("IndexByteSize(%d) = %d, want %d", c.totalChunks, got, c.want)
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	idx := Index{Offsets: []uint32{0, 100, 250, EOFOffset}}
	buf := EncodeIndex(idx, 3)

	decoded, err := DecodeIndex(buf, 3)
	if err != nil {
		t.Fatalf("DecodeIndex: %v", err)
	}
	for i, off := range idx.Offsets {
		if decoded.Offsets[i] != off {
			t.Errorf("offset %d = %#x, want %#x", i, decoded.Offsets[i], off)
		}
	}
}

func TestIndexChunkByteRange(t *testing.T) {
	idx := Index{Offsets: []uint32{0, 100, 250, 400}}
	start, end := idx.ChunkByteRange(1)
	if start != 100 || end != 250 {
		t.Fatalf("ChunkByteRange(1) = (%d, %d), want (100, 250)", start, end)
	}
}

func TestDecodeIndexRejectsShortBuffer(t *testing.T) {
	if _, err := DecodeIndex(make([]byte, 4), 3); err == nil {
		t.Fatal("expected an error for a too-short buffer")
	}
}
