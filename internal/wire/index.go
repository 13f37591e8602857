package wire

import (
	"encoding/binary"
	"fmt"
)

// EOFOffset is the sentinel chunk-offset value marking one-past-the-end of
// the final chunk's compressed bytes, mirroring SEGA_CHUNK_OFFSET_EOF.
const EOFOffset uint32 = 0xffffffff

// recordAlign is the byte multiple every fixed-size wire record (the
// header and the chunk index) is padded to.
const recordAlign = 256

// Index is the decoded chunk index present immediately after the outer
// header when a video is compressed: one big-endian byte offset per
// chunk, plus one sentinel end offset.
//
// Unlike the hardware's fixed 36032-entry array, this implementation
// sizes Offsets dynamically to totalChunks+1 entries. Only entries
// 0..totalChunks are ever read by any caller, so this is behavior
// equivalent — see DESIGN.md.
type Index struct {
	Offsets []uint32
}

// IndexByteSize returns the padded, on-wire byte size of a chunk index for
// totalChunks chunks (totalChunks+1 big-endian uint32 offsets, rounded up
// to the next 256-byte boundary).
func IndexByteSize(totalChunks uint32) int {
	raw := int(totalChunks+1) * 4
	if rem := raw % recordAlign; rem != 0 {
		raw += recordAlign - rem
	}
	return raw
}

// DecodeIndex parses totalChunks+1 big-endian uint32 offsets from the
// front of buf. buf must be at least IndexByteSize(totalChunks) bytes;
// DecodeIndex ignores any padding beyond the last offset.
func DecodeIndex(buf []byte, totalChunks uint32) (Index, error) {
	n := int(totalChunks + 1)
	need := n * 4
	if len(buf) < need {
		return Index{}, fmt.Errorf("wire: chunk index requires %d bytes, got %d", need, len(buf))
	}

	offsets := make([]uint32, n)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint32(buf[i*4:])
	}
	return Index{Offsets: offsets}, nil
}

// EncodeIndex writes idx back into a padded IndexByteSize(totalChunks)
// buffer, zero-filling the pad region.
func EncodeIndex(idx Index, totalChunks uint32) []byte {
	buf := make([]byte, IndexByteSize(totalChunks))
	for i, off := range idx.Offsets {
		binary.BigEndian.PutUint32(buf[i*4:], off)
	}
	return buf
}

// ChunkByteRange returns the [start, end) byte range of chunk n's
// compressed bytes within the remote file's chunk data region, per
// spec.md's "request index.offset[n+1] - index.offset[n] bytes" rule.
func (idx Index) ChunkByteRange(n uint32) (start, end uint32) {
	return idx.Offsets[n], idx.Offsets[n+1]
}

