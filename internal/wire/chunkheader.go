package wire

import (
	"encoding/binary"
	"fmt"
)

// ChunkHeaderSize is the exact size of a SegaVideoChunkHeader, in bytes.
const ChunkHeaderSize = 12

// ChunkHeader is the decoded per-chunk header: sample count, frame count,
// and the pre/post padding needed to keep audio 256-byte aligned in SRAM.
type ChunkHeader struct {
	Samples         uint32
	Frames          uint16
	Unused1         uint16
	PrePaddingBytes uint16
	PostPaddingBytes uint16
}

// ChunkLayout gives the byte offsets, relative to the start of the chunk
// (header included), of each region within a decoded chunk: audio samples
// begin after pre-padding, frames begin after samples, and the chunk ends
// after post-padding.
type ChunkLayout struct {
	AudioStart  uint32
	FramesStart uint32
	End         uint32
}

// ParseChunkHeader decodes the first ChunkHeaderSize bytes of buf and
// computes the layout of the regions that follow it. sampleSize and
// frameSize are the per-unit byte sizes of one audio sample and one video
// frame, supplied by the caller (the wire codec does not know the pixel
// format, per spec.md Non-goal (i)).
func ParseChunkHeader(buf []byte, sampleSize, frameSize uint32) (ChunkHeader, ChunkLayout, error) {
	if len(buf) < ChunkHeaderSize {
		return ChunkHeader{}, ChunkLayout{}, fmt.Errorf("wire: chunk header requires %d bytes, got %d", ChunkHeaderSize, len(buf))
	}

	h := ChunkHeader{
		Samples:          binary.BigEndian.Uint32(buf[0:]),
		Frames:           binary.BigEndian.Uint16(buf[4:]),
		Unused1:          binary.BigEndian.Uint16(buf[6:]),
		PrePaddingBytes:  binary.BigEndian.Uint16(buf[8:]),
		PostPaddingBytes: binary.BigEndian.Uint16(buf[10:]),
	}

	audioStart := uint32(ChunkHeaderSize) + uint32(h.PrePaddingBytes)
	framesStart := audioStart + h.Samples*sampleSize
	end := framesStart + uint32(h.Frames)*frameSize + uint32(h.PostPaddingBytes)

	return h, ChunkLayout{AudioStart: audioStart, FramesStart: framesStart, End: end}, nil
}

// EncodeChunkHeader writes h back into a ChunkHeaderSize-byte buffer.
func EncodeChunkHeader(h ChunkHeader) []byte {
	buf := make([]byte, ChunkHeaderSize)
	binary.BigEndian.PutUint32(buf[0:], h.Samples)
	binary.BigEndian.PutUint16(buf[4:], h.Frames)
	binary.BigEndian.PutUint16(buf[6:], h.Unused1)
	binary.BigEndian.PutUint16(buf[8:], h.PrePaddingBytes)
	binary.BigEndian.PutUint16(buf[10:], h.PostPaddingBytes)
	return buf
}
