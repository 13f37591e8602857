// Package wire decodes and validates the on-the-wire layout of Kinetoscope
// video files: the outer header, the chunk index, and per-chunk headers.
// Every function here is pure over a byte slice; none perform I/O.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the exact size of the outer video header, in bytes.
	HeaderSize = 8192

	// CurrentFormat is the only format version this decoder accepts.
	CurrentFormat uint16 = 3

	// Magic is the literal magic value at the start of every outer header.
	// It is exactly 16 bytes; no NUL terminator is required or present.
	Magic = "what nintendon't"

	magicSize       = 16
	titleSize       = 128
	relativeURLSize = 128
	thumbPaletteLen = 16
	thumbTilesLen   = 8 * 16 * 14
)

// Header is the decoded form of a SegaVideoHeader: the outer video header
// present at the start of every catalog entry and every video file.
type Header struct {
	Magic        [magicSize]byte
	Format       uint16
	FrameRate    uint16
	SampleRate   uint16
	TotalFrames  uint32
	TotalSamples uint32
	ChunkSize    uint32
	TotalChunks  uint32
	Title        [titleSize]byte
	RelativeURL  [relativeURLSize]byte
	Compression  uint16
}

// ValidateHeader reports whether buf begins with a well-formed outer
// header: the exact magic literal and the current format version. Any
// other value, including a future format version, is rejected. It
// performs no I/O and never panics on short input.
func ValidateHeader(buf []byte) bool {
	if len(buf) < HeaderSize {
		return false
	}
	if !bytes.Equal(buf[:magicSize], []byte(Magic)) {
		return false
	}
	format := binary.BigEndian.Uint16(buf[magicSize : magicSize+2])
	return format == CurrentFormat
}

// DecodeHeader parses the first HeaderSize bytes of buf into a Header. The
// caller should call ValidateHeader first; DecodeHeader does not itself
// reject a malformed header, it only decodes the fields present.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("wire: header requires %d bytes, got %d", HeaderSize, len(buf))
	}

	var h Header
	copy(h.Magic[:], buf[:magicSize])
	off := magicSize
	h.Format = binary.BigEndian.Uint16(buf[off:])
	off += 2
	h.FrameRate = binary.BigEndian.Uint16(buf[off:])
	off += 2
	h.SampleRate = binary.BigEndian.Uint16(buf[off:])
	off += 2
	h.TotalFrames = binary.BigEndian.Uint32(buf[off:])
	off += 4
	h.TotalSamples = binary.BigEndian.Uint32(buf[off:])
	off += 4
	h.ChunkSize = binary.BigEndian.Uint32(buf[off:])
	off += 4
	h.TotalChunks = binary.BigEndian.Uint32(buf[off:])
	off += 4
	copy(h.Title[:], buf[off:off+titleSize])
	off += titleSize
	copy(h.RelativeURL[:], buf[off:off+relativeURLSize])
	off += relativeURLSize
	h.Compression = binary.BigEndian.Uint16(buf[off:])

	return h, nil
}

// EncodeHeader writes h back into an HeaderSize-byte buffer in the exact
// wire layout DecodeHeader expects, zero-padding the remainder (the
// thumbnail palette/tile region, which this implementation never
// populates — the console only reads it for the menu thumbnail, out of
// scope per spec.md Non-goal (i)).
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[:magicSize], h.Magic[:])
	off := magicSize
	binary.BigEndian.PutUint16(buf[off:], h.Format)
	off += 2
	binary.BigEndian.PutUint16(buf[off:], h.FrameRate)
	off += 2
	binary.BigEndian.PutUint16(buf[off:], h.SampleRate)
	off += 2
	binary.BigEndian.PutUint32(buf[off:], h.TotalFrames)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], h.TotalSamples)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], h.ChunkSize)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], h.TotalChunks)
	off += 4
	copy(buf[off:off+titleSize], h.Title[:])
	off += titleSize
	copy(buf[off:off+relativeURLSize], h.RelativeURL[:])
	off += relativeURLSize
	binary.BigEndian.PutUint16(buf[off:], h.Compression)
	return buf
}

// RelativeURLString returns the relative URL field as a Go string, trimmed
// at the first NUL terminator. It returns an error if no terminator is
// present within the field, matching the reference emulator's
// strnlen-based validation of catalog entries.
func (h Header) RelativeURLString() (string, error) {
	n := bytes.IndexByte(h.RelativeURL[:], 0)
	if n < 0 {
		return "", fmt.Errorf("wire: relative_url has no NUL terminator")
	}
	return string(h.RelativeURL[:n]), nil
}

// TitleString returns the title field as a Go string, trimmed at the
// first NUL terminator, or the full field if none is present.
func (h Header) TitleString() string {
	n := bytes.IndexByte(h.Title[:], 0)
	if n < 0 {
		n = len(h.Title)
	}
	return string(h.Title[:n])
}
