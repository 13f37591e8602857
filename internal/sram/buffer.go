// Package sram models the two 1 MiB banks of shared SRAM the device
// writes and the console reads, including the XOR-1 byte-swap quirk that
// keeps the data path compatible with the shipped console ROM.
package sram

import (
	"log"
)

const (
	// BankSize is the size of a single SRAM bank, in bytes.
	BankSize = 1 << 20

	// TotalSize is the combined size of both banks.
	TotalSize = 2 * BankSize

	// Bank0Offset and Bank1Offset are bank0 and bank1's offsets into the
	// combined buffer, matching the reference emulator's
	// SRAM_BANK_0_OFFSET/SRAM_BANK_1_OFFSET.
	Bank0Offset = 0
	Bank1Offset = BankSize

	// Bank0HostOffset and Bank1HostOffset are the host-bus addresses at
	// which the console observes each bank, per spec.md §6's data window.
	Bank0HostOffset = 0x200000
	Bank1HostOffset = 0x300000
)

// Writer is the capability the RLE decoder (component B) and the march
// self-test (component G) write through. It is implemented by *Buffer but
// kept as an interface so both components can be tested without a real
// backing allocation.
type Writer interface {
	ResetBank(bank int)
	Write(data []byte)
}

// Buffer is the 2 MiB shared SRAM region, allocated once at construction
// and never reallocated for the life of the session, per the Design
// Notes' "explicit allocator at construction" guidance.
type Buffer struct {
	mem     []byte
	closer  func() error
	cursor  uint32 // offset from the base of the current bank
	bankBase uint32
}

// NewBuffer allocates a fresh 2 MiB SRAM buffer. On platforms where a
// page-aligned mapping is available this uses golang.org/x/sys/unix.Mmap;
// elsewhere (see platform-specific files) it falls back to a plain slice.
// This is purely an allocation-strategy choice — behavior is identical
// either way.
func NewBuffer() (*Buffer, error) {
	mem, closer, err := allocate(TotalSize)
	if err != nil {
		return nil, err
	}
	return &Buffer{mem: mem, closer: closer}, nil
}

// Close releases the underlying allocation.
func (b *Buffer) Close() error {
	if b.closer == nil {
		return nil
	}
	err := b.closer()
	b.closer = nil
	return err
}

// ResetBank points the write cursor at the base of bank 0 or bank 1.
// Write stores every byte directly at its swapped offset, so no mid-word
// residue carries over from a prior odd-length write.
func (b *Buffer) ResetBank(bank int) {
	if bank == 0 {
		b.bankBase = Bank0Offset
	} else {
		b.bankBase = Bank1Offset
	}
	b.cursor = 0
}

// Write appends data to the current bank at the write cursor. Every byte
// is stored at physical offset (bankBase+cursor) XOR 1 within that bank,
// matching the console's 16-bit data bus layout — this mapping must be
// preserved bit-exactly for compatibility with the shipped console ROM
// (see DESIGN.md Open Question 1).
//
// A write that would run past the end of the bank is an invariant
// violation: spec.md requires it be dropped and logged, with no partial
// write and no cursor advance.
func (b *Buffer) Write(data []byte) {
	if b.cursor+uint32(len(data)) > BankSize {
		log.Printf("sram: write of %d bytes at cursor %d overflows bank (size %d); dropped", len(data), b.cursor, BankSize)
		return
	}
	for i, v := range data {
		phys := b.bankBase + b.cursor + uint32(i)
		b.mem[phys^1] = v
	}
	b.cursor += uint32(len(data))
}

// WriteAt writes data directly at an absolute offset within the named
// bank, bypassing the cursor and leaving it unchanged. The command
// handlers do not use it (they write through ResetBank and Write); tests
// use it to place bytes at a fixed offset.
func (b *Buffer) WriteAt(bank int, offset uint32, data []byte) {
	base := uint32(Bank0Offset)
	if bank != 0 {
		base = Bank1Offset
	}
	if offset+uint32(len(data)) > BankSize {
		log.Printf("sram: WriteAt bank %d offset %d len %d overflows bank", bank, offset, len(data))
		return
	}
	for i, v := range data {
		phys := base + offset + uint32(i)
		b.mem[phys^1] = v
	}
}

// Bank returns a read-only view of the given bank's raw physical bytes
// (i.e. already including the XOR-1 swap), for test harnesses and the CLI
// that want to assert on raw bytes without going through the port
// protocol, per SPEC_FULL.md §6.
func (b *Buffer) Bank(bank int) []byte {
	if bank == 0 {
		return b.mem[Bank0Offset : Bank0Offset+BankSize]
	}
	return b.mem[Bank1Offset : Bank1Offset+BankSize]
}

// ReadLogical reads n bytes starting at logical offset off within the
// given bank, undoing the XOR-1 swap — i.e. it returns the bytes exactly
// as Write wrote them, not their physical storage order.
func (b *Buffer) ReadLogical(bank int, off uint32, n int) []byte {
	base := uint32(Bank0Offset)
	if bank != 0 {
		base = Bank1Offset
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		phys := base + off + uint32(i)
		out[i] = b.mem[phys^1]
	}
	return out
}
