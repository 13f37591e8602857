package sram

import (
	"bytes"
	"testing"
)

func newTestBuffer(t *testing.T) *Buffer {
	t.Helper()
	b, err := NewBuffer()
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestWriteHonorsXOR1(t *testing.T) {
	b := newTestBuffer(t)
	b.ResetBank(0)
	data := []byte{0x11, 0x22, 0x33, 0x44, 0x55}
	b.Write(data)

	bank := b.Bank(0)
	for i, want := range data {
		got := bank[uint32(i)^1]
		if got != want {
			t.Errorf("byte %d: physical offset %d = %#x, want %#x", i, uint32(i)^1, got, want)
		}
	}
}

func TestReadLogicalUndoesSwap(t *testing.T) {
	b := newTestBuffer(t)
	b.ResetBank(1)
	data := []byte("hello, sram")
	b.Write(data)

	got := b.ReadLogical(1, 0, len(data))
	if !bytes.Equal(got, data) {
		t.Fatalf("ReadLogical = %q, want %q", got, data)
	}
}

func TestWriteOverflowIsDroppedAndCursorDoesNotAdvance(t *testing.T) {
	b := newTestBuffer(t)
	b.ResetBank(0)
	b.cursor = BankSize - 2

	before := append([]byte(nil), b.Bank(0)...)
	b.Write([]byte{1, 2, 3, 4}) // would overflow by 2 bytes
	after := b.Bank(0)

	if !bytes.Equal(before, after) {
		t.Fatal("overflowing write must not modify SRAM contents")
	}
	if b.cursor != BankSize-2 {
		t.Fatalf("cursor advanced after a dropped write: got %d, want %d", b.cursor, BankSize-2)
	}
}

func TestResetBankDiscardsCursor(t *testing.T) {
	b := newTestBuffer(t)
	b.ResetBank(0)
	b.Write([]byte{1, 2, 3})
	b.ResetBank(1)
	if b.cursor != 0 {
		t.Fatalf("ResetBank must reset cursor to 0, got %d", b.cursor)
	}
}

func TestWriteAtBypassesCursor(t *testing.T) {
	b := newTestBuffer(t)
	b.WriteAt(0, 10, []byte{0xaa, 0xbb})
	got := b.ReadLogical(0, 10, 2)
	if !bytes.Equal(got, []byte{0xaa, 0xbb}) {
		t.Fatalf("got %x, want aabb", got)
	}
}

func TestBanksAreIndependent(t *testing.T) {
	b := newTestBuffer(t)
	b.ResetBank(0)
	b.Write([]byte{0xff})
	b.ResetBank(1)
	b.Write([]byte{0x00})

	if b.ReadLogical(0, 0, 1)[0] != 0xff {
		t.Fatal("bank 0 corrupted by bank 1 write")
	}
}
