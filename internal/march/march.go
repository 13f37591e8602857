// Package march implements the SRAM march self-test: a deterministic
// pattern writer used to validate the SRAM interconnect bit-by-bit.
package march

import "github.com/joeyparrish/kinetoscope/internal/sram"

// NumPasses is the total number of march test passes.
const NumPasses = 22

// primes are the moduli used by the passes 20-21 counter pattern, in the
// order the counter advances through them.
var primes = [8]uint32{251, 241, 239, 233, 229, 227, 223, 211}

// Bank returns the SRAM bank (0 or 1) that pass writes to.
func Bank(pass int) int {
	return pass & 1
}

// Pattern returns the byte a march test pass writes at a given byte
// offset within its bank. It is defined for every offset independently of
// the others, so any single offset can be checked in isolation (the
// package's tests compare it against Generator); Generator below produces the same
// sequence far more cheaply when an entire bank needs generating or
// verifying in order.
func Pattern(pass int, offset uint32) byte {
	switch {
	case pass < 16:
		// One-hot walking-bit pattern, 8 patterns x 2 banks.
		bit := (offset + uint32(pass/2)) % 8
		return byte(1 << bit)
	case pass < 18:
		// Low byte of the address.
		return byte(offset & 0xff)
	case pass < 20:
		// Inverted low byte of the address.
		return byte(offset&0xff) ^ 0xff
	default:
		g := NewGenerator(pass)
		var b byte
		for i := uint32(0); i <= offset; i++ {
			b = g.next()
		}
		return b
	}
}

// Generator produces the bytes of a march test pass's pattern in
// sequential offset order, in O(1) amortized time per byte. Passes 20-21
// are defined by a rolling counter that cannot be computed for an
// arbitrary offset without replaying every step from zero, so any code
// that walks a full bank (Run, and internal/marchcheck's verification)
// should use a Generator rather than calling Pattern offset-by-offset.
type Generator struct {
	pass     int
	offset   uint32
	counter  uint32
	primeIdx int
}

// NewGenerator returns a Generator positioned at offset 0 of pass.
func NewGenerator(pass int) *Generator {
	g := &Generator{pass: pass}
	if pass >= 20 && Bank(pass) == 1 {
		g.counter = 199
	}
	return g
}

// next returns the byte at the generator's current offset and advances it.
func (g *Generator) next() byte {
	var b byte
	if g.pass < 20 {
		b = Pattern(g.pass, g.offset)
	} else {
		if g.counter == primes[g.primeIdx]*255 {
			g.primeIdx = (g.primeIdx + 1) % len(primes)
			g.counter = 0
		}
		b = byte(g.counter % primes[g.primeIdx])
		g.counter++
	}
	g.offset++
	return b
}

// Fill writes len(buf) consecutive pattern bytes into buf, continuing
// from wherever the generator last left off.
func (g *Generator) Fill(buf []byte) {
	for i := range buf {
		buf[i] = g.next()
	}
}

// Run writes one full bank (sram.BankSize bytes) of pass's pattern
// through w, completing synchronously before returning, per spec.md §4.G.
func Run(pass int, w sram.Writer) {
	w.ResetBank(Bank(pass))
	g := NewGenerator(pass)
	const chunk = 4096
	buf := make([]byte, chunk)
	for base := uint32(0); base < sram.BankSize; base += chunk {
		n := chunk
		if base+uint32(n) > sram.BankSize {
			n = int(sram.BankSize - base)
		}
		g.Fill(buf[:n])
		w.Write(buf[:n])
	}
}
