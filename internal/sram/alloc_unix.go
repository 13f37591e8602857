//go:build linux || darwin

package sram

import "golang.org/x/sys/unix"

// allocate maps size bytes of anonymous, private memory via mmap, giving
// the march test's full-bank sweeps a realistic memory-page texture
// instead of a plain Go slice, per SPEC_FULL.md §4.C.
func allocate(size int) ([]byte, func() error, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	closer := func() error { return unix.Munmap(mem) }
	return mem, closer, nil
}
