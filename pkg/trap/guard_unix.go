//go:build unix

package trap

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

func mapGuardPages(pages int) (*GuardRegion, error) {
	size := pages * os.Getpagesize()

	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("trap: mmap %d pages: %w", pages, err)
	}

	return &GuardRegion{
		mem:   mem,
		start: uintptr(unsafe.Pointer(&mem[0])),
		size:  uintptr(size),
	}, nil
}

func unmapGuardPages(mem []byte) error {
	if mem == nil {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("trap: munmap: %w", err)
	}
	return nil
}

func protectNone(mem []byte) error {
	if err := unix.Mprotect(mem, unix.PROT_NONE); err != nil {
		return fmt.Errorf("trap: mprotect none: %w", err)
	}
	return nil
}

func protectReadWrite(mem []byte) error {
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return fmt.Errorf("trap: mprotect rw: %w", err)
	}
	return nil
}
