// guard.go tracks trap-on-access memory regions. A fault whose address lands
// inside an armed region is raised as a guard-page violation; everything
// else is an ordinary access violation.

package trap

import (
	"errors"
	"sync"
)

// ErrGuardUnsupported is returned on platforms without page-protection
// support. Guard regions are an optional capability; the rest of the
// package works without them.
var ErrGuardUnsupported = errors.New("trap: guard regions not supported on this platform")

// GuardRegion is a page-aligned block of memory that can be armed so that
// any access traps. Arm and Disarm are the primitives a future
// trap-and-resume protocol would drive; today regions exist so faults into
// them can be classified and logged.
type GuardRegion struct {
	mu    sync.Mutex
	mem   []byte
	start uintptr
	size  uintptr
	armed bool
}

type guardRegistry struct {
	mu      sync.RWMutex
	regions []*GuardRegion
}

var guards guardRegistry

// NewGuardRegion maps pages of fresh, page-aligned memory and registers the
// region. The region starts disarmed (readable and writable).
func NewGuardRegion(pages int) (*GuardRegion, error) {
	if pages <= 0 {
		return nil, errors.New("trap: guard region needs at least one page")
	}

	g, err := mapGuardPages(pages)
	if err != nil {
		return nil, err
	}

	guards.mu.Lock()
	guards.regions = append(guards.regions, g)
	guards.mu.Unlock()

	return g, nil
}

// Addr returns the start of the region.
func (g *GuardRegion) Addr() uintptr { return g.start }

// Size returns the region length in bytes.
func (g *GuardRegion) Size() uintptr { return g.size }

// Contains reports whether addr falls inside the region.
func (g *GuardRegion) Contains(addr uintptr) bool {
	return addr >= g.start && addr < g.start+g.size
}

// Armed reports whether the region currently traps on access.
func (g *GuardRegion) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed
}

// Arm revokes all access to the region so the next touch faults.
func (g *GuardRegion) Arm() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.armed {
		return nil
	}
	if err := protectNone(g.mem); err != nil {
		return err
	}
	g.armed = true
	return nil
}

// Disarm restores read/write access.
func (g *GuardRegion) Disarm() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.armed {
		return nil
	}
	if err := protectReadWrite(g.mem); err != nil {
		return err
	}
	g.armed = false
	return nil
}

// Close disarms, unregisters and unmaps the region.
func (g *GuardRegion) Close() error {
	if err := g.Disarm(); err != nil {
		return err
	}

	guards.mu.Lock()
	for i, r := range guards.regions {
		if r == g {
			guards.regions = append(guards.regions[:i], guards.regions[i+1:]...)
			break
		}
	}
	guards.mu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	mem := g.mem
	g.mem = nil
	g.start = 0
	g.size = 0
	return unmapGuardPages(mem)
}

// guarded reports whether addr lies inside any armed region.
func guarded(addr uintptr) bool {
	guards.mu.RLock()
	defer guards.mu.RUnlock()
	for _, g := range guards.regions {
		if g.Contains(addr) && g.Armed() {
			return true
		}
	}
	return false
}

// classify maps a fault address to the exception code it should be raised
// with. Address zero can never belong to a region, so the unknown-address
// sentinel always classifies as a plain access violation.
func classify(addr uintptr) Code {
	if addr != 0 && guarded(addr) {
		return CodeGuardPageViolation
	}
	return CodeAccessViolation
}
