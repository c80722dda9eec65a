//go:build !unix

package trap

func mapGuardPages(pages int) (*GuardRegion, error) {
	return nil, ErrGuardUnsupported
}

func unmapGuardPages(mem []byte) error { return nil }

func protectNone(mem []byte) error { return ErrGuardUnsupported }

func protectReadWrite(mem []byte) error { return ErrGuardUnsupported }
