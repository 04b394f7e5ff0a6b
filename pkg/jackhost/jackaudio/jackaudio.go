// Package jackaudio is the documented extension point for a real JACK
// Graph adapter (spec §4.7). No JACK cgo binding exists anywhere in the
// retrieved example pack to ground one on (see DESIGN.md), so this
// package ships no working client: New always returns an error, and the
// two cmd/ binaries select pkg/jackhost/fakehost instead. Implementing a
// real adapter means satisfying jackhost.Graph here and switching the
// constructor call in cmd/mtcgen and cmd/mtcdump.
package jackaudio

import (
	"errors"

	"github.com/rgareus/mtc-tools/pkg/jackhost"
)

// ErrNotImplemented is returned by New: this package is a placeholder
// for a real cgo JACK client binding, not a working implementation.
var ErrNotImplemented = errors.New("jackaudio: no JACK client binding is wired into this build")

// New would construct a jackhost.Graph backed by a real JACK client named
// clientName. It always fails in this build.
func New(clientName string) (jackhost.Graph, error) {
	return nil, ErrNotImplemented
}
