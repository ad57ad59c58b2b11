package stream

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// Position is an opaque resumption token. It is valid only for the
// Navigator that issued it.
type Position struct {
	navigator ksuid.KSUID
	offset    int64
}

// Offset returns the byte offset of the record the position refers to
func (p Position) Offset() int64 {
	return p.offset
}

// IsZero reports whether p was never issued by a navigator
func (p Position) IsZero() bool {
	return p.navigator.IsNil()
}

func (p Position) String() string {
	return fmt.Sprintf("%s@%d", p.navigator, p.offset)
}
