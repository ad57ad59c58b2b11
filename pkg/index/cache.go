package index

import (
	"errors"
	"fmt"
)

var (
	ErrGap      = errors.New("visit order is not adjacent to the cached records")
	ErrConflict = errors.New("visit order already cached with a different location")
)

// Cache remembers, for a single traversal session, the byte span of each
// visited record by visit order and the visit order of each record offset.
// Both mappings only grow; the underlying stream is immutable.
type Cache struct {
	spans  []int64       // visit order -> record span in bytes
	visits map[int64]int // record offset -> visit order
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{visits: make(map[int64]int)}
}

// Remember records that the record at visit order visit starts at off and
// spans span bytes. Visit orders must be remembered contiguously from zero;
// re-remembering a known visit order is a no-op when it agrees.
func (c *Cache) Remember(visit int, off int64, span int64) error {
	switch {
	case visit < 0:
		return fmt.Errorf("%w: visit order %d", ErrGap, visit)
	case visit < len(c.spans):
		if c.spans[visit] != span || c.visitAt(off) != visit {
			return fmt.Errorf("%w: visit order %d at offset %d span %d", ErrConflict, visit, off, span)
		}
		return nil
	case visit > len(c.spans):
		return fmt.Errorf("%w: visit order %d with %d cached", ErrGap, visit, len(c.spans))
	}

	if prev, ok := c.visits[off]; ok {
		return fmt.Errorf("%w: offset %d already holds visit order %d", ErrConflict, off, prev)
	}

	c.spans = append(c.spans, span)
	c.visits[off] = visit
	return nil
}

func (c *Cache) visitAt(off int64) int {
	if v, ok := c.visits[off]; ok {
		return v
	}
	return -1
}

// LengthOf returns the span of the record at visit order visit
func (c *Cache) LengthOf(visit int) (int64, bool) {
	if visit < 0 || visit >= len(c.spans) {
		return 0, false
	}
	return c.spans[visit], true
}

// VisitOrderAt returns the visit order of the record starting at off
func (c *Cache) VisitOrderAt(off int64) (int, bool) {
	v, ok := c.visits[off]
	return v, ok
}

// Len returns the number of records remembered
func (c *Cache) Len() int {
	return len(c.spans)
}
