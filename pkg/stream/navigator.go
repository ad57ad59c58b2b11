package stream

import (
	"fmt"
	"iter"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/cdstream/pkg/codec"
	"github.com/ssargent/cdstream/pkg/index"
	"github.com/ssargent/cdstream/pkg/metrics"
	"github.com/ssargent/cdstream/pkg/store"
)

// State is the navigator's cursor state
type State int

const (
	Unpositioned State = iota
	Positioned
	Exhausted
)

func (s State) String() string {
	switch s {
	case Unpositioned:
		return "unpositioned"
	case Positioned:
		return "positioned"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// cursor is one visited record
type cursor struct {
	visit int
	rec   codec.Record
}

func (c cursor) offset() int64 {
	return c.rec.Offset
}

// location is a cached cursor without its record
type location struct {
	visit  int
	offset int64
}

// Navigator is a bidirectional cursor over a record stream. It borrows the
// store and is not safe for concurrent use.
//
// Navigation methods report false with a nil error when there is no record
// to move to. A call that returns an error leaves the cursor unchanged.
type Navigator struct {
	id     ksuid.KSUID
	store  store.RecordStore
	cache  *index.Cache
	prefix int64
	eager  bool

	state  State
	cur    cursor
	last   *location
	closed bool

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Navigator
type Option func(*Navigator)

// WithLogger sets the logger used for navigation debug output
func WithLogger(logger *zap.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithMetrics sets the collectors navigation is recorded on
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Navigator) {
		n.metrics = m
	}
}

// WithPrefixSize sets the number of stream-level bytes preceding the first record
func WithPrefixSize(size int64) Option {
	return func(n *Navigator) {
		if size >= 0 {
			n.prefix = size
		}
	}
}

// WithEagerLast locates the last record when the navigator is created, so
// that Last never scans
func WithEagerLast(eager bool) Option {
	return func(n *Navigator) {
		n.eager = eager
	}
}

// New creates an unpositioned navigator over s
func New(s store.RecordStore, opts ...Option) (*Navigator, error) {
	n := &Navigator{
		id:     ksuid.New(),
		store:  s,
		cache:  index.NewCache(),
		prefix: codec.StreamPrefixSize,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With(zap.Stringer("navigator", n.id))

	if n.eager {
		last, found, err := n.scanLast(cursor{}, false)
		if err != nil {
			return nil, fmt.Errorf("failed to locate last record: %w", err)
		}
		if found {
			n.last = &location{visit: last.visit, offset: last.offset()}
		}
	}

	n.metrics.NavigatorOpened()
	return n, nil
}

// ID returns the navigator's identity, carried by every Position it issues
func (n *Navigator) ID() ksuid.KSUID {
	return n.id
}

// State returns the cursor state
func (n *Navigator) State() State {
	return n.state
}

// Record returns the current record. The payload is only valid until the
// navigator moves; use Clone to keep it.
func (n *Navigator) Record() (codec.Record, bool) {
	if n.state != Positioned {
		return codec.Record{}, false
	}
	return n.cur.rec, true
}

// VisitOrder returns the zero-based traversal index of the current record
func (n *Navigator) VisitOrder() (int, bool) {
	if n.state != Positioned {
		return 0, false
	}
	return n.cur.visit, true
}

// Offset returns the byte offset of the current record
func (n *Navigator) Offset() (int64, bool) {
	if n.state != Positioned {
		return 0, false
	}
	return n.cur.offset(), true
}

// First moves to the first record. It reports false when the stream holds
// no records.
func (n *Navigator) First() (bool, error) {
	found, err := n.first()
	n.record("first", found, err)
	return found, err
}

func (n *Navigator) first() (bool, error) {
	if n.closed {
		return false, ErrClosed
	}
	if n.state == Positioned && n.cur.visit == 0 {
		return true, nil
	}
	if n.empty() {
		return false, nil
	}

	cur, err := n.visit(0, n.prefix)
	if err != nil {
		return false, err
	}
	n.adopt(cur)
	return true, nil
}

// Next moves to the following record. At the last record it reports false
// and the navigator becomes Exhausted. From Unpositioned it behaves as First.
func (n *Navigator) Next() (bool, error) {
	found, err := n.next()
	n.record("next", found, err)
	return found, err
}

func (n *Navigator) next() (bool, error) {
	if n.closed {
		return false, ErrClosed
	}

	switch n.state {
	case Unpositioned:
		return n.first()
	case Exhausted:
		return false, nil
	}

	nextOffset := n.cur.rec.NextOffset()
	if nextOffset >= n.store.Size() {
		n.last = &location{visit: n.cur.visit, offset: n.cur.offset()}
		n.state = Exhausted
		n.logger.Debug("stream exhausted", zap.Int("visit", n.cur.visit))
		return false, nil
	}

	cur, err := n.visit(n.cur.visit+1, nextOffset)
	if err != nil {
		return false, err
	}
	n.adopt(cur)
	return true, nil
}

// Prev moves to the preceding record using the cached length of the record
// before the current one. It reports false at the first record or when the
// navigator is not positioned.
func (n *Navigator) Prev() (bool, error) {
	found, err := n.prev()
	n.record("prev", found, err)
	return found, err
}

func (n *Navigator) prev() (bool, error) {
	if n.closed {
		return false, ErrClosed
	}
	if n.state != Positioned || n.cur.visit == 0 {
		return false, nil
	}

	span, ok := n.cache.LengthOf(n.cur.visit - 1)
	if !ok {
		return false, fmt.Errorf("%w: visit order %d", ErrIndexMiss, n.cur.visit-1)
	}

	cur, err := n.visit(n.cur.visit-1, n.cur.offset()-span)
	if err != nil {
		return false, err
	}
	n.adopt(cur)
	return true, nil
}

// Last moves to the final record. The first call without a known last
// position scans forward from the current record (or the first record) to
// the end of the stream; the result is cached so later calls do not scan.
// The scan reads every remaining record and cannot be interrupted.
func (n *Navigator) Last() (bool, error) {
	found, err := n.lastRecord()
	n.record("last", found, err)
	return found, err
}

func (n *Navigator) lastRecord() (bool, error) {
	if n.closed {
		return false, ErrClosed
	}

	if n.last != nil {
		if n.state == Positioned && n.cur.visit == n.last.visit {
			return true, nil
		}
		cur, err := n.visit(n.last.visit, n.last.offset)
		if err != nil {
			return false, err
		}
		n.adopt(cur)
		return true, nil
	}

	cur, found, err := n.scanLast(n.cur, n.state == Positioned)
	if err != nil || !found {
		return false, err
	}
	n.last = &location{visit: cur.visit, offset: cur.offset()}
	n.adopt(cur)
	return true, nil
}

// scanLast walks forward from start (or the first record when fromStart is
// false) until the end of the stream without touching the cursor state.
func (n *Navigator) scanLast(start cursor, fromStart bool) (cursor, bool, error) {
	cur := start
	if !fromStart {
		if n.empty() {
			return cursor{}, false, nil
		}
		first, err := n.visit(0, n.prefix)
		if err != nil {
			return cursor{}, false, err
		}
		cur = first
	}

	scanned := 1
	size := n.store.Size()
	for next := cur.rec.NextOffset(); next < size; next = cur.rec.NextOffset() {
		c, err := n.visit(cur.visit+1, next)
		if err != nil {
			return cursor{}, false, err
		}
		cur = c
		scanned++
	}

	n.metrics.ObserveLinearScan(scanned)
	n.logger.Debug("scanned for last record",
		zap.Int("records", scanned),
		zap.Int("visit", cur.visit),
		zap.Int64("offset", cur.offset()))

	return cur, true, nil
}

// Position returns a token for the current record
func (n *Navigator) Position() (Position, error) {
	if n.closed {
		return Position{}, ErrClosed
	}
	if n.state != Positioned {
		return Position{}, ErrNotPositioned
	}
	return Position{navigator: n.id, offset: n.cur.offset()}, nil
}

// Restore moves back to a position issued by this navigator. Positions from
// other navigators, or offsets never visited, are rejected before any read.
func (n *Navigator) Restore(pos Position) error {
	err := n.restore(pos)
	n.record("restore", err == nil, err)
	return err
}

func (n *Navigator) restore(pos Position) error {
	if n.closed {
		return ErrClosed
	}
	if pos.navigator != n.id {
		return fmt.Errorf("%w: issued by navigator %s", ErrInvalidPosition, pos.navigator)
	}

	visit, ok := n.cache.VisitOrderAt(pos.offset)
	if !ok {
		return fmt.Errorf("%w: offset %d was not visited", ErrInvalidPosition, pos.offset)
	}

	cur, err := n.visit(visit, pos.offset)
	if err != nil {
		return err
	}
	n.adopt(cur)
	return nil
}

// Records returns an iterator over every record from the first, leaving the
// navigator Exhausted when iteration completes. A navigation error is
// yielded once and ends the iteration.
func (n *Navigator) Records() iter.Seq2[codec.Record, error] {
	return func(yield func(codec.Record, error) bool) {
		found, err := n.First()
		for ; found && err == nil; found, err = n.Next() {
			if !yield(n.cur.rec, nil) {
				return
			}
		}
		if err != nil {
			yield(codec.Record{}, err)
		}
	}
}

// Close disposes of the navigator. The borrowed store is left open.
func (n *Navigator) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	n.state = Unpositioned
	n.cur = cursor{}
	n.metrics.NavigatorClosed()
	return nil
}

// empty reports whether the store holds nothing past the stream prefix
func (n *Navigator) empty() bool {
	return n.store.Size() <= n.prefix
}

// visit decodes the record at off and remembers it under visit order visit
func (n *Navigator) visit(visit int, off int64) (cursor, error) {
	rec, err := n.decodeAt(off)
	if err != nil {
		return cursor{}, err
	}
	if err := n.cache.Remember(visit, off, rec.Span()); err != nil {
		return cursor{}, fmt.Errorf("record at offset %d: %w", off, err)
	}

	n.metrics.RecordDecoded(rec.Shape.String())
	return cursor{visit: visit, rec: rec}, nil
}

// decodeAt reads the header at off, then the full record it declares
func (n *Navigator) decodeAt(off int64) (codec.Record, error) {
	size := n.store.Size()
	avail := size - off
	if off < 0 || avail <= 0 {
		return codec.Record{}, fmt.Errorf("%w: no record at offset %d of %d", codec.ErrTruncated, off, size)
	}

	hdr, err := n.store.ReadAt(off, int(min(avail, codec.MaxHeaderSize)))
	if err != nil {
		return codec.Record{}, fmt.Errorf("failed to read header at offset %d: %w", off, err)
	}

	h, err := codec.DecodeHeader(hdr, 0)
	if err != nil {
		return codec.Record{}, fmt.Errorf("record at offset %d: %w", off, err)
	}
	if int64(h.Length) > avail {
		return codec.Record{}, fmt.Errorf("%w: record at offset %d declares %d bytes, %d available",
			codec.ErrTruncated, off, h.Length, avail)
	}

	data, err := n.store.ReadAt(off, int(h.Length))
	if err != nil {
		return codec.Record{}, fmt.Errorf("failed to read record at offset %d: %w", off, err)
	}

	rec, err := codec.DecodeRecord(data, 0)
	if err != nil {
		return codec.Record{}, fmt.Errorf("record at offset %d: %w", off, err)
	}
	rec.Offset = off
	return rec, nil
}

func (n *Navigator) adopt(cur cursor) {
	n.cur = cur
	n.state = Positioned
	n.logger.Debug("positioned",
		zap.Int("visit", cur.visit),
		zap.Int64("offset", cur.offset()),
		zap.Uint16("signature", cur.rec.Signature),
		zap.Uint32("length", cur.rec.Length))
}

func (n *Navigator) record(op string, found bool, err error) {
	n.metrics.RecordNavigation(op, found, err)
	if err != nil {
		n.logger.Debug("navigation failed", zap.String("op", op), zap.Error(err))
	}
}
