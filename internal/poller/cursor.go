package poller

// Cursor is the next-expected-update watermark. It is owned by the poll
// loop alone, so it needs no synchronization; it only ever moves forward.
type Cursor struct {
	next int64
}

// NewCursor starts the watermark at resumeFrom, which is zero unless an
// external resume point was configured.
func NewCursor(resumeFrom int64) *Cursor {
	return &Cursor{next: resumeFrom}
}

// Next returns the offset to poll from.
func (c *Cursor) Next() int64 { return c.next }

// Advance moves the watermark to max(current, id+1). Out-of-order
// identifiers within a batch never move it backwards.
func (c *Cursor) Advance(id int64) {
	if id+1 > c.next {
		c.next = id + 1
	}
}
