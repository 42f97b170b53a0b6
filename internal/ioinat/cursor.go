package ioinat

// cursorState enumerates the pagination states.
type cursorState int

const (
	// awaitingFirstPage: no successful response yet, total unknown.
	awaitingFirstPage cursorState = iota
	// paging: the total page count is known and pages remain.
	paging
	// exhausted: all pages implied by the reported total were requested.
	exhausted
	// cappedOut: the request cap was reached before exhaustion.
	cappedOut
)

// cursor is the retrieval progress state. It is owned by a single Fetch
// call and discarded on completion.
type cursor struct {
	state      cursorState
	next       int // next page number, 1-based
	totalPages int // 0 until the first successful response
	issued     int
	max        int
}

func newCursor(maxPages int) *cursor {
	return &cursor{
		state: awaitingFirstPage,
		next:  1,
		max:   maxPages,
	}
}

func (c *cursor) done() bool {
	return c.state == exhausted || c.state == cappedOut
}

// page returns the page number to request and counts it as issued.
func (c *cursor) page() int {
	p := c.next
	c.next++
	c.issued++
	return p
}

// observe updates the cursor after a request. The first successful
// response fixes the page count from the reported total; a failed first
// page keeps the cursor probing until a response reveals the total or the
// cap is hit.
func (c *cursor) observe(totalResults, perPage int, ok bool) {
	if ok && c.totalPages == 0 {
		tp := (totalResults + perPage - 1) / perPage
		if tp < 1 {
			tp = 1
		}
		c.totalPages = tp
		c.state = paging
	}

	switch {
	case c.totalPages > 0 && c.next > c.totalPages:
		c.state = exhausted
	case c.issued >= c.max:
		c.state = cappedOut
	}
}

// target is the number of pages the cursor intends to request, for
// progress reporting. Valid once the total is known.
func (c *cursor) target() int {
	if c.totalPages == 0 || c.totalPages > c.max {
		return c.max
	}
	return c.totalPages
}
