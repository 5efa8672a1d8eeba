package keymap

import "time"

// Router delivers key events to the single active dispatcher. Grids
// register on activation and deregister on deactivation.
type Router struct {
	owner  string
	active *Dispatcher
}

// Activate makes d the receiver of key events, replacing any previous one.
func (r *Router) Activate(owner string, d *Dispatcher) {
	r.owner = owner
	r.active = d
}

// Deactivate removes owner's dispatcher if it is the active one.
func (r *Router) Deactivate(owner string) {
	if r.owner == owner {
		r.owner = ""
		r.active = nil
	}
}

// Active returns the owner of the active dispatcher.
func (r *Router) Active() (string, bool) {
	return r.owner, r.active != nil
}

// Route dispatches ev through the active dispatcher.
func (r *Router) Route(ev KeyEvent, ctx Context) (Action, bool) {
	if r.active == nil {
		return Action{}, false
	}
	return r.active.Dispatch(ev, ctx)
}

// DoubleClickInterval is the longest gap between clicks of a double click.
const DoubleClickInterval = 400 * time.Millisecond

// ClickTracker counts repeated clicks on the same cell. Terminal mouse
// reports carry no click count.
type ClickTracker struct {
	Interval time.Duration

	row    int
	column string
	at     time.Time
	count  int
}

// Click records a click and returns the repeat count: 1 for a single
// click, 2 for a double click. A third click starts over.
func (c *ClickTracker) Click(row int, column string, at time.Time) int {
	iv := c.Interval
	if iv <= 0 {
		iv = DoubleClickInterval
	}
	if c.count == 1 && row == c.row && column == c.column && at.Sub(c.at) <= iv {
		c.count = 2
	} else {
		c.count = 1
	}
	c.row, c.column, c.at = row, column, at
	return c.count
}

// Reset forgets the previous click.
func (c *ClickTracker) Reset() {
	c.count = 0
}
