package nonce

import (
	"strconv"
	"sync"
	"time"
)

// DefaultAcceptanceWindow is the freshness bound the exchange enforces on
// request timestamps
const DefaultAcceptanceWindow = 30 * time.Second

// Clock hands out request timestamps in Unix seconds. Values never go
// backwards, and are corrected by the offset between local time and the
// exchange's clock once Sync has been called.
type Clock struct {
	m      sync.Mutex
	last   int64
	offset time.Duration
	now    func() time.Time
}

// NewClock returns a Clock reading from now, or time.Now when now is nil
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Timestamp returns the current corrected time in seconds
func (c *Clock) Timestamp() Value {
	c.m.Lock()
	defer c.m.Unlock()
	ts := c.read().Unix()
	if ts < c.last {
		ts = c.last
	}
	c.last = ts
	return Value(ts)
}

// Now returns the corrected wall time without advancing the timestamp
// sequence
func (c *Clock) Now() time.Time {
	c.m.Lock()
	defer c.m.Unlock()
	return c.read()
}

func (c *Clock) read() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	return now().Add(c.offset)
}

// Sync records the offset between the local clock and serverTime and
// returns it. The timestamp sequence restarts from serverTime so values
// handed out before a backwards correction cannot hold later ones ahead of
// the exchange
func (c *Clock) Sync(serverTime time.Time) time.Duration {
	c.m.Lock()
	defer c.m.Unlock()
	now := c.now
	if now == nil {
		now = time.Now
	}
	c.offset = serverTime.Sub(now())
	c.last = serverTime.Unix()
	return c.offset
}

// Offset returns the last offset recorded by Sync
func (c *Clock) Offset() time.Duration {
	c.m.Lock()
	defer c.m.Unlock()
	return c.offset
}

// WithinWindow reports whether ts is within window of the corrected clock
func (c *Clock) WithinWindow(ts Value, window time.Duration) bool {
	diff := c.Now().Sub(ts.Time())
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

// Value is a request timestamp in seconds
type Value int64

// String is a Value method that changes format to a string
func (v Value) String() string {
	return strconv.FormatInt(int64(v), 10)
}

// Time returns the value as a time.Time
func (v Value) Time() time.Time {
	return time.Unix(int64(v), 0)
}
