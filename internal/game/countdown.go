package game

// Countdown is a once-per-second wall-clock countdown driven by external
// Tick calls. It carries no goroutine of its own: the owner decides when a
// second has elapsed, which keeps sessions deterministic under test.
type Countdown struct {
	budget    int
	remaining int
	running   bool
}

// NewCountdown returns a stopped countdown with the given budget in seconds.
func NewCountdown(seconds int) *Countdown {
	return &Countdown{budget: seconds, remaining: seconds}
}

// Start refills the countdown to its full budget and arms it.
func (c *Countdown) Start() {
	c.remaining = c.budget
	c.running = true
}

// Tick consumes one second. It reports true exactly when the countdown
// reaches zero; further ticks are no-ops until Start is called again.
func (c *Countdown) Tick() bool {
	if !c.running {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		return true
	}
	return false
}

// Cancel disarms the countdown without firing it.
func (c *Countdown) Cancel() {
	c.running = false
}

// Reset refills the countdown to its budget, keeping it stopped.
func (c *Countdown) Reset() {
	c.remaining = c.budget
	c.running = false
}

func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) Running() bool {
	return c.running
}
