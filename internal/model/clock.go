package model

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Clock is one player's countdown. A zero budget means untimed.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	untimed     bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft: initialTime,
		untimed:  initialTime <= 0,
		now:      time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.untimed || c.isRunning {
		return
	}
	c.lastStarted = c.now()
	c.isRunning = true
	log.Debugf("clock started with %s left", c.timeLeft)
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
		log.Debugf("clock stopped with %s left", c.timeLeft)
	}
}

// TimeLeft may be negative once the flag has fallen.
func (c *Clock) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - c.now().Sub(c.lastStarted)
	}
	return c.timeLeft
}

func (c *Clock) Expired() bool {
	return !c.untimed && c.TimeLeft() <= 0
}

// ClientClock is the clock as sent to clients, in tenths of a second.
type ClientClock struct {
	TimeLeft int  `json:"timeLeft"`
	Untimed  bool `json:"untimed,omitempty"`
}

func (c *Clock) client() ClientClock {
	if c.untimed {
		return ClientClock{Untimed: true}
	}
	left := c.TimeLeft()
	if left < 0 {
		left = 0
	}
	return ClientClock{TimeLeft: int(left.Milliseconds() / 100)}
}
