package dial

import (
	"time"

	"github.com/rs/zerolog"
)

// Snapshot is the read-only state a renderer draws from.
type Snapshot struct {
	CurrentTime int
	FullTime    int
	// DisplayTime is FullTime-CurrentTime in countdown mode.
	DisplayTime   int
	VisibleSweep  float64
	RealSweep     float64
	Playing       bool
	Tracking      bool
	ReachedEnd    bool
	Animating     bool
	Countdown     bool
	TouchState    TouchState
	Enabled       bool
	AllowForward  bool
	AllowBackward bool
}

// Renderer receives a snapshot whenever the dial needs to be redrawn.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.ticker.clock = clock
	}
}

func WithListener(l *Listener) Option {
	return func(c *Controller) {
		c.listener = l
	}
}

func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}

// WithRing sets the hit-test geometry. Without a ring every press counts as
// outside the ring and outside the inner disc.
func WithRing(r Ring) Option {
	return func(c *Controller) {
		c.ring = &r
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// Controller owns the dial state and is driven by pointer events and host
// ticks. It is not safe for concurrent use; all calls must come from the
// goroutine that delivers input.
type Controller struct {
	cfg Config

	curTime   int
	playing   bool
	realSweep float64

	touch    *touchSession
	anim     *Animator
	ticker   ticker
	ring     *Ring
	listener *Listener
	renderer Renderer
	log      zerolog.Logger
}

// New builds a controller. The initial time is clamped into
// [0, cfg.FullTime] and the visible sweep starts at the real one.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:    cfg,
		ticker: ticker{clock: SystemClock},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ring != nil {
		if err := c.ring.Validate(); err != nil {
			return nil, err
		}
	}
	c.curTime = clamp(cfg.CurTime, cfg.FullTime)
	c.realSweep = ProgressToSweep(c.curTime, cfg.FullTime)
	c.anim = NewAnimator(c.realSweep)
	return c, nil
}

func (c *Controller) Snapshot() Snapshot {
	display := c.curTime
	if c.cfg.Countdown {
		display = c.cfg.FullTime - c.curTime
	}
	state := TouchIdle
	if c.touch != nil {
		state = c.touch.state
	}
	return Snapshot{
		CurrentTime:   c.curTime,
		FullTime:      c.cfg.FullTime,
		DisplayTime:   display,
		VisibleSweep:  c.anim.Visible(),
		RealSweep:     c.realSweep,
		Playing:       c.playing,
		Tracking:      c.Tracking(),
		ReachedEnd:    c.curTime >= c.cfg.FullTime,
		Animating:     c.anim.InFlight(),
		Countdown:     c.cfg.Countdown,
		TouchState:    state,
		Enabled:       c.cfg.Enabled,
		AllowForward:  c.cfg.AllowMoveForward,
		AllowBackward: c.cfg.AllowMoveBackward,
	}
}

func (c *Controller) Config() Config {
	cfg := c.cfg
	cfg.CurTime = c.curTime
	return cfg
}

func (c *Controller) CurTime() int {
	return c.curTime
}

func (c *Controller) FullTime() int {
	return c.cfg.FullTime
}

func (c *Controller) Playing() bool {
	return c.playing
}

func (c *Controller) Tracking() bool {
	return c.touch != nil && c.touch.state == TouchTracking
}

func (c *Controller) Attached() bool {
	return c.ticker.attached
}

// SetCurTime moves the timer to v, clamped into [0, FullTime].
func (c *Controller) SetCurTime(v int) {
	c.updateProgress(clamp(v, c.cfg.FullTime), false)
}

// SetFullTime replaces the full scale and re-derives the sweep.
func (c *Controller) SetFullTime(v int) error {
	cfg := c.cfg
	cfg.FullTime = v
	if err := cfg.Validate(); err != nil {
		c.log.Debug().Err(err).Msg("full time rejected")
		return err
	}
	c.cfg.FullTime = v
	c.updateProgress(clamp(c.curTime, v), false)
	return nil
}

// Reconfigure replaces the whole configuration. The current time is kept,
// clamped into the new scale; cfg.CurTime is ignored.
func (c *Controller) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		c.log.Debug().Err(err).Msg("configuration rejected")
		return err
	}
	c.cfg = cfg
	c.log.Debug().Int("full", cfg.FullTime).Bool("countdown", cfg.Countdown).Msg("reconfigured")
	c.updateProgress(clamp(c.curTime, cfg.FullTime), false)
	return nil
}

func (c *Controller) SetRing(r Ring) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.ring = &r
	return nil
}

func (c *Controller) SetAllowMoveForward(allow bool) {
	c.cfg.AllowMoveForward = allow
	c.invalidate()
}

func (c *Controller) SetAllowMoveBackward(allow bool) {
	c.cfg.AllowMoveBackward = allow
	c.invalidate()
}

func (c *Controller) SetCountdown(countdown bool) {
	c.cfg.Countdown = countdown
	c.invalidate()
}

// SetEnabled turns pointer input on or off.
func (c *Controller) SetEnabled(enabled bool) {
	c.cfg.Enabled = enabled
	c.invalidate()
}

// SetListener replaces the listener; nil removes it.
func (c *Controller) SetListener(l *Listener) {
	c.listener = l
}

func (c *Controller) Play() {
	if !c.playing {
		c.log.Debug().Int("cur", c.curTime).Int("full", c.cfg.FullTime).Msg("play started")
		c.listener.playStarted()
	}
	c.ticker.mark()
	c.playing = true
	c.invalidate()
}

func (c *Controller) Stop() {
	if c.playing && c.curTime < c.cfg.FullTime {
		c.log.Debug().Int("cur", c.curTime).Int("full", c.cfg.FullTime).Msg("play stopped")
		c.listener.playStopped()
	}
	c.playing = false
	c.invalidate()
}

// Toggle stops a running timer and starts a stopped one.
func (c *Controller) Toggle() {
	if c.playing {
		c.Stop()
	} else {
		c.Play()
	}
}

// Attach starts accepting host ticks.
func (c *Controller) Attach() {
	c.ticker.attach()
}

// Detach stops accepting host ticks. Tick reports false from now on so the
// host stops re-posting it.
func (c *Controller) Detach() {
	c.ticker.detach()
}

// Tick advances the controller by the wall-clock time since the previous
// tick. Hosts call it once per frame and schedule the next call only while
// it returns true.
func (c *Controller) Tick() bool {
	if !c.ticker.attached {
		return false
	}
	dt := c.ticker.delta()
	if c.playing && !c.Tracking() {
		c.advance(int(dt / time.Millisecond))
	}
	if c.anim.Step(dt) {
		c.invalidate()
	}
	return c.ticker.attached
}

func (c *Controller) advance(delta int) {
	next := c.curTime + delta
	if next < c.cfg.FullTime {
		c.updateProgress(next, false)
		return
	}
	c.updateProgress(c.cfg.FullTime, false)
	c.playing = false
	c.log.Debug().Int("full", c.cfg.FullTime).Msg("play finished")
	c.listener.playFinished()
	c.invalidate()
}

// Press starts a touch session. It reports whether the event was consumed.
func (c *Controller) Press(x, y float64) bool {
	if !c.cfg.Enabled {
		return false
	}
	c.endTouch()
	c.touch = newTouchSession(c.curTime)
	if c.ring != nil && c.ring.HitsArc(x, y) && (c.cfg.AllowMoveForward || c.cfg.AllowMoveBackward) {
		c.touch.state = TouchTracking
		c.log.Debug().Int("cur", c.curTime).Msg("tracking started")
		c.listener.startTrackingTouch()
	}
	c.invalidate()
	return true
}

// Move drags the progress while a tracking session is active.
func (c *Controller) Move(x, y float64) bool {
	if !c.cfg.Enabled {
		return false
	}
	if !c.Tracking() || c.ring == nil {
		return true
	}
	progress := PointToProgress(x, y, c.ring.CenterX, c.ring.CenterY, c.cfg.FullTime)
	c.updateProgress(progress, true)
	c.touch.updateCount++
	return true
}

// Release ends the touch session. A press and release inside the inner disc
// that never started tracking toggles play, unless the timer is at its end.
func (c *Controller) Release(x, y float64) bool {
	if !c.cfg.Enabled {
		return false
	}
	if c.touch != nil && c.touch.state == TouchPressedOutsideRing {
		if c.ring != nil && c.ring.HitsInner(x, y) && c.curTime < c.cfg.FullTime {
			c.Toggle()
		}
	}
	c.endTouch()
	return true
}

// Cancel ends the touch session without the tap gesture.
func (c *Controller) Cancel() bool {
	if !c.cfg.Enabled {
		return false
	}
	c.endTouch()
	return true
}

func (c *Controller) endTouch() {
	if c.touch == nil {
		return
	}
	tracking := c.Tracking()
	c.touch = nil
	if tracking {
		c.log.Debug().Int("cur", c.curTime).Msg("tracking stopped")
		c.listener.stopTrackingTouch()
	}
	c.invalidate()
}

// updateProgress commits a candidate progress. Drag updates are subject to
// the direction gates and the wraparound snap; clock updates are not.
func (c *Controller) updateProgress(progress int, fromUser bool) {
	if progress == InvalidProgress {
		return
	}
	if fromUser && c.touch != nil {
		if c.touch.blocked(progress, c.cfg.AllowMoveForward, c.cfg.AllowMoveBackward) {
			return
		}
		c.touch.record(c.curTime, progress)
		progress = c.touch.wrap(progress, c.cfg.FullTime)
	}

	c.curTime = clamp(progress, c.cfg.FullTime)
	c.realSweep = ProgressToSweep(c.curTime, c.cfg.FullTime)

	if fromUser {
		c.listener.timeChangedByUser(c.curTime)
	}
	c.anim.Retarget(c.realSweep, fromUser)
	c.invalidate()
}

func (c *Controller) invalidate() {
	if c.renderer != nil {
		c.renderer.Render(c.Snapshot())
	}
}
