package resize

// FrameScheduler runs callbacks at the host's next paint opportunity.
// The returned cancel func drops the callback if it has not run yet.
type FrameScheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// Immediate runs every frame callback synchronously. It suits headless
// hosts that have no paint loop.
type Immediate struct{}

func (Immediate) RequestFrame(fn func()) func() {
	fn()
	return func() {}
}

// ManualFrames queues callbacks until Flush is called. Hosts with their own
// tick (a Bubble Tea program, a test) drive it.
type ManualFrames struct {
	queue []*frame
}

type frame struct {
	fn       func()
	canceled bool
}

func (m *ManualFrames) RequestFrame(fn func()) func() {
	f := &frame{fn: fn}
	m.queue = append(m.queue, f)
	return func() { f.canceled = true }
}

// Pending reports how many live callbacks are waiting.
func (m *ManualFrames) Pending() int {
	n := 0
	for _, f := range m.queue {
		if !f.canceled {
			n++
		}
	}
	return n
}

// Flush runs the queued callbacks and returns how many ran. Callbacks
// requested while flushing wait for the next Flush.
func (m *ManualFrames) Flush() int {
	queue := m.queue
	m.queue = nil
	ran := 0
	for _, f := range queue {
		if f.canceled {
			continue
		}
		f.canceled = true
		f.fn()
		ran++
	}
	return ran
}

// Suppressor applies a global pointer style for the length of a drag:
// text selection off and a directional cursor. The returned release func
// restores the previous style.
type Suppressor interface {
	Suppress(cursor string) (release func())
}

// SuppressorFunc adapts a function to Suppressor.
type SuppressorFunc func(cursor string) func()

func (f SuppressorFunc) Suppress(cursor string) func() { return f(cursor) }

type noSuppress struct{}

func (noSuppress) Suppress(string) func() { return func() {} }

// guard holds an acquired suppression and releases it at most once.
type guard struct {
	release func()
}

func acquire(s Suppressor, cursor string) *guard {
	release := s.Suppress(cursor)
	if release == nil {
		release = func() {}
	}
	return &guard{release: release}
}

func (g *guard) Release() {
	if g == nil || g.release == nil {
		return
	}
	release := g.release
	g.release = nil
	release()
}
