package decoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"
)

var (
	// ErrCameraUnavailable wraps every failure to acquire or keep a camera
	// stream: no device, permission denied, missing ffmpeg, no first frame.
	ErrCameraUnavailable = errors.New("camera unavailable")
	// ErrNoBarcode is returned by a Recognizer when a frame holds no readable
	// barcode.
	ErrNoBarcode = errors.New("no barcode in frame")
	// ErrSessionUsed is returned by Open on a session that was already opened
	// or closed. Sessions are single use.
	ErrSessionUsed = errors.New("scanner session already used")
)

// FrameSource acquires camera streams.
type FrameSource interface {
	// Open returns once the first frame is available or ctx is done. The
	// returned stream lives until its Close is called.
	Open(ctx context.Context) (Stream, error)
}

// Stream yields frames until closed. Close must be idempotent and must unblock
// a pending Frame call.
type Stream interface {
	Frame() (image.Image, error)
	Close() error
}

// Recognizer finds a barcode in a single frame, returning ErrNoBarcode on a
// miss.
type Recognizer interface {
	Recognize(img image.Image) (string, error)
}

// Scanner is the lifecycle the UI drives for one scan.
type Scanner interface {
	Open(ctx context.Context) error
	Events() <-chan Event
	Close() error
}

var _ Scanner = (*Session)(nil)

// State is a session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateScanning
	StateDecoded
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateScanning:
		return "scanning"
	case StateDecoded:
		return "decoded"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventKind identifies a session event.
type EventKind int

const (
	// EventDecoded carries the recognized barcode text.
	EventDecoded EventKind = iota + 1
	// EventStopped reports that the stream ended on its own; Err says why.
	EventStopped
)

// Event is emitted on the session's Events channel. A session emits at most
// one event.
type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// Options tune a Session. Zero values use the defaults.
type Options struct {
	// Interval is the minimum gap between sampled frames.
	Interval time.Duration
	// OpenTimeout bounds the wait for the first frame.
	OpenTimeout time.Duration
}

const (
	defaultInterval    = 100 * time.Millisecond
	defaultOpenTimeout = 5 * time.Second
)

// Session owns one camera stream for one scan. It moves through
// Idle → Opening → Scanning and ends in Decoded, Closed or Failed.
type Session struct {
	source      FrameSource
	recognizer  Recognizer
	interval    time.Duration
	openTimeout time.Duration

	mu     sync.Mutex
	state  State
	closed bool
	stream Stream
	cancel context.CancelFunc
	done   chan struct{}

	events     chan Event
	eventsOnce sync.Once
}

// NewSession builds an idle session.
func NewSession(source FrameSource, recognizer Recognizer, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = defaultOpenTimeout
	}
	return &Session{
		source:      source,
		recognizer:  recognizer,
		interval:    opts.Interval,
		openTimeout: opts.OpenTimeout,
		events:      make(chan Event, 1),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Events returns the channel decode results arrive on. It is closed when the
// session stops sampling.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Open acquires the camera and starts sampling. Failures to acquire the
// stream match ErrCameraUnavailable.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle || s.closed {
		s.mu.Unlock()
		return ErrSessionUsed
	}
	s.state = StateOpening
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	openCtx, openCancel := context.WithTimeout(runCtx, s.openTimeout)
	stream, err := s.source.Open(openCtx)
	openCancel()

	s.mu.Lock()
	if s.closed {
		// Close ran while the camera was being acquired.
		s.mu.Unlock()
		if stream != nil {
			_ = stream.Close()
		}
		cancel()
		s.closeEvents()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
		}
		return context.Canceled
	}
	if err != nil {
		s.state = StateFailed
		s.mu.Unlock()
		cancel()
		s.closeEvents()
		return fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
	}
	s.state = StateScanning
	s.stream = stream
	s.done = make(chan struct{})
	s.mu.Unlock()

	stop := context.AfterFunc(runCtx, func() { _ = stream.Close() })
	go func() {
		defer stop()
		s.run(runCtx, stream)
	}()
	return nil
}

func (s *Session) run(ctx context.Context, stream Stream) {
	defer close(s.done)
	defer s.closeEvents()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		img, err := stream.Frame()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.finish(StateFailed, Event{Kind: EventStopped, Err: fmt.Errorf("%w: %w", ErrCameraUnavailable, err)})
			return
		}

		text, err := s.recognizer.Recognize(img)
		switch {
		case err == nil && text != "":
			s.finish(StateDecoded, Event{Kind: EventDecoded, Text: text})
			return
		case err != nil && !errors.Is(err, ErrNoBarcode):
			log.Printf("scanner: recognize frame: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// finish moves a scanning session to a terminal state and emits ev, unless
// Close got there first.
func (s *Session) finish(to State, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateScanning {
		return
	}
	s.state = to
	s.events <- ev
}

// Close stops sampling and releases the camera. It is idempotent and safe on
// a session that was never opened. Once Close returns no event is pending on
// Events.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	switch s.state {
	case StateIdle, StateOpening, StateScanning:
		s.state = StateClosed
	}
	cancel := s.cancel
	stream := s.stream
	done := s.done
	s.stream = nil
	idle := s.cancel == nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var err error
	if stream != nil {
		if cerr := stream.Close(); cerr != nil {
			err = fmt.Errorf("release camera: %w", cerr)
		}
	}
	if done != nil {
		<-done
		for range s.events {
		}
	}
	if idle {
		s.closeEvents()
	}
	return err
}

func (s *Session) closeEvents() {
	s.eventsOnce.Do(func() { close(s.events) })
}
