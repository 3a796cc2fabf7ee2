package geolocation

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"presensi.client/internal/platform"
)

// User facing messages for failed location requests.
const (
	MsgPermissionDenied    = "Akses lokasi ditolak. Harap izinkan akses lokasi di browser Anda."
	MsgPositionUnavailable = "Informasi lokasi tidak tersedia."
	MsgTimeout             = "Waktu permintaan lokasi habis."
	MsgFailed              = "Gagal mendapatkan lokasi"
)

var (
	errNoRuntime = &platform.UnavailableError{
		Capability: "runtime",
		Message:    "geolocation is only available in an interactive client",
	}
	errNotSupported = &platform.UnavailableError{
		Capability: "geolocation",
		Message:    "geolocation is not supported on this device",
	}
)

// LocationError is returned by Store.GetCurrentPosition when the provider
// fails. Its message is the localized text also kept as the store error.
type LocationError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *LocationError) Error() string { return e.Message }

func (e *LocationError) Unwrap() error { return e.Err }

// Snapshot is a copy of the store state handed to subscribers.
type Snapshot struct {
	Position *Position
	Error    string
	Loading  bool
}

// Store tracks the last position, the last error and whether a request is
// in flight. Concurrent calls are not de-duplicated: each one issues its own
// provider request and the last to finish wins.
type Store struct {
	provider Provider
	runtime  platform.Runtime
	opts     Options

	mu       sync.RWMutex
	position *Position
	err      string
	loading  bool

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(Snapshot)
}

// NewStore builds a Store. A nil provider means the device has no location
// capability.
func NewStore(p Provider, rt platform.Runtime) *Store {
	return &Store{
		provider:    p,
		runtime:     rt,
		opts:        DefaultOptions,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// IsSupported reports whether GetCurrentPosition can reach a provider.
func (s *Store) IsSupported() bool {
	return s.runtime != nil && s.runtime.Interactive() && s.provider != nil
}

// GetCurrentPosition issues exactly one provider request. Without a runtime
// or provider it fails immediately with a *platform.UnavailableError and
// leaves the state untouched.
func (s *Store) GetCurrentPosition(ctx context.Context) (Position, error) {
	if s.runtime == nil || !s.runtime.Interactive() {
		return Position{}, errNoRuntime
	}
	if s.provider == nil {
		return Position{}, errNotSupported
	}

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()

	reqCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	pos, err := s.provider.CurrentPosition(reqCtx, s.opts)
	if err != nil {
		locErr := classify(err)

		s.mu.Lock()
		s.loading = false
		s.err = locErr.Message
		s.mu.Unlock()
		s.notify()

		log.Ctx(ctx).Warn().Err(err).Str("code", locErr.Code.String()).Msg("Location request failed")
		return Position{}, locErr
	}

	s.mu.Lock()
	s.position = &pos
	s.loading = false
	s.mu.Unlock()
	s.notify()

	return pos, nil
}

// ClearPosition forgets the last position and error. Loading is left alone.
func (s *Store) ClearPosition() {
	s.mu.Lock()
	s.position = nil
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Position() *Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.position == nil {
		return nil
	}
	p := *s.position
	return &p
}

func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Position: s.Position(), Error: s.Error(), Loading: s.Loading()}
}

// Subscribe registers fn for every state change and returns its cancel func.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	snap := s.Snapshot()

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func classify(err error) *LocationError {
	var posErr *PositionError
	if errors.As(err, &posErr) {
		switch posErr.Code {
		case PermissionDenied:
			return &LocationError{Code: PermissionDenied, Message: MsgPermissionDenied, Err: err}
		case PositionUnavailable:
			return &LocationError{Code: PositionUnavailable, Message: MsgPositionUnavailable, Err: err}
		case Timeout:
			return &LocationError{Code: Timeout, Message: MsgTimeout, Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &LocationError{Code: Timeout, Message: MsgTimeout, Err: err}
	}
	return &LocationError{Message: MsgFailed, Err: err}
}
