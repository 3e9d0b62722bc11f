package status

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// Phase is a single bootstrap phase bit.
type Phase uint64

const (
	// InternalMessages is set once the message catalog is loaded.
	InternalMessages Phase = 0x1
	// GlobalConfig is set once the global configuration is loaded.
	GlobalConfig Phase = 0x2
	// MainConfigs is set once every main configuration is loaded.
	MainConfigs Phase = 0x8
)

// Unset is the token character for a phase whose bit is clear.
const Unset = '*'

var phases = []Phase{InternalMessages, GlobalConfig, MainConfigs}

// Phases returns every tracked phase in token order.
func Phases() []Phase {
	return append([]Phase(nil), phases...)
}

// Code returns the phase's token character.
func (p Phase) Code() rune {
	switch p {
	case InternalMessages:
		return 'I'
	case GlobalConfig:
		return 'G'
	case MainConfigs:
		return 'C'
	default:
		return '?'
	}
}

func (p Phase) String() string {
	switch p {
	case InternalMessages:
		return "internal-messages"
	case GlobalConfig:
		return "global-config"
	case MainConfigs:
		return "main-configs"
	default:
		return fmt.Sprintf("phase(%#x)", uint64(p))
	}
}

// Owner is the component whose bootstrap is tracked.
type Owner interface {
	ID() string
	Logger() *zap.Logger
}

// Option configures a Status.
type Option func(*Status)

// WithRollback sets the function OnFatalError calls to release partially
// initialized state.
func WithRollback(fn func()) Option {
	return func(s *Status) {
		s.rollback = fn
	}
}

// Status holds the phase bits and the error flag. All methods are safe for
// concurrent use.
type Status struct {
	bits     atomic.Uint64
	errored  atomic.Bool
	rollback func()
}

// New returns a Status with no phase set and not errored.
func New(opts ...Option) *Status {
	s := &Status{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPhase sets or clears p. Setting a bit that is already set is a no-op.
func (s *Status) SetPhase(p Phase, set bool) {
	if set {
		s.bits.Or(uint64(p))
		return
	}
	s.bits.And(^uint64(p))
}

// IsPhaseSet reports whether p is set.
func (s *Status) IsPhaseSet(p Phase) bool {
	return s.bits.Load()&uint64(p) != 0
}

// Bits returns the raw phase bits.
func (s *Status) Bits() uint64 {
	return s.bits.Load()
}

// SetErrored sets or clears the error flag.
func (s *Status) SetErrored(errored bool) {
	s.errored.Store(errored)
}

// IsErrored reports whether bootstrap has failed.
func (s *Status) IsErrored() bool {
	return s.errored.Load()
}

// Token renders the phase bits as one character per phase, in Phases order,
// using Unset for clear bits.
func (s *Status) Token() string {
	bits := s.bits.Load()

	var b strings.Builder
	for _, p := range phases {
		if bits&uint64(p) != 0 {
			b.WriteRune(p.Code())
		} else {
			b.WriteRune(Unset)
		}
	}
	return b.String()
}

// Reset clears every phase bit and the error flag.
func (s *Status) Reset() {
	s.bits.Store(0)
	s.errored.Store(false)
}

// OnFatalError logs cause with the status token and runs the rollback
// function. It does nothing unless the error flag is set.
func (s *Status) OnFatalError(owner Owner, cause error) {
	if !s.IsErrored() {
		return
	}

	id := "unknown"
	logger := zap.NewNop()
	if owner != nil {
		id = owner.ID()
		if l := owner.Logger(); l != nil {
			logger = l
		}
	}

	fields := []zap.Field{zap.String("status", s.Token())}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	logger.Error(fmt.Sprintf("A fatal error occurred. %s will now become ineffective.", id), fields...)

	s.runRollback(logger)
}

func (s *Status) runRollback(logger *zap.Logger) {
	if s.rollback == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("rollback panicked", zap.Any("panic", r))
		}
	}()
	s.rollback()
}
