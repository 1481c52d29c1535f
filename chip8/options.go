package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// ShiftVariant selects how the nonstandard 8XY8 encoding behaves.
type ShiftVariant int

const (
	// ShiftStandard executes 8XY8 as the documented SHL: VF receives the
	// most significant bit of VX.
	ShiftStandard ShiftVariant = iota
	// ShiftNibbleFlag executes 8XY8 with VF set when the low nibble of VX
	// is non-zero, as seen in some interpreters.
	ShiftNibbleFlag
)

func (s ShiftVariant) String() string {
	switch s {
	case ShiftStandard:
		return "standard"
	case ShiftNibbleFlag:
		return "nibble-flag"
	default:
		return "unknown"
	}
}

// Option configures a machine created by New.
type Option func(*options)

type options struct {
	width, height int
	random        func() uint8
	shiftVariant  ShiftVariant
	logger        *log.Logger
}

func defaultOptions() options {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel
	return options{
		width:  DefaultScreenWidth,
		height: DefaultScreenHeight,
		random: defaultRandom,
		logger: log.NewWithConfig(cfg),
	}
}

// WithScreenSize overrides the framebuffer dimensions. Non-positive values
// keep the default.
func WithScreenSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// WithRandom sets the byte source used by CXNN.
func WithRandom(fn func() uint8) Option {
	return func(o *options) {
		if fn != nil {
			o.random = fn
		}
	}
}

// WithShiftVariant sets the behaviour of 8XY8.
func WithShiftVariant(v ShiftVariant) Option {
	return func(o *options) {
		o.shiftVariant = v
	}
}

// WithLogger sets the logger used for diagnostics and traces.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
