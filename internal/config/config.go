// Package config holds the frontend options and logger setup.
package config

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

const (
	DefaultClockHz  = 60 * 8
	DefaultScale    = 10
	VBlankFrequency = 60
)

// Options configures the emulator frontend.
type Options struct {
	ROM        string
	StepMode   bool
	ClockHz    int
	Scale      int
	Debug      bool
	Quiet      bool
	NibbleFlag bool // run 8XY8 with the low-nibble carry flag

	Disassemble bool
}

// Defaults returns the options used when no flags are given.
func Defaults() Options {
	return Options{
		ClockHz: DefaultClockHz,
		Scale:   DefaultScale,
	}
}

// Validate checks the options for values the frontend cannot run with.
func (o Options) Validate() error {
	if o.ROM == "" {
		return errors.New("no ROM file given")
	}
	if o.ClockHz < VBlankFrequency {
		return fmt.Errorf("clock must be at least %d Hz, got %d", VBlankFrequency, o.ClockHz)
	}
	if o.Scale < 1 {
		return fmt.Errorf("scale must be positive, got %d", o.Scale)
	}
	return nil
}

// CreateLogger returns the logger shared by the frontend and the machine.
// Debug mode shows every stepped instruction and the screen dump on a halt;
// quiet mode keeps only halts and load failures. Debug wins over quiet.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
