package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/faiface/mainthread"
	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8vm/chip8"
	"github.com/tuboc/chip8vm/emulator"
	"github.com/tuboc/chip8vm/internal/config"
)

func main() {
	opts := config.Defaults()
	flag.StringVar(&opts.ROM, "f", "", "chip8 image file path")
	flag.BoolVar(&opts.StepMode, "s", false, "start with stepMode")
	flag.IntVar(&opts.ClockHz, "hz", opts.ClockHz, "instructions executed per second")
	flag.IntVar(&opts.Scale, "scale", opts.Scale, "window pixels per chip8 pixel")
	flag.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flag.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flag.BoolVar(&opts.NibbleFlag, "shift8", false, "run 8XY8 with the low-nibble carry flag")
	flag.BoolVar(&opts.Disassemble, "d", false, "print the disassembled ROM and exit")
	flag.Parse()

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := opts.Validate(); err != nil {
		flag.Usage()
		logger.Fatal(err.Error())
	}

	if opts.Disassemble {
		if err := disassemble(opts.ROM); err != nil {
			logger.Fatal(err.Error())
		}
		return
	}

	code := 0
	mainthread.Run(func() {
		if err := run(opts, logger); err != nil {
			logger.Error("Emulation stopped", log.Err(err))
			code = 1
		}
	})
	os.Exit(code)
}

func run(opts config.Options, logger *log.Logger) error {
	rom, err := os.ReadFile(opts.ROM)
	if err != nil {
		return err
	}

	emu, err := emulator.New(rom, opts, logger)
	if err != nil {
		return err
	}
	defer emu.Close()

	logger.Info("Running ROM",
		log.String("file", opts.ROM),
		log.Int("size", len(rom)),
		log.Int("clock_hz", opts.ClockHz))
	return emu.Run()
}

func disassemble(path string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(rom) > chip8.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes", chip8.ErrProgramTooLarge, len(rom))
	}
	for _, line := range chip8.Disassemble(rom) {
		fmt.Println(line)
	}
	return nil
}
