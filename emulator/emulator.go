// Package emulator drives a chip8.Chip8 from an SDL window: it paces
// instructions and timers, renders the framebuffer and feeds keyboard input.
package emulator

import (
	"fmt"
	"time"

	"github.com/faiface/mainthread"
	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8vm/chip8"
	"github.com/tuboc/chip8vm/internal/config"
	"github.com/tuboc/chip8vm/internal/pacer"
	"github.com/veandco/go-sdl2/sdl"
)

type Emulator struct {
	rom      []byte
	chip8    *chip8.Chip8
	pacer    *pacer.Pacer
	logger   *log.Logger
	window   *sdl.Window
	renderer *sdl.Renderer
	scale    int32
	running  bool
	focus    bool
	stepMode bool
}

// New creates the machine, loads the ROM and opens the window. It must be
// called from within mainthread.Run.
func New(rom []byte, opts config.Options, logger *log.Logger) (*Emulator, error) {
	shift := chip8.ShiftStandard
	if opts.NibbleFlag {
		shift = chip8.ShiftNibbleFlag
	}
	c := chip8.New(chip8.WithLogger(logger), chip8.WithShiftVariant(shift))
	if err := c.LoadProgram(rom); err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	e := &Emulator{
		rom:      rom,
		chip8:    c,
		pacer:    pacer.New(opts.ClockHz, config.VBlankFrequency),
		logger:   logger,
		scale:    int32(opts.Scale),
		running:  true,
		focus:    true,
		stepMode: opts.StepMode,
	}

	if err := mainthread.CallErr(e.initWindow); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Emulator) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}

	fb := e.chip8.Framebuffer()
	w := int32(fb.Width()) * e.scale
	h := int32(fb.Height()) * e.scale
	window, err := sdl.CreateWindow("Chip-8 Emulator", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		return fmt.Errorf("creating renderer: %w", err)
	}

	e.window = window
	e.renderer = renderer
	return nil
}

// Close releases the SDL resources.
func (e *Emulator) Close() {
	mainthread.Call(func() {
		if e.renderer != nil {
			_ = e.renderer.Destroy()
		}
		if e.window != nil {
			_ = e.window.Destroy()
		}
		sdl.Quit()
	})
}

// Run executes the ROM until the window is closed or the machine halts.
func (e *Emulator) Run() error {
	ticker := time.NewTicker(time.Second / config.VBlankFrequency)
	defer ticker.Stop()

	for e.running {
		if e.focus && !e.stepMode {
			if err := e.runFrame(); err != nil {
				e.dumpState()
				return err
			}
		}

		mainthread.Call(e.draw)
		mainthread.Call(e.pollEvents)
		<-ticker.C
	}
	return nil
}

func (e *Emulator) runFrame() error {
	for n := e.pacer.Frame(); n > 0; n-- {
		if err := e.chip8.Execute(); err != nil {
			return err
		}
		if e.chip8.WaitingForKey() {
			break
		}
	}
	e.chip8.TickTimers()
	return nil
}

// dumpState logs the trace leading up to a halt and the screen at that point.
func (e *Emulator) dumpState() {
	if err := e.chip8.Halted(); err != nil {
		e.logger.Error("Machine state at halt",
			log.Err(err),
			log.Hex("pc", e.chip8.ProgramCounter()),
			log.Hex("i", e.chip8.Index()),
			log.Int("stack", e.chip8.StackDepth()))
	}
	for _, line := range e.chip8.History() {
		e.logger.Error("Trace", log.String("instruction", line))
	}
	e.logger.Debug("Screen\n" + e.chip8.Framebuffer().String())
}

func (e *Emulator) step() error {
	pc := e.chip8.ProgramCounter()
	if err := e.chip8.Step(); err != nil {
		return err
	}
	e.logger.Debug("Step",
		log.Hex("pc", pc),
		log.String("instruction", chip8.Decode(e.chip8.CurrentOpcode()).String()),
		log.Hex("i", e.chip8.Index()),
		log.String("mem_i", fmt.Sprintf("% X", e.chip8.ReadMemory(e.chip8.Index(), 4))),
		log.Hex("keys", e.chip8.Keypad().Snapshot()),
		log.Hex("next", e.chip8.ProgramCounter()))
	return nil
}

func (e *Emulator) reset() {
	e.chip8.Reset()
	e.pacer.Reset()
	if err := e.chip8.LoadProgram(e.rom); err != nil {
		e.logger.Error("Reloading ROM failed", log.Err(err))
		e.running = false
	}
}

func (e *Emulator) draw() {
	e.renderer.SetDrawColor(0, 0, 0, 255)
	e.renderer.Clear()

	fb := e.chip8.Framebuffer()
	e.renderer.SetDrawColor(0, 255, 0, 255)
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if fb.Pixel(x, y) {
				e.renderer.FillRect(&sdl.Rect{X: int32(x) * e.scale, Y: int32(y) * e.scale, W: e.scale, H: e.scale})
			}
		}
	}

	e.renderer.Present()
}

func (e *Emulator) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			e.running = false
		case *sdl.KeyboardEvent:
			e.handleKey(ev)
		case *sdl.WindowEvent:
			switch ev.Event {
			case sdl.WINDOWEVENT_FOCUS_LOST:
				e.focus = false
				e.chip8.Keypad().ReleaseAll()
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				e.focus = true
			}
		}
	}
}

func (e *Emulator) handleKey(ev *sdl.KeyboardEvent) {
	code := ev.Keysym.Scancode
	key, mapped := scanCode2Key[code]

	if ev.Type == sdl.KEYUP {
		if mapped {
			e.chip8.SetKeyUp(key)
		}
		return
	}
	if mapped {
		e.chip8.SetKeyDown(key)
		return
	}

	switch code {
	case sdl.SCANCODE_SPACE:
		if !e.stepMode {
			e.stepMode = true
			return
		}
		if err := e.step(); err != nil {
			e.dumpState()
			e.logger.Error("Step failed", log.Err(err))
			if chip8.IsFatal(err) {
				e.running = false
			}
		}
	case sdl.SCANCODE_RETURN:
		e.stepMode = false
	case sdl.SCANCODE_Z:
		e.reset()
	case sdl.SCANCODE_ESCAPE:
		e.running = false
	}
}
