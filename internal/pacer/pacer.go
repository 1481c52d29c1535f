// Package pacer splits an instruction clock into per-frame batches.
package pacer

// Pacer hands out how many instructions to execute each frame so that the
// long-run rate matches the clock even when it is not a multiple of the
// frame rate.
type Pacer struct {
	clockHz   int
	frameHz   int
	remainder int
}

// New returns a pacer for clockHz instructions per second at frameHz frames
// per second.
func New(clockHz, frameHz int) *Pacer {
	if frameHz < 1 {
		frameHz = 1
	}
	if clockHz < 0 {
		clockHz = 0
	}
	return &Pacer{clockHz: clockHz, frameHz: frameHz}
}

// Frame returns the instruction budget of the next frame.
func (p *Pacer) Frame() int {
	total := p.clockHz + p.remainder
	n := total / p.frameHz
	p.remainder = total % p.frameHz
	return n
}

// Reset drops any carried remainder.
func (p *Pacer) Reset() {
	p.remainder = 0
}
