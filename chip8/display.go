package chip8

const (
	DefaultScreenWidth  = 64
	DefaultScreenHeight = 32
)

// Framebuffer is the monochrome screen. Callers only get read access; the
// machine mutates it through CLS and DRW.
type Framebuffer struct {
	width, height int
	pixels        []bool
}

// NewFramebuffer returns a cleared framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]bool, width*height),
	}
}

func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

// Pixel returns the pixel at (x, y). Coordinates wrap around the screen.
func (f *Framebuffer) Pixel(x, y int) bool {
	return f.pixels[f.offset(x, y)]
}

// Pixels returns a row-major copy of the screen.
func (f *Framebuffer) Pixels() []bool {
	out := make([]bool, len(f.pixels))
	copy(out, f.pixels)
	return out
}

// String renders the screen as rows of '#' and '.', handy in tests and logs.
func (f *Framebuffer) String() string {
	b := make([]byte, 0, (f.width+1)*f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.pixels[y*f.width+x] {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

func (f *Framebuffer) offset(x, y int) int {
	x %= f.width
	if x < 0 {
		x += f.width
	}
	y %= f.height
	if y < 0 {
		y += f.height
	}
	return y*f.width + x
}

func (f *Framebuffer) clear() {
	for i := range f.pixels {
		f.pixels[i] = false
	}
}

// draw XORs an 8-pixel wide sprite onto the screen at (x, y), wrapping at
// the edges, and reports whether any set pixel was turned off.
func (f *Framebuffer) draw(x, y int, sprite []uint8) bool {
	collision := false
	for row, line := range sprite {
		for col := 0; col < 8; col++ {
			if (line>>(7-col))&0x01 == 0 {
				continue
			}
			o := f.offset(x+col, y+row)
			if f.pixels[o] {
				collision = true
			}
			f.pixels[o] = !f.pixels[o]
		}
	}
	return collision
}
