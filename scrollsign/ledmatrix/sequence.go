package ledmatrix

import (
	"image/color"

	"github.com/harveysanders/picoscroll/scroll"
)

// Sequence is a rendered text animation: a strip of pixel columns and the
// number of scroll steps to play over it. It implements drivers.Displayer so
// tinyfont can draw straight into it.
type Sequence struct {
	cols      []uint32 // bit y set when row y is lit
	frames    int
	maxFrames int
	height    int16
	dir       scroll.Direction
	color     color.RGBA
}

// Frames returns the number of frames the sequence plays.
func (s *Sequence) Frames() int { return s.frames }

func (s *Sequence) Size() (x, y int16) { return int16(len(s.cols)), s.height }

func (s *Sequence) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || int(x) >= len(s.cols) || y < 0 || y >= s.height {
		return
	}
	if c.R|c.G|c.B == 0 {
		s.cols[x] &^= 1 << y
		return
	}
	s.cols[x] |= 1 << y
}

func (s *Sequence) Display() error { return nil }

func (s *Sequence) reset() {
	clear(s.cols)
	s.frames = 0
}

// window returns the first buffer column shown by frame.
func (s *Sequence) window(frame int) int {
	if s.dir == scroll.ScrollRight {
		return s.frames - 1 - frame
	}
	return frame
}
