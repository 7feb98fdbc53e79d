package scroll

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Direction is the way text moves across the display.
type Direction uint8

const (
	ScrollLeft Direction = iota
	ScrollRight
)

func (d Direction) String() string {
	switch d {
	case ScrollLeft:
		return "left"
	case ScrollRight:
		return "right"
	}
	return "unknown"
}

// Sequence is an encoded text animation owned by an Engine.
type Sequence interface {
	Frames() int
}

// Engine renders text into an animation buffer and plays it without blocking.
// Calls are made in the order TextFont, BeginText, Print, EndTextAnimation,
// LoadTextAnimationSequence, Play.
type Engine interface {
	// Width is the display width in pixel columns.
	Width() int16
	TextFont(f Font)
	BeginText(x, y int16, c color.RGBA)
	Print(text string)
	EndTextAnimation(dir Direction) (Sequence, error)
	LoadTextAnimationSequence(seq Sequence) error
	Play() error
}

// Font describes a monospace character cell. Face may be nil for engines that
// draw characters natively, such as character LCDs.
type Font struct {
	Face   tinyfont.Fonter
	Width  int16 // pixel columns per character
	Ascent int16 // rows from the top of the cell to the baseline
}

// FixedFont builds a cell wide enough for every printable ASCII glyph of
// face. Proportional faces are laid out on that grid by the engine.
func FixedFont(face tinyfont.Fonter, ascent int16) Font {
	var w uint8
	for r := rune(' '); r <= '~'; r++ {
		w = max(w, face.GetGlyph(r).Info().XAdvance)
	}
	return Font{Face: face, Width: int16(w), Ascent: ascent}
}

// Style is where and how chunks are drawn.
type Style struct {
	Font      Font
	X, Y      int16
	Color     color.RGBA
	Direction Direction
}

// DefaultStyle scrolls white text left from column 0, row 1.
func DefaultStyle(f Font) Style {
	return Style{
		Font:  f,
		X:     0,
		Y:     1,
		Color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// Show hands the chunk text to e and starts playback. Engine errors are
// returned unchanged.
func (c *Chunk) Show(e Engine, s Style) error {
	e.TextFont(s.Font)
	e.BeginText(s.X, s.Y, s.Color)
	e.Print(c.text)
	seq, err := e.EndTextAnimation(s.Direction)
	if err != nil {
		return err
	}
	if err := e.LoadTextAnimationSequence(seq); err != nil {
		return err
	}
	return e.Play()
}
