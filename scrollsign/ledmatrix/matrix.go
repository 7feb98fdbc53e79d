// Package ledmatrix plays scrolling text animations on a monochrome LED
// matrix.
//
// Text is rendered once with tinyfont into a fixed-size column buffer (a
// Sequence), one Font.Width cell per character. Playback is non-blocking: the caller's main loop calls Tick and
// the matrix draws at most one frame per interval, calling the OnSequenceDone
// callback after the last one. Any drivers.Displayer can serve as the panel.
//
//	m, err := ledmatrix.New(display, ledmatrix.Config{MaxFrames: 96})
//	...
//	for {
//		m.Tick(time.Now())
//		time.Sleep(time.Millisecond)
//	}
package ledmatrix

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/picoscroll/scroll"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	DefaultMaxFrames     = 96
	DefaultFrameInterval = 100 * time.Millisecond
	maxRows              = 32 // one uint32 per buffer column
)

var (
	ErrTooTall         = errors.New("ledmatrix: display taller than 32 rows")
	ErrNoFont          = errors.New("ledmatrix: no font face set")
	ErrNoSequence      = errors.New("ledmatrix: no sequence loaded")
	ErrForeignSequence = errors.New("ledmatrix: sequence not produced by this matrix")
)

// Config configures a Matrix. Zero fields take defaults.
type Config struct {
	// MaxFrames is the number of scroll steps one sequence can hold.
	MaxFrames int
	// FrameInterval is the time each frame stays on the panel.
	FrameInterval time.Duration
	// Logger for playback events.
	Logger *slog.Logger
}

// Matrix is a text animation engine for a pixel display. It implements
// scroll.Engine.
type Matrix struct {
	dev           drivers.Displayer
	width, height int16

	font  scroll.Font
	x, y  int16
	color color.RGBA
	text  string

	seq      Sequence // the single animation buffer
	loaded   *Sequence
	frame    int
	playing  bool
	interval time.Duration
	last     time.Time
	onDone   func()
	log      *slog.Logger
}

var _ scroll.Engine = (*Matrix)(nil)

// New returns a Matrix drawing on dev.
func New(dev drivers.Displayer, cfg Config) (*Matrix, error) {
	w, h := dev.Size()
	if h > maxRows {
		return nil, ErrTooTall
	}
	if cfg.MaxFrames < 1 {
		cfg.MaxFrames = DefaultMaxFrames
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Matrix{
		dev:    dev,
		width:  w,
		height: h,
		seq: Sequence{
			cols:      make([]uint32, cfg.MaxFrames+int(w)),
			maxFrames: cfg.MaxFrames,
			height:    h,
		},
		interval: cfg.FrameInterval,
		log:      logger,
	}, nil
}

// Width returns the panel width in pixels.
func (m *Matrix) Width() int16 { return m.width }

// MaxFrames returns the scroll steps one sequence holds, which is the number
// of pixel columns a chunk may scroll.
func (m *Matrix) MaxFrames() int { return m.seq.maxFrames }

func (m *Matrix) TextFont(f scroll.Font) { m.font = f }

// BeginText starts a new text at column x with the top of the character cell
// on row y.
func (m *Matrix) BeginText(x, y int16, c color.RGBA) {
	m.x, m.y, m.color = x, y, c
	m.text = ""
}

func (m *Matrix) Print(text string) { m.text += text }

// EndTextAnimation renders the text into the animation buffer and returns it.
// Each rune gets one Font.Width cell, whatever its glyph advance, so a chunk
// scrolls exactly as many columns as its characters occupy. A text wider than
// the buffer is clipped to the whole cells that fit in MaxFrames.
func (m *Matrix) EndTextAnimation(dir scroll.Direction) (scroll.Sequence, error) {
	if m.font.Face == nil {
		return nil, ErrNoFont
	}
	if m.font.Width < 1 {
		return nil, scroll.ErrFontWidth
	}
	if m.loaded == &m.seq && m.playing {
		m.Stop()
	}
	m.seq.reset()
	m.seq.dir = dir
	m.seq.color = m.color

	on := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	x := int(m.x)
	for _, r := range m.text {
		if x < len(m.seq.cols) {
			tinyfont.DrawChar(&m.seq, m.font.Face, int16(x), m.y+m.font.Ascent, r, on)
		}
		x += int(m.font.Width)
	}
	limit := m.seq.maxFrames
	if cells := limit - limit%int(m.font.Width); cells > 0 {
		limit = cells
	}
	m.seq.frames = max(0, min(x, limit))
	return &m.seq, nil
}

// LoadTextAnimationSequence selects seq for the next Play. seq must come from
// EndTextAnimation on m.
func (m *Matrix) LoadTextAnimationSequence(seq scroll.Sequence) error {
	s, ok := seq.(*Sequence)
	if !ok || s != &m.seq {
		return ErrForeignSequence
	}
	m.loaded = s
	m.log.Debug("ledmatrix:load", slog.Int("frames", s.frames), slog.String("dir", s.dir.String()))
	return nil
}

// Play starts the loaded sequence. It returns immediately; frames are drawn
// by Tick.
func (m *Matrix) Play() error {
	if m.loaded == nil {
		return ErrNoSequence
	}
	m.frame = 0
	m.playing = true
	m.last = time.Time{}
	return nil
}

// Stop halts playback without calling the completion callback.
func (m *Matrix) Stop() { m.playing = false }

func (m *Matrix) Playing() bool { return m.playing }

// OnSequenceDone registers fn to run after the last frame of a sequence has
// been shown. fn may start the next sequence.
func (m *Matrix) OnSequenceDone(fn func()) { m.onDone = fn }

// SetFrameInterval changes the scroll speed, taking effect on the next frame.
func (m *Matrix) SetFrameInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Tick advances playback to now. It draws the next frame once the frame
// interval has passed since the previous one.
func (m *Matrix) Tick(now time.Time) error {
	if !m.playing {
		return nil
	}
	if !m.last.IsZero() && now.Sub(m.last) < m.interval {
		return nil
	}
	m.last = now
	if m.frame >= m.loaded.frames {
		m.playing = false
		if m.onDone != nil {
			m.onDone()
		}
		return nil
	}
	if err := m.draw(m.loaded.window(m.frame)); err != nil {
		m.playing = false
		return errors.New("draw frame: " + err.Error())
	}
	m.frame++
	return nil
}

// Clear blanks the panel.
func (m *Matrix) Clear() error {
	for x := int16(0); x < m.width; x++ {
		for y := int16(0); y < m.height; y++ {
			m.dev.SetPixel(x, y, color.RGBA{})
		}
	}
	return m.dev.Display()
}

// draw shows buffer columns [start, start+width) on the panel.
func (m *Matrix) draw(start int) error {
	cols := m.loaded.cols
	for x := int16(0); x < m.width; x++ {
		var bits uint32
		if i := start + int(x); i >= 0 && i < len(cols) {
			bits = cols[i]
		}
		for y := int16(0); y < m.height; y++ {
			c := color.RGBA{}
			if bits&(1<<y) != 0 {
				c = m.loaded.color
			}
			m.dev.SetPixel(x, y, c)
		}
	}
	return m.dev.Display()
}
