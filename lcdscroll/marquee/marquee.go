// Package marquee scrolls text across one row of a character LCD such as the
// HD44780. It implements scroll.Engine with one pixel column per character,
// so message chains built with scroll.SplitFor(msg, m, m.MaxFrames(), CellFont)
// play back seamlessly.
//
// Example usage:
//
//	dev := hd44780i2c.New(machine.I2C0, 0x27)
//	dev.Configure(hd44780i2c.Config{Width: 16, Height: 2})
//	m := marquee.New(&dev, marquee.Config{Columns: 16})
//	player := scroll.NewPlayer(m, scroll.DefaultStyle(marquee.CellFont), logger)
//	m.OnSequenceDone(func() { player.Next() })
//	player.Start(head)
//	for {
//		m.Tick(time.Now())
//	}
package marquee

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/picoscroll/scroll"
)

const (
	DefaultColumns       = 16
	DefaultMaxFrames     = 32
	DefaultFrameInterval = 300 * time.Millisecond
)

var (
	ErrNoSequence      = errors.New("marquee: no sequence loaded")
	ErrForeignSequence = errors.New("marquee: sequence not produced by this marquee")
)

// CellFont describes the LCD's built-in character cells.
var CellFont = scroll.Font{Width: 1, Ascent: 0}

// Device is the subset of hd44780i2c.Device used to draw.
type Device interface {
	ClearDisplay()
	SetCursor(col, row uint8)
	Print(data []byte)
}

type Config struct {
	Columns       int
	MaxFrames     int
	FrameInterval time.Duration
	Logger        *slog.Logger
}

// Marquee is a text animation engine for a character LCD.
type Marquee struct {
	device  Device
	columns int

	x    int16
	row  uint8
	text string

	seq      Sequence
	loaded   *Sequence
	frame    int
	playing  bool
	interval time.Duration
	last     time.Time
	onDone   func()
	logger   *slog.Logger
}

var _ scroll.Engine = (*Marquee)(nil)

// New creates a marquee on device. Zero config fields take defaults.
func New(device Device, cfg Config) *Marquee {
	if cfg.Columns < 1 {
		cfg.Columns = DefaultColumns
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
	return &Marquee{
		device:  device,
		columns: cfg.Columns,
		seq: Sequence{
			buf:       make([]byte, cfg.MaxFrames+cfg.Columns),
			maxFrames: cfg.MaxFrames,
		},
		interval: cfg.FrameInterval,
		logger:   logger,
	}
}

// Width returns the number of LCD columns.
func (m *Marquee) Width() int16 { return int16(m.columns) }

func (m *Marquee) MaxFrames() int { return m.seq.maxFrames }

// TextFont is a no-op; the LCD draws its own characters.
func (m *Marquee) TextFont(scroll.Font) {}

// BeginText starts a text at column x on row y. The colour is ignored.
func (m *Marquee) BeginText(x, y int16, _ color.RGBA) {
	m.x = max(x, 0)
	m.row = uint8(max(y, 0))
	m.text = ""
}

func (m *Marquee) Print(text string) { m.text += text }

// EndTextAnimation writes the text into the animation buffer. Characters
// outside the LCD's ASCII range are shown as '?'.
func (m *Marquee) EndTextAnimation(dir scroll.Direction) (scroll.Sequence, error) {
	m.seq.reset()
	m.seq.dir = dir
	i := int(m.x)
	for _, r := range m.text {
		if i < len(m.seq.buf) {
			if r > 0x7e {
				r = '?'
			}
			m.seq.buf[i] = byte(r)
		}
		i++
	}
	m.seq.frames = min(i, m.seq.maxFrames)
	return &m.seq, nil
}

func (m *Marquee) LoadTextAnimationSequence(seq scroll.Sequence) error {
	s, ok := seq.(*Sequence)
	if !ok || s != &m.seq {
		return ErrForeignSequence
	}
	m.loaded = s
	m.logger.Debug("marquee:load", slog.Int("frames", s.frames))
	return nil
}

// Play starts the loaded sequence and returns immediately.
func (m *Marquee) Play() error {
	if m.loaded == nil {
		return ErrNoSequence
	}
	m.frame = 0
	m.playing = true
	m.last = time.Time{}
	return nil
}

func (m *Marquee) Playing() bool { return m.playing }

func (m *Marquee) Stop() { m.playing = false }

// OnSequenceDone registers fn to run once the last frame has been shown.
func (m *Marquee) OnSequenceDone(fn func()) { m.onDone = fn }

func (m *Marquee) SetFrameInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Tick draws the next frame if the frame interval has passed.
func (m *Marquee) Tick(now time.Time) {
	if !m.playing {
		return
	}
	if !m.last.IsZero() && now.Sub(m.last) < m.interval {
		return
	}
	m.last = now
	if m.frame >= m.loaded.frames {
		m.playing = false
		if m.onDone != nil {
			m.onDone()
		}
		return
	}
	w := m.loaded.window(m.frame)
	m.device.SetCursor(0, m.row)
	// Print the window in place, no allocation
	m.device.Print(m.loaded.buf[w : w+m.columns])
	m.frame++
}

// Clear blanks the whole LCD.
func (m *Marquee) Clear() { m.device.ClearDisplay() }

// Sequence is the marquee's animation buffer: the text padded with spaces.
type Sequence struct {
	buf       []byte
	frames    int
	maxFrames int
	dir       scroll.Direction
}

func (s *Sequence) Frames() int { return s.frames }

func (s *Sequence) reset() {
	for i := range s.buf {
		s.buf[i] = ' '
	}
	s.frames = 0
}

func (s *Sequence) window(frame int) int {
	if s.dir == scroll.ScrollRight {
		return s.frames - 1 - frame
	}
	return frame
}
