package marquee

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harveysanders/picoscroll/scroll"
)

type fakeLCD struct {
	row     uint8
	lines   []string
	cleared int
}

func (d *fakeLCD) ClearDisplay()            { d.cleared++ }
func (d *fakeLCD) SetCursor(col, row uint8) { d.row = row }
func (d *fakeLCD) Print(data []byte)        { d.lines = append(d.lines, string(data)) }

func play(t *testing.T, m *Marquee, head *scroll.Chunk) {
	t.Helper()
	p := scroll.NewPlayer(m, scroll.DefaultStyle(CellFont), nil)
	m.OnSequenceDone(func() {
		if err := p.Next(); err != nil {
			t.Errorf("Next: %v", err)
		}
	})
	if err := p.Start(head); err != nil {
		t.Fatalf("Start: %v", err)
	}
	now := time.Unix(0, 0)
	for i := 0; m.Playing(); i++ {
		if i > 10000 {
			t.Fatal("playback did not finish")
		}
		m.Tick(now)
		now = now.Add(m.interval)
	}
}

func TestMarqueeFrames(t *testing.T) {
	lcd := &fakeLCD{}
	m := New(lcd, Config{Columns: 4, MaxFrames: 10})
	play(t, m, scroll.NewChunk("hello"))

	want := []string{"hell", "ello", "llo ", "lo  ", "o   "}
	if diff := cmp.Diff(want, lcd.lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if lcd.row != 1 {
		t.Errorf("drawn on row %d, want 1", lcd.row)
	}
}

func TestMarqueeChunkedMatchesWhole(t *testing.T) {
	const message = "The quick brown fox jumps over the lazy dog"

	whole := &fakeLCD{}
	play(t, New(whole, Config{Columns: 16, MaxFrames: 100}), scroll.NewChunk(message))

	chunked := &fakeLCD{}
	m := New(chunked, Config{Columns: 16, MaxFrames: 8})
	head, err := scroll.SplitFor(message, m, m.MaxFrames(), CellFont)
	if err != nil {
		t.Fatal(err)
	}
	play(t, m, head)

	if len(whole.lines) != len(message) {
		t.Errorf("whole message drew %d frames, want %d", len(whole.lines), len(message))
	}
	if diff := cmp.Diff(whole.lines, chunked.lines); diff != "" {
		t.Errorf("chunked playback differs (-whole +chunked):\n%s", diff)
	}
}

func TestMarqueeNonASCII(t *testing.T) {
	lcd := &fakeLCD{}
	m := New(lcd, Config{Columns: 3, MaxFrames: 1})
	play(t, m, scroll.NewChunk("aéb"))
	if diff := cmp.Diff([]string{"a?b"}, lcd.lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestMarqueeScrollRight(t *testing.T) {
	lcd := &fakeLCD{}
	m := New(lcd, Config{Columns: 2, MaxFrames: 10})
	m.BeginText(0, 0, scroll.DefaultStyle(CellFont).Color)
	m.Print("abc")
	seq, err := m.EndTextAnimation(scroll.ScrollRight)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.LoadTextAnimationSequence(seq); err != nil {
		t.Fatal(err)
	}
	if err := m.Play(); err != nil {
		t.Fatal(err)
	}
	now := time.Unix(0, 0)
	for m.Playing() {
		m.Tick(now)
		now = now.Add(time.Second)
	}
	want := []string{"c ", "bc", "ab"}
	if diff := cmp.Diff(want, lcd.lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestMarqueeErrors(t *testing.T) {
	lcd := &fakeLCD{}
	m := New(lcd, Config{})
	m.Clear()
	if lcd.cleared != 1 {
		t.Errorf("ClearDisplay called %d times", lcd.cleared)
	}
	if m.Width() != DefaultColumns || m.MaxFrames() != DefaultMaxFrames {
		t.Errorf("defaults: width %d, max frames %d", m.Width(), m.MaxFrames())
	}
	if err := m.Play(); !errors.Is(err, ErrNoSequence) {
		t.Errorf("Play before load: got %v, want %v", err, ErrNoSequence)
	}
	other := New(&fakeLCD{}, Config{})
	seq, err := other.EndTextAnimation(scroll.ScrollLeft)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.LoadTextAnimationSequence(seq); !errors.Is(err, ErrForeignSequence) {
		t.Errorf("foreign sequence: got %v, want %v", err, ErrForeignSequence)
	}
}
