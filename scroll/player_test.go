package scroll

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeSequence int

func (s fakeSequence) Frames() int { return int(s) }

// fakeEngine records the calls made to it.
type fakeEngine struct {
	width   int16
	calls   []string
	shown   []string
	text    string
	endErr  error
	loadErr error
	playErr error
}

func (e *fakeEngine) Width() int16 { return e.width }

func (e *fakeEngine) TextFont(f Font) {
	e.calls = append(e.calls, "font "+strconv.Itoa(int(f.Width)))
}

func (e *fakeEngine) BeginText(x, y int16, c color.RGBA) {
	e.text = ""
	e.calls = append(e.calls, "begin "+strconv.Itoa(int(x))+","+strconv.Itoa(int(y)))
}

func (e *fakeEngine) Print(text string) {
	e.text += text
	e.calls = append(e.calls, "print "+text)
}

func (e *fakeEngine) EndTextAnimation(dir Direction) (Sequence, error) {
	e.calls = append(e.calls, "end "+dir.String())
	if e.endErr != nil {
		return nil, e.endErr
	}
	return fakeSequence(len(e.text)), nil
}

func (e *fakeEngine) LoadTextAnimationSequence(seq Sequence) error {
	e.calls = append(e.calls, "load "+strconv.Itoa(seq.Frames()))
	return e.loadErr
}

func (e *fakeEngine) Play() error {
	e.calls = append(e.calls, "play")
	if e.playErr != nil {
		return e.playErr
	}
	e.shown = append(e.shown, e.text)
	return nil
}

func TestShowCallOrder(t *testing.T) {
	e := &fakeEngine{width: 12}
	s := DefaultStyle(Font{Width: 4})
	if err := NewChunk("hello").Show(e, s); err != nil {
		t.Fatalf("Show: %v", err)
	}
	want := []string{"font 4", "begin 0,1", "print hello", "end left", "load 5", "play"}
	if diff := cmp.Diff(want, e.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestShowReturnsEngineErrors(t *testing.T) {
	errEnd := errors.New("buffer too small")
	errLoad := errors.New("load failed")
	errPlay := errors.New("timer busy")
	tests := []struct {
		name string
		e    *fakeEngine
		want error
	}{
		{"end", &fakeEngine{endErr: errEnd}, errEnd},
		{"load", &fakeEngine{loadErr: errLoad}, errLoad},
		{"play", &fakeEngine{playErr: errPlay}, errPlay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewChunk("x").Show(tt.e, DefaultStyle(Font{Width: 1}))
			if err != tt.want {
				t.Errorf("Show error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlayerWalksChain(t *testing.T) {
	head, err := Split(alphabet50, 20, 8)
	if err != nil {
		t.Fatal(err)
	}
	e := &fakeEngine{width: 8}
	p := NewPlayer(e, DefaultStyle(Font{Width: 1}), nil)

	if p.Playing() || p.Current() != nil {
		t.Fatal("player active before Start")
	}
	if err := p.Start(head); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for p.Playing() {
		if err := p.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	want := []string{alphabet50[0:28], alphabet50[20:48], alphabet50[40:50]}
	if diff := cmp.Diff(want, e.shown); diff != "" {
		t.Errorf("shown mismatch (-want +got):\n%s", diff)
	}
	if p.Current().Text() != alphabet50[40:50] {
		t.Errorf("Current = %q", p.Current().Text())
	}
	if err := p.Next(); err != nil || p.Playing() {
		t.Errorf("Next after end: err=%v playing=%v", err, p.Playing())
	}
}

func TestPlayerLoops(t *testing.T) {
	a := NewChunk("a")
	b := NewChunk("b")
	if _, err := a.InsertNext(b); err != nil {
		t.Fatal(err)
	}
	if err := Loop(a); err != nil {
		t.Fatal(err)
	}
	e := &fakeEngine{width: 8}
	p := NewPlayer(e, DefaultStyle(Font{Width: 1}), nil)
	if err := p.Start(a); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := p.Next(); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"a", "b", "a", "b", "a"}
	if diff := cmp.Diff(want, e.shown); diff != "" {
		t.Errorf("shown mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayerStopsOnEngineError(t *testing.T) {
	e := &fakeEngine{playErr: errors.New("no timer")}
	p := NewPlayer(e, DefaultStyle(Font{Width: 1}), nil)
	if err := p.Start(NewChunk("x")); err == nil {
		t.Fatal("Start succeeded with failing engine")
	}
	if p.Playing() {
		t.Error("player still playing after error")
	}
	if err := p.Start(nil); !errors.Is(err, ErrNilChain) {
		t.Errorf("Start(nil) = %v, want %v", err, ErrNilChain)
	}
}

func TestPlayerLogsCharacterCount(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewPlayer(&fakeEngine{width: 8}, DefaultStyle(Font{Width: 1}), logger)
	if err := p.Start(NewChunk("22°C ☀")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "chars=6") {
		t.Errorf("log does not count runes: %s", buf.String())
	}
}
