package scroll

import (
	"errors"
	"io"
	"log/slog"
	"unicode/utf8"
)

// Player walks a chain on behalf of an engine. The engine's completion
// callback calls Next to move on to the following chunk.
type Player struct {
	engine  Engine
	style   Style
	cur     *Chunk
	playing bool
	log     *slog.Logger
}

// NewPlayer returns a Player drawing chunks on e with style s. A nil logger
// discards output.
func NewPlayer(e Engine, s Style, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Player{engine: e, style: s, log: logger}
}

// Start shows head.
func (p *Player) Start(head *Chunk) error {
	if head == nil {
		return ErrNilChain
	}
	p.cur = head
	return p.show()
}

// Next shows the chunk after the current one. At the end of the chain the
// player stops and Next returns nil.
func (p *Player) Next() error {
	if p.cur == nil || !p.cur.HasNext() {
		if p.playing {
			p.log.Info("player:end of chain")
		}
		p.playing = false
		return nil
	}
	p.cur = p.cur.Next()
	return p.show()
}

// Current returns the chunk shown last, or nil before Start.
func (p *Player) Current() *Chunk { return p.cur }

func (p *Player) Playing() bool { return p.playing }

// SetStyle applies s from the next chunk on.
func (p *Player) SetStyle(s Style) { p.style = s }

func (p *Player) show() error {
	err := p.cur.Show(p.engine, p.style)
	if err != nil {
		p.playing = false
		return errors.New("show chunk: " + err.Error())
	}
	p.playing = true
	p.log.Debug("player:show",
		slog.Int("chars", utf8.RuneCountInString(p.cur.Text())),
		slog.Bool("continuation", p.cur.IsContinuation()),
	)
	return nil
}
