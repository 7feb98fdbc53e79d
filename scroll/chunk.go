// Package scroll splits long messages into chunks that fit a text animation
// buffer and links them so they play back to back on a small LED display.
//
// An animation engine can only buffer a fixed number of scroll frames. A
// message longer than that is cut into chunks of Capacity characters, each
// carrying a trailing overlap of the characters visible on screen at once, so
// the last picture of one chunk is the first picture of the next:
//
//	head, err := scroll.SplitFor(msg, matrix, maxFrames, font)
//	if err != nil {
//		return err
//	}
//	player := scroll.NewPlayer(matrix, scroll.DefaultStyle(font), logger)
//	matrix.OnSequenceDone(func() { player.Next() })
//	player.Start(head)
//
// Independent messages are spliced together with InsertNext, and a chain can be
// closed into a ring with Loop so playback repeats.
package scroll

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrCapacity       = errors.New("scroll: chunk capacity must be at least one character")
	ErrNoVisibleChars = errors.New("scroll: display must show at least one character")
	ErrFontWidth      = errors.New("scroll: font width must be positive")
	ErrNilChain       = errors.New("scroll: nil chain")
	ErrCyclicChain    = errors.New("scroll: continuation run never ends")
	ErrBrokenChain    = errors.New("scroll: continuation chunk missing")
	ErrNextOccupied   = errors.New("scroll: chunk already has a successor, unlink it first")
)

// Chunk is one node of a message chain. Its text fits a single animation
// sequence.
type Chunk struct {
	text    string
	hasCont bool // followed by the rest of the same message
	isCont  bool // not the first chunk of its message
	next    *Chunk
}

// NewChunk returns a single unsplit chunk holding message.
func NewChunk(message string) *Chunk {
	return &Chunk{text: message}
}

// Split cuts message into a chain of chunks. Each chunk scrolls capacity
// characters fully off screen and carries visible more characters of overlap,
// so consecutive chunks start at multiples of capacity and end at most
// capacity+visible characters later. A message of at most capacity characters
// yields a single chunk.
//
// Every chunk except the last has HasContinuation set, including a chunk whose
// overlap already reaches the end of the message but which is followed by one
// more chunk to scroll that tail off. LastOfMessage therefore always returns
// the final chunk, and InsertNext on it never splits a message.
func Split(message string, capacity, visible int) (*Chunk, error) {
	if capacity < 1 {
		return nil, ErrCapacity
	}
	if visible < 1 {
		return nil, ErrNoVisibleChars
	}

	t := newRunes(message)
	n := t.len()
	if n <= capacity {
		return NewChunk(message), nil
	}

	shown := capacity + visible
	head := &Chunk{
		text:    t.slice(0, min(n, shown)),
		hasCont: true,
	}
	last := head
	for start := capacity; start < n; start += capacity {
		end := min(n, start+shown)
		// A chunk ending at n may still need a successor to scroll its
		// tail off screen, so continuation depends on the next start.
		c := &Chunk{
			text:    t.slice(start, end),
			hasCont: start+capacity < n,
			isCont:  true,
		}
		last.next = c
		last = c
	}
	return head, nil
}

// SplitFor sizes the chunks for engine e: maxColumns is the number of pixel
// columns the engine's animation buffer can scroll, and f gives the width of
// one character cell.
func SplitFor(message string, e Engine, maxColumns int, f Font) (*Chunk, error) {
	if f.Width < 1 {
		return nil, ErrFontWidth
	}
	return Split(message, maxColumns/int(f.Width), int(e.Width()/f.Width))
}

// Text returns the part of the message this chunk shows.
func (c *Chunk) Text() string { return c.text }

// HasContinuation reports whether the next chunk completes the same message.
func (c *Chunk) HasContinuation() bool { return c.hasCont }

// IsContinuation reports whether c continues a previous chunk.
func (c *Chunk) IsContinuation() bool { return c.isCont }

func (c *Chunk) HasNext() bool { return c.next != nil }

func (c *Chunk) Next() *Chunk { return c.next }

// SetNext links next after c and returns it. It refuses to drop an existing
// successor: call Unlink first and relink the returned sub-chain if it is
// still needed.
func (c *Chunk) SetNext(next *Chunk) (*Chunk, error) {
	if c.next != nil && c.next != next {
		return nil, ErrNextOccupied
	}
	c.next = next
	return next, nil
}

// Unlink detaches and returns the successor of c, which may be nil.
func (c *Chunk) Unlink() *Chunk {
	next := c.next
	c.next = nil
	return next
}

// InsertNext splices the chain starting at head directly after c. The end of
// head's own message is linked to whatever followed c. To insert after a whole
// multi-chunk message, call it on LastOfMessage.
func (c *Chunk) InsertNext(head *Chunk) (*Chunk, error) {
	if head == nil {
		return nil, ErrNilChain
	}
	last, err := head.LastOfMessage()
	if err != nil {
		return nil, err
	}
	last.next = c.next
	c.next = head
	return head, nil
}

// LastOfMessage follows the continuation run starting at c and returns its
// final chunk.
func (c *Chunk) LastOfMessage() (*Chunk, error) {
	slow, fast := c, c
	for {
		for i := 0; i < 2; i++ {
			if !fast.hasCont {
				return fast, nil
			}
			fast = fast.next
			if fast == nil {
				return nil, ErrBrokenChain
			}
		}
		slow = slow.next
		if slow == fast {
			return nil, ErrCyclicChain
		}
	}
}

// Tail returns the last chunk reachable from head. If the chain loops back to
// head, the chunk linking to head is returned.
func Tail(head *Chunk) (*Chunk, error) {
	if head == nil {
		return nil, ErrNilChain
	}
	slow, fast := head, head
	for {
		for i := 0; i < 2; i++ {
			if fast.next == nil || fast.next == head {
				return fast, nil
			}
			fast = fast.next
		}
		slow = slow.next
		if slow == fast {
			return nil, ErrCyclicChain
		}
	}
}

// Loop links the tail of the chain back to head so playback repeats.
func Loop(head *Chunk) error {
	tail, err := Tail(head)
	if err != nil {
		return err
	}
	_, err = tail.SetNext(head)
	return err
}

// runes indexes a string by code point. ASCII strings keep offs nil and
// substrings share the backing array, so splitting does not copy text.
type runes struct {
	s    string
	offs []int
}

func newRunes(s string) runes {
	n := utf8.RuneCountInString(s)
	if n == len(s) {
		return runes{s: s}
	}
	offs := make([]int, 0, n+1)
	for i := range s {
		offs = append(offs, i)
	}
	offs = append(offs, len(s))
	return runes{s: s, offs: offs}
}

func (r runes) len() int {
	if r.offs == nil {
		return len(r.s)
	}
	return len(r.offs) - 1
}

func (r runes) slice(from, to int) string {
	if r.offs == nil {
		return r.s[from:to]
	}
	return r.s[r.offs[from]:r.offs[to]]
}
