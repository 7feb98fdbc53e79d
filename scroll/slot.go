package scroll

import "errors"

// ErrSlotMoved is returned when something was inserted between a slot's anchor
// and its message.
var ErrSlotMoved = errors.New("scroll: slot message no longer follows its anchor")

// Slot holds one replaceable message spliced in after an anchor chunk, such as
// a sensor reading that follows a fixed greeting.
type Slot struct {
	anchor *Chunk
	head   *Chunk
}

// NewSlot returns an empty slot after anchor. Pass the last chunk of a message
// to keep that message whole.
func NewSlot(anchor *Chunk) *Slot {
	return &Slot{anchor: anchor}
}

// Head returns the message currently in the slot, or nil.
func (s *Slot) Head() *Chunk { return s.head }

// Contains reports whether c is one of the slot message's chunks.
func (s *Slot) Contains(c *Chunk) bool {
	if s.head == nil || c == nil {
		return false
	}
	for n := s.head; ; n = n.next {
		if n == c {
			return true
		}
		if !n.hasCont || n.next == nil {
			return false
		}
	}
}

// Replace puts msg in the slot, unlinking the previous message. It returns
// false without changing anything while current, the chunk being shown, is
// part of the old message, since playback would run off the detached chunks.
// Chains inserted after the anchor by other code are never dropped: Replace
// fails with ErrSlotMoved instead.
func (s *Slot) Replace(msg, current *Chunk) (bool, error) {
	if msg == nil {
		return false, ErrNilChain
	}
	if _, err := msg.LastOfMessage(); err != nil {
		return false, err
	}
	if s.head != nil {
		if s.anchor.next != s.head {
			return false, ErrSlotMoved
		}
		if s.Contains(current) {
			return false, nil
		}
		last, err := s.head.LastOfMessage()
		if err != nil {
			return false, err
		}
		rest := last.Unlink()
		s.anchor.Unlink()
		if _, err := s.anchor.SetNext(rest); err != nil {
			return false, err
		}
	}
	if _, err := s.anchor.InsertNext(msg); err != nil {
		return false, err
	}
	s.head = msg
	return true, nil
}
