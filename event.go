package babble

import "fmt"

// InputKind tags an EventIn
type InputKind byte

const (
	ChatCharacter InputKind = iota
	TimeTick
)

// EventIn is what the brain receives: a typed character, or a timer tick.
type EventIn struct {
	Kind InputKind
	Char rune // only meaningful for ChatCharacter
}

// Char creates a character event. Characters outside of the single byte alphabet can be
// created, but the brain will reject them.
func Char(c rune) EventIn { return EventIn{Kind: ChatCharacter, Char: c} }

// Tick creates a timer tick event.
func Tick() EventIn { return EventIn{Kind: TimeTick} }

func (e EventIn) Format(s fmt.State, c rune) {
	switch e.Kind {
	case ChatCharacter:
		fmt.Fprintf(s, "ChatCharacter(%q)", e.Char)
	case TimeTick:
		fmt.Fprint(s, "TimeTick")
	default:
		fmt.Fprintf(s, "UnknownInput(%d)", e.Kind)
	}
}

// OutputKind tags an EventOut
type OutputKind byte

const (
	Nothing OutputKind = iota
	OutCharacter
)

// EventOut is what the brain produces: a character, or nothing at all.
// The zero value is Nothing.
type EventOut struct {
	Kind OutputKind
	Char rune // only meaningful for OutCharacter
}

// Say creates a character output.
func Say(c rune) EventOut { return EventOut{Kind: OutCharacter, Char: c} }

// Silence creates a Nothing output.
func Silence() EventOut { return EventOut{} }

// IsNothing returns true if the output should be suppressed.
func (e EventOut) IsNothing() bool { return e.Kind == Nothing }

func (e EventOut) Format(s fmt.State, c rune) {
	switch e.Kind {
	case OutCharacter:
		fmt.Fprintf(s, "ChatCharacter(%q)", e.Char)
	default:
		fmt.Fprint(s, "Nothing")
	}
}
