package merge

import "strings"

// Kind is the action an operator command asks for.
type Kind int

const (
	TakeFirst  Kind = iota + 1 // "<": keep file A's side of the hunk
	TakeSecond                 // ">": keep file B's side
	Edit                       // "e": hand-edit both sides
	Shell                      // "!cmd": run cmd, then ask again
	Quit                       // "q<" / "q>": take one file for the rest and stop
)

// Side selects one of the two input files.
type Side int

const (
	First  Side = iota + 1 // file A
	Second                 // file B
)

// Command is one parsed line of operator input.
type Command struct {
	Kind Kind
	Side Side   // for Quit
	Text string // for Shell
}

// ParseCommand dispatches on the first character of line. Anything after the
// command character is ignored except for "!" and "q". The error, if any, is
// an *InputError.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Command{}, &InputError{Input: line, Err: ErrUnknownCommand}
	}
	switch line[0] {
	case '<':
		return Command{Kind: TakeFirst, Side: First}, nil
	case '>':
		return Command{Kind: TakeSecond, Side: Second}, nil
	case 'e':
		return Command{Kind: Edit}, nil
	case '!':
		return Command{Kind: Shell, Text: line[1:]}, nil
	case 'q':
		if len(line) > 1 {
			switch line[1] {
			case '<':
				return Command{Kind: Quit, Side: First}, nil
			case '>':
				return Command{Kind: Quit, Side: Second}, nil
			}
		}
		return Command{}, &InputError{Input: line, Err: ErrBadQuit}
	}
	return Command{}, &InputError{Input: line, Err: ErrUnknownCommand}
}
