package merge

import "errors"

// Operator mistakes. These are reported and the prompt repeats.
var (
	ErrUnknownCommand = errors.New(">, <, q>, q<, e or !command only")
	ErrBadQuit        = errors.New("q must be followed by < or >")
)

// Session-fatal errors.
var (
	ErrInputClosed  = errors.New("operator input closed before the merge finished")
	ErrEditorLaunch = errors.New("cannot launch editor")
	ErrShellLaunch  = errors.New("cannot launch shell")
)

// InputError is an unusable operator command. It never aborts a session.
type InputError struct {
	Input string
	Err   error
}

func (e *InputError) Error() string { return e.Err.Error() }

func (e *InputError) Unwrap() error { return e.Err }
