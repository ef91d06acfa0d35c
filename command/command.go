package command

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOp reports a command that would change nothing.
	ErrNoOp = errors.New("command: no-op")
	// ErrNotApplicable reports a command whose precondition does not hold.
	// It wraps ErrNoOp: callers that only care whether anything happened
	// can test for ErrNoOp alone.
	ErrNotApplicable = fmt.Errorf("%w: not applicable", ErrNoOp)

	ErrUnknownCommand  = errors.New("command: unknown command")
	ErrInvalidArgument = errors.New("command: invalid argument")
)

// Command is one editing operation. Execute returns the state unchanged
// together with an error wrapping ErrNoOp when it has nothing to do.
type Command interface {
	Name() string
	IsApplicable(State) bool
	IsActive(State) bool
	Execute(State) (State, error)
}

// basic assembles a Command from functions. A nil applicable means always
// applicable; a nil active means never active.
type basic struct {
	name       string
	applicable func(State) bool
	active     func(State) bool
	run        func(State) (State, error)
}

func (c basic) Name() string { return c.name }

func (c basic) IsApplicable(s State) bool {
	if s.Doc == nil {
		return false
	}
	return c.applicable == nil || c.applicable(s)
}

func (c basic) IsActive(s State) bool {
	if s.Doc == nil || c.active == nil {
		return false
	}
	return c.active(s)
}

func (c basic) Execute(s State) (State, error) {
	if !c.IsApplicable(s) {
		return s, fmt.Errorf("%s: %w", c.name, ErrNotApplicable)
	}
	next, err := c.run(s)
	if err != nil {
		return s, fmt.Errorf("%s: %w", c.name, err)
	}
	return next, nil
}
