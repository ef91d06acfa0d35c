// Package command implements the formatting and editing commands of the
// document core.
//
// A Command is introspectable (IsApplicable, IsActive) so toolbars and key
// maps can render state without executing anything. Execute is pure: it
// takes a State value and returns a new one, or the same state and an
// error wrapping ErrNoOp when there is nothing to do. Lookup builds commands
// by name for hosts that read them from configuration or the command line.
package command
