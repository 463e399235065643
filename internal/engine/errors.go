package engine

import (
	"errors"
	"fmt"
)

// Rejection is a business-rule refusal. The action it came from changed
// nothing and the caller is expected to surface Reason to the user.
type Rejection struct {
	Reason string
}

func (e *Rejection) Error() string {
	return e.Reason
}

func reject(reason string) *Rejection {
	return &Rejection{Reason: reason}
}

var (
	ErrInsufficientFunds = reject("not enough currency")
	ErrShopClosed        = reject("the shop is closed")
	ErrBuilderClosed     = reject("the builder is closed")
	ErrStepsIncomplete   = reject("objectives incomplete")
	ErrEvidenceRequired  = reject("evidence is required")
	ErrIncapacitated     = reject("player has no HP left")
	ErrInvalidTransition = reject("invalid status transition")
	ErrWindowClosed      = reject("the time window for this task has closed")
	ErrEmptyInventory    = reject("no blocks of that kind in inventory")
	ErrOutOfBounds       = reject("coordinates outside the canvas")
	ErrNotBlock          = reject("reward is not a building block")
	ErrUnknownStep       = reject("unknown step")
	ErrTaskNotFound      = reject("task not found")
	ErrRewardNotFound    = reject("reward not found")
	ErrInvalidAmount     = reject("invalid amount")
	ErrWrongPin          = reject("wrong PIN")
)

// IsRejection reports whether err is a business-rule rejection rather than
// a storage or programming failure.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// InvariantError reports a state that must never be persisted.
type InvariantError struct {
	Field string
	Value int
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("profile invariant violated: %s=%d", e.Field, e.Value)
}

// Validate checks the profile invariants.
func (p Profile) Validate() error {
	switch {
	case p.Level < 1:
		return InvariantError{Field: "level", Value: p.Level}
	case p.MaxHP < 0:
		return InvariantError{Field: "maxHp", Value: p.MaxHP}
	case p.HP < 0 || p.HP > p.MaxHP:
		return InvariantError{Field: "hp", Value: p.HP}
	case p.Experience < 0 || p.Experience >= RequiredXP(p.Level):
		return InvariantError{Field: "experience", Value: p.Experience}
	case p.Emeralds < 0:
		return InvariantError{Field: "emeralds", Value: p.Emeralds}
	case p.Diamonds < 0:
		return InvariantError{Field: "diamonds", Value: p.Diamonds}
	}
	for id, n := range p.Inventory {
		if n < 0 {
			return InvariantError{Field: "inventory[" + id + "]", Value: n}
		}
	}
	return nil
}
