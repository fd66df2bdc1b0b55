package game

import (
	"errors"
	"fmt"
)

// Failure classes. Every Reason unwraps to exactly one of these.
var (
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Reason identifies a specific, displayable failure cause.
type Reason struct {
	name  string
	class error
}

func newReason(name string, class error) *Reason {
	return &Reason{name: name, class: class}
}

func (r *Reason) Error() string { return r.name }
func (r *Reason) Unwrap() error { return r.class }

var (
	ErrItemNotFound               = newReason("item not found", ErrNotFound)
	ErrEffectNotFound             = newReason("effect not found", ErrNotFound)
	ErrRecipeNotFound             = newReason("recipe not found", ErrNotFound)
	ErrQuestNotFound              = newReason("quest not found", ErrNotFound)
	ErrQuestChainNotFound         = newReason("quest chain not found", ErrNotFound)
	ErrObjectiveNotFound          = newReason("objective not found", ErrNotFound)
	ErrRegionNotFound             = newReason("region not found", ErrNotFound)
	ErrLandmarkNotFound           = newReason("landmark not found", ErrNotFound)
	ErrCreatureNotFound           = newReason("creature not found", ErrNotFound)
	ErrCombatNotFound             = newReason("combat not found", ErrNotFound)
	ErrEncounterNotFound          = newReason("encounter not found", ErrNotFound)
	ErrToolNotFound               = newReason("tool not found", ErrNotFound)
	ErrNPCNotFound                = newReason("npc not found", ErrNotFound)
	ErrSkillNotFound              = newReason("skill not found", ErrNotFound)
	ErrSaveNotFound               = newReason("save not found", ErrNotFound)
	ErrWorldEventNotFound         = newReason("world event not found", ErrNotFound)
	ErrRoleNotFound               = newReason("npc role not found", ErrNotFound)
	ErrItemNotUsable              = newReason("item not usable", ErrPreconditionFailed)
	ErrNotEquippable              = newReason("item not equippable", ErrPreconditionFailed)
	ErrAttributeRequirementNotMet = newReason("attribute requirement not met", ErrPreconditionFailed)
	ErrSlotEmpty                  = newReason("slot empty", ErrPreconditionFailed)
	ErrInsufficientQuantity       = newReason("insufficient quantity", ErrPreconditionFailed)
	ErrRequirementsNotMet         = newReason("requirements not met", ErrPreconditionFailed)
	ErrInsufficientIngredients    = newReason("insufficient ingredients", ErrPreconditionFailed)
	ErrQuestAlreadyActive         = newReason("quest already active", ErrPreconditionFailed)
	ErrQuestAlreadyCompleted      = newReason("quest already completed", ErrPreconditionFailed)
	ErrQuestPrerequisites         = newReason("quest prerequisites not met", ErrPreconditionFailed)
	ErrQuestNotActive             = newReason("quest not active", ErrPreconditionFailed)
	ErrObjectivesIncomplete       = newReason("objectives incomplete", ErrPreconditionFailed)
	ErrNotAdjacent                = newReason("region not adjacent", ErrPreconditionFailed)
	ErrCombatNotActive            = newReason("combat not active", ErrPreconditionFailed)
	ErrActionUnavailable          = newReason("action unavailable", ErrPreconditionFailed)
	ErrWrongRole                  = newReason("wrong role", ErrPreconditionFailed)
	ErrInsufficientEssence        = newReason("insufficient essence", ErrPreconditionFailed)
	ErrDuplicate                  = newReason("already exists", ErrPreconditionFailed)
	ErrInvalidSave                = newReason("invalid save", ErrPreconditionFailed)
)

// UserError is a recoverable failure whose message is safe to show a player.
type UserError struct {
	Reason  *Reason
	Message string
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Reason }

// Fail builds a UserError for the given reason.
func Fail(reason *Reason, format string, args ...any) error {
	return &UserError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Invariantf reports malformed input. These indicate a programming error.
func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
