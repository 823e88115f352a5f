// Package combat binds maneuver assignment to the combat lifecycle: tokens
// joining an encounter get the default maneuver, tokens leaving it (or the
// whole encounter going away) have it stripped.
package combat

import (
	"context"
	"errors"
)

// ErrUnresolvableToken marks a combatant whose token cannot be found.
var ErrUnresolvableToken = errors.New("combatant has no resolvable token")

// Authority reports whether the local user may mutate shared combat state.
type Authority interface {
	IsGM() bool
}

// AuthorityFunc adapts a function to Authority.
type AuthorityFunc func() bool

func (f AuthorityFunc) IsGM() bool { return f() }

// Token is the placeable capability the binder drives.
// RemoveManeuver on a token without a maneuver must be a no-op.
type Token interface {
	ID() string
	SetManeuver(ctx context.Context, name string) error
	RemoveManeuver(ctx context.Context) error
}

// TokenResolver finds the placed token of a combatant.
type TokenResolver interface {
	ResolveToken(tokenID string) (Token, bool)
}

// Combatant is one participant slot of an encounter. TokenID is empty when
// the participant has no placed token.
type Combatant struct {
	ID          string `json:"id"`
	EncounterID string `json:"encounter_id"`
	TokenID     string `json:"token_id,omitempty"`
}

// Encounter is a snapshot of an encounter and the combatants still bound to it.
type Encounter struct {
	ID         string      `json:"id"`
	Combatants []Combatant `json:"combatants"`
}

// CombatantEvent is the payload of the createCombatant and deleteCombatant hooks.
type CombatantEvent struct {
	Combatant Combatant
	Options   map[string]any
	UserID    string
}

// EncounterEvent is the payload of the deleteCombat hook.
type EncounterEvent struct {
	Encounter Encounter
	Options   map[string]any
	UserID    string
}
