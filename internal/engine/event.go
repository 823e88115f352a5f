package engine

import (
	"errors"
	"fmt"

	"github.com/suderio/draconic-maneuvers/internal/maneuver"
)

var (
	// ErrNotFound is returned when an event references a missing encounter, combatant, or token.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an event would create something that already exists.
	ErrConflict = errors.New("already exists")
)

type EventType string

const (
	EventEncounterCreated EventType = "EncounterCreated"
	EventEncounterDeleted EventType = "EncounterDeleted"
	EventTokenPlaced      EventType = "TokenPlaced"
	EventTokenRemoved     EventType = "TokenRemoved"
	EventCombatantAdded   EventType = "CombatantAdded"
	EventCombatantRemoved EventType = "CombatantRemoved"
	EventConditionApplied EventType = "ConditionApplied"
	EventConditionRemoved EventType = "ConditionRemoved"
	EventManeuverSet      EventType = "ManeuverSet"
	EventManeuverRemoved  EventType = "ManeuverRemoved"
	EventTurnStarted      EventType = "TurnStarted"
)

// Event is the building block of the event sourced scene.
type Event interface {
	Type() EventType
	Apply(state *GameState) error
	Message() string
}

// EncounterCreatedEvent opens a new encounter with no combatants.
type EncounterCreatedEvent struct {
	EncounterID string `json:"encounter_id"`
}

func (e *EncounterCreatedEvent) Type() EventType { return EventEncounterCreated }
func (e *EncounterCreatedEvent) Apply(state *GameState) error {
	if _, ok := state.Encounters[e.EncounterID]; ok {
		return fmt.Errorf("encounter %s: %w", e.EncounterID, ErrConflict)
	}
	state.Encounters[e.EncounterID] = &Encounter{ID: e.EncounterID, Combatants: make([]*Combatant, 0)}
	return nil
}
func (e *EncounterCreatedEvent) Message() string {
	return fmt.Sprintf("Encounter %s created.", e.EncounterID)
}

// EncounterDeletedEvent drops an encounter together with its combatants.
type EncounterDeletedEvent struct {
	EncounterID string `json:"encounter_id"`
}

func (e *EncounterDeletedEvent) Type() EventType { return EventEncounterDeleted }
func (e *EncounterDeletedEvent) Apply(state *GameState) error {
	if _, ok := state.Encounters[e.EncounterID]; !ok {
		return fmt.Errorf("encounter %s: %w", e.EncounterID, ErrNotFound)
	}
	delete(state.Encounters, e.EncounterID)
	state.releaseActing()
	return nil
}
func (e *EncounterDeletedEvent) Message() string {
	return fmt.Sprintf("Encounter %s deleted.", e.EncounterID)
}

// TokenPlacedEvent puts a token on the scene.
type TokenPlacedEvent struct {
	TokenID   string `json:"token_id"`
	Name      string `json:"name"`
	BasicMove int    `json:"basic_move"`
}

func (e *TokenPlacedEvent) Type() EventType { return EventTokenPlaced }
func (e *TokenPlacedEvent) Apply(state *GameState) error {
	if _, ok := state.Tokens[e.TokenID]; ok {
		return fmt.Errorf("token %s: %w", e.TokenID, ErrConflict)
	}
	name := e.Name
	if name == "" {
		name = e.TokenID
	}
	state.Tokens[e.TokenID] = &Token{
		ID:        e.TokenID,
		Name:      name,
		BasicMove: e.BasicMove,
		Effects:   make([]*ActiveEffect, 0),
	}
	return nil
}
func (e *TokenPlacedEvent) Message() string {
	return fmt.Sprintf("Token %s placed (Move %d).", e.TokenID, e.BasicMove)
}

// TokenRemovedEvent takes a token off the scene. Combatants bound to it keep
// the dangling reference.
type TokenRemovedEvent struct {
	TokenID string `json:"token_id"`
}

func (e *TokenRemovedEvent) Type() EventType { return EventTokenRemoved }
func (e *TokenRemovedEvent) Apply(state *GameState) error {
	if _, ok := state.Tokens[e.TokenID]; !ok {
		return fmt.Errorf("token %s: %w", e.TokenID, ErrNotFound)
	}
	delete(state.Tokens, e.TokenID)
	if state.Acting == e.TokenID {
		state.Acting = ""
	}
	return nil
}
func (e *TokenRemovedEvent) Message() string {
	return fmt.Sprintf("Token %s removed.", e.TokenID)
}

// CombatantAddedEvent binds a participant, and optionally its token, to an encounter.
type CombatantAddedEvent struct {
	EncounterID string `json:"encounter_id"`
	CombatantID string `json:"combatant_id"`
	TokenID     string `json:"token_id,omitempty"`
}

func (e *CombatantAddedEvent) Type() EventType { return EventCombatantAdded }
func (e *CombatantAddedEvent) Apply(state *GameState) error {
	enc, ok := state.Encounters[e.EncounterID]
	if !ok {
		return fmt.Errorf("encounter %s: %w", e.EncounterID, ErrNotFound)
	}
	if _, ok := enc.Combatant(e.CombatantID); ok {
		return fmt.Errorf("combatant %s: %w", e.CombatantID, ErrConflict)
	}
	if e.TokenID != "" {
		if _, ok := state.Tokens[e.TokenID]; !ok {
			return fmt.Errorf("token %s: %w", e.TokenID, ErrNotFound)
		}
	}
	enc.Combatants = append(enc.Combatants, &Combatant{
		ID:          e.CombatantID,
		EncounterID: e.EncounterID,
		TokenID:     e.TokenID,
	})
	return nil
}
func (e *CombatantAddedEvent) Message() string {
	if e.TokenID == "" {
		return fmt.Sprintf("Combatant %s joined %s without a token.", e.CombatantID, e.EncounterID)
	}
	return fmt.Sprintf("Combatant %s joined %s with token %s.", e.CombatantID, e.EncounterID, e.TokenID)
}

// CombatantRemovedEvent unbinds a participant from its encounter.
type CombatantRemovedEvent struct {
	EncounterID string `json:"encounter_id"`
	CombatantID string `json:"combatant_id"`
}

func (e *CombatantRemovedEvent) Type() EventType { return EventCombatantRemoved }
func (e *CombatantRemovedEvent) Apply(state *GameState) error {
	enc, ok := state.Encounters[e.EncounterID]
	if !ok {
		return fmt.Errorf("encounter %s: %w", e.EncounterID, ErrNotFound)
	}
	for i, c := range enc.Combatants {
		if c.ID == e.CombatantID {
			enc.Combatants = append(enc.Combatants[:i], enc.Combatants[i+1:]...)
			state.releaseActing()
			return nil
		}
	}
	return fmt.Errorf("combatant %s: %w", e.CombatantID, ErrNotFound)
}
func (e *CombatantRemovedEvent) Message() string {
	return fmt.Sprintf("Combatant %s left %s.", e.CombatantID, e.EncounterID)
}

// ConditionAppliedEvent adds a non-maneuver status to a token.
type ConditionAppliedEvent struct {
	TokenID   string `json:"token_id"`
	Condition string `json:"condition"`
}

func (e *ConditionAppliedEvent) Type() EventType { return EventConditionApplied }
func (e *ConditionAppliedEvent) Apply(state *GameState) error {
	tok, ok := state.Tokens[e.TokenID]
	if !ok {
		return fmt.Errorf("token %s: %w", e.TokenID, ErrNotFound)
	}
	if e.Condition == maneuver.StatusID {
		return fmt.Errorf("condition %q is reserved for maneuvers", e.Condition)
	}
	if tok.HasStatus(e.Condition) {
		return nil
	}
	tok.Effects = append(tok.Effects, NewCondition(e.Condition))
	return nil
}
func (e *ConditionAppliedEvent) Message() string {
	return fmt.Sprintf("%s is now %s.", e.TokenID, e.Condition)
}

// ConditionRemovedEvent clears a non-maneuver status from a token.
type ConditionRemovedEvent struct {
	TokenID   string `json:"token_id"`
	Condition string `json:"condition"`
}

func (e *ConditionRemovedEvent) Type() EventType { return EventConditionRemoved }
func (e *ConditionRemovedEvent) Apply(state *GameState) error {
	tok, ok := state.Tokens[e.TokenID]
	if !ok {
		return fmt.Errorf("token %s: %w", e.TokenID, ErrNotFound)
	}
	kept := make([]*ActiveEffect, 0, len(tok.Effects))
	for _, eff := range tok.Effects {
		if eff.StatusID() != e.Condition || e.Condition == maneuver.StatusID {
			kept = append(kept, eff)
		}
	}
	tok.Effects = kept
	return nil
}
func (e *ConditionRemovedEvent) Message() string {
	return fmt.Sprintf("%s is no longer %s.", e.TokenID, e.Condition)
}

// ManeuverSetEvent replaces the token's maneuver effect with the named one.
type ManeuverSetEvent struct {
	TokenID  string `json:"token_id"`
	Maneuver string `json:"maneuver"`
}

func (e *ManeuverSetEvent) Type() EventType { return EventManeuverSet }
func (e *ManeuverSetEvent) Apply(state *GameState) error {
	tok, ok := state.Tokens[e.TokenID]
	if !ok {
		return fmt.Errorf("token %s: %w", e.TokenID, ErrNotFound)
	}
	payload, err := maneuver.Default().Get(e.Maneuver)
	if err != nil {
		return err
	}
	stripManeuvers(tok)
	tok.Effects = append(tok.Effects, NewManeuverEffect(payload))
	tok.ManeuverTurn = 0
	if state.Acting == tok.ID {
		tok.ManeuverTurn = state.Turn
	}
	return nil
}
func (e *ManeuverSetEvent) Message() string {
	return fmt.Sprintf("%s maneuver: %s.", e.TokenID, e.Maneuver)
}

// ManeuverRemovedEvent strips every maneuver effect from the token. It is a
// no-op for tokens without one.
type ManeuverRemovedEvent struct {
	TokenID string `json:"token_id"`
}

func (e *ManeuverRemovedEvent) Type() EventType { return EventManeuverRemoved }
func (e *ManeuverRemovedEvent) Apply(state *GameState) error {
	tok, ok := state.Tokens[e.TokenID]
	if !ok {
		return fmt.Errorf("token %s: %w", e.TokenID, ErrNotFound)
	}
	stripManeuvers(tok)
	tok.ManeuverTurn = 0
	return nil
}
func (e *ManeuverRemovedEvent) Message() string {
	return fmt.Sprintf("%s has no maneuver.", e.TokenID)
}

// TurnStartedEvent hands the turn to a token, ending the previous one. A
// maneuver declared ahead of the turn is taken for it.
type TurnStartedEvent struct {
	TokenID string `json:"token_id"`
}

func (e *TurnStartedEvent) Type() EventType { return EventTurnStarted }
func (e *TurnStartedEvent) Apply(state *GameState) error {
	tok, ok := state.Tokens[e.TokenID]
	if !ok {
		return fmt.Errorf("token %s: %w", e.TokenID, ErrNotFound)
	}
	state.Turn++
	state.Acting = e.TokenID
	if _, has := tok.Maneuver(); has && tok.ManeuverTurn == 0 {
		tok.ManeuverTurn = state.Turn
	}
	return nil
}
func (e *TurnStartedEvent) Message() string {
	return fmt.Sprintf("%s's turn.", e.TokenID)
}

func stripManeuvers(tok *Token) {
	kept := make([]*ActiveEffect, 0, len(tok.Effects))
	for _, eff := range tok.Effects {
		if !maneuver.IsMarkerManeuver(eff) {
			kept = append(kept, eff)
		}
	}
	tok.Effects = kept
}
