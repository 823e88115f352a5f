package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/draconic-maneuvers/internal/maneuver"
)

func TestProjectorBuild(t *testing.T) {
	events := []Event{
		&TokenPlacedEvent{TokenID: "fighter", BasicMove: 5},
		&TokenPlacedEvent{TokenID: "goblin", Name: "Goblin", BasicMove: 6},
		&EncounterCreatedEvent{EncounterID: "ambush"},
		&CombatantAddedEvent{EncounterID: "ambush", CombatantID: "c1", TokenID: "fighter"},
		&CombatantAddedEvent{EncounterID: "ambush", CombatantID: "c2", TokenID: "goblin"},
		&CombatantAddedEvent{EncounterID: "ambush", CombatantID: "c3"},
		&ManeuverSetEvent{TokenID: "fighter", Maneuver: "attack"},
		&ConditionAppliedEvent{TokenID: "goblin", Condition: "prone"},
	}

	state, err := NewProjector().Build(events)
	require.NoError(t, err)

	require.Len(t, state.Tokens, 2)
	assert.Equal(t, "fighter", state.Tokens["fighter"].Name)
	assert.Equal(t, "Goblin", state.Tokens["goblin"].Name)

	enc := state.Encounters["ambush"]
	require.NotNil(t, enc)
	assert.Len(t, enc.Combatants, 3)

	name, ok := state.Tokens["fighter"].Maneuver()
	assert.True(t, ok)
	assert.Equal(t, "attack", name)
	assert.True(t, state.Tokens["goblin"].HasStatus("prone"))
}

func TestProjectorStopsOnFailure(t *testing.T) {
	_, err := NewProjector().Build([]Event{
		&CombatantAddedEvent{EncounterID: "nowhere", CombatantID: "c1"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "CombatantAdded")
}

func TestManeuverSetReplacesPrevious(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1", BasicMove: 5}).Apply(state))
	require.NoError(t, (&ManeuverSetEvent{TokenID: "t1", Maneuver: "do_nothing"}).Apply(state))
	require.NoError(t, (&ManeuverSetEvent{TokenID: "t1", Maneuver: "allout_attack"}).Apply(state))

	tok := state.Tokens["t1"]
	assert.Len(t, tok.Maneuvers(), 1)
	name, _ := tok.Maneuver()
	assert.Equal(t, "allout_attack", name)
	move, ok := tok.MoveOverride()
	assert.True(t, ok)
	assert.Equal(t, maneuver.MoveHalf, move)
}

func TestManeuverSetUnknown(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))
	err := (&ManeuverSetEvent{TokenID: "t1", Maneuver: "cartwheel"}).Apply(state)
	assert.ErrorIs(t, err, maneuver.ErrUnknownManeuver)
	assert.Empty(t, state.Tokens["t1"].Effects)
}

func TestManeuverRemovedIsIdempotent(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))
	require.NoError(t, (&ConditionAppliedEvent{TokenID: "t1", Condition: "stun"}).Apply(state))
	require.NoError(t, (&ManeuverSetEvent{TokenID: "t1", Maneuver: "aim"}).Apply(state))

	remove := &ManeuverRemovedEvent{TokenID: "t1"}
	require.NoError(t, remove.Apply(state))
	require.NoError(t, remove.Apply(state))

	tok := state.Tokens["t1"]
	_, ok := tok.Maneuver()
	assert.False(t, ok)
	assert.True(t, tok.HasStatus("stun"))

	assert.ErrorIs(t, (&ManeuverRemovedEvent{TokenID: "ghost"}).Apply(state), ErrNotFound)
}

func TestTemporaryEffectsPutManeuverFirst(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))
	require.NoError(t, (&ConditionAppliedEvent{TokenID: "t1", Condition: "prone"}).Apply(state))
	require.NoError(t, (&ManeuverSetEvent{TokenID: "t1", Maneuver: "wait"}).Apply(state))
	require.NoError(t, (&ConditionAppliedEvent{TokenID: "t1", Condition: "stun"}).Apply(state))

	tok := state.Tokens["t1"]
	var order []string
	for _, e := range tok.TemporaryEffects() {
		order = append(order, e.StatusID())
	}
	assert.Equal(t, []string{maneuver.StatusID, "prone", "stun"}, order)

	// storage order is untouched
	assert.Equal(t, "prone", tok.Effects[0].StatusID())
}

func TestConditionEvents(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))

	apply := &ConditionAppliedEvent{TokenID: "t1", Condition: "prone"}
	require.NoError(t, apply.Apply(state))
	require.NoError(t, apply.Apply(state))
	assert.Len(t, state.Tokens["t1"].Effects, 1)

	assert.Error(t, (&ConditionAppliedEvent{TokenID: "t1", Condition: maneuver.StatusID}).Apply(state))

	require.NoError(t, (&ManeuverSetEvent{TokenID: "t1", Maneuver: "ready"}).Apply(state))
	require.NoError(t, (&ConditionRemovedEvent{TokenID: "t1", Condition: maneuver.StatusID}).Apply(state))
	require.NoError(t, (&ConditionRemovedEvent{TokenID: "t1", Condition: "prone"}).Apply(state))

	tok := state.Tokens["t1"]
	assert.False(t, tok.HasStatus("prone"))
	assert.True(t, tok.HasStatus(maneuver.StatusID))
}

func TestCombatantEvents(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&EncounterCreatedEvent{EncounterID: "e1"}).Apply(state))
	assert.ErrorIs(t, (&EncounterCreatedEvent{EncounterID: "e1"}).Apply(state), ErrConflict)

	assert.ErrorIs(t, (&CombatantAddedEvent{EncounterID: "e1", CombatantID: "c1", TokenID: "t1"}).Apply(state), ErrNotFound)
	require.NoError(t, (&CombatantAddedEvent{EncounterID: "e1", CombatantID: "c1"}).Apply(state))
	assert.ErrorIs(t, (&CombatantAddedEvent{EncounterID: "e1", CombatantID: "c1"}).Apply(state), ErrConflict)

	snap := state.Encounters["e1"].Snapshot()
	assert.Equal(t, "e1", snap.ID)
	require.Len(t, snap.Combatants, 1)
	assert.Empty(t, snap.Combatants[0].TokenID)

	require.NoError(t, (&CombatantRemovedEvent{EncounterID: "e1", CombatantID: "c1"}).Apply(state))
	assert.ErrorIs(t, (&CombatantRemovedEvent{EncounterID: "e1", CombatantID: "c1"}).Apply(state), ErrNotFound)

	require.NoError(t, (&EncounterDeletedEvent{EncounterID: "e1"}).Apply(state))
	assert.ErrorIs(t, (&EncounterDeletedEvent{EncounterID: "e1"}).Apply(state), ErrNotFound)
}

func TestActiveEffectFlags(t *testing.T) {
	var nilEffect *ActiveEffect
	_, ok := nilEffect.Flag(maneuver.CoreNamespace, maneuver.StatusIDKey)
	assert.False(t, ok)
	assert.False(t, maneuver.IsMarkerManeuver(nilEffect))

	cond := NewCondition("stun")
	assert.Equal(t, "stun", cond.StatusID())
	_, ok = cond.Flag(maneuver.GurpsNamespace, "name")
	assert.False(t, ok)

	p, err := maneuver.Default().Get("feint")
	require.NoError(t, err)
	eff := NewManeuverEffect(p)
	assert.True(t, maneuver.IsMarkerManeuver(eff))
	v, ok := eff.Flag(maneuver.GurpsNamespace, "name")
	assert.True(t, ok)
	assert.Equal(t, "feint", v)
}

func TestTurnStarted(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t2"}).Apply(state))

	require.NoError(t, (&TurnStartedEvent{TokenID: "t1"}).Apply(state))
	assert.Equal(t, "t1", state.Acting)
	require.NoError(t, (&TurnStartedEvent{TokenID: "t2"}).Apply(state))
	assert.Equal(t, "t2", state.Acting)

	require.NoError(t, (&TokenRemovedEvent{TokenID: "t2"}).Apply(state))
	assert.Empty(t, state.Acting)
	assert.ErrorIs(t, (&TurnStartedEvent{TokenID: "t2"}).Apply(state), ErrNotFound)
}

func TestManeuverTakenForTurn(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t2"}).Apply(state))

	// declared ahead, taken when the turn starts
	require.NoError(t, (&ManeuverSetEvent{TokenID: "t1", Maneuver: "aim"}).Apply(state))
	assert.False(t, state.Committed("t1"))
	require.NoError(t, (&TurnStartedEvent{TokenID: "t1"}).Apply(state))
	assert.Equal(t, 1, state.Turn)
	assert.True(t, state.Committed("t1"))

	require.NoError(t, (&TurnStartedEvent{TokenID: "t2"}).Apply(state))
	assert.False(t, state.Committed("t1"))
	require.NoError(t, (&TurnStartedEvent{TokenID: "t1"}).Apply(state))
	assert.False(t, state.Committed("t1"))

	require.NoError(t, (&ManeuverSetEvent{TokenID: "t1", Maneuver: "concentrate"}).Apply(state))
	assert.True(t, state.Committed("t1"))
	require.NoError(t, (&ManeuverRemovedEvent{TokenID: "t1"}).Apply(state))
	assert.False(t, state.Committed("t1"))
}

func TestActingEndsWhenTokenLeavesEncounters(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))
	require.NoError(t, (&EncounterCreatedEvent{EncounterID: "e1"}).Apply(state))
	require.NoError(t, (&EncounterCreatedEvent{EncounterID: "e2"}).Apply(state))
	require.NoError(t, (&CombatantAddedEvent{EncounterID: "e1", CombatantID: "c1", TokenID: "t1"}).Apply(state))
	require.NoError(t, (&CombatantAddedEvent{EncounterID: "e2", CombatantID: "c2", TokenID: "t1"}).Apply(state))
	require.NoError(t, (&TurnStartedEvent{TokenID: "t1"}).Apply(state))

	require.NoError(t, (&CombatantRemovedEvent{EncounterID: "e1", CombatantID: "c1"}).Apply(state))
	assert.Equal(t, "t1", state.Acting)
	require.NoError(t, (&EncounterDeletedEvent{EncounterID: "e2"}).Apply(state))
	assert.Empty(t, state.Acting)

	require.NoError(t, (&CombatantAddedEvent{EncounterID: "e1", CombatantID: "c3", TokenID: "t1"}).Apply(state))
	require.NoError(t, (&TurnStartedEvent{TokenID: "t1"}).Apply(state))
	require.NoError(t, (&CombatantRemovedEvent{EncounterID: "e1", CombatantID: "c3"}).Apply(state))
	assert.Empty(t, state.Acting)
}

func TestConditionRemovedLeavesCallerSliceIntact(t *testing.T) {
	state := NewGameState()
	require.NoError(t, (&TokenPlacedEvent{TokenID: "t1"}).Apply(state))
	require.NoError(t, (&ConditionAppliedEvent{TokenID: "t1", Condition: "prone"}).Apply(state))
	require.NoError(t, (&ConditionAppliedEvent{TokenID: "t1", Condition: "stun"}).Apply(state))

	held := state.Tokens["t1"].Effects
	require.NoError(t, (&ConditionRemovedEvent{TokenID: "t1", Condition: "prone"}).Apply(state))

	require.Len(t, state.Tokens["t1"].Effects, 1)
	assert.Equal(t, "stun", state.Tokens["t1"].Effects[0].StatusID())
	assert.Equal(t, "prone", held[0].StatusID())
	assert.Equal(t, "stun", held[1].StatusID())
}
