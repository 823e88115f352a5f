package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/draconic-maneuvers/internal/engine"
	"github.com/suderio/draconic-maneuvers/internal/hooks"
	"github.com/suderio/draconic-maneuvers/internal/maneuver"
)

func newTestSession(t *testing.T, store Store, cfg Config) *Session {
	t.Helper()
	if cfg.GM == "" {
		cfg.GM = "gm"
	}
	s, err := NewSession(store, cfg)
	require.NoError(t, err)
	return s
}

func run(t *testing.T, s *Session, lines ...string) *Result {
	t.Helper()
	var last *Result
	for _, line := range lines {
		res, err := s.Execute(context.Background(), line)
		require.NoError(t, err, line)
		last = res
	}
	return last
}

func currentManeuver(s *Session, token string) string {
	name, _ := s.State().Tokens[token].Maneuver()
	return name
}

func eventTypes(res *Result) []engine.EventType {
	out := make([]engine.EventType, 0, len(res.Events))
	for _, e := range res.Events {
		out = append(out, e.Type())
	}
	return out
}

func TestJoiningEncounterAssignsDoNothing(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "token place robin move: 6", "encounter create ambush")

	res := run(t, s, "combatant add ambush token: robin")
	assert.Equal(t, []engine.EventType{engine.EventCombatantAdded, engine.EventManeuverSet}, eventTypes(res))
	assert.Equal(t, maneuver.DoNothing, currentManeuver(s, "robin"))
	assert.Len(t, s.State().Tokens["robin"].Maneuvers(), 1)

	_, ok := s.State().Encounters["ambush"].Combatant("robin")
	assert.True(t, ok)
}

func TestNonGMActorTriggersNothing(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "token place robin", "encounter create ambush")

	res := run(t, s, "combatant add ambush token: robin by: alice")
	assert.Equal(t, []engine.EventType{engine.EventCombatantAdded}, eventTypes(res))
	assert.Empty(t, currentManeuver(s, "robin"))
}

func TestConfiguredUserIsNotGM(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{User: "alice"})
	run(t, s, "token place robin", "encounter create ambush", "combatant add ambush token: robin")
	assert.Empty(t, currentManeuver(s, "robin"))

	run(t, s, "combatant add ambush token: robin by: gm")
	assert.Equal(t, maneuver.DoNothing, currentManeuver(s, "robin"))
}

func TestCombatantWithoutTokenJoinsQuietly(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "encounter create ambush")

	res := run(t, s, "combatant add ambush")
	assert.Equal(t, []engine.EventType{engine.EventCombatantAdded}, eventTypes(res))
	_, ok := s.State().Encounters["ambush"].Combatant("c1")
	assert.True(t, ok)
}

func TestLeavingEncounterStripsManeuver(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s,
		"token place robin",
		"condition add robin prone",
		"encounter create ambush",
		"combatant add ambush token: robin as: r1",
		"maneuver set robin attack",
	)

	res := run(t, s, "combatant remove ambush r1")
	assert.Equal(t, []engine.EventType{engine.EventCombatantRemoved, engine.EventManeuverRemoved}, eventTypes(res))
	assert.Empty(t, currentManeuver(s, "robin"))
	assert.True(t, s.State().Tokens["robin"].HasStatus("prone"))
}

func TestDeletingEncounterStripsAllManeuvers(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s,
		"token place robin",
		"token place lancelot",
		"token place galahad",
		"encounter create ambush",
		"combatant add ambush token: robin",
		"combatant add ambush as: lurker",
		"combatant add ambush token: lancelot",
		"combatant add ambush token: galahad",
		"token remove galahad",
	)

	res := run(t, s, "encounter delete ambush")
	assert.Equal(t, []engine.EventType{
		engine.EventEncounterDeleted,
		engine.EventManeuverRemoved,
		engine.EventManeuverRemoved,
	}, eventTypes(res))
	assert.Empty(t, currentManeuver(s, "robin"))
	assert.Empty(t, currentManeuver(s, "lancelot"))
	assert.NotContains(t, s.State().Encounters, "ambush")
}

func TestRemovedTokenIsSkippedOnLeave(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "token place robin", "encounter create ambush", "combatant add ambush token: robin", "token remove robin")

	res := run(t, s, "combatant remove ambush robin")
	assert.Equal(t, []engine.EventType{engine.EventCombatantRemoved}, eventTypes(res))
}

func TestReplayDoesNotFireHooks(t *testing.T) {
	store := NewMemoryStore()
	s := newTestSession(t, store, Config{})
	run(t, s, "token place robin", "encounter create ambush", "combatant add ambush token: robin")
	logged := store.Len()

	fired := 0
	replayed := newTestSession(t, store, Config{})
	replayed.Bus().On(hooks.CreateCombatant, func(context.Context, any) { fired++ })
	require.NoError(t, replayed.RebuildState())

	assert.Equal(t, 0, fired)
	assert.Equal(t, logged, store.Len())
	assert.Equal(t, maneuver.DoNothing, currentManeuver(replayed, "robin"))
}

func TestFullTurnManeuverIsLockedDuringItsTurn(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "token place robin", "token place lancelot", "maneuver set robin aim", "turn robin")

	_, err := s.Execute(context.Background(), "maneuver set robin attack")
	require.ErrorIs(t, err, ErrManeuverLocked)
	assert.Equal(t, "aim", currentManeuver(s, "robin"))

	run(t, s, "turn lancelot", "maneuver set robin attack")
	assert.Equal(t, "attack", currentManeuver(s, "robin"))

	// a regular maneuver may change during the turn
	run(t, s, "turn robin", "maneuver set robin feint")
	assert.Equal(t, "feint", currentManeuver(s, "robin"))
}

func TestFullTurnLockEndsWithTheTurn(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "token place robin", "token place lancelot", "turn robin", "maneuver set robin aim")

	_, err := s.Execute(context.Background(), "maneuver set robin attack")
	require.ErrorIs(t, err, ErrManeuverLocked)

	run(t, s, "turn lancelot", "turn robin", "maneuver set robin attack")
	assert.Equal(t, "attack", currentManeuver(s, "robin"))
}

func TestFullTurnLockSurvivesReplay(t *testing.T) {
	store := NewMemoryStore()
	s := newTestSession(t, store, Config{})
	run(t, s, "token place robin", "turn robin", "maneuver set robin concentrate")

	replayed := newTestSession(t, store, Config{})
	_, err := replayed.Execute(context.Background(), "maneuver set robin attack")
	require.ErrorIs(t, err, ErrManeuverLocked)
}

func TestLeavingEncounterEndsTheTurn(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s,
		"token place robin",
		"encounter create ambush",
		"combatant add ambush token: robin",
		"turn robin",
		"maneuver set robin aim",
		"combatant remove ambush robin",
	)
	assert.Empty(t, s.State().Acting)

	run(t, s, "maneuver set robin aim", "maneuver set robin attack")
	assert.Equal(t, "attack", currentManeuver(s, "robin"))
}

func TestGMNameIgnoresCase(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "token place robin", "encounter create ambush")

	run(t, s, "combatant add ambush token: robin by: GM")
	assert.Equal(t, maneuver.DoNothing, currentManeuver(s, "robin"))
}

func TestMoveReport(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	run(t, s, "token place robin move: 5")

	res := run(t, s, "move robin")
	assert.Equal(t, []string{"robin: -", "Move: 5 (full)", "Defense: dodge, parry, block"}, res.Lines)

	run(t, s, "maneuver set robin allout_attack")
	res = run(t, s, "move robin")
	assert.Equal(t, []string{"robin: All-Out Attack", "Move: 3 (half)", "Defense: -"}, res.Lines)

	run(t, s, "maneuver set robin move_and_attack")
	res = run(t, s, "move robin")
	assert.Equal(t, "Defense: dodge, block", res.Lines[2])
}

func TestStatusListsManeuverFirst(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{Locale: "pt-BR"})
	run(t, s, "token place robin name: \"Sir Robin\" move: 6", "condition add robin prone", "maneuver set robin wait")

	res := run(t, s, "status robin")
	assert.Equal(t, []string{"Sir Robin (Deslocamento 6)", "- Esperar", "- prone"}, res.Lines)
	assert.Empty(t, res.Events)
}

func TestTokenPlacedFromRoster(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "actors"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "actors", "robin.yaml"), []byte("name: Brave Sir Robin\nbasic_move: 7\n"), 0644))

	s := newTestSession(t, NewMemoryStore(), Config{DataDirs: []string{dir}})
	run(t, s, "token place robin", "token place goblin", "token place lancelot move: 4")

	robin := s.State().Tokens["robin"]
	assert.Equal(t, "Brave Sir Robin", robin.Name)
	assert.Equal(t, 7, robin.BasicMove)
	assert.Equal(t, DefaultBasicMove, s.State().Tokens["goblin"].BasicMove)
	assert.Equal(t, 4, s.State().Tokens["lancelot"].BasicMove)
}

func TestExecuteErrors(t *testing.T) {
	store := NewMemoryStore()
	s := newTestSession(t, store, Config{})
	ctx := context.Background()

	_, err := s.Execute(ctx, "maneuver set")
	assert.ErrorContains(t, err, "The command maneuver must be")

	_, err = s.Execute(ctx, "maneuver set ghost attack")
	assert.ErrorIs(t, err, engine.ErrNotFound)

	run(t, s, "token place robin")
	_, err = s.Execute(ctx, "maneuver set robin cartwheel")
	assert.ErrorIs(t, err, maneuver.ErrUnknownManeuver)

	_, err = s.Execute(ctx, "encounter delete nowhere")
	assert.ErrorIs(t, err, engine.ErrNotFound)

	// failed commands leave nothing in the log
	assert.Equal(t, 1, store.Len())
}

func TestCatalogAndHelp(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})

	res := run(t, s, "maneuvers")
	require.Len(t, res.Lines, maneuver.Default().Catalog().Len())
	assert.Contains(t, res.Lines[0], "do_nothing")
	assert.Contains(t, res.Lines[0], "Do Nothing")

	res = run(t, s, "help turn")
	assert.Equal(t, []string{"turn <token>"}, res.Lines)

	res = run(t, s, "help")
	assert.Greater(t, len(res.Lines), 5)
}

func TestResultMessages(t *testing.T) {
	s := newTestSession(t, NewMemoryStore(), Config{})
	res := run(t, s, "token place robin move: 6")
	assert.Equal(t, []string{"Token robin placed (Move 6)."}, res.Messages())
}
