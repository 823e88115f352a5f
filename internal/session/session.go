package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"go.uber.org/zap"

	"github.com/suderio/draconic-maneuvers/internal/combat"
	"github.com/suderio/draconic-maneuvers/internal/data"
	"github.com/suderio/draconic-maneuvers/internal/engine"
	"github.com/suderio/draconic-maneuvers/internal/hooks"
	"github.com/suderio/draconic-maneuvers/internal/i18n"
	"github.com/suderio/draconic-maneuvers/internal/maneuver"
	"github.com/suderio/draconic-maneuvers/internal/parser"
	"github.com/suderio/draconic-maneuvers/internal/rules"
)

// DefaultBasicMove is used for tokens placed without a move and without a roster entry.
const DefaultBasicMove = 5

// DefaultGM is the GM user name when none is configured.
const DefaultGM = "gm"

// ErrManeuverLocked is returned when a full-turn maneuver is changed during its own turn.
var ErrManeuverLocked = errors.New("maneuver is locked for the rest of the turn")

// Store defines the dependency required by Session to persist events
type Store interface {
	Append(evt engine.Event) error
	Load() ([]engine.Event, error)
	Close() error
}

// Config carries the session's identity and collaborators. Zero values are
// replaced by defaults in NewSession.
type Config struct {
	// GM is the user holding authority over combat lifecycle reactions.
	GM string
	// User acts when a command carries no "by:" block. Defaults to GM.
	User     string
	Locale   string
	DataDirs []string
	Logger   *zap.Logger
}

// Result is what one command produced: the events it recorded, including the
// ones emitted by lifecycle hooks, and any informational lines.
type Result struct {
	Events []engine.Event
	Lines  []string
}

// Messages renders the result for display.
func (r *Result) Messages() []string {
	out := make([]string, 0, len(r.Events)+len(r.Lines))
	for _, evt := range r.Events {
		out = append(out, evt.Message())
	}
	return append(out, r.Lines...)
}

// Session manages the cohesive loop of taking commands, executing them, persisting events, and projecting GameState
type Session struct {
	mu       sync.Mutex
	store    Store
	state    *engine.GameState
	parser   *participle.Parser[parser.Command]
	bus      *hooks.Bus
	binder   *combat.Binder
	registry *maneuver.Registry
	rules    *rules.Evaluator
	bundle   *i18n.Bundle
	loader   *data.Loader
	logger   *zap.Logger

	gm     string
	user   string
	locale string

	// per command
	actor   string
	emitted []engine.Event
}

// NewSession bootstraps a game session pipeline relying on an injected store.
// The log is replayed without firing lifecycle hooks.
func NewSession(store Store, cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gm := cfg.GM
	if gm == "" {
		gm = DefaultGM
	}
	user := cfg.User
	if user == "" {
		user = gm
	}
	locale := cfg.Locale
	if locale == "" {
		locale = i18n.BaseLocale
	}

	ev, err := rules.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rules evaluator: %w", err)
	}

	s := &Session{
		store:    store,
		parser:   parser.Build(),
		bus:      hooks.NewBus(),
		registry: maneuver.Default(),
		rules:    ev,
		bundle:   i18n.Default(),
		loader:   data.NewLoader(cfg.DataDirs),
		logger:   logger,
		gm:       gm,
		user:     user,
		locale:   locale,
	}
	s.binder = combat.NewBinder(s.registry, combat.AuthorityFunc(s.isGM), s, logger.Named("binder"))
	s.binder.Register(s.bus)

	if err := s.RebuildState(); err != nil {
		return nil, err
	}
	return s, nil
}

// RebuildState reads the entire event log from the store and projects the latest GameState
func (s *Session) RebuildState() error {
	events, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load event log: %w", err)
	}

	state, err := engine.NewProjector().Build(events)
	if err != nil {
		return fmt.Errorf("failed to project game state: %w", err)
	}

	s.state = state
	s.logger.Debug("state rebuilt", zap.Int("events", len(events)))
	return nil
}

// State returns the current projected GameState
func (s *Session) State() *engine.GameState {
	return s.state
}

// Bus exposes the lifecycle hook bus so other observers can subscribe.
func (s *Session) Bus() *hooks.Bus {
	return s.bus
}

// Close releases the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}

// Execute parses one command line, records the events it produces, and fires
// the matching lifecycle hook.
func (s *Session) Execute(ctx context.Context, input string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input = strings.TrimSpace(input)
	cmd, err := s.parser.ParseString("", input)
	if err != nil {
		s.logger.Debug("parse failed", zap.String("input", input), zap.Error(err))
		return nil, parser.MapError(input, err)
	}

	s.actor = cmd.By()
	if s.actor == "" {
		s.actor = s.user
	}
	s.emitted = nil
	defer func() { s.emitted = nil }()

	res := &Result{}
	switch {
	case cmd.Encounter != nil:
		err = s.encounter(ctx, cmd.Encounter)
	case cmd.Combatant != nil:
		err = s.combatant(ctx, cmd.Combatant)
	case cmd.Token != nil:
		err = s.token(cmd.Token)
	case cmd.Maneuver != nil:
		err = s.maneuver(cmd.Maneuver)
	case cmd.Condition != nil:
		err = s.condition(cmd.Condition)
	case cmd.Turn != nil:
		err = s.record(&engine.TurnStartedEvent{TokenID: cmd.Turn.Token})
	case cmd.Status != nil:
		res.Lines, err = s.status(cmd.Status.Token)
	case cmd.Move != nil:
		res.Lines, err = s.move(cmd.Move.Token)
	case cmd.Maneuvers != nil:
		res.Lines = s.catalog()
	case cmd.Help != nil:
		res.Lines = help(cmd.Help.Topic)
	}
	if err != nil {
		return nil, err
	}

	res.Events = s.emitted
	s.logger.Debug("command executed",
		zap.String("input", input),
		zap.String("actor", s.actor),
		zap.Int("events", len(res.Events)))
	return res, nil
}

func (s *Session) isGM() bool {
	return strings.EqualFold(s.actor, s.gm)
}

// record applies evt to the state and appends it to the log. A failed append
// resyncs the state from the log.
func (s *Session) record(evt engine.Event) error {
	if err := evt.Apply(s.state); err != nil {
		return err
	}
	if err := s.store.Append(evt); err != nil {
		if rerr := s.RebuildState(); rerr != nil {
			s.logger.Error("state resync failed", zap.Error(rerr))
		}
		return fmt.Errorf("failed to persist event log: %w", err)
	}
	s.emitted = append(s.emitted, evt)
	return nil
}

func (s *Session) encounter(ctx context.Context, cmd *parser.EncounterCmd) error {
	if cmd.Action == "create" {
		return s.record(&engine.EncounterCreatedEvent{EncounterID: cmd.ID})
	}

	enc, ok := s.state.Encounters[cmd.ID]
	if !ok {
		return fmt.Errorf("encounter %s: %w", cmd.ID, engine.ErrNotFound)
	}
	snapshot := enc.Snapshot()
	if err := s.record(&engine.EncounterDeletedEvent{EncounterID: cmd.ID}); err != nil {
		return err
	}
	s.bus.Call(ctx, hooks.DeleteCombat, combat.EncounterEvent{Encounter: snapshot, UserID: s.actor})
	return nil
}

func (s *Session) combatant(ctx context.Context, cmd *parser.CombatantCmd) error {
	if add := cmd.Add; add != nil {
		enc, ok := s.state.Encounters[add.Encounter]
		if !ok {
			return fmt.Errorf("encounter %s: %w", add.Encounter, engine.ErrNotFound)
		}
		id := add.ID
		if id == "" {
			id = nextCombatantID(enc, add.Token)
		}
		err := s.record(&engine.CombatantAddedEvent{EncounterID: add.Encounter, CombatantID: id, TokenID: add.Token})
		if err != nil {
			return err
		}
		c, _ := enc.Combatant(id)
		s.bus.Call(ctx, hooks.CreateCombatant, combat.CombatantEvent{Combatant: c.Snapshot(), UserID: s.actor})
		return nil
	}

	rm := cmd.Remove
	enc, ok := s.state.Encounters[rm.Encounter]
	if !ok {
		return fmt.Errorf("encounter %s: %w", rm.Encounter, engine.ErrNotFound)
	}
	c, ok := enc.Combatant(rm.ID)
	if !ok {
		return fmt.Errorf("combatant %s: %w", rm.ID, engine.ErrNotFound)
	}
	snapshot := c.Snapshot()
	if err := s.record(&engine.CombatantRemovedEvent{EncounterID: rm.Encounter, CombatantID: rm.ID}); err != nil {
		return err
	}
	s.bus.Call(ctx, hooks.DeleteCombatant, combat.CombatantEvent{Combatant: snapshot, UserID: s.actor})
	return nil
}

func nextCombatantID(enc *engine.Encounter, token string) string {
	if token != "" {
		if _, taken := enc.Combatant(token); !taken {
			return token
		}
		for n := 2; ; n++ {
			id := fmt.Sprintf("%s-%d", token, n)
			if _, taken := enc.Combatant(id); !taken {
				return id
			}
		}
	}
	for n := len(enc.Combatants) + 1; ; n++ {
		id := fmt.Sprintf("c%d", n)
		if _, taken := enc.Combatant(id); !taken {
			return id
		}
	}
}

func (s *Session) token(cmd *parser.TokenCmd) error {
	if rm := cmd.Remove; rm != nil {
		return s.record(&engine.TokenRemovedEvent{TokenID: rm.ID})
	}

	place := cmd.Place
	evt := &engine.TokenPlacedEvent{TokenID: place.ID, Name: place.Name, BasicMove: DefaultBasicMove}
	if place.Move != nil {
		evt.BasicMove = *place.Move
	}
	if place.Name == "" || place.Move == nil {
		actor, err := s.loader.LoadActor(place.ID)
		switch {
		case errors.Is(err, data.ErrNotFound):
		case err != nil:
			return err
		default:
			if place.Name == "" {
				evt.Name = actor.Name
			}
			if place.Move == nil {
				evt.BasicMove = actor.BasicMove
			}
		}
	}
	return s.record(evt)
}

func (s *Session) maneuver(cmd *parser.ManeuverCmd) error {
	if clr := cmd.Clear; clr != nil {
		return s.record(&engine.ManeuverRemovedEvent{TokenID: clr.Token})
	}

	set := cmd.Set
	tok, ok := s.state.Tokens[set.Token]
	if !ok {
		return fmt.Errorf("token %s: %w", set.Token, engine.ErrNotFound)
	}
	if current, ok := tok.Maneuver(); ok {
		def, found := s.registry.Lookup(current)
		if found && !rules.CanChangeManeuver(def, s.state.Committed(tok.ID)) {
			return fmt.Errorf("%w: %s is committed to %s", ErrManeuverLocked, tok.ID, current)
		}
	}
	return s.record(&engine.ManeuverSetEvent{TokenID: set.Token, Maneuver: set.Name})
}

func (s *Session) condition(cmd *parser.ConditionCmd) error {
	if cmd.Action == "add" {
		return s.record(&engine.ConditionAppliedEvent{TokenID: cmd.Token, Condition: cmd.Name})
	}
	return s.record(&engine.ConditionRemovedEvent{TokenID: cmd.Token, Condition: cmd.Name})
}

func (s *Session) translate(key string) string {
	return s.bundle.Translate(s.locale, key)
}

func (s *Session) status(id string) ([]string, error) {
	tok, ok := s.state.Tokens[id]
	if !ok {
		return nil, fmt.Errorf("token %s: %w", id, engine.ErrNotFound)
	}
	lines := []string{fmt.Sprintf("%s (%s %d)", tok.Name, s.translate("ui.move"), tok.BasicMove)}
	for _, eff := range tok.TemporaryEffects() {
		lines = append(lines, "- "+s.translate(eff.Label))
	}
	return lines, nil
}

func (s *Session) move(id string) ([]string, error) {
	tok, ok := s.state.Tokens[id]
	if !ok {
		return nil, fmt.Errorf("token %s: %w", id, engine.ErrNotFound)
	}

	label := "-"
	policy := maneuver.MoveFull
	defense := maneuver.DefenseAny
	if name, ok := tok.Maneuver(); ok {
		if def, ok := s.registry.Lookup(name); ok {
			label = s.translate(def.Label())
			defense = def.Defense()
		}
	}
	if mv, ok := tok.MoveOverride(); ok {
		policy = mv
	}

	yards, err := s.rules.MoveAllowance(tok.BasicMove, policy)
	if err != nil {
		return nil, err
	}
	defenses, err := s.rules.AllowedDefenses(defense)
	if err != nil {
		return nil, err
	}
	allowed := "-"
	if len(defenses) > 0 {
		allowed = strings.Join(defenses, ", ")
	}
	return []string{
		fmt.Sprintf("%s: %s", tok.Name, label),
		fmt.Sprintf("%s: %d (%s)", s.translate("ui.move"), yards, policy),
		fmt.Sprintf("%s: %s", s.translate("ui.defense"), allowed),
	}, nil
}

func (s *Session) catalog() []string {
	defs := s.registry.Catalog().Definitions()
	lines := make([]string, 0, len(defs))
	for _, def := range defs {
		lines = append(lines, fmt.Sprintf("%-16s %s", def.Name(), s.translate(def.Label())))
	}
	return lines
}

func help(topic string) []string {
	if usage, ok := parser.Usage[strings.ToLower(topic)]; ok {
		return []string{usage}
	}
	keys := make([]string, 0, len(parser.Usage))
	for k := range parser.Usage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, parser.Usage[k])
	}
	return lines
}

// ResolveToken implements combat.TokenResolver over the projected scene.
func (s *Session) ResolveToken(id string) (combat.Token, bool) {
	if _, ok := s.state.Tokens[id]; !ok {
		return nil, false
	}
	return tokenHandle{s: s, id: id}, true
}

// tokenHandle mutates a placed token by recording maneuver events. It is only
// used from hook handlers running inside Execute.
type tokenHandle struct {
	s  *Session
	id string
}

func (h tokenHandle) ID() string { return h.id }

func (h tokenHandle) SetManeuver(_ context.Context, name string) error {
	return h.s.record(&engine.ManeuverSetEvent{TokenID: h.id, Maneuver: name})
}

func (h tokenHandle) RemoveManeuver(context.Context) error {
	tok, ok := h.s.state.Tokens[h.id]
	if !ok {
		return fmt.Errorf("token %s: %w", h.id, engine.ErrNotFound)
	}
	if len(tok.Maneuvers()) == 0 {
		return nil
	}
	return h.s.record(&engine.ManeuverRemovedEvent{TokenID: h.id})
}
