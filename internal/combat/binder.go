package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/suderio/draconic-maneuvers/internal/hooks"
	"github.com/suderio/draconic-maneuvers/internal/maneuver"
)

// Binder reacts to combat lifecycle hooks on behalf of the GM.
//
// Every observer receives the same hooks; only the one whose Authority
// reports GM mutates tokens. Missing tokens are a normal condition and never
// produce an error.
type Binder struct {
	registry  *maneuver.Registry
	authority Authority
	tokens    TokenResolver
	logger    *zap.Logger
	initial   string
}

// NewBinder creates a Binder that assigns maneuver.DoNothing on join.
// A nil logger is replaced by a no-op logger.
func NewBinder(registry *maneuver.Registry, authority Authority, tokens TokenResolver, logger *zap.Logger) *Binder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Binder{
		registry:  registry,
		authority: authority,
		tokens:    tokens,
		logger:    logger,
		initial:   maneuver.DoNothing,
	}
}

// Register subscribes the binder to the three lifecycle hooks and returns the handles.
func (b *Binder) Register(bus *hooks.Bus) []int {
	return []int{
		bus.On(hooks.CreateCombatant, func(ctx context.Context, payload any) {
			if ev, ok := payload.(CombatantEvent); ok {
				b.OnCombatantCreated(ctx, ev)
				return
			}
			b.unexpected(hooks.CreateCombatant, payload)
		}),
		bus.On(hooks.DeleteCombatant, func(ctx context.Context, payload any) {
			if ev, ok := payload.(CombatantEvent); ok {
				b.OnCombatantDeleted(ctx, ev)
				return
			}
			b.unexpected(hooks.DeleteCombatant, payload)
		}),
		bus.On(hooks.DeleteCombat, func(ctx context.Context, payload any) {
			if ev, ok := payload.(EncounterEvent); ok {
				b.OnEncounterDeleted(ctx, ev)
				return
			}
			b.unexpected(hooks.DeleteCombat, payload)
		}),
	}
}

// OnCombatantCreated assigns the initial maneuver to the combatant's token.
func (b *Binder) OnCombatantCreated(ctx context.Context, ev CombatantEvent) {
	if !b.authority.IsGM() {
		return
	}
	token, err := b.resolve(ev.Combatant)
	if err != nil {
		b.logger.Debug("create combatant: skipping", zap.String("combatant", ev.Combatant.ID), zap.Error(err))
		return
	}

	payload, err := b.registry.Get(b.initial)
	if err != nil {
		b.logger.Error("create combatant: initial maneuver missing", zap.String("maneuver", b.initial), zap.Error(err))
		return
	}
	if err := token.SetManeuver(ctx, payload.Flags.Gurps.Name); err != nil {
		b.logger.Warn("create combatant: set maneuver failed",
			zap.String("combatant", ev.Combatant.ID),
			zap.String("token", token.ID()),
			zap.Error(err))
		return
	}
	b.logger.Debug("create combatant: maneuver set",
		zap.String("combatant", ev.Combatant.ID),
		zap.String("token", token.ID()),
		zap.String("maneuver", payload.Flags.Gurps.Name))
}

// OnCombatantDeleted strips the maneuver from the combatant's token.
func (b *Binder) OnCombatantDeleted(ctx context.Context, ev CombatantEvent) {
	if !b.authority.IsGM() {
		return
	}
	if err := b.strip(ctx, ev.Combatant); err != nil {
		b.logger.Debug("delete combatant: skipping", zap.String("combatant", ev.Combatant.ID), zap.Error(err))
		return
	}
	b.logger.Debug("delete combatant: maneuver removed", zap.String("combatant", ev.Combatant.ID))
}

// OnEncounterDeleted strips the maneuver from every combatant still bound to
// the encounter. A failing combatant is logged and skipped; the rest are still processed.
// It returns the number of tokens whose maneuver was removed.
func (b *Binder) OnEncounterDeleted(ctx context.Context, ev EncounterEvent) int {
	if !b.authority.IsGM() {
		return 0
	}
	removed := 0
	for _, c := range ev.Encounter.Combatants {
		if err := b.strip(ctx, c); err != nil {
			b.logger.Debug("delete combat: skipping combatant",
				zap.String("encounter", ev.Encounter.ID),
				zap.String("combatant", c.ID),
				zap.Error(err))
			continue
		}
		removed++
	}
	b.logger.Debug("delete combat: maneuvers removed",
		zap.String("encounter", ev.Encounter.ID),
		zap.Int("removed", removed),
		zap.Int("combatants", len(ev.Encounter.Combatants)))
	return removed
}

func (b *Binder) strip(ctx context.Context, c Combatant) error {
	token, err := b.resolve(c)
	if err != nil {
		return err
	}
	if err := token.RemoveManeuver(ctx); err != nil {
		return fmt.Errorf("failed to remove maneuver from token %s: %w", token.ID(), err)
	}
	return nil
}

func (b *Binder) resolve(c Combatant) (Token, error) {
	if c.TokenID == "" {
		return nil, ErrUnresolvableToken
	}
	token, ok := b.tokens.ResolveToken(c.TokenID)
	if !ok || token == nil || token.ID() == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvableToken, c.TokenID)
	}
	return token, nil
}

func (b *Binder) unexpected(name hooks.Name, payload any) {
	b.logger.Warn("unexpected hook payload", zap.String("hook", string(name)), zap.String("type", fmt.Sprintf("%T", payload)))
}
