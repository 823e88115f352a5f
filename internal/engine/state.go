package engine

import (
	"sort"

	"github.com/suderio/draconic-maneuvers/internal/combat"
	"github.com/suderio/draconic-maneuvers/internal/maneuver"
)

// GameState is the projection of the scene: placed tokens and running encounters.
type GameState struct {
	Encounters map[string]*Encounter `json:"encounters"`
	Tokens     map[string]*Token     `json:"tokens"`

	// Acting is the token whose turn is in progress, or "".
	Acting string `json:"acting,omitempty"`
	// Turn counts started turns.
	Turn   int    `json:"turn"`
}

// Committed reports whether the token is acting and its maneuver was taken
// for the turn in progress.
func (s *GameState) Committed(tokenID string) bool {
	tok, ok := s.Tokens[tokenID]
	if !ok || s.Acting != tokenID {
		return false
	}
	return tok.ManeuverTurn != 0 && tok.ManeuverTurn == s.Turn
}

// bound reports whether any encounter has a combatant using the token.
func (s *GameState) bound(tokenID string) bool {
	for _, enc := range s.Encounters {
		for _, c := range enc.Combatants {
			if c.TokenID == tokenID {
				return true
			}
		}
	}
	return false
}

// releaseActing ends the turn in progress once its token left every encounter.
func (s *GameState) releaseActing() {
	if s.Acting != "" && !s.bound(s.Acting) {
		s.Acting = ""
	}
}

// NewGameState creates an empty scene.
func NewGameState() *GameState {
	return &GameState{
		Encounters: make(map[string]*Encounter),
		Tokens:     make(map[string]*Token),
	}
}

// Encounter is a tracked sequence of combatant turns.
type Encounter struct {
	ID         string       `json:"id"`
	Combatants []*Combatant `json:"combatants"`
}

// Combatant is one participant slot, optionally bound to a placed token.
type Combatant struct {
	ID          string `json:"id"`
	EncounterID string `json:"encounter_id"`
	TokenID     string `json:"token_id,omitempty"`
}

// Combatant returns the combatant with the given id.
func (e *Encounter) Combatant(id string) (*Combatant, bool) {
	for _, c := range e.Combatants {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Snapshot copies the encounter into the view handed to lifecycle hooks.
func (e *Encounter) Snapshot() combat.Encounter {
	out := combat.Encounter{ID: e.ID, Combatants: make([]combat.Combatant, 0, len(e.Combatants))}
	for _, c := range e.Combatants {
		out.Combatants = append(out.Combatants, c.Snapshot())
	}
	return out
}

// Snapshot copies the combatant into the view handed to lifecycle hooks.
func (c *Combatant) Snapshot() combat.Combatant {
	return combat.Combatant{ID: c.ID, EncounterID: c.EncounterID, TokenID: c.TokenID}
}

// Token is a placed actor on the scene.
type Token struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasicMove int             `json:"basic_move"`
	Effects   []*ActiveEffect `json:"effects"`

	// ManeuverTurn is the turn the current maneuver is taken for, 0 while it
	// waits for the token's next turn.
	ManeuverTurn int `json:"maneuver_turn,omitempty"`
}

// TemporaryEffects returns the token's active effects with maneuvers first.
func (t *Token) TemporaryEffects() []*ActiveEffect {
	return maneuver.OrderActiveMarkers(t.Effects)
}

// Maneuvers returns the token's maneuver effects.
func (t *Token) Maneuvers() []*ActiveEffect {
	return maneuver.FilterManeuverMarkers(t.Effects)
}

// Maneuver returns the name set by the current-maneuver override, if any.
// When several maneuver effects are present the highest priority wins; ties go to the latest.
func (t *Token) Maneuver() (string, bool) {
	c, ok := t.lastChange(maneuver.PropertyManeuver)
	if !ok {
		return "", false
	}
	return c.Value, true
}

// MoveOverride returns the movement directive left by the current maneuver.
func (t *Token) MoveOverride() (maneuver.MovePolicy, bool) {
	c, ok := t.lastChange(maneuver.PropertyMoveOverride)
	if !ok {
		return "", false
	}
	return maneuver.MovePolicy(c.Value), true
}

func (t *Token) lastChange(key string) (maneuver.Change, bool) {
	var changes []maneuver.Change
	for _, e := range t.Effects {
		for _, c := range e.Changes {
			if c.Key == key {
				changes = append(changes, c)
			}
		}
	}
	if len(changes) == 0 {
		return maneuver.Change{}, false
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Priority < changes[j].Priority })
	return changes[len(changes)-1], true
}

// HasStatus reports whether an effect with the given status id is active.
func (t *Token) HasStatus(status string) bool {
	for _, e := range t.Effects {
		if e.StatusID() == status {
			return true
		}
	}
	return false
}

// ActiveEffect is a status marker on a token.
type ActiveEffect struct {
	ID      string                    `json:"id"`
	Label   string                    `json:"label"`
	Icon    string                    `json:"icon"`
	Flags   map[string]map[string]any `json:"flags"`
	Changes []maneuver.Change         `json:"changes,omitempty"`
}

// NewCondition builds a plain status effect such as "prone" or "stun".
func NewCondition(status string) *ActiveEffect {
	return &ActiveEffect{
		ID:    status,
		Label: status,
		Icon:  "icons/svg/" + status + ".svg",
		Flags: map[string]map[string]any{
			maneuver.CoreNamespace: {maneuver.StatusIDKey: status},
		},
	}
}

// NewManeuverEffect turns a maneuver payload into a stored effect.
func NewManeuverEffect(p maneuver.EffectPayload) *ActiveEffect {
	changes := make([]maneuver.Change, len(p.Changes))
	copy(changes, p.Changes)
	return &ActiveEffect{
		ID:      p.ID,
		Label:   p.Label,
		Icon:    p.Icon,
		Flags:   p.FlagMap(),
		Changes: changes,
	}
}

// Flag returns the flag stored under namespace and key.
func (e *ActiveEffect) Flag(namespace, key string) (any, bool) {
	if e == nil {
		return nil, false
	}
	ns, ok := e.Flags[namespace]
	if !ok {
		return nil, false
	}
	v, ok := ns[key]
	return v, ok
}

// StatusID returns the core status id of the effect, or "".
func (e *ActiveEffect) StatusID() string {
	v, _ := e.Flag(maneuver.CoreNamespace, maneuver.StatusIDKey)
	s, _ := v.(string)
	return s
}
