package maneuver

// StatusID is the status id carried by every maneuver effect.
const StatusID = "maneuver"

// Flag namespaces and keys read by the marker capability.
const (
	CoreNamespace  = "core"
	StatusIDKey    = "statusId"
	GurpsNamespace = "gurps"
)

// Keys of the directives a maneuver effect applies to its actor.
const (
	PropertyManeuver     = "data.conditions.maneuver"
	PropertyMoveOverride = "data.moveoverride"
)

// ChangeMode selects how a directive is merged into the actor data.
type ChangeMode int

// Values match the host's effect modes.
const (
	ModeCustom    ChangeMode = 0
	ModeMultiply  ChangeMode = 1
	ModeAdd       ChangeMode = 2
	ModeDowngrade ChangeMode = 3
	ModeUpgrade   ChangeMode = 4
	ModeOverride  ChangeMode = 5
)

// ManeuverPriority is the priority of the current-maneuver override.
const ManeuverPriority = 10

// Change is a declarative field directive.
type Change struct {
	Key      string     `json:"key"`
	Value    string     `json:"value"`
	Mode     ChangeMode `json:"mode"`
	Priority int        `json:"priority,omitempty"`
}

// Metadata is the rule data read directly by the movement and defense collaborators.
type Metadata struct {
	Name     string        `json:"name"`
	Move     MovePolicy    `json:"move"`
	Defense  DefensePolicy `json:"defense"`
	FullTurn bool          `json:"fullturn"`
	Icon     string        `json:"icon"`
	Alt      string        `json:"alt,omitempty"`
}

// CoreFlags marks the effect as a maneuver for marker classification.
type CoreFlags struct {
	StatusID string `json:"statusId"`
}

// Flags groups effect metadata by namespace.
type Flags struct {
	Core  CoreFlags `json:"core"`
	Gurps Metadata  `json:"gurps"`
}

// EffectPayload is the status effect a token stores for its current maneuver.
type EffectPayload struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Icon    string   `json:"icon"`
	Flags   Flags    `json:"flags"`
	Changes []Change `json:"changes"`
}

// Project turns d into a freshly allocated effect payload.
func Project(d Definition) EffectPayload {
	return EffectPayload{
		ID:    StatusID,
		Label: d.label,
		Icon:  d.icon,
		Flags: Flags{
			Core: CoreFlags{StatusID: StatusID},
			Gurps: Metadata{
				Name:     d.name,
				Move:     d.move,
				Defense:  d.defense,
				FullTurn: d.fullTurn,
				Icon:     d.icon,
				Alt:      d.altIcon,
			},
		},
		Changes: []Change{
			{Key: PropertyManeuver, Value: d.name, Mode: ModeOverride, Priority: ManeuverPriority},
			{Key: PropertyMoveOverride, Value: string(d.move), Mode: ModeCustom},
		},
	}
}

// FlagMap flattens the payload flags into namespace/key maps for generic effect stores.
func (p EffectPayload) FlagMap() map[string]map[string]any {
	gurps := map[string]any{
		"name":     p.Flags.Gurps.Name,
		"move":     string(p.Flags.Gurps.Move),
		"defense":  string(p.Flags.Gurps.Defense),
		"fullturn": p.Flags.Gurps.FullTurn,
		"icon":     p.Flags.Gurps.Icon,
	}
	if p.Flags.Gurps.Alt != "" {
		gurps["alt"] = p.Flags.Gurps.Alt
	}
	return map[string]map[string]any{
		CoreNamespace:  {StatusIDKey: p.Flags.Core.StatusID},
		GurpsNamespace: gurps,
	}
}
