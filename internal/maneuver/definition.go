// Package maneuver holds the closed catalog of combat maneuvers and the
// read-only registry consumed by the token store and the rules collaborators.
package maneuver

// IconPath is the directory every maneuver icon is resolved against.
const IconPath = "systems/gurps/icons/maneuvers/"

// MovePolicy limits how far a participant may move during the turn.
type MovePolicy string

const (
	MoveNone MovePolicy = "none"
	MoveStep MovePolicy = "step"
	MoveHalf MovePolicy = "half"
	MoveFull MovePolicy = "full"
)

// DefensePolicy limits which active defenses remain available until the next turn.
type DefensePolicy string

const (
	DefenseAny        DefensePolicy = "any"
	DefenseNone       DefensePolicy = "none"
	DefenseDodgeBlock DefensePolicy = "dodge-block"
)

// Options is the raw description of a maneuver before normalization.
// Icon and Alt are file names relative to IconPath.
type Options struct {
	Name     string
	Label    string
	Move     MovePolicy
	Defense  DefensePolicy
	FullTurn bool
	Icon     string
	Alt      string
}

// Definition is an immutable maneuver record. Use NewDefinition to build one.
type Definition struct {
	name     string
	label    string
	move     MovePolicy
	defense  DefensePolicy
	fullTurn bool
	icon     string
	altIcon  string
}

// NewDefinition normalizes o: Move defaults to step, Defense to any, and
// both icons are prefixed with IconPath. An empty Alt stays empty.
func NewDefinition(o Options) Definition {
	d := Definition{
		name:     o.Name,
		label:    o.Label,
		move:     o.Move,
		defense:  o.Defense,
		fullTurn: o.FullTurn,
		icon:     IconPath + o.Icon,
	}
	if d.move == "" {
		d.move = MoveStep
	}
	if d.defense == "" {
		d.defense = DefenseAny
	}
	if o.Alt != "" {
		d.altIcon = IconPath + o.Alt
	}
	return d
}

func (d Definition) Name() string           { return d.name }
func (d Definition) Label() string          { return d.label }
func (d Definition) Move() MovePolicy       { return d.move }
func (d Definition) Defense() DefensePolicy { return d.defense }
func (d Definition) FullTurn() bool         { return d.fullTurn }
func (d Definition) Icon() string           { return d.icon }

// AltIcon returns the shared icon of the maneuver family, or "" when the
// maneuver has none.
func (d Definition) AltIcon() string { return d.altIcon }
