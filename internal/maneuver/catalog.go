package maneuver

import "sync"

// DoNothing is assigned to every token that joins an encounter.
const DoNothing = "do_nothing"

// catalogEntries lists every maneuver in display order.
var catalogEntries = []Options{
	{Name: DoNothing, Label: "GURPS.maneuverDoNothing", Icon: "man-nothing.png", Move: MoveNone},
	{Name: "move", Label: "GURPS.maneuverMove", Icon: "man-move.png", Move: MoveFull},
	{Name: "aim", Label: "GURPS.maneuverAim", Icon: "man-aim.png", FullTurn: true},
	{Name: "change_posture", Label: "GURPS.maneuverChangePosture", Icon: "man-change-posture.png", Move: MoveNone},
	{Name: "evaluate", Label: "GURPS.maneuverEvaluate", Icon: "man-evaluate.png"},
	{Name: "attack", Label: "GURPS.maneuverAttack", Icon: "man-attack.png"},
	{Name: "feint", Label: "GURPS.maneuverFeint", Icon: "man-feint.png", Alt: "man-attack.png"},
	{Name: "allout_attack", Label: "GURPS.maneuverAllOutAttack", Icon: "man-allout-attack.png", Move: MoveHalf, Defense: DefenseNone},
	{Name: "aoa_determined", Label: "GURPS.maneuverAllOutAttackDetermined", Icon: "man-aoa-determined.png", Alt: "man-allout-attack.png", Move: MoveHalf, Defense: DefenseNone},
	{Name: "aoa_double", Label: "GURPS.maneuverAllOutAttackDouble", Icon: "man-aoa-double.png", Alt: "man-allout-attack.png", Move: MoveHalf, Defense: DefenseNone},
	{Name: "aoa_feint", Label: "GURPS.maneuverAllOutAttackFeint", Icon: "man-aoa-feint.png", Alt: "man-allout-attack.png", Move: MoveHalf, Defense: DefenseNone},
	{Name: "aoa_strong", Label: "GURPS.maneuverAllOutAttackStrong", Icon: "man-aoa-strong.png", Alt: "man-allout-attack.png", Move: MoveHalf, Defense: DefenseNone},
	{Name: "aoa_suppress", Label: "GURPS.maneuverAllOutAttackSuppressFire", Icon: "man-aoa-suppress.png", Alt: "man-allout-attack.png", Move: MoveHalf, Defense: DefenseNone},
	{Name: "move_and_attack", Label: "GURPS.maneuverMoveAttack", Icon: "man-move-attack.png", Move: MoveFull, Defense: DefenseDodgeBlock},
	{Name: "allout_defense", Label: "GURPS.maneuverAllOutDefense", Icon: "man-defense.png", Move: MoveHalf},
	{Name: "aod_dodge", Label: "GURPS.maneuverAllOutDefenseDodge", Icon: "man-def-dodge.png", Alt: "man-defense.png", Move: MoveHalf},
	{Name: "aod_parry", Label: "GURPS.maneuverAllOutDefenseParry", Icon: "man-def-parry.png", Alt: "man-defense.png"},
	{Name: "aod_block", Label: "GURPS.maneuverAllOutDefenseBlock", Icon: "man-def-block.png", Alt: "man-defense.png"},
	{Name: "aod_double", Label: "GURPS.maneuverAllOutDefenseDouble", Icon: "man-def-double.png", Alt: "man-defense.png"},
	{Name: "ready", Label: "GURPS.maneuverReady", Icon: "man-ready.png"},
	{Name: "concentrate", Label: "GURPS.maneuverConcentrate", Icon: "man-concentrate.png", FullTurn: true},
	{Name: "wait", Label: "GURPS.maneuverWait", Icon: "man-wait.png", Move: MoveNone},
}

// Catalog is the fixed, ordered set of maneuver definitions.
type Catalog struct {
	names  []string
	byName map[string]Definition
}

func newCatalog(entries []Options) *Catalog {
	c := &Catalog{
		names:  make([]string, 0, len(entries)),
		byName: make(map[string]Definition, len(entries)),
	}
	for _, o := range entries {
		if _, dup := c.byName[o.Name]; dup {
			panic("maneuver: duplicate catalog entry " + o.Name)
		}
		c.names = append(c.names, o.Name)
		c.byName[o.Name] = NewDefinition(o)
	}
	return c
}

// Len returns the number of maneuvers in the catalog.
func (c *Catalog) Len() int { return len(c.names) }

// Names returns the maneuver names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Lookup returns the definition registered under name.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// Definitions returns every definition in catalog order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.byName[n])
	}
	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, building the catalog on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = newRegistry(newCatalog(catalogEntries))
	})
	return defaultRegistry
}
