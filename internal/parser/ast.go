package parser

// Command is one line of REPL input.
type Command struct {
	Encounter *EncounterCmd `parser:"( @@"`
	Combatant *CombatantCmd `parser:"| @@"`
	Token     *TokenCmd     `parser:"| @@"`
	Maneuver  *ManeuverCmd  `parser:"| @@"`
	Condition *ConditionCmd `parser:"| @@"`
	Status    *StatusCmd    `parser:"| @@"`
	Move      *MoveCmd      `parser:"| @@"`
	Turn      *TurnCmd      `parser:"| @@"`
	Maneuvers *ManeuversCmd `parser:"| @@"`
	Help      *HelpCmd      `parser:"| @@ )"`
	Actor     *ActorExpr    `parser:"@@?"`
}

// ActorExpr is the optional trailing "by: someone" block
type ActorExpr struct {
	Name string `parser:"\"by\" \":\" @Ident"`
}

// By returns the acting user, or "" when none was given.
func (c *Command) By() string {
	if c.Actor == nil {
		return ""
	}
	return c.Actor.Name
}

// EncounterCmd opens or closes an encounter
type EncounterCmd struct {
	Keyword string `parser:"@\"encounter\""`
	Action  string `parser:"@(\"create\"|\"delete\")"`
	ID      string `parser:"@Ident"`
}

// CombatantCmd manages the participants of an encounter
type CombatantCmd struct {
	Keyword string           `parser:"@\"combatant\""`
	Add     *CombatantAdd    `parser:"( @@"`
	Remove  *CombatantRemove `parser:"| @@ )"`
}

// CombatantAdd joins an encounter, optionally bound to a placed token
type CombatantAdd struct {
	Encounter string `parser:"\"add\" @Ident"`
	Token     string `parser:"( \"token\" \":\" @Ident )?"`
	ID        string `parser:"( \"as\" \":\" @Ident )?"`
}

// CombatantRemove leaves an encounter
type CombatantRemove struct {
	Encounter string `parser:"\"remove\" @Ident"`
	ID        string `parser:"@Ident"`
}

// TokenCmd places tokens on, or removes them from, the scene
type TokenCmd struct {
	Keyword string       `parser:"@\"token\""`
	Place   *TokenPlace  `parser:"( @@"`
	Remove  *TokenRemove `parser:"| @@ )"`
}

// TokenPlace puts a token on the scene. Name and Move are taken from the
// world roster when omitted.
type TokenPlace struct {
	ID   string `parser:"\"place\" @Ident"`
	Name string `parser:"( \"name\" \":\" @(Ident|String) )?"`
	Move *int   `parser:"( \"move\" \":\" @Int )?"`
}

// TokenRemove takes a token off the scene
type TokenRemove struct {
	ID string `parser:"\"remove\" @Ident"`
}

// ManeuverCmd picks or clears a token's maneuver
type ManeuverCmd struct {
	Keyword string         `parser:"@\"maneuver\""`
	Set     *ManeuverSet   `parser:"( @@"`
	Clear   *ManeuverClear `parser:"| @@ )"`
}

// ManeuverSet chooses the named maneuver for a token
type ManeuverSet struct {
	Token string `parser:"\"set\" @Ident"`
	Name  string `parser:"@Ident"`
}

// ManeuverClear removes any maneuver from a token
type ManeuverClear struct {
	Token string `parser:"\"clear\" @Ident"`
}

// ConditionCmd applies or removes a plain status such as prone
type ConditionCmd struct {
	Keyword string `parser:"@\"condition\""`
	Action  string `parser:"@(\"add\"|\"remove\")"`
	Token   string `parser:"@Ident"`
	Name    string `parser:"@Ident"`
}

// StatusCmd shows a token's effects
type StatusCmd struct {
	Keyword string `parser:"@\"status\""`
	Token   string `parser:"@Ident"`
}

// MoveCmd shows the movement and defenses a token's maneuver allows
type MoveCmd struct {
	Keyword string `parser:"@\"move\""`
	Token   string `parser:"@Ident"`
}

// TurnCmd starts a token's turn
type TurnCmd struct {
	Keyword string `parser:"@\"turn\""`
	Token   string `parser:"@Ident"`
}

// ManeuversCmd lists the maneuver catalog
type ManeuversCmd struct {
	Keyword string `parser:"@\"maneuvers\""`
}

// HelpCmd prints the command reference
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
	Topic   string `parser:"@Ident?"`
}
