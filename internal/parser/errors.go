package parser

import (
	"fmt"
	"strings"
)

// Usage lists the syntax of every command, keyed by its leading keyword.
var Usage = map[string]string{
	"encounter": "encounter <create|delete> <id> [by: user]",
	"combatant": "combatant add <encounter> [token: <token>] [as: <id>] | combatant remove <encounter> <id>",
	"token":     "token place <id> [name: <name>] [move: N] | token remove <id>",
	"maneuver":  "maneuver set <token> <maneuver> | maneuver clear <token>",
	"condition": "condition <add|remove> <token> <condition>",
	"status":    "status <token>",
	"move":      "move <token>",
	"turn":      "turn <token>",
	"maneuvers": "maneuvers",
	"help":      "help [command]",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	cmd := strings.Fields(strings.ToLower(input))[0]
	if usage, ok := Usage[cmd]; ok {
		return fmt.Errorf("The command %s must be: %s", cmd, usage)
	}
	return fmt.Errorf("I wasn't able to understand your command")
}
