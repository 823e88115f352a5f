package rules

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"github.com/suderio/draconic-maneuvers/internal/maneuver"
)

//go:embed policies.yaml
var defaultPolicies []byte

// ErrUnknownPolicy is returned when no formula or defense list exists for a policy.
var ErrUnknownPolicy = errors.New("unknown policy")

// PolicyTable is the decoded form of policies.yaml.
type PolicyTable struct {
	Move    map[string]string   `yaml:"move"`
	Defense map[string][]string `yaml:"defense"`
}

// Evaluator resolves the movement and defense consequences of a maneuver.
// Move formulas are compiled once; evaluation is safe for concurrent use.
type Evaluator struct {
	env      *cel.Env
	moves    map[maneuver.MovePolicy]cel.Program
	defenses map[maneuver.DefensePolicy][]string
}

// NewEvaluator builds an evaluator from the embedded policy table.
func NewEvaluator() (*Evaluator, error) {
	return NewEvaluatorFromYAML(defaultPolicies)
}

// NewEvaluatorFromYAML builds an evaluator from a policy table document.
func NewEvaluatorFromYAML(doc []byte) (*Evaluator, error) {
	var table PolicyTable
	if err := yaml.Unmarshal(doc, &table); err != nil {
		return nil, fmt.Errorf("failed to decode policy table: %w", err)
	}
	env, err := cel.NewEnv(cel.Variable("basic_move", cel.IntType))
	if err != nil {
		return nil, fmt.Errorf("failed to create cel environment: %w", err)
	}

	ev := &Evaluator{
		env:      env,
		moves:    make(map[maneuver.MovePolicy]cel.Program, len(table.Move)),
		defenses: make(map[maneuver.DefensePolicy][]string, len(table.Defense)),
	}
	for policy, expr := range table.Move {
		prog, err := ev.compile(expr)
		if err != nil {
			return nil, fmt.Errorf("move policy %s: %w", policy, err)
		}
		ev.moves[maneuver.MovePolicy(policy)] = prog
	}
	for policy, list := range table.Defense {
		ev.defenses[maneuver.DefensePolicy(policy)] = list
	}
	return ev, nil
}

func (e *Evaluator) compile(expr string) (cel.Program, error) {
	ast, iss := e.env.Compile(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	if !ast.OutputType().IsExactType(cel.IntType) {
		return nil, fmt.Errorf("expression %q must yield int, got %s", expr, ast.OutputType())
	}
	return e.env.Program(ast)
}

// MoveAllowance returns the yards a character with the given Basic Move may
// cover under the policy.
func (e *Evaluator) MoveAllowance(basicMove int, policy maneuver.MovePolicy) (int, error) {
	prog, ok := e.moves[policy]
	if !ok {
		return 0, fmt.Errorf("%w: move %q", ErrUnknownPolicy, policy)
	}
	out, _, err := prog.Eval(map[string]any{"basic_move": int64(basicMove)})
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate move policy %s: %w", policy, err)
	}
	n, ok := out.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("move policy %s yielded %T", policy, out.Value())
	}
	return int(n), nil
}

// AllowedDefenses lists the active defenses permitted under the policy.
// The result is never nil.
func (e *Evaluator) AllowedDefenses(policy maneuver.DefensePolicy) ([]string, error) {
	list, ok := e.defenses[policy]
	if !ok {
		return nil, fmt.Errorf("%w: defense %q", ErrUnknownPolicy, policy)
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

// CanChangeManeuver reports whether the maneuver may still be swapped.
// Full-turn maneuvers are locked once committed to the turn in progress.
func CanChangeManeuver(def maneuver.Definition, committed bool) bool {
	return !(def.FullTurn() && committed)
}
