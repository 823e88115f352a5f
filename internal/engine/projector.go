package engine

import "fmt"

// Projector computes GameState from the Event sequence
type Projector struct{}

// NewProjector creates a standard projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Build folds the events into a fresh scene, stopping at the first event that fails to apply.
func (p *Projector) Build(events []Event) (*GameState, error) {
	state := NewGameState()

	for i, evt := range events {
		if err := evt.Apply(state); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, evt.Type(), err)
		}
	}

	return state, nil
}
