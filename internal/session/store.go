package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/suderio/draconic-maneuvers/internal/engine"
)

// EventWrapper serializes polymorphic engine events to JSONL.
type EventWrapper struct {
	Type engine.EventType `json:"type"`
	Data json.RawMessage  `json:"data"`
}

// FileStore handles append-only storage of engine events as JSONL.
type FileStore struct {
	file *os.File
}

// NewStore opens or creates a JSONL event log at the given path.
func NewStore(path string) (*FileStore, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}
	return &FileStore{file: file}, nil
}

// Append marshals an engine Event and appends it as a JSONL line.
func (s *FileStore) Append(evt engine.Event) error {
	line, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return s.file.Sync()
}

// Load replays all events from the JSONL log and returns them.
func (s *FileStore) Load() ([]engine.Event, error) {
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var events []engine.Event
	scanner := bufio.NewScanner(s.file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		evt, err := decodeEvent(scanner.Bytes())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, evt)
	}

	return events, scanner.Err()
}

// Close flushes and closes the underlying file.
func (s *FileStore) Close() error {
	return s.file.Close()
}

// MemoryStore keeps the encoded log in memory. It round-trips events through
// the same encoding as FileStore.
type MemoryStore struct {
	lines [][]byte
}

// NewMemoryStore returns an empty in-memory log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(evt engine.Event) error {
	line, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	s.lines = append(s.lines, line)
	return nil
}

func (s *MemoryStore) Load() ([]engine.Event, error) {
	events := make([]engine.Event, 0, len(s.lines))
	for i, line := range s.lines {
		evt, err := decodeEvent(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		events = append(events, evt)
	}
	return events, nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored events.
func (s *MemoryStore) Len() int { return len(s.lines) }

func encodeEvent(evt engine.Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	line, err := json.Marshal(EventWrapper{Type: evt.Type(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wrapper: %w", err)
	}
	return line, nil
}

func decodeEvent(line []byte) (engine.Event, error) {
	var wrapper EventWrapper
	if err := json.Unmarshal(line, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode event wrapper: %w", err)
	}
	return unmarshalEvent(wrapper.Type, wrapper.Data)
}

// unmarshalEvent reconstructs a concrete Event from its type discriminator and JSON data.
func unmarshalEvent(typeName engine.EventType, data json.RawMessage) (engine.Event, error) {
	var evt engine.Event

	switch typeName {
	case engine.EventEncounterCreated:
		evt = &engine.EncounterCreatedEvent{}
	case engine.EventEncounterDeleted:
		evt = &engine.EncounterDeletedEvent{}
	case engine.EventTokenPlaced:
		evt = &engine.TokenPlacedEvent{}
	case engine.EventTokenRemoved:
		evt = &engine.TokenRemovedEvent{}
	case engine.EventCombatantAdded:
		evt = &engine.CombatantAddedEvent{}
	case engine.EventCombatantRemoved:
		evt = &engine.CombatantRemovedEvent{}
	case engine.EventConditionApplied:
		evt = &engine.ConditionAppliedEvent{}
	case engine.EventConditionRemoved:
		evt = &engine.ConditionRemovedEvent{}
	case engine.EventManeuverSet:
		evt = &engine.ManeuverSetEvent{}
	case engine.EventManeuverRemoved:
		evt = &engine.ManeuverRemovedEvent{}
	case engine.EventTurnStarted:
		evt = &engine.TurnStartedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", typeName)
	}

	if err := json.Unmarshal(data, evt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", typeName, err)
	}
	return evt, nil
}
