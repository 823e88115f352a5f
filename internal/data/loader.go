package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no data directory holds the requested record.
var ErrNotFound = errors.New("record not found")

// Actor is a roster entry describing a character that can be placed as a token.
type Actor struct {
	Name      string `yaml:"name"`
	BasicMove int    `yaml:"basic_move"`
}

// Loader handles reading records from the read-only data layer
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new Data Loader with the given data directory fallback hierarchy
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// LoadActor finds actors/<id>.yaml in the first data directory that has it.
func (l *Loader) LoadActor(id string) (*Actor, error) {
	var a Actor
	dashName := strings.ReplaceAll(strings.ToLower(id), " ", "-")
	ref := filepath.Join("actors", fmt.Sprintf("%s.yaml", dashName))
	if err := l.load(ref, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to open reference %s: %w", ref, err)
		}
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(target); err != nil {
			return fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, ref)
}
