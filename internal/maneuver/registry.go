package maneuver

import (
	"errors"
	"fmt"
)

// ErrUnknownManeuver is returned when a name is not part of the catalog.
var ErrUnknownManeuver = errors.New("unknown maneuver")

// Registry is the read-only query API over a Catalog.
type Registry struct {
	catalog *Catalog
}

func newRegistry(c *Catalog) *Registry {
	return &Registry{catalog: c}
}

// Catalog returns the underlying catalog.
func (r *Registry) Catalog() *Catalog { return r.catalog }

// Names returns the maneuver names in catalog order.
func (r *Registry) Names() []string { return r.catalog.Names() }

// Lookup returns the definition for name without projecting it.
func (r *Registry) Lookup(name string) (Definition, bool) {
	return r.catalog.Lookup(name)
}

// Get projects the maneuver registered under name.
func (r *Registry) Get(name string) (EffectPayload, error) {
	d, ok := r.catalog.Lookup(name)
	if !ok {
		return EffectPayload{}, fmt.Errorf("%w: %q", ErrUnknownManeuver, name)
	}
	return Project(d), nil
}

// GetManeuver is an alias of Get.
func (r *Registry) GetManeuver(name string) (EffectPayload, error) {
	return r.Get(name)
}

// GetIcon returns the primary icon path of the named maneuver.
func (r *Registry) GetIcon(name string) (string, error) {
	d, ok := r.catalog.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownManeuver, name)
	}
	return d.icon, nil
}

// IsManeuverIcon reports whether path is the primary icon of some maneuver.
// Alt icons are not considered.
func (r *Registry) IsManeuverIcon(path string) bool {
	for _, n := range r.catalog.names {
		if r.catalog.byName[n].icon == path {
			return true
		}
	}
	return false
}

// GetManeuverIcons returns the entries of paths that are maneuver icons, in input order.
func (r *Registry) GetManeuverIcons(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if r.IsManeuverIcon(p) {
			out = append(out, p)
		}
	}
	return out
}

// GetByIcon projects every maneuver whose primary icon is path.
func (r *Registry) GetByIcon(path string) []EffectPayload {
	var out []EffectPayload
	for _, d := range r.catalog.Definitions() {
		if d.icon == path {
			out = append(out, Project(d))
		}
	}
	return out
}

// GetAll returns every definition keyed by name.
func (r *Registry) GetAll() map[string]Definition {
	out := make(map[string]Definition, r.catalog.Len())
	for n, d := range r.catalog.byName {
		out[n] = d
	}
	return out
}

// GetAllData projects the whole catalog keyed by name.
func (r *Registry) GetAllData() map[string]EffectPayload {
	out := make(map[string]EffectPayload, r.catalog.Len())
	for n, d := range r.catalog.byName {
		out[n] = Project(d)
	}
	return out
}

// IsMarkerManeuver reports whether marker is tagged with the maneuver status id.
func (r *Registry) IsMarkerManeuver(marker any) bool {
	return IsMarkerManeuver(marker)
}
