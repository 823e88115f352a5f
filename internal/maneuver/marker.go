package maneuver

// Tagger is implemented by status markers that expose namespaced flags.
type Tagger interface {
	Flag(namespace, key string) (any, bool)
}

// IsMarkerManeuver reports whether marker carries the maneuver status id.
// Markers that do not implement Tagger are never maneuvers.
func IsMarkerManeuver(marker any) bool {
	t, ok := marker.(Tagger)
	if !ok {
		return false
	}
	v, ok := t.Flag(CoreNamespace, StatusIDKey)
	if !ok {
		return false
	}
	id, _ := v.(string)
	return id == StatusID
}

// FilterManeuverMarkers returns the maneuver markers of markers in input order.
// A nil input yields an empty, non-nil slice.
func FilterManeuverMarkers[M any](markers []M) []M {
	out := make([]M, 0, len(markers))
	for _, m := range markers {
		if IsMarkerManeuver(m) {
			out = append(out, m)
		}
	}
	return out
}

// OrderActiveMarkers moves maneuver markers to the front, keeping the
// relative order inside both groups. Inputs shorter than two are returned as is.
func OrderActiveMarkers[M any](markers []M) []M {
	if len(markers) < 2 {
		return markers
	}
	front := make([]M, 0, len(markers))
	var back []M
	for _, m := range markers {
		if IsMarkerManeuver(m) {
			front = append(front, m)
		} else {
			back = append(back, m)
		}
	}
	return append(front, back...)
}
