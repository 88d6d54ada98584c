// ABOUTME: Marker set owned by a single mount: line highlights tagged with the run that produced them.
// ABOUTME: Marker ids are monotonic per set so the front-end can release exactly what it was given.
package editor

import "github.com/2389-research/playpen/playpen"

// Marker is one highlighted range in an editor.
type Marker struct {
	ID    int                 `json:"id"`
	RunID string              `json:"run_id"`
	Class string              `json:"class"`
	Range playpen.SourceRange `json:"range"`
}

// MarkerSet holds the markers currently applied to one editor. It is not
// safe for concurrent use; the owning Mount serializes access.
type MarkerSet struct {
	nextID  int
	markers []Marker
}

// Add applies a marker and returns it with its assigned id.
func (ms *MarkerSet) Add(runID, class string, r playpen.SourceRange) Marker {
	ms.nextID++
	m := Marker{ID: ms.nextID, RunID: runID, Class: class, Range: r}
	ms.markers = append(ms.markers, m)
	return m
}

// Remove releases the marker with the given id.
func (ms *MarkerSet) Remove(id int) bool {
	for i, m := range ms.markers {
		if m.ID == id {
			ms.markers = append(ms.markers[:i], ms.markers[i+1:]...)
			return true
		}
	}
	return false
}

// Clear releases every marker and returns the released markers.
func (ms *MarkerSet) Clear() []Marker {
	released := ms.markers
	ms.markers = nil
	return released
}

// Markers returns a copy of the applied markers in insertion order.
func (ms *MarkerSet) Markers() []Marker {
	out := make([]Marker, len(ms.markers))
	copy(out, ms.markers)
	return out
}

// Len returns the number of applied markers.
func (ms *MarkerSet) Len() int {
	return len(ms.markers)
}
