package scenes

import (
	"fmt"
	"sort"
)

// Scene is a contiguous span of the video timeline with one representative
// thumbnail. Scenes are emitted in order, 1-based ids, and are never
// mutated after segmentation; downstream annotation attaches by id.
type Scene struct {
	ID        int
	Start     float64 // seconds
	End       float64 // seconds, always > Start
	Thumbnail []byte  // encoded JPEG, opaque to segmentation
}

// Duration returns the scene length in seconds
func (s Scene) Duration() float64 {
	return s.End - s.Start
}

// Diff is the dissimilarity score between two consecutive sampled frames
type Diff struct {
	Time       float64 // timestamp of the later frame of the pair
	Score      float64 // mean absolute luminance difference, >= 0
	FrameIndex int     // index of the later frame in the sampled sequence
}

// Manager holds a finished scene list and attaches downstream annotations
// keyed by scene id
type Manager struct {
	scenes      []Scene
	annotations map[int]string
}

// NewManager creates a manager over an emitted scene list
func NewManager(scenes []Scene) *Manager {
	return &Manager{
		scenes:      scenes,
		annotations: make(map[int]string),
	}
}

// Scenes returns all scenes in timeline order
func (m *Manager) Scenes() []Scene {
	return m.scenes
}

// Get retrieves a scene by id
func (m *Manager) Get(id int) (Scene, bool) {
	for _, sc := range m.scenes {
		if sc.ID == id {
			return sc, true
		}
	}
	return Scene{}, false
}

// Attach stores an annotation for a scene id
func (m *Manager) Attach(id int, text string) error {
	if _, ok := m.Get(id); !ok {
		return fmt.Errorf("unknown scene id %d", id)
	}
	m.annotations[id] = text
	return nil
}

// Annotation returns the annotation attached to a scene id, if any
func (m *Manager) Annotation(id int) (string, bool) {
	text, ok := m.annotations[id]
	return text, ok
}

// AnnotatedIDs returns the ids that have annotations, sorted
func (m *Manager) AnnotatedIDs() []int {
	ids := make([]int, 0, len(m.annotations))
	for id := range m.annotations {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
