package scenes

import "testing"

func sampleScenes() []Scene {
	return []Scene{
		{ID: 1, Start: 0, End: 4.5, Thumbnail: []byte{1}},
		{ID: 2, Start: 4.5, End: 10, Thumbnail: []byte{2}},
	}
}

func TestSceneDuration(t *testing.T) {
	sc := Scene{ID: 1, Start: 2.5, End: 7}
	if got := sc.Duration(); got != 4.5 {
		t.Errorf("Duration() = %v, want 4.5", got)
	}
}

func TestManagerGet(t *testing.T) {
	m := NewManager(sampleScenes())

	sc, ok := m.Get(2)
	if !ok {
		t.Fatal("scene 2 not found")
	}
	if sc.Start != 4.5 {
		t.Errorf("scene 2 start = %v", sc.Start)
	}

	if _, ok := m.Get(99); ok {
		t.Error("Get(99) should fail")
	}
}

func TestManagerAttach(t *testing.T) {
	m := NewManager(sampleScenes())

	if err := m.Attach(1, "a wide shot of a beach"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	text, ok := m.Annotation(1)
	if !ok || text != "a wide shot of a beach" {
		t.Errorf("Annotation(1) = %q, %v", text, ok)
	}

	if _, ok := m.Annotation(2); ok {
		t.Error("scene 2 should have no annotation")
	}

	if err := m.Attach(99, "nope"); err == nil {
		t.Error("Attach to unknown id should fail")
	}

	_ = m.Attach(2, "a close-up of a face")
	ids := m.AnnotatedIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("AnnotatedIDs() = %v", ids)
	}
}
