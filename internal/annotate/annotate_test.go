package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/scenes"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

// fakeCompletionServer mimics the chat completions endpoint, returning
// a canned description and recording how many requests it saw.
func fakeCompletionServer(t *testing.T, text string, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["model"] == "" {
			t.Error("request carried no model")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": %q},
				"finish_reason": "stop"
			}]
		}`, text)
	}))
}

func testScene(id int) scenes.Scene {
	return scenes.Scene{
		ID:        id,
		Start:     float64(id-1) * 2,
		End:       float64(id) * 2,
		Thumbnail: []byte{0xff, 0xd8, 0xff, 0xe0},
	}
}

func TestAnnotatorValidation(t *testing.T) {
	if _, err := NewOpenAIAnnotator(testLogger(), Config{Model: "gpt-4o-mini"}); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := NewOpenAIAnnotator(testLogger(), Config{APIKey: "sk-test"}); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestAnnotateScene(t *testing.T) {
	var requests int
	srv := fakeCompletionServer(t, "A dog runs across a sunlit park.", &requests)
	defer srv.Close()

	ann, err := NewOpenAIAnnotator(testLogger(), Config{
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL,
		APIKey:  "sk-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAIAnnotator failed: %v", err)
	}
	defer ann.Close()

	text, err := ann.Annotate(context.Background(), testScene(1))
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if text != "A dog runs across a sunlit park." {
		t.Errorf("unexpected description %q", text)
	}
	if requests != 1 {
		t.Errorf("saw %d requests, want 1", requests)
	}
}

func TestAnnotateRejectsEmptyThumbnail(t *testing.T) {
	var requests int
	srv := fakeCompletionServer(t, "unused", &requests)
	defer srv.Close()

	ann, err := NewOpenAIAnnotator(testLogger(), Config{
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL,
		APIKey:  "sk-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAIAnnotator failed: %v", err)
	}

	if _, err := ann.Annotate(context.Background(), scenes.Scene{ID: 1}); err == nil {
		t.Error("expected error for scene without thumbnail")
	}
	if requests != 0 {
		t.Errorf("request sent for thumbnail-less scene")
	}
}

// stubAnnotator fails for configured scene IDs
type stubAnnotator struct {
	failIDs map[int]bool
	calls   int
}

func (s *stubAnnotator) Annotate(ctx context.Context, sc scenes.Scene) (string, error) {
	s.calls++
	if s.failIDs[sc.ID] {
		return "", errors.New("stub failure")
	}
	return fmt.Sprintf("scene %d description", sc.ID), nil
}

func (s *stubAnnotator) Close() error { return nil }

func TestAnnotateAll(t *testing.T) {
	m := scenes.NewManager([]scenes.Scene{testScene(1), testScene(2), testScene(3)})
	stub := &stubAnnotator{}

	if err := AnnotateAll(context.Background(), testLogger(), stub, m); err != nil {
		t.Fatalf("AnnotateAll failed: %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("annotator called %d times, want 3", stub.calls)
	}
	for id := 1; id <= 3; id++ {
		want := fmt.Sprintf("scene %d description", id)
		if got, ok := m.Annotation(id); !ok || got != want {
			t.Errorf("scene %d annotation = %q, %v", id, got, ok)
		}
	}
}

func TestAnnotateAllSkipsFailures(t *testing.T) {
	m := scenes.NewManager([]scenes.Scene{testScene(1), testScene(2), testScene(3)})
	stub := &stubAnnotator{failIDs: map[int]bool{2: true}}

	if err := AnnotateAll(context.Background(), testLogger(), stub, m); err != nil {
		t.Fatalf("AnnotateAll failed: %v", err)
	}

	ids := m.AnnotatedIDs()
	if len(ids) != 2 {
		t.Fatalf("annotated %d scenes, want 2", len(ids))
	}
	if _, ok := m.Annotation(2); ok {
		t.Error("failed scene should not carry an annotation")
	}
}

func TestAnnotateAllCancellation(t *testing.T) {
	m := scenes.NewManager([]scenes.Scene{testScene(1), testScene(2)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubAnnotator{}
	if err := AnnotateAll(ctx, testLogger(), stub, m); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if stub.calls != 0 {
		t.Errorf("annotator called after cancellation")
	}
}
