package selection

import (
	"errors"
	"testing"

	"github.com/viveksanandiya/pdf-annotator/pkg/client"
)

type fakeCreator struct {
	requests []client.CreateHighlightRequest
	err      error
	nextID   int
}

func (f *fakeCreator) CreateHighlight(req client.CreateHighlightRequest) (*client.Highlight, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	return &client.Highlight{
		ID:              string(rune('a' + f.nextID - 1)),
		PDFUuid:         req.PDFUuid,
		PageNumber:      req.PageNumber,
		HighlightedText: req.HighlightedText,
	}, nil
}

func TestBridgeStartsIdle(t *testing.T) {
	bridge := NewBridge("doc-1", &fakeCreator{})
	if bridge.State() != Idle {
		t.Fatalf("expected Idle, got %v", bridge.State())
	}
	if bridge.Pending() != nil {
		t.Fatal("expected no pending candidate")
	}
	if _, err := bridge.Confirm(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection on idle confirm, got %v", err)
	}
}

func TestBridgeSelect(t *testing.T) {
	bridge := NewBridge("doc-1", &fakeCreator{})

	t.Run("empty selection keeps the bridge idle", func(t *testing.T) {
		if err := bridge.Select("   ", 1, client.BoundingBox{}, client.Position{}); !errors.Is(err, ErrNoSelection) {
			t.Fatalf("expected ErrNoSelection, got %v", err)
		}
		if bridge.State() != Idle {
			t.Fatalf("expected Idle, got %v", bridge.State())
		}
	})

	t.Run("invalid page rejected", func(t *testing.T) {
		if err := bridge.Select("text", 0, client.BoundingBox{}, client.Position{}); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("expected ErrInvalidPage, got %v", err)
		}
	})

	t.Run("selection trims and transitions to Selecting", func(t *testing.T) {
		if err := bridge.Select("  a phrase  ", 2, client.BoundingBox{X: 1}, client.Position{Start: 5, End: 13}); err != nil {
			t.Fatalf("select failed: %v", err)
		}
		if bridge.State() != Selecting {
			t.Fatalf("expected Selecting, got %v", bridge.State())
		}
		pending := bridge.Pending()
		if pending == nil || pending.Text != "a phrase" || pending.Page != 2 {
			t.Fatalf("unexpected candidate: %+v", pending)
		}
	})

	t.Run("new selection replaces the pending one", func(t *testing.T) {
		if err := bridge.Select("another phrase", 5, client.BoundingBox{}, client.Position{}); err != nil {
			t.Fatalf("select failed: %v", err)
		}
		if pending := bridge.Pending(); pending.Text != "another phrase" || pending.Page != 5 {
			t.Fatalf("expected replacement candidate, got %+v", pending)
		}
	})
}

func TestBridgeCancel(t *testing.T) {
	bridge := NewBridge("doc-1", &fakeCreator{})
	if err := bridge.Select("text", 1, client.BoundingBox{}, client.Position{}); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	bridge.Cancel()
	if bridge.State() != Idle || bridge.Pending() != nil {
		t.Fatal("expected cancel to return to Idle with no candidate")
	}
	if _, err := bridge.Confirm(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection after cancel, got %v", err)
	}
}

func TestBridgeConfirm(t *testing.T) {
	creator := &fakeCreator{}
	bridge := NewBridge("doc-1", creator)

	if err := bridge.Select("a phrase", 3, client.BoundingBox{X: 10, Width: 100}, client.Position{Start: 4, End: 12}); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	highlight, err := bridge.Confirm()
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if highlight.PageNumber != 3 || highlight.HighlightedText != "a phrase" {
		t.Fatalf("unexpected highlight: %+v", highlight)
	}

	if len(creator.requests) != 1 {
		t.Fatalf("expected one create call, got %d", len(creator.requests))
	}
	req := creator.requests[0]
	if req.PDFUuid != "doc-1" || req.BoundingBox == nil || req.BoundingBox.Width != 100 || req.Position.End != 12 {
		t.Fatalf("unexpected create request: %+v", req)
	}

	if bridge.State() != Idle || bridge.Pending() != nil {
		t.Fatal("expected bridge back to Idle after confirm")
	}
	if len(bridge.Highlights()) != 1 {
		t.Fatalf("expected local state grown to 1, got %d", len(bridge.Highlights()))
	}
}

func TestBridgeConfirmFailureKeepsSelection(t *testing.T) {
	creator := &fakeCreator{err: errors.New("server unavailable")}
	bridge := NewBridge("doc-1", creator)

	if err := bridge.Select("a phrase", 1, client.BoundingBox{}, client.Position{}); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if _, err := bridge.Confirm(); err == nil {
		t.Fatal("expected confirm to surface the creator error")
	}
	if bridge.State() != Selecting || bridge.Pending() == nil {
		t.Fatal("expected bridge to stay Selecting so the caller can retry")
	}
	if len(bridge.Highlights()) != 0 {
		t.Fatal("failed confirm must not grow local state")
	}

	// Retry succeeds once the creator recovers.
	creator.err = nil
	if _, err := bridge.Confirm(); err != nil {
		t.Fatalf("retry confirm failed: %v", err)
	}
	if bridge.State() != Idle || len(bridge.Highlights()) != 1 {
		t.Fatal("expected retry to complete the transition")
	}
}

func TestBridgeSetHighlights(t *testing.T) {
	bridge := NewBridge("doc-1", &fakeCreator{})
	bridge.SetHighlights([]client.Highlight{{ID: "x"}, {ID: "y"}})
	if len(bridge.Highlights()) != 2 {
		t.Fatalf("expected seeded state, got %d", len(bridge.Highlights()))
	}
}
