// Package selection maps a text selection inside a rendered page to a
// persisted highlight. The bridge is a two-state machine: Idle until a
// non-empty selection appears, Selecting while a candidate is pending, back to
// Idle on cancel or successful confirm. Each confirmed selection becomes
// exactly one highlight; overlapping selections are never merged.
package selection

import (
	"errors"
	"strings"

	"github.com/viveksanandiya/pdf-annotator/pkg/client"
)

type State int

const (
	Idle State = iota
	Selecting
)

// Creator is the write half of the annotation API the bridge submits to.
type Creator interface {
	CreateHighlight(req client.CreateHighlightRequest) (*client.Highlight, error)
}

// Candidate is the captured selection held while Selecting: the trimmed text,
// the viewport rectangle at capture time and the browser range offsets.
type Candidate struct {
	Text     string
	Page     int
	Box      client.BoundingBox
	Position client.Position
}

var (
	ErrNoSelection = errors.New("no pending selection")
	ErrInvalidPage = errors.New("page number must be positive")
)

type Bridge struct {
	doc     string
	creator Creator

	state      State
	pending    *Candidate
	highlights []client.Highlight
}

func NewBridge(docUUID string, creator Creator) *Bridge {
	return &Bridge{doc: docUUID, creator: creator}
}

func (b *Bridge) State() State { return b.state }

// Pending returns the candidate held while Selecting, or nil.
func (b *Bridge) Pending() *Candidate { return b.pending }

// Highlights is the local record state, grown by each successful confirm.
func (b *Bridge) Highlights() []client.Highlight { return b.highlights }

// SetHighlights seeds the local state, e.g. from an initial list fetch.
func (b *Bridge) SetHighlights(highlights []client.Highlight) {
	b.highlights = highlights
}

// Select fires the Idle -> Selecting transition. A selection that is empty
// after trimming is ignored and the bridge stays Idle; a new selection while
// one is already pending replaces the candidate.
func (b *Bridge) Select(text string, page int, box client.BoundingBox, pos client.Position) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrNoSelection
	}
	if page < 1 {
		return ErrInvalidPage
	}

	b.pending = &Candidate{Text: trimmed, Page: page, Box: box, Position: pos}
	b.state = Selecting
	return nil
}

// Cancel discards the candidate and returns to Idle.
func (b *Bridge) Cancel() {
	b.pending = nil
	b.state = Idle
}

// Confirm submits the candidate. On success the returned record is appended to
// local state and the selection clears; on failure the bridge stays Selecting
// so the caller can retry or cancel.
func (b *Bridge) Confirm() (*client.Highlight, error) {
	if b.state != Selecting || b.pending == nil {
		return nil, ErrNoSelection
	}

	box := b.pending.Box
	pos := b.pending.Position
	highlight, err := b.creator.CreateHighlight(client.CreateHighlightRequest{
		PDFUuid:         b.doc,
		PageNumber:      b.pending.Page,
		HighlightedText: b.pending.Text,
		BoundingBox:     &box,
		Position:        &pos,
	})
	if err != nil {
		return nil, err
	}

	b.highlights = append(b.highlights, *highlight)
	b.pending = nil
	b.state = Idle
	return highlight, nil
}
