package tui

import (
	"context"
	"time"

	"github.com/dshills/pagestorm/internal/docview"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/modifier"
	"github.com/dshills/pagestorm/internal/mention"
)

// maxMenuItems bounds the candidate list.
const maxMenuItems = 8

// menuItem is one entry of the insert menu.
type menuItem struct {
	label string
	apply func(*engine.EditorState, mention.Trigger) (*engine.EditorState, error)
}

// menu is the open insert menu for a trigger.
type menu struct {
	trigger  mention.Trigger
	items    []menuItem
	selected int
	loading  bool
}

func (m *menu) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.items)) % len(m.items)
}

// candidatesEvent carries mention candidates fetched off the event loop.
type candidatesEvent struct {
	when    time.Time
	ticket  docview.Ticket
	trigger mention.Trigger
	items   []menuItem
	err     error
}

// When implements tcell.Event.
func (e *candidatesEvent) When() time.Time { return e.when }

// slashCommand is a "/" menu entry.
type slashCommand struct {
	label string
	typ   content.BlockType
}

var slashCommands = []slashCommand{
	{"Text", content.TypeUnstyled},
	{"Heading 1", content.TypeHeaderOne},
	{"Heading 2", content.TypeHeaderTwo},
	{"Heading 3", content.TypeHeaderThree},
	{"Bulleted list", content.TypeBulleted},
	{"Numbered list", content.TypeNumbered},
	{"To-do list", content.TypeChecklist},
	{"Toggle list", content.TypeToggle},
	{"Quote", content.TypeBlockquote},
	{"Code", content.TypeCode},
	{"Callout", content.TypeBanner},
	{"Image", content.TypeEmbedImage},
	{"File", content.TypeEmbedFile},
	{"Video", content.TypeEmbedVideo},
	{"Whiteboard", content.TypeEmbedWhiteboard},
	{"Web bookmark", content.TypeEmbedLink},
}

// slashItems returns the "/" commands matching token.
func slashItems(token string) []menuItem {
	cands := make([]mention.Candidate, len(slashCommands))
	byLabel := make(map[string]content.BlockType, len(slashCommands))
	for i, c := range slashCommands {
		cands[i] = mention.Candidate{ID: string(c.typ), Label: c.label}
		byLabel[c.label] = c.typ
	}
	var items []menuItem
	for _, r := range mention.Rank(token, cands, maxMenuItems) {
		t := byLabel[r.Candidate.Label]
		items = append(items, menuItem{label: r.Candidate.Label, apply: turnInto(t)})
	}
	return items
}

// turnInto replaces the trigger with an embed block of type t, or removes
// the trigger and changes the block type, as one undoable change.
func turnInto(t content.BlockType) func(*engine.EditorState, mention.Trigger) (*engine.EditorState, error) {
	return func(s *engine.EditorState, trig mention.Trigger) (*engine.EditorState, error) {
		if t.IsEmbed() {
			return mention.InsertEmbed(s, trig, t, nil)
		}
		c := s.Content()
		if _, ok := c.ClampSelection(trig.Selection); !ok {
			return s, mention.ErrStaleTrigger
		}
		c = modifier.RemoveRange(c, trig.Selection)
		b, ok := c.BlockForKey(trig.Selection.FocusKey)
		if !ok {
			return s, mention.ErrStaleTrigger
		}
		c = c.WithBlock(b.WithType(t))
		return engine.Push(s, c, engine.ChangeBlockType), nil
	}
}

// fetchMentions looks candidates up from src and posts the result.
func fetchMentions(ctx context.Context, src mention.Source, trig mention.Trigger, opts mention.Options, ticket docview.Ticket, post func(*candidatesEvent)) {
	cands, err := src.Candidates(ctx, trig.Token, maxMenuItems)
	ev := &candidatesEvent{when: time.Now(), ticket: ticket, trigger: trig, err: err}
	for _, cand := range cands {
		ev.items = append(ev.items, menuItem{
			label: cand.Label,
			apply: func(s *engine.EditorState, t mention.Trigger) (*engine.EditorState, error) {
				return mention.Insert(s, t, cand, opts)
			},
		})
	}
	post(ev)
}
