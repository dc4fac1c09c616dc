package tool

import (
	"context"
	"fmt"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/llm"
	"github.com/griffinm/jotter/internal/domain/note"
)

type createNoteTool struct {
	notes note.Service
}

func (t *createNoteTool) Kind() Kind { return KindCreateNote }

func (t *createNoteTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindCreateNote),
		Description: "Create a note for the user. Use when the user wants to write something down or save information.",
		Parameters: objectSchema(map[string]any{
			"title":       map[string]any{"type": "string", "description": "Title of the note"},
			"content":     map[string]any{"type": "string", "description": "Body of the note"},
			"notebook_id": map[string]any{"type": "string", "description": "Optional notebook public ID; defaults to the user's default notebook"},
		}, []string{"title", "content"}),
	}
}

func (t *createNoteTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	title, err := stringArg(inv.Args, "title")
	if err != nil {
		return Failure(err.Error()), nil
	}
	content, err := stringArg(inv.Args, "content")
	if err != nil {
		return Failure(err.Error()), nil
	}
	notebookID, err := optStringArg(inv.Args, "notebook_id")
	if err != nil {
		return Failure(err.Error()), nil
	}

	created, err := t.notes.Create(ctx, note.CreateParams{
		UserID:     inv.UserID,
		Title:      title,
		Content:    content,
		NotebookID: notebookID,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:       true,
		Message:       fmt.Sprintf("Created note %q", created.Title),
		ComponentData: &conversation.ComponentData{Type: "note", Data: created},
	}, nil
}

type searchNotesTool struct {
	notes note.Service
}

func (t *searchNotesTool) Kind() Kind { return KindSearchNotes }

func (t *searchNotesTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindSearchNotes),
		Description: "Search the user's notes by text in the title or body.",
		Parameters: objectSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Text to search for"},
		}, []string{"query"}),
	}
}

func (t *searchNotesTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	query, err := stringArg(inv.Args, "query")
	if err != nil {
		return Failure(err.Error()), nil
	}

	notes, err := t.notes.Search(ctx, inv.UserID, query)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return &Result{Success: true, Message: fmt.Sprintf("No notes matching %q found.", query)}, nil
	}
	return &Result{
		Success:       true,
		Message:       fmt.Sprintf("Found %d matching note(s)", len(notes)),
		ComponentData: &conversation.ComponentData{Type: "note_list", Data: notes},
	}, nil
}

type getNoteTool struct {
	notes note.Service
}

func (t *getNoteTool) Kind() Kind { return KindGetNote }

func (t *getNoteTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindGetNote),
		Description: "Look up a specific note by its ID or by a title fragment.",
		Parameters: objectSchema(map[string]any{
			"search": map[string]any{"type": "string", "description": "Note public ID or title text"},
		}, []string{"search"}),
	}
}

func (t *getNoteTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	search, err := stringArg(inv.Args, "search")
	if err != nil {
		return Failure(err.Error()), nil
	}

	notes, err := t.notes.Get(ctx, inv.UserID, search)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return &Result{Success: true, Message: fmt.Sprintf("No note matching %q found.", search)}, nil
	}
	if len(notes) == 1 {
		return &Result{
			Success:       true,
			Message:       fmt.Sprintf("Found note %q", notes[0].Title),
			ComponentData: &conversation.ComponentData{Type: "note", Data: notes[0]},
		}, nil
	}
	return &Result{
		Success:       true,
		Message:       fmt.Sprintf("Found %d notes matching %q", len(notes), search),
		ComponentData: &conversation.ComponentData{Type: "note_list", Data: notes},
	}, nil
}
