package tool_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/note"
	"github.com/griffinm/jotter/internal/domain/task"
	"github.com/griffinm/jotter/internal/domain/tool"
)

type stubTaskService struct {
	CreateFunc func(ctx context.Context, params task.CreateParams) (*task.Task, error)
	SearchFunc func(ctx context.Context, filter task.Filter) ([]*task.Task, error)
	UpdateFunc func(ctx context.Context, params task.UpdateParams) (*task.Task, error)
	GetFunc    func(ctx context.Context, userID, search string) ([]*task.Task, error)
}

func (s *stubTaskService) Create(ctx context.Context, params task.CreateParams) (*task.Task, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (s *stubTaskService) Search(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	if s.SearchFunc != nil {
		return s.SearchFunc(ctx, filter)
	}
	return nil, nil
}

func (s *stubTaskService) Update(ctx context.Context, params task.UpdateParams) (*task.Task, error) {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (s *stubTaskService) Get(ctx context.Context, userID, search string) ([]*task.Task, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, userID, search)
	}
	return nil, nil
}

type stubNoteService struct {
	CreateFunc func(ctx context.Context, params note.CreateParams) (*note.Note, error)
	SearchFunc func(ctx context.Context, userID, query string) ([]*note.Note, error)
	GetFunc    func(ctx context.Context, userID, search string) ([]*note.Note, error)
}

func (s *stubNoteService) Create(ctx context.Context, params note.CreateParams) (*note.Note, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (s *stubNoteService) Search(ctx context.Context, userID, query string) ([]*note.Note, error) {
	if s.SearchFunc != nil {
		return s.SearchFunc(ctx, userID, query)
	}
	return nil, nil
}

func (s *stubNoteService) Get(ctx context.Context, userID, search string) ([]*note.Note, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, userID, search)
	}
	return nil, nil
}

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, string, int) ([]tool.WebSearchResult, error) {
	return nil, nil
}

func newRegistry(tasks task.Service, notes note.Service) *tool.Registry {
	return tool.NewRegistry(tasks, notes, stubSearcher{}, zerolog.Nop())
}

func TestRegistryIsClosed(t *testing.T) {
	registry := newRegistry(&stubTaskService{}, &stubNoteService{})

	for _, kind := range tool.Kinds() {
		if _, ok := registry.Get(string(kind)); !ok {
			t.Errorf("registered tool %s not resolvable", kind)
		}
	}

	for _, name := range []string{"delete_user", "shell", "create_tasks", ""} {
		if _, ok := registry.Get(name); ok {
			t.Errorf("unknown name %q must not resolve", name)
		}
	}

	defs := registry.Definitions()
	if len(defs) != len(tool.Kinds()) {
		t.Fatalf("expected %d definitions, got %d", len(tool.Kinds()), len(defs))
	}
	for i, kind := range tool.Kinds() {
		if defs[i].Type != "function" || defs[i].Function.Name != string(kind) {
			t.Errorf("definition %d mismatch: %+v", i, defs[i].Function.Name)
		}
	}
}

func TestValidateArgsRequiresDeclaredFields(t *testing.T) {
	registry := newRegistry(&stubTaskService{}, &stubNoteService{})
	handler, _ := registry.Get("create_task")

	if err := tool.ValidateArgs(handler, map[string]any{"title": "x"}); err != nil {
		t.Errorf("valid args rejected: %v", err)
	}
	if err := tool.ValidateArgs(handler, map[string]any{"description": "x"}); err == nil {
		t.Errorf("missing required title must fail validation")
	}
}

func TestCreateTaskProducesTaskComponent(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	tasks := &stubTaskService{
		CreateFunc: func(_ context.Context, params task.CreateParams) (*task.Task, error) {
			if params.UserID != "user_1" {
				t.Errorf("user not propagated: %q", params.UserID)
			}
			if params.DueDate == nil || !params.DueDate.Equal(due) {
				t.Errorf("due date not parsed: %v", params.DueDate)
			}
			return &task.Task{PublicID: "task_1", Title: params.Title, Status: task.StatusTodo}, nil
		},
	}
	registry := newRegistry(tasks, &stubNoteService{})
	handler, _ := registry.Get("create_task")

	res, err := handler.Execute(context.Background(), tool.Invocation{
		UserID: "user_1",
		Args:   map[string]any{"title": "Buy milk", "due_date": "2026-09-15"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.ComponentData == nil || res.ComponentData.Type != "task" {
		t.Fatalf("expected task component data, got %+v", res.ComponentData)
	}
	created, ok := res.ComponentData.Data.(*task.Task)
	if !ok || created.Title != "Buy milk" {
		t.Errorf("component data should carry the created task, got %+v", res.ComponentData.Data)
	}
}

func TestCreateTaskRejectsBadArguments(t *testing.T) {
	registry := newRegistry(&stubTaskService{}, &stubNoteService{})
	handler, _ := registry.Get("create_task")

	res, err := handler.Execute(context.Background(), tool.Invocation{
		UserID: "user_1",
		Args:   map[string]any{"title": 42},
	})
	if err != nil {
		t.Fatalf("argument problems must not be transport errors: %v", err)
	}
	if res.Success || res.Error == "" {
		t.Errorf("expected failed result, got %+v", res)
	}
}

func TestSearchNotesEmptyResultIsSuccess(t *testing.T) {
	notes := &stubNoteService{
		SearchFunc: func(context.Context, string, string) ([]*note.Note, error) {
			return nil, nil
		},
	}
	registry := newRegistry(&stubTaskService{}, notes)
	handler, _ := registry.Get("search_notes")

	res, err := handler.Execute(context.Background(), tool.Invocation{
		UserID: "user_1",
		Args:   map[string]any{"query": "groceries"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.Success {
		t.Errorf("empty search must still succeed, got %+v", res)
	}
	if res.ComponentData != nil {
		t.Errorf("empty search must not carry component data, got %+v", res.ComponentData)
	}
	if res.Message == "" {
		t.Errorf("empty search should explain itself")
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	cases := []struct {
		name    string
		res     *tool.Result
		err     error
		success bool
	}{
		{"error collapses to failure", &tool.Result{Success: true}, errors.New("boom"), false},
		{"nil result is success", nil, nil, true},
		{"result passes through", &tool.Result{Success: true, Message: "ok"}, nil, true},
		{"failed result passes through", &tool.Result{Success: false, Error: "bad"}, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tool.Normalize(tc.res, tc.err)
			if got.Success != tc.success {
				t.Errorf("Normalize(%+v, %v) = %+v", tc.res, tc.err, got)
			}
			if tc.err != nil && got.Error == "" {
				t.Errorf("error detail dropped")
			}
		})
	}
}
