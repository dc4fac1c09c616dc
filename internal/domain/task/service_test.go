package task_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/task"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

type mockRepo struct {
	created []*task.Task
	updated []*task.Task
	byID    map[string]*task.Task
	found   []*task.Task
	filters []task.Filter
}

func (m *mockRepo) Create(_ context.Context, t *task.Task) error {
	m.created = append(m.created, t)
	return nil
}

func (m *mockRepo) Update(_ context.Context, t *task.Task) error {
	m.updated = append(m.updated, t)
	return nil
}

func (m *mockRepo) FindByPublicID(ctx context.Context, publicID, userID string) (*task.Task, error) {
	if t, ok := m.byID[publicID]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "task not found", nil, "test-not-found")
}

func (m *mockRepo) FindByFilter(_ context.Context, filter task.Filter) ([]*task.Task, error) {
	m.filters = append(m.filters, filter)
	return m.found, nil
}

func newService(repo *mockRepo) *task.ServiceImpl {
	return task.NewService(repo, zerolog.Nop())
}

func TestCreateAssignsDefaults(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo)

	created, err := svc.Create(context.Background(), task.CreateParams{
		UserID: "user_1",
		Title:  "  Water plants  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Water plants" {
		t.Errorf("title not trimmed: %q", created.Title)
	}
	if created.Status != task.StatusTodo {
		t.Errorf("new tasks start as todo, got %s", created.Status)
	}
	if !strings.HasPrefix(created.PublicID, "task_") {
		t.Errorf("public ID should be prefixed: %q", created.PublicID)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	svc := newService(&mockRepo{})

	_, err := svc.Create(context.Background(), task.CreateParams{UserID: "user_1", Title: "   "})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	existing := &task.Task{PublicID: "task_1", UserID: "user_1", Title: "x", Status: task.StatusTodo}
	repo := &mockRepo{byID: map[string]*task.Task{"task_1": existing}}
	svc := newService(repo)

	bad := task.Status("done")
	_, err := svc.Update(context.Background(), task.UpdateParams{
		UserID: "user_1",
		TaskID: "task_1",
		Status: &bad,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if len(repo.updated) != 0 {
		t.Errorf("invalid update must not be persisted")
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	desc := "old"
	existing := &task.Task{PublicID: "task_1", UserID: "user_1", Title: "x", Description: &desc, Status: task.StatusTodo}
	repo := &mockRepo{byID: map[string]*task.Task{"task_1": existing}}
	svc := newService(repo)

	done := task.StatusCompleted
	updated, err := svc.Update(context.Background(), task.UpdateParams{
		UserID: "user_1",
		TaskID: "task_1",
		Status: &done,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != task.StatusCompleted {
		t.Errorf("status not applied")
	}
	if updated.Title != "x" || updated.Description == nil || *updated.Description != "old" {
		t.Errorf("untouched fields must survive: %+v", updated)
	}
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	existing := &task.Task{PublicID: "task_1", UserID: "user_1", Title: "x", Status: task.StatusTodo}
	repo := &mockRepo{byID: map[string]*task.Task{"task_1": existing}}
	svc := newService(repo)

	title := "hijacked"
	_, err := svc.Update(context.Background(), task.UpdateParams{
		UserID: "user_2",
		TaskID: "task_1",
		Title:  &title,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("foreign tasks must look missing, got %v", err)
	}
}

func TestGetPrefersExactPublicID(t *testing.T) {
	existing := &task.Task{PublicID: "task_abc", UserID: "user_1", Title: "exact"}
	repo := &mockRepo{byID: map[string]*task.Task{"task_abc": existing}}
	svc := newService(repo)

	found, err := svc.Get(context.Background(), "user_1", "task_abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(found) != 1 || found[0] != existing {
		t.Errorf("expected the exact task, got %+v", found)
	}
	if len(repo.filters) != 0 {
		t.Errorf("exact hit must not fall through to search")
	}
}

func TestGetFallsBackToSearch(t *testing.T) {
	repo := &mockRepo{found: []*task.Task{{PublicID: "task_1", Title: "milk"}}}
	svc := newService(repo)

	found, err := svc.Get(context.Background(), "user_1", "milk")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 result, got %d", len(found))
	}
	if len(repo.filters) != 1 || repo.filters[0].Search == nil || *repo.filters[0].Search != "milk" {
		t.Errorf("search filter not applied: %+v", repo.filters)
	}
}
