package note_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/note"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

type mockRepo struct {
	notebooks        []*note.Notebook
	notes            []*note.Note
	searchResults    []*note.Note
	searchedQueries  []string
	notebookFailure  error
	firstByOwnership map[string]*note.Notebook
}

func (m *mockRepo) CreateNote(_ context.Context, n *note.Note) error {
	m.notes = append(m.notes, n)
	return nil
}

func (m *mockRepo) FindNoteByPublicID(ctx context.Context, publicID, userID string) (*note.Note, error) {
	for _, n := range m.notes {
		if n.PublicID == publicID && n.UserID == userID {
			return n, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "note not found", nil, "test-not-found")
}

func (m *mockRepo) SearchNotes(_ context.Context, _ string, query string, _ int) ([]*note.Note, error) {
	m.searchedQueries = append(m.searchedQueries, query)
	return m.searchResults, nil
}

func (m *mockRepo) CreateNotebook(_ context.Context, nb *note.Notebook) error {
	if m.notebookFailure != nil {
		return m.notebookFailure
	}
	nb.ID = uint(len(m.notebooks) + 1)
	m.notebooks = append(m.notebooks, nb)
	return nil
}

func (m *mockRepo) FindNotebookByPublicID(ctx context.Context, publicID, userID string) (*note.Notebook, error) {
	for _, nb := range m.notebooks {
		if nb.PublicID == publicID && nb.UserID == userID {
			return nb, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "notebook not found", nil, "test-not-found")
}

func (m *mockRepo) FirstNotebook(ctx context.Context, userID string) (*note.Notebook, error) {
	if nb, ok := m.firstByOwnership[userID]; ok {
		return nb, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "user has no notebooks", nil, "test-none")
}

func newService(repo *mockRepo) *note.ServiceImpl {
	return note.NewService(repo, zerolog.Nop())
}

func TestCreateBootstrapsDefaultNotebook(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo)

	created, err := svc.Create(context.Background(), note.CreateParams{
		UserID:  "user_1",
		Title:   "Shopping",
		Content: "milk, eggs",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(repo.notebooks) != 1 {
		t.Fatalf("a default notebook should be created, got %d", len(repo.notebooks))
	}
	nb := repo.notebooks[0]
	if nb.Name != "General" || nb.UserID != "user_1" {
		t.Errorf("unexpected default notebook: %+v", nb)
	}
	if !strings.HasPrefix(nb.PublicID, "nb_") {
		t.Errorf("notebook public ID should be prefixed: %q", nb.PublicID)
	}
	if created.NotebookID != nb.ID || created.NotebookPublicID != nb.PublicID {
		t.Errorf("note not placed in the default notebook: %+v", created)
	}
}

func TestCreateReusesExistingNotebook(t *testing.T) {
	existing := &note.Notebook{ID: 5, PublicID: "nb_existing", UserID: "user_1", Name: "General"}
	repo := &mockRepo{firstByOwnership: map[string]*note.Notebook{"user_1": existing}}
	svc := newService(repo)

	created, err := svc.Create(context.Background(), note.CreateParams{
		UserID:  "user_1",
		Title:   "Ideas",
		Content: "...",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(repo.notebooks) != 0 {
		t.Errorf("no new notebook should be created")
	}
	if created.NotebookID != 5 {
		t.Errorf("note should land in the existing notebook, got %d", created.NotebookID)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	svc := newService(&mockRepo{})

	_, err := svc.Create(context.Background(), note.CreateParams{UserID: "user_1", Title: " "})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := newService(&mockRepo{})

	_, err := svc.Search(context.Background(), "user_1", "  ")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetPrefersExactPublicID(t *testing.T) {
	existing := &note.Note{PublicID: "note_abc", UserID: "user_1", Title: "exact"}
	repo := &mockRepo{notes: []*note.Note{existing}}
	svc := newService(repo)

	found, err := svc.Get(context.Background(), "user_1", "note_abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(found) != 1 || found[0] != existing {
		t.Errorf("expected the exact note, got %+v", found)
	}
	if len(repo.searchedQueries) != 0 {
		t.Errorf("exact hit must not fall through to search")
	}
}

func TestGetFallsBackToSearch(t *testing.T) {
	repo := &mockRepo{searchResults: []*note.Note{{PublicID: "note_1", Title: "milk"}}}
	svc := newService(repo)

	found, err := svc.Get(context.Background(), "user_1", "note_missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("expected the search result, got %d", len(found))
	}
	if len(repo.searchedQueries) != 1 {
		t.Errorf("missing ID should fall back to search")
	}
}
