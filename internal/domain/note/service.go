package note

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

const (
	defaultNotebookName = "General"
	defaultSearchLimit  = 20
)

// Service exposes note operations to the tool layer.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Note, error)
	Search(ctx context.Context, userID, query string) ([]*Note, error)
	Get(ctx context.Context, userID, search string) ([]*Note, error)
}

// CreateParams describes a new note. NotebookID is optional; when empty the
// note lands in the user's default notebook.
type CreateParams struct {
	UserID     string
	Title      string
	Content    string
	NotebookID *string
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	notes Repository
	log   zerolog.Logger
}

// NewService wires dependencies.
func NewService(notes Repository, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		notes: notes,
		log:   log.With().Str("component", "note-service").Logger(),
	}
}

var _ Service = (*ServiceImpl)(nil)

// Create persists a new note, bootstrapping a default notebook for users that
// have none yet.
func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*Note, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"note title is empty",
			nil,
			"create-note-empty-title",
		)
	}

	nb, err := s.resolveNotebook(ctx, params.UserID, params.NotebookID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	n := &Note{
		PublicID:         conversation.NewPublicID("note"),
		UserID:           params.UserID,
		NotebookID:       nb.ID,
		NotebookPublicID: nb.PublicID,
		Title:            title,
		Content:          params.Content,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.notes.CreateNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Search matches notes by title or content. An empty result is not an error.
func (s *ServiceImpl) Search(ctx context.Context, userID, query string) ([]*Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"note search query is empty",
			nil,
			"search-notes-empty-query",
		)
	}
	return s.notes.SearchNotes(ctx, userID, query, defaultSearchLimit)
}

// Get resolves a free-text lookup to matching notes. An exact public ID wins
// over a content match.
func (s *ServiceImpl) Get(ctx context.Context, userID, search string) ([]*Note, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"note search is empty",
			nil,
			"get-note-empty-search",
		)
	}

	if strings.HasPrefix(search, "note_") {
		n, err := s.notes.FindNoteByPublicID(ctx, search, userID)
		if err == nil {
			return []*Note{n}, nil
		}
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, err
		}
	}

	return s.notes.SearchNotes(ctx, userID, search, defaultSearchLimit)
}

func (s *ServiceImpl) resolveNotebook(ctx context.Context, userID string, notebookID *string) (*Notebook, error) {
	if notebookID != nil && strings.TrimSpace(*notebookID) != "" {
		return s.notes.FindNotebookByPublicID(ctx, strings.TrimSpace(*notebookID), userID)
	}

	nb, err := s.notes.FirstNotebook(ctx, userID)
	if err == nil {
		return nb, nil
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, err
	}

	now := time.Now()
	nb = &Notebook{
		PublicID:  conversation.NewPublicID("nb"),
		UserID:    userID,
		Name:      defaultNotebookName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.CreateNotebook(ctx, nb); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("notebook_id", nb.PublicID).Msg("bootstrapped default notebook")
	return nb, nil
}
