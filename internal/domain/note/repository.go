package note

import "context"

// Repository persists notes and notebooks.
type Repository interface {
	CreateNote(ctx context.Context, n *Note) error

	// FindNoteByPublicID fetches an owned note; missing or foreign-owned rows
	// surface as NotFound.
	FindNoteByPublicID(ctx context.Context, publicID, userID string) (*Note, error)

	// SearchNotes matches the query against note titles and content, most
	// recently updated first.
	SearchNotes(ctx context.Context, userID, query string, limit int) ([]*Note, error)

	CreateNotebook(ctx context.Context, nb *Notebook) error

	// FindNotebookByPublicID fetches an owned notebook.
	FindNotebookByPublicID(ctx context.Context, publicID, userID string) (*Notebook, error)

	// FirstNotebook returns the user's oldest notebook, or NotFound when the
	// user has none.
	FirstNotebook(ctx context.Context, userID string) (*Notebook, error)
}
