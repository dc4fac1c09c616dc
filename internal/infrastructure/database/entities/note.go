package entities

import (
	"time"

	"github.com/griffinm/jotter/internal/domain/note"
)

// Notebook is the database representation of a notebook.
type Notebook struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"uniqueIndex;size:64;not null"`
	UserID    string `gorm:"index;size:64;not null"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Notes []Note `gorm:"foreignKey:NotebookID"`
}

// TableName overrides the gorm default.
func (Notebook) TableName() string {
	return "notebooks"
}

// ToDomain converts the entity to the domain model.
func (e *Notebook) ToDomain() *note.Notebook {
	return &note.Notebook{
		ID:        e.ID,
		PublicID:  e.PublicID,
		UserID:    e.UserID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// NewNotebookEntity converts the domain model to its entity.
func NewNotebookEntity(nb *note.Notebook) *Notebook {
	return &Notebook{
		ID:        nb.ID,
		PublicID:  nb.PublicID,
		UserID:    nb.UserID,
		Name:      nb.Name,
		CreatedAt: nb.CreatedAt,
		UpdatedAt: nb.UpdatedAt,
	}
}

// Note is the database representation of a note.
type Note struct {
	ID         uint   `gorm:"primaryKey"`
	PublicID   string `gorm:"uniqueIndex;size:64;not null"`
	UserID     string `gorm:"index;size:64;not null"`
	NotebookID uint   `gorm:"index;not null"`
	Title      string `gorm:"size:255;not null"`
	Content    string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Notebook *Notebook `gorm:"foreignKey:NotebookID"`
}

// TableName overrides the gorm default.
func (Note) TableName() string {
	return "notes"
}

// ToDomain converts the entity to the domain model.
func (e *Note) ToDomain() *note.Note {
	n := &note.Note{
		ID:         e.ID,
		PublicID:   e.PublicID,
		UserID:     e.UserID,
		NotebookID: e.NotebookID,
		Title:      e.Title,
		Content:    e.Content,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.Notebook != nil {
		n.NotebookPublicID = e.Notebook.PublicID
	}
	return n
}

// NewNoteEntity converts the domain model to its entity.
func NewNoteEntity(n *note.Note) *Note {
	return &Note{
		ID:         n.ID,
		PublicID:   n.PublicID,
		UserID:     n.UserID,
		NotebookID: n.NotebookID,
		Title:      n.Title,
		Content:    n.Content,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}
