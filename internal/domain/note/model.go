package note

import "time"

// Notebook groups notes for a user.
type Notebook struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a user-owned document inside a notebook.
type Note struct {
	ID               uint      `json:"-"`
	PublicID         string    `json:"id"`
	UserID           string    `json:"-"`
	NotebookID       uint      `json:"-"`
	NotebookPublicID string    `json:"notebook_id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
