package api

import (
	"fmt"
	"time"
)

// Note заметка в ответах API.
type Note struct {
	ID        int64      `json:"id"`
	ShortURL  string     `json:"short_url"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	ParentID  *int64     `json:"parent_id"`
}

// IsReply заметка является ответом на другую заметку.
func (n *Note) IsReply() bool {
	return n.ParentID != nil
}

func (n *Note) validate() error {
	if n.ID <= 0 {
		return fmt.Errorf("invalid note id %d", n.ID)
	}
	if n.ShortURL == "" {
		return fmt.Errorf("note %d has empty short_url", n.ID)
	}
	return nil
}

// CreateNoteRequest тело POST /api/create. expires_at передается всегда, null означает бессрочно.
type CreateNoteRequest struct {
	Content   string     `json:"content"`
	ShortURL  string     `json:"short_url"`
	ExpiresAt *time.Time `json:"expires_at"`
	ParentID  *int64     `json:"parent_id,omitempty"`
}

type updateNoteRequest struct {
	ShortURL string `json:"short_url"`
	Content  string `json:"content"`
}

type checkResponse struct {
	Available *bool `json:"available"`
}

type errorResponse struct {
	Error string `json:"error"`
}
