package models

import "time"

// ShortURLMaxLength максимальная длина короткой ссылки.
const ShortURLMaxLength = 64

// Note структура модели хранения заметки. Ответ (reply) это заметка с заполненным ParentID.
type Note struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	ShortURL  string     `gorm:"index:idx_notes_short_url,unique;size:64;not null" json:"short_url"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"-"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`
	ParentID  *uint      `gorm:"index" json:"parent_id"`
}

// IsExpired истекло ли время жизни заметки на момент now. Заметки без ExpiresAt бессрочные.
func (n *Note) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(now)
}
