package models

import (
	"strings"
	"time"
)

type Blog struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Author        string    `json:"author"`
	Profession    string    `json:"profession"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          string    `json:"date"`
	Image         string    `json:"image"`
	ImagePublicID string    `json:"image_public_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Pagination — метаданные постраничного списка.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// IsSecureImageURL — единая политика для картинок: только абсолютный https.
// Blob/file/относительные пути отклоняются до записи в базу.
func IsSecureImageURL(url string) bool {
	return strings.HasPrefix(url, "https://")
}
