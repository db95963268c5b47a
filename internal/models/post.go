package models

import "time"

// Модель поста
type Post struct {
	ID             int64     `json:"id"`
	Board          string    `json:"board"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"authorId"`
	AuthorNickname string    `json:"authorNickname"`
	CreatedAt      time.Time `json:"createdAt"`
	ViewCount      int64     `json:"viewCount"`
}

// NewPost - данные для создания поста
type NewPost struct {
	Board          string `json:"board"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	AuthorID       string `json:"authorId"`
	AuthorNickname string `json:"authorNickname"`
}
