package models

import "time"

// Модель комментария к посту
type Comment struct {
	ID             int64     `json:"id"`
	PostID         int64     `json:"postId"`   // ID поста, к которому прикреплён комментарий
	ParentID       *int64    `json:"parentId"` // ID родительского комментария (null, если корневой)
	AuthorID       string    `json:"authorId"`
	AuthorNickname string    `json:"authorNickname"` // ник на момент создания
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	IsDeleted      bool      `json:"isDeleted"` // надгробие: запись остаётся, текст не показывается
}

// IsRoot сообщает, что у комментария нет родителя
func (c Comment) IsRoot() bool {
	return c.ParentID == nil
}

// NewComment - тело запроса на создание комментария
type NewComment struct {
	PostID         int64  `json:"postId"`
	AuthorID       string `json:"authorId"`
	AuthorNickname string `json:"authorNickname"`
	Content        string `json:"content"`
	ParentID       *int64 `json:"parentId"`
}

// DeleteComment - тело запроса на мягкое удаление
type DeleteComment struct {
	ID int64 `json:"id"`
}

// CommentNode - комментарий вместе с ответами на него
type CommentNode struct {
	Comment
	Children []*CommentNode `json:"children"`
}

// Forest - упорядоченный список корневых узлов
type Forest []*CommentNode

// Redacted убирает текст у удалённого комментария
func (c Comment) Redacted() Comment {
	if c.IsDeleted {
		c.Content = ""
	}
	return c
}
