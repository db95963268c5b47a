package storage

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/MosinFAM/comment-threads/internal/models"
)

// MaxCommentLength - предел длины комментария в символах
const MaxCommentLength = 2000

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyContent    = errors.New("comment is empty")
	ErrCommentTooLong  = errors.New("comment is too long")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrParentDeleted   = errors.New("parent comment is deleted")
)

// Storage - интерфейс для всех типов хранилищ (in-memory и PostgreSQL)
type Storage interface {
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	AddPost(ctx context.Context, in models.NewPost) (*models.Post, error)
	AddView(ctx context.Context, id int64) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	// ListComments возвращает все комментарии поста по возрастанию id, удалённые тоже
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, in models.NewComment) (*models.Comment, error)
	// SoftDeleteComment помечает комментарий удалённым; повторный вызов не ошибка
	SoftDeleteComment(ctx context.Context, id int64) error
}

func checkContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// checkParent проверяет родителя нового комментария
func checkParent(parent *models.Comment, postID int64) error {
	if parent == nil || parent.PostID != postID {
		return ErrParentNotFound
	}
	if parent.IsDeleted {
		return ErrParentDeleted
	}
	return nil
}
