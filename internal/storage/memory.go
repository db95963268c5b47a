package storage

import (
	"context"
	"sync"
	"time"

	"github.com/MosinFAM/comment-threads/internal/models"

	log "github.com/sirupsen/logrus"
)

// MemoryStorage - хранилище в памяти
type MemoryStorage struct {
	mu       sync.RWMutex
	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	byPost   map[int64][]int64 // id комментариев поста в порядке вставки
	lastPost int64
	lastID   int64
	now      func() time.Time
}

// NewMemoryStorage создает новое in-memory хранилище
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		byPost:   make(map[int64][]int64),
		now:      time.Now,
	}
}

// GetPost возвращает пост по ID
func (s *MemoryStorage) GetPost(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		log.WithField("post_id", id).Debug("post not found")
		return nil, ErrPostNotFound
	}
	out := *post
	return &out, nil
}

// AddPost добавляет новый пост
func (s *MemoryStorage) AddPost(_ context.Context, in models.NewPost) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPost++
	post := &models.Post{
		ID:             s.lastPost,
		Board:          in.Board,
		Title:          in.Title,
		Content:        in.Content,
		AuthorID:       in.AuthorID,
		AuthorNickname: in.AuthorNickname,
		CreatedAt:      s.now().UTC(),
	}
	s.posts[post.ID] = post
	log.WithFields(log.Fields{"post_id": post.ID, "board": post.Board}).Info("post added")

	out := *post
	return &out, nil
}

// AddView увеличивает счётчик просмотров поста
func (s *MemoryStorage) AddView(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	post.ViewCount++
	return nil
}

// GetComment возвращает комментарий по ID
func (s *MemoryStorage) GetComment(_ context.Context, id int64) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return copyComment(comment), nil
}

// ListComments возвращает все комментарии поста в порядке создания
func (s *MemoryStorage) ListComments(_ context.Context, postID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, ErrPostNotFound
	}

	ids := s.byPost[postID]
	result := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		result = append(result, *copyComment(s.comments[id]))
	}
	return result, nil
}

// AddComment добавляет комментарий в память
func (s *MemoryStorage) AddComment(_ context.Context, in models.NewComment) (*models.Comment, error) {
	if err := checkContent(in.Content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[in.PostID]; !ok {
		return nil, ErrPostNotFound
	}
	if in.ParentID != nil {
		if err := checkParent(s.comments[*in.ParentID], in.PostID); err != nil {
			return nil, err
		}
	}

	s.lastID++
	comment := &models.Comment{
		ID:             s.lastID,
		PostID:         in.PostID,
		AuthorID:       in.AuthorID,
		AuthorNickname: in.AuthorNickname,
		Content:        in.Content,
		CreatedAt:      s.now().UTC(),
	}
	if in.ParentID != nil {
		parent := *in.ParentID
		comment.ParentID = &parent
	}

	s.comments[comment.ID] = comment
	s.byPost[in.PostID] = append(s.byPost[in.PostID], comment.ID)

	log.WithFields(log.Fields{"post_id": in.PostID, "comment_id": comment.ID}).Info("comment added")
	return copyComment(comment), nil
}

// SoftDeleteComment помечает комментарий удалённым, текст остаётся в памяти
func (s *MemoryStorage) SoftDeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return ErrCommentNotFound
	}
	comment.IsDeleted = true
	log.WithField("comment_id", id).Info("comment deleted")
	return nil
}

// copyComment не даёт вызывающему менять данные хранилища через ParentID
func copyComment(c *models.Comment) *models.Comment {
	out := *c
	if c.ParentID != nil {
		parent := *c.ParentID
		out.ParentID = &parent
	}
	return &out
}
