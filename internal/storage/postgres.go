package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MosinFAM/comment-threads/internal/models"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// код foreign_key_violation
const fkViolation = "23503"

// PostgresStorage - хранилище в PostgreSQL
type PostgresStorage struct {
	DB *sql.DB
}

// NewPostgresStorage создаёт экземпляр PostgreSQL-хранилища
func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{DB: db}
}

const selectComment = `SELECT id, post_id, parent_id, author_id, author_nickname, content, created_at, is_deleted FROM comments`

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(row scanner) (*models.Comment, error) {
	var (
		c      models.Comment
		parent sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.PostID, &parent, &c.AuthorID, &c.AuthorNickname, &c.Content, &c.CreatedAt, &c.IsDeleted); err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.Int64
	}
	return &c, nil
}

// GetPost возвращает пост по ID
func (s *PostgresStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, board, title, content, author_id, author_nickname, created_at, view_count FROM posts WHERE id=$1`, id).
		Scan(&post.ID, &post.Board, &post.Title, &post.Content, &post.AuthorID, &post.AuthorNickname, &post.CreatedAt, &post.ViewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		log.WithError(err).Error("error fetching post")
		return nil, fmt.Errorf("storage.GetPost: %w", err)
	}
	return &post, nil
}

// AddPost добавляет новый пост
func (s *PostgresStorage) AddPost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	post := models.Post{
		Board:          in.Board,
		Title:          in.Title,
		Content:        in.Content,
		AuthorID:       in.AuthorID,
		AuthorNickname: in.AuthorNickname,
	}
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO posts (board, title, content, author_id, author_nickname) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		in.Board, in.Title, in.Content, in.AuthorID, in.AuthorNickname).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		log.WithError(err).Error("db insert error")
		return nil, fmt.Errorf("storage.AddPost: %w", err)
	}
	log.WithFields(log.Fields{"post_id": post.ID, "board": post.Board}).Info("post added")
	return &post, nil
}

// AddView увеличивает view_count поста
func (s *PostgresStorage) AddView(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("storage.AddView: %w", err)
	}
	return expectOne(res, ErrPostNotFound)
}

// GetComment возвращает комментарий по ID
func (s *PostgresStorage) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(s.DB.QueryRowContext(ctx, selectComment+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage.GetComment: %w", err)
	}
	return c, nil
}

// ListComments возвращает комментарии поста, упорядоченные по id
func (s *PostgresStorage) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var exists bool
	if err := s.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id=$1)`, postID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("storage.ListComments: %w", err)
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	rows, err := s.DB.QueryContext(ctx, selectComment+` WHERE post_id=$1 ORDER BY id`, postID)
	if err != nil {
		log.WithError(err).Error("error fetching comments")
		return nil, fmt.Errorf("storage.ListComments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.ListComments: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.ListComments: %w", err)
	}
	return comments, nil
}

// AddComment добавляет комментарий в БД в одной транзакции с проверкой родителя
func (s *PostgresStorage) AddComment(ctx context.Context, in models.NewComment) (*models.Comment, error) {
	if err := checkContent(in.Content); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage.AddComment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if in.ParentID != nil {
		// FOR SHARE: родителя не удалят, пока вставляем ответ
		parent, err := scanComment(tx.QueryRowContext(ctx, selectComment+` WHERE id=$1 FOR SHARE`, *in.ParentID))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("storage.AddComment: %w", err)
		}
		if err := checkParent(parent, in.PostID); err != nil {
			return nil, err
		}
	}

	comment := models.Comment{
		PostID:         in.PostID,
		ParentID:       in.ParentID,
		AuthorID:       in.AuthorID,
		AuthorNickname: in.AuthorNickname,
		Content:        in.Content,
	}
	var parent sql.NullInt64
	if in.ParentID != nil {
		parent = sql.NullInt64{Int64: *in.ParentID, Valid: true}
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO comments (post_id, parent_id, author_id, author_nickname, content) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		in.PostID, parent, in.AuthorID, in.AuthorNickname, in.Content).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == fkViolation {
			return nil, ErrPostNotFound
		}
		log.WithError(err).Error("db insert error")
		return nil, fmt.Errorf("storage.AddComment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage.AddComment: %w", err)
	}

	log.WithFields(log.Fields{"post_id": in.PostID, "comment_id": comment.ID}).Info("comment added")
	return &comment, nil
}

// SoftDeleteComment выставляет is_deleted
func (s *PostgresStorage) SoftDeleteComment(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE comments SET is_deleted = TRUE WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("storage.SoftDeleteComment: %w", err)
	}
	if err := expectOne(res, ErrCommentNotFound); err != nil {
		return err
	}
	log.WithField("comment_id", id).Info("comment deleted")
	return nil
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
