package graph

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MosinFAM/comment-threads/internal/forest"
	"github.com/MosinFAM/comment-threads/internal/models"
	"github.com/MosinFAM/comment-threads/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Resolver отвечает на запросы GraphQL из хранилища
type Resolver struct {
	Storage storage.Storage
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", id)
	}
	return n, nil
}

// Post возвращает пост по ID
func (r *Resolver) Post(ctx context.Context, id string) (*models.Post, error) {
	postID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.Storage.GetPost(ctx, postID)
}

// Comments - плоский список в порядке хранилища, текст удалённых скрыт
func (r *Resolver) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	id, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	comments, err := r.Storage.ListComments(ctx, id)
	if err != nil {
		log.WithError(err).WithField("post_id", id).Warn("graphql comments failed")
		return nil, err
	}
	for i := range comments {
		comments[i] = comments[i].Redacted()
	}
	return comments, nil
}

// Thread - те же комментарии, собранные в дерево
func (r *Resolver) Thread(ctx context.Context, postID string) (models.Forest, error) {
	comments, err := r.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return forest.Build(comments), nil
}
