package thread

import (
	"context"

	"github.com/MosinFAM/comment-threads/internal/models"
)

// Store - то, что контроллер ждёт от клиента хранилища (реализуется client.Client)
type Store interface {
	FetchPost(ctx context.Context, postID int64) (*models.Post, error)
	FetchComments(ctx context.Context, postID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, in models.NewComment) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	FetchIdentity(ctx context.Context) (*models.Identity, error)
}
