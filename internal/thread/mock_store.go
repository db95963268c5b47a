package thread

import (
	"context"

	"github.com/MosinFAM/comment-threads/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FetchPost(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockStore) FetchComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]models.Comment)
	return comments, args.Error(1)
}

func (m *MockStore) CreateComment(ctx context.Context, in models.NewComment) (*models.Comment, error) {
	args := m.Called(ctx, in)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *MockStore) DeleteComment(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) FetchIdentity(ctx context.Context) (*models.Identity, error) {
	args := m.Called(ctx)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}
