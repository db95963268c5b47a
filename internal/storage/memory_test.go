package storage

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/MosinFAM/comment-threads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func newPost(t *testing.T, s *MemoryStorage) *models.Post {
	t.Helper()
	post, err := s.AddPost(context.Background(), models.NewPost{Board: "news", Title: "Post 1", Content: "Content", AuthorID: "u9"})
	require.NoError(t, err)
	return post
}

func reply(postID int64, parent *int64, author, content string) models.NewComment {
	return models.NewComment{PostID: postID, ParentID: parent, AuthorID: author, AuthorNickname: author, Content: content}
}

func TestGetPost_NotFound(t *testing.T) {
	storage := NewMemoryStorage()

	post, err := storage.GetPost(context.Background(), 1)

	// Assert что пост не найден
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Nil(t, post)
}

func TestAddPost(t *testing.T) {
	storage := NewMemoryStorage()

	first := newPost(t, storage)
	second := newPost(t, storage)

	// Assert id выдаются по порядку
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "news", first.Board)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestAddView(t *testing.T) {
	storage := NewMemoryStorage()
	post := newPost(t, storage)
	ctx := context.Background()

	require.NoError(t, storage.AddView(ctx, post.ID))
	require.NoError(t, storage.AddView(ctx, post.ID))

	fetched, err := storage.GetPost(ctx, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), fetched.ViewCount)
	assert.ErrorIs(t, storage.AddView(ctx, 99), ErrPostNotFound)
}

func TestAddComment_NoPost(t *testing.T) {
	storage := NewMemoryStorage()

	comment, err := storage.AddComment(context.Background(), reply(42, nil, "u1", "Test comment"))

	// Assert an error and nil комментарий
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Nil(t, comment)
}

func TestAddComment_Content(t *testing.T) {
	storage := NewMemoryStorage()
	post := newPost(t, storage)

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty", content: "", wantErr: ErrEmptyContent},
		{name: "blank", content: "  \n\t", wantErr: ErrEmptyContent},
		{name: "too long", content: strings.Repeat("a", MaxCommentLength+1), wantErr: ErrCommentTooLong},
		{name: "limit in runes", content: strings.Repeat("ж", MaxCommentLength)},
		{name: "multiline", content: "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment, err := storage.AddComment(context.Background(), reply(post.ID, nil, "u1", tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, comment)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.content, comment.Content)
		})
	}
}

func TestAddComment_Success(t *testing.T) {
	storage := NewMemoryStorage()
	post := newPost(t, storage)

	comment, err := storage.AddComment(context.Background(), reply(post.ID, nil, "u1", "Test comment"))

	// Assert no error и комментарий добавлен правильно
	assert.NoError(t, err)
	assert.Equal(t, int64(1), comment.ID)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "u1", comment.AuthorID)
	assert.Nil(t, comment.ParentID)
	assert.False(t, comment.IsDeleted)
}

func TestAddComment_Parent(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	post := newPost(t, storage)
	other := newPost(t, storage)

	root, err := storage.AddComment(ctx, reply(post.ID, nil, "u1", "root"))
	require.NoError(t, err)
	foreign, err := storage.AddComment(ctx, reply(other.ID, nil, "u1", "elsewhere"))
	require.NoError(t, err)

	child, err := storage.AddComment(ctx, reply(post.ID, ptr(root.ID), "u2", "child"))
	assert.NoError(t, err)
	assert.Equal(t, ptr(root.ID), child.ParentID)

	// Assert родитель из другого поста или несуществующий
	_, err = storage.AddComment(ctx, reply(post.ID, ptr(foreign.ID), "u2", "x"))
	assert.ErrorIs(t, err, ErrParentNotFound)
	_, err = storage.AddComment(ctx, reply(post.ID, ptr(999), "u2", "x"))
	assert.ErrorIs(t, err, ErrParentNotFound)

	// Assert на удалённый ответить нельзя
	require.NoError(t, storage.SoftDeleteComment(ctx, root.ID))
	_, err = storage.AddComment(ctx, reply(post.ID, ptr(root.ID), "u2", "x"))
	assert.ErrorIs(t, err, ErrParentDeleted)
}

func TestListComments_NotFound(t *testing.T) {
	storage := NewMemoryStorage()

	comments, err := storage.ListComments(context.Background(), 7)

	// Assert error, пост не существует
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Nil(t, comments)
}

func TestListComments_EmptyPost(t *testing.T) {
	storage := NewMemoryStorage()
	post := newPost(t, storage)

	comments, err := storage.ListComments(context.Background(), post.ID)

	assert.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestListComments_OrderAndTombstones(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	post := newPost(t, storage)
	other := newPost(t, storage)

	c1, _ := storage.AddComment(ctx, reply(post.ID, nil, "u1", "one"))
	_, _ = storage.AddComment(ctx, reply(other.ID, nil, "u1", "noise"))
	c2, _ := storage.AddComment(ctx, reply(post.ID, ptr(c1.ID), "u2", "two"))
	_, _ = storage.AddComment(ctx, reply(post.ID, ptr(c2.ID), "u1", "four"))
	require.NoError(t, storage.SoftDeleteComment(ctx, c2.ID))

	comments, err := storage.ListComments(ctx, post.ID)

	// Assert порядок вставки, удалённый остаётся в списке
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []int64{1, 3, 4}, []int64{comments[0].ID, comments[1].ID, comments[2].ID})
	assert.True(t, comments[1].IsDeleted)
	assert.Equal(t, "two", comments[1].Content)
	assert.Equal(t, ptr(c2.ID), comments[2].ParentID)
}

func TestSoftDeleteComment(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	post := newPost(t, storage)
	comment, err := storage.AddComment(ctx, reply(post.ID, nil, "u1", "bye"))
	require.NoError(t, err)

	assert.NoError(t, storage.SoftDeleteComment(ctx, comment.ID))
	// повторное удаление не ошибка
	assert.NoError(t, storage.SoftDeleteComment(ctx, comment.ID))
	assert.ErrorIs(t, storage.SoftDeleteComment(ctx, 404), ErrCommentNotFound)

	fetched, err := storage.GetComment(ctx, comment.ID)
	assert.NoError(t, err)
	assert.True(t, fetched.IsDeleted)
}

func TestGetComment_ReturnsCopy(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	post := newPost(t, storage)
	root, _ := storage.AddComment(ctx, reply(post.ID, nil, "u1", "root"))
	child, _ := storage.AddComment(ctx, reply(post.ID, ptr(root.ID), "u1", "child"))

	fetched, err := storage.GetComment(ctx, child.ID)
	require.NoError(t, err)
	*fetched.ParentID = 100
	fetched.Content = "changed"

	again, _ := storage.GetComment(ctx, child.ID)
	assert.Equal(t, root.ID, *again.ParentID)
	assert.Equal(t, "child", again.Content)
}

func TestMemoryStorage_Concurrent(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	post := newPost(t, storage)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.AddComment(ctx, reply(post.ID, nil, "u1", "hi"))
			assert.NoError(t, err)
			_, err = storage.ListComments(ctx, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	comments, err := storage.ListComments(ctx, post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 50)
}
