package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MosinFAM/comment-threads/internal/models"
	"github.com/MosinFAM/comment-threads/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestPost(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	resolver := &Resolver{Storage: mockStorage}

	expectedPost := &models.Post{ID: 1, Board: "news", Title: "Test Post"}
	mockStorage.On("GetPost", mock.Anything, int64(1)).Return(expectedPost, nil)

	post, err := resolver.Post(context.Background(), "1")
	assert.NoError(t, err)
	assert.Equal(t, "Test Post", post.Title)

	mockStorage.AssertExpectations(t)
}

func TestPost_InvalidID(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	resolver := &Resolver{Storage: mockStorage}

	for _, id := range []string{"", "abc", "0", "-3"} {
		post, err := resolver.Post(context.Background(), id)
		assert.Error(t, err, id)
		assert.Nil(t, post)
	}
	mockStorage.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything)
}

func TestComments_RedactsTombstones(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	resolver := &Resolver{Storage: mockStorage}

	mockStorage.On("ListComments", mock.Anything, int64(1)).Return([]models.Comment{
		{ID: 1, PostID: 1, Content: "visible"},
		{ID: 2, PostID: 1, ParentID: ptr(1), Content: "secret", IsDeleted: true},
	}, nil)

	comments, err := resolver.Comments(context.Background(), "1")
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "visible", comments[0].Content)
	assert.Empty(t, comments[1].Content)
	assert.True(t, comments[1].IsDeleted)

	mockStorage.AssertExpectations(t)
}

func TestComments_StorageError(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	resolver := &Resolver{Storage: mockStorage}

	mockStorage.On("ListComments", mock.Anything, int64(9)).Return(nil, storage.ErrPostNotFound)

	comments, err := resolver.Comments(context.Background(), "9")
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
	assert.Nil(t, comments)
}

func TestThread(t *testing.T) {
	mockStorage := new(storage.MockStorage)
	resolver := &Resolver{Storage: mockStorage}

	mockStorage.On("ListComments", mock.Anything, int64(1)).Return([]models.Comment{
		{ID: 1, PostID: 1},
		{ID: 2, PostID: 1, ParentID: ptr(1)},
		{ID: 3, PostID: 1},
	}, nil)

	thread, err := resolver.Thread(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Len(t, thread[0].Children, 1)
	assert.Equal(t, int64(2), thread[0].Children[0].ID)
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func query(t *testing.T, h http.Handler, body string) (int, gqlResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp gqlResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func seeded(t *testing.T) *Handler {
	t.Helper()
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	post, err := store.AddPost(ctx, models.NewPost{Board: "news", Title: "Spring festival", AuthorID: "u9"})
	require.NoError(t, err)
	root, err := store.AddComment(ctx, models.NewComment{PostID: post.ID, AuthorID: "u1", AuthorNickname: "kim", Content: "root"})
	require.NoError(t, err)
	child, err := store.AddComment(ctx, models.NewComment{PostID: post.ID, ParentID: &root.ID, AuthorID: "u2", Content: "gone"})
	require.NoError(t, err)
	_, err = store.AddComment(ctx, models.NewComment{PostID: post.ID, ParentID: &child.ID, AuthorID: "u1", Content: "leaf"})
	require.NoError(t, err)
	require.NoError(t, store.SoftDeleteComment(ctx, child.ID))

	h, err := New(store)
	require.NoError(t, err)
	return h
}

func TestHandler_Post(t *testing.T) {
	h := seeded(t)

	code, resp := query(t, h, `{"query":"query($id: ID!) { post(id: $id) { id title board createdAt } }","variables":{"id":"1"}}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Errors)

	var post struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Board     string `json:"board"`
		CreatedAt string `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["post"], &post))
	assert.Equal(t, "1", post.ID)
	assert.Equal(t, "Spring festival", post.Title)
	assert.Equal(t, "news", post.Board)
	_, err := time.Parse(time.RFC3339, post.CreatedAt)
	assert.NoError(t, err)
}

func TestHandler_Comments(t *testing.T) {
	h := seeded(t)

	code, resp := query(t, h, `{"query":"{ comments(postId: \"1\") { id parentId content isDeleted } }"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Errors)

	var comments []struct {
		ID        string  `json:"id"`
		ParentID  *string `json:"parentId"`
		Content   string  `json:"content"`
		IsDeleted bool    `json:"isDeleted"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["comments"], &comments))
	require.Len(t, comments, 3)
	assert.Nil(t, comments[0].ParentID)
	require.NotNil(t, comments[1].ParentID)
	assert.Equal(t, "1", *comments[1].ParentID)
	assert.True(t, comments[1].IsDeleted)
	assert.Empty(t, comments[1].Content)
	assert.Equal(t, "leaf", comments[2].Content)
}

func TestHandler_Thread(t *testing.T) {
	h := seeded(t)

	code, resp := query(t, h, `{"query":"{ thread(postId: \"1\") { id children { id isDeleted children { id content } } } }"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Errors)

	type node struct {
		ID        string `json:"id"`
		Content   string `json:"content"`
		IsDeleted bool   `json:"isDeleted"`
		Children  []node `json:"children"`
	}
	var thread []node
	require.NoError(t, json.Unmarshal(resp.Data["thread"], &thread))
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Children, 1)
	assert.True(t, thread[0].Children[0].IsDeleted)
	require.Len(t, thread[0].Children[0].Children, 1)
	assert.Equal(t, "leaf", thread[0].Children[0].Children[0].Content)
}

func TestHandler_UnknownPost(t *testing.T) {
	h := seeded(t)

	code, resp := query(t, h, `{"query":"{ post(id: \"99\") { id } }"}`)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "post not found")
}

func TestHandler_BadRequest(t *testing.T) {
	h := seeded(t)

	code, _ := query(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = query(t, h, `{"variables":{}}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
