package httpapi

import (
	"net/http"
	"strconv"

	"github.com/MosinFAM/comment-threads/internal/auth"
	"github.com/MosinFAM/comment-threads/internal/models"
	"github.com/MosinFAM/comment-threads/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type handler struct {
	store  storage.Storage
	issuer *auth.Issuer
	log    logrus.FieldLogger
}

func (h *handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, errInvalidID.Error())
		return 0, false
	}
	return id, true
}

// boardPost загружает пост и проверяет, что он с этой доски
func (h *handler) boardPost(c *gin.Context, postID int64) (*models.Post, bool) {
	post, err := h.store.GetPost(c.Request.Context(), postID)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if post.Board != c.Param("board") {
		abort(c, http.StatusNotFound, storage.ErrPostNotFound.Error())
		return nil, false
	}
	return post, true
}

// getPost отдаёт пост и засчитывает просмотр
func (h *handler) getPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	post, ok := h.boardPost(c, postID)
	if !ok {
		return
	}

	if err := h.store.AddView(c.Request.Context(), postID); err != nil {
		h.fail(c, err)
		return
	}
	post.ViewCount++

	c.JSON(http.StatusOK, post)
}

func (h *handler) listComments(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	if _, ok := h.boardPost(c, postID); !ok {
		return
	}

	comments, err := h.store.ListComments(c.Request.Context(), postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	for i := range comments {
		comments[i] = comments[i].Redacted()
	}
	c.JSON(http.StatusOK, comments)
}

func (h *handler) createComment(c *gin.Context) {
	var in models.NewComment
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	identity := identityFrom(c)
	if in.AuthorID != identity.UserID {
		abort(c, http.StatusForbidden, "author does not match session")
		return
	}
	if in.AuthorNickname == "" {
		in.AuthorNickname = identity.Nickname
	}

	if _, ok := h.boardPost(c, in.PostID); !ok {
		return
	}

	comment, err := h.store.AddComment(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"post_id":    comment.PostID,
		"comment_id": comment.ID,
	}).Info("comment created")
	c.JSON(http.StatusCreated, comment)
}

// deleteComment - мягкое удаление; право проверяется здесь, а не на клиенте
func (h *handler) deleteComment(c *gin.Context) {
	var in models.DeleteComment
	if err := c.ShouldBindJSON(&in); err != nil || in.ID <= 0 {
		abort(c, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	comment, err := h.store.GetComment(c.Request.Context(), in.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, ok := h.boardPost(c, comment.PostID); !ok {
		return
	}
	if comment.AuthorID != identityFrom(c).UserID {
		abort(c, http.StatusForbidden, errNotAuthor.Error())
		return
	}

	if err := h.store.SoftDeleteComment(c.Request.Context(), in.ID); err != nil {
		h.fail(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"comment_id": in.ID,
	}).Info("comment deleted")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, identityFrom(c))
}

type sessionResponse struct {
	Token string `json:"token"`
	models.Identity
}

// signIn - вход для разработки: токен на любой userId
func (h *handler) signIn(c *gin.Context) {
	var in models.Identity
	if err := c.ShouldBindJSON(&in); err != nil || in.UserID == "" {
		abort(c, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	token, err := h.issuer.Issue(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, Identity: in})
}
