package httpapi

import (
	"errors"
	"net/http"

	"github.com/MosinFAM/comment-threads/internal/storage"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidID   = errors.New("invalid id")
	errInvalidBody = errors.New("invalid request body")
	errNotAuthor   = errors.New("only the author can do this")
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// statusFor сопоставляет ошибки хранилища кодам ответа
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrPostNotFound),
		errors.Is(err, storage.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrEmptyContent),
		errors.Is(err, storage.ErrCommentTooLong),
		errors.Is(err, storage.ErrParentNotFound),
		errors.Is(err, storage.ErrParentDeleted):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		abort(c, status, "internal error")
		return
	}
	abort(c, status, err.Error())
}
