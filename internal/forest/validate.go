package forest

import (
	"errors"
	"fmt"

	"github.com/MosinFAM/comment-threads/internal/models"
)

var ErrInvalidComment = errors.New("invalid comment")

// ValidationError описывает первую некорректную запись во входном списке
type ValidationError struct {
	Index  int
	ID     int64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("comment #%d (id %d): %s", e.Index, e.ID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidComment
}

// Validate отсекает записи, на которых Build не определён:
// отсутствующий id, повторяющийся id и комментарий чужого поста.
func Validate(postID int64, comments []models.Comment) error {
	seen := make(map[int64]struct{}, len(comments))
	for i, c := range comments {
		if c.ID <= 0 {
			return &ValidationError{Index: i, ID: c.ID, Reason: "missing id"}
		}
		if _, dup := seen[c.ID]; dup {
			return &ValidationError{Index: i, ID: c.ID, Reason: "duplicate id"}
		}
		if c.PostID != postID {
			return &ValidationError{Index: i, ID: c.ID, Reason: fmt.Sprintf("belongs to post %d", c.PostID)}
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
