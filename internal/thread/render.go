package thread

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MosinFAM/comment-threads/internal/forest"
	"github.com/MosinFAM/comment-threads/internal/models"
)

const indentUnit = "  "

// Row - строка отрисовки одного узла
type Row struct {
	ID        int64
	Depth     int
	Author    string
	Content   string
	CreatedAt time.Time
	Deleted   bool
	CanReply  bool
	CanDelete bool
	ReplyOpen bool
}

// Rows разворачивает лес в прямом порядке. У удалённых узлов вместо текста
// заглушка, без автора и действий; их ответы остаются на месте.
func (c *Controller) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]Row, 0, forest.Count(c.forest))
	forest.Walk(c.forest, func(node *models.CommentNode, depth int) bool {
		row := Row{ID: node.ID, Depth: depth}
		if node.IsDeleted {
			row.Deleted = true
			row.Content = c.placeholder
		} else {
			row.Author = node.AuthorNickname
			row.Content = node.Content
			row.CreatedAt = node.CreatedAt
			row.CanReply = c.canReply(node)
			row.CanDelete = c.canDelete(node)
			row.ReplyOpen = c.replyTarget != nil && *c.replyTarget == node.ID
		}
		rows = append(rows, row)
		return true
	})
	return rows
}

// Render печатает ветку в текстовом виде с отступом по глубине
func (c *Controller) Render(w io.Writer) error {
	rows := c.Rows()
	draft := c.State().ReplyDraft

	ew := &errWriter{w: w}
	if len(rows) == 0 {
		ew.printf("No comments yet.\n")
		return ew.err
	}

	for _, row := range rows {
		indent := strings.Repeat(indentUnit, row.Depth)
		if row.Deleted {
			ew.printf("%s#%d %s\n", indent, row.ID, row.Content)
			continue
		}

		ew.printf("%s#%d %s · %s", indent, row.ID, row.Author, row.CreatedAt.Local().Format("2006-01-02 15:04"))
		if row.CanReply {
			ew.printf(" [reply]")
		}
		if row.CanDelete {
			ew.printf(" [delete]")
		}
		ew.printf("\n")

		for _, line := range strings.Split(row.Content, "\n") {
			ew.printf("%s%s%s\n", indent, indentUnit, line)
		}
		if row.ReplyOpen {
			ew.printf("%s%s> %s\n", indent, indentUnit, draft)
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
