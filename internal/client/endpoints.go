package client

import (
	"fmt"
	"strconv"
	"strings"
)

const postIDPlaceholder = "{postId}"

// Endpoints - шаблоны путей REST API для одной доски.
// {postId} заменяется на ID поста; шаблон может содержать query-часть.
type Endpoints struct {
	Post          string
	Comments      string
	CreateComment string
	DeleteComment string
	Identity      string
}

// BoardEndpoints возвращает стандартную раскладку, которую обслуживает boardserver
func BoardEndpoints(board string) Endpoints {
	prefix := fmt.Sprintf("/api/v1/boards/%s", board)
	return Endpoints{
		Post:          prefix + "/posts/" + postIDPlaceholder,
		Comments:      prefix + "/posts/" + postIDPlaceholder + "/comments",
		CreateComment: prefix + "/comments",
		DeleteComment: prefix + "/comments/delete",
		Identity:      "/api/v1/users/me",
	}
}

func expand(tmpl string, postID int64) string {
	return strings.ReplaceAll(tmpl, postIDPlaceholder, strconv.FormatInt(postID, 10))
}
