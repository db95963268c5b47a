// Package forest собирает плоский список комментариев в дерево ответов.
package forest

import "github.com/MosinFAM/comment-threads/internal/models"

// Build строит лес из плоского списка в порядке, пришедшем с сервера.
// Комментарии с неизвестным родителем (сироты) отбрасываются вместе с их потомками.
func Build(comments []models.Comment) models.Forest {
	nodes := make(map[int64]*models.CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &models.CommentNode{
			Comment:  c,
			Children: []*models.CommentNode{},
		}
	}

	roots := models.Forest{}
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// Walk обходит лес в прямом порядке без рекурсии. Глубина корня - 0.
// Если fn возвращает false, потомки узла пропускаются.
func Walk(f models.Forest, fn func(node *models.CommentNode, depth int) bool) {
	type frame struct {
		node  *models.CommentNode
		depth int
	}

	stack := make([]frame, 0, len(f))
	for i := len(f) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: f[i]})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.node, top.depth) {
			continue
		}
		children := top.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], depth: top.depth + 1})
		}
	}
}

// Count возвращает число узлов, достижимых из корней
func Count(f models.Forest) int {
	n := 0
	Walk(f, func(*models.CommentNode, int) bool {
		n++
		return true
	})
	return n
}

// Find ищет узел по ID
func Find(f models.Forest, id int64) *models.CommentNode {
	var found *models.CommentNode
	Walk(f, func(node *models.CommentNode, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}
