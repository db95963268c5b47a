package graph

import (
	"time"

	"github.com/MosinFAM/comment-threads/internal/models"

	"github.com/graphql-go/graphql"
)

var DateTime = graphql.NewScalar(
	graphql.ScalarConfig{
		Name:        "DateTime",
		Description: "DateTime scalar type",
		Serialize: func(value interface{}) interface{} {
			switch v := value.(type) {
			case time.Time:
				return v.Format(time.RFC3339)
			case *time.Time:
				return v.Format(time.RFC3339)
			default:
				return nil
			}
		},
	},
)

// comment достаёт комментарий из источника: строка списка или узел дерева
func comment(source interface{}) (models.Comment, bool) {
	switch v := source.(type) {
	case models.Comment:
		return v, true
	case *models.Comment:
		return *v, true
	case *models.CommentNode:
		return v.Comment, true
	default:
		return models.Comment{}, false
	}
}

func commentField(typ graphql.Output, get func(c models.Comment) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			c, ok := comment(p.Source)
			if !ok {
				return nil, nil
			}
			return get(c), nil
		},
	}
}

func commentFields() graphql.Fields {
	return graphql.Fields{
		"id":     commentField(graphql.ID, func(c models.Comment) interface{} { return c.ID }),
		"postId": commentField(graphql.ID, func(c models.Comment) interface{} { return c.PostID }),
		"parentId": commentField(graphql.ID, func(c models.Comment) interface{} {
			if c.ParentID == nil {
				return nil
			}
			return *c.ParentID
		}),
		"authorId":       commentField(graphql.String, func(c models.Comment) interface{} { return c.AuthorID }),
		"authorNickname": commentField(graphql.String, func(c models.Comment) interface{} { return c.AuthorNickname }),
		"content":        commentField(graphql.String, func(c models.Comment) interface{} { return c.Content }),
		"createdAt":      commentField(DateTime, func(c models.Comment) interface{} { return c.CreatedAt }),
		"isDeleted":      commentField(graphql.Boolean, func(c models.Comment) interface{} { return c.IsDeleted }),
	}
}

func newSchema(r *Resolver) (graphql.Schema, error) {
	postType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Post",
			Fields: graphql.Fields{
				"id":             &graphql.Field{Type: graphql.ID},
				"board":          &graphql.Field{Type: graphql.String},
				"title":          &graphql.Field{Type: graphql.String},
				"content":        &graphql.Field{Type: graphql.String},
				"authorId":       &graphql.Field{Type: graphql.String},
				"authorNickname": &graphql.Field{Type: graphql.String},
				"createdAt":      &graphql.Field{Type: DateTime},
				"viewCount":      &graphql.Field{Type: graphql.Int},
			},
		},
	)

	commentType := graphql.NewObject(
		graphql.ObjectConfig{
			Name:   "Comment",
			Fields: commentFields(),
		},
	)

	var nodeType *graphql.Object
	nodeType = graphql.NewObject(
		graphql.ObjectConfig{
			Name: "CommentNode",
			Fields: graphql.FieldsThunk(func() graphql.Fields {
				fields := commentFields()
				fields["children"] = &graphql.Field{
					Type: graphql.NewList(nodeType),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						if node, ok := p.Source.(*models.CommentNode); ok {
							return node.Children, nil
						}
						return nil, nil
					},
				}
				return fields
			}),
		},
	)

	idArg := func(name string) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			name: &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		}
	}

	queryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"post": &graphql.Field{
					Type: postType,
					Args: idArg("id"),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id, _ := p.Args["id"].(string)
						return r.Post(p.Context, id)
					},
				},
				"comments": &graphql.Field{
					Type: graphql.NewList(commentType),
					Args: idArg("postId"),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id, _ := p.Args["postId"].(string)
						return r.Comments(p.Context, id)
					},
				},
				"thread": &graphql.Field{
					Type: graphql.NewList(nodeType),
					Args: idArg("postId"),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id, _ := p.Args["postId"].(string)
						f, err := r.Thread(p.Context, id)
						if err != nil {
							return nil, err
						}
						return []*models.CommentNode(f), nil
					},
				},
			},
		},
	)

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
