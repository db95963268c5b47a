// Package graph - GraphQL API только для чтения поверх того же хранилища.
package graph

import (
	"encoding/json"
	"net/http"

	"github.com/MosinFAM/comment-threads/internal/storage"

	"github.com/graphql-go/graphql"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	schema graphql.Schema
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// New собирает схему над хранилищем
func New(store storage.Storage) (*Handler, error) {
	schema, err := newSchema(&Resolver{Storage: store})
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	res := graphql.Do(graphql.Params{
		Context:        r.Context(),
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
	})
	if res.HasErrors() {
		log.WithField("errors", res.Errors).Debug("graphql query returned errors")
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("graphql response encode failed")
	}
}
