package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoSession    = errors.New("no session token")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError - ответ сервера с кодом вне 2xx
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// Is позволяет проверять 401 через errors.Is(err, ErrUnauthorized)
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}
