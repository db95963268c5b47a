// Package client - REST-клиент хранилища комментариев.
// Состояния между вызовами не держит: каждый вызов - один запрос без повторов и кеша.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MosinFAM/comment-threads/internal/models"

	"github.com/sirupsen/logrus"
)

// Client - HTTP-клиент хранилища комментариев доски
type Client struct {
	base      *url.URL
	endpoints Endpoints
	session   Session
	http      *http.Client
	timeout   *time.Duration
	log       logrus.FieldLogger
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient подменяет http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout ограничивает время одного запроса; 0 - без ограничения
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// New создаёт клиент; baseURL должен быть абсолютным
func New(baseURL string, endpoints Endpoints, session Session, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client.New: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client.New: base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:      base,
		endpoints: endpoints,
		session:   session,
		http:      &http.Client{},
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		// переданный http.Client может быть общим, меняем копию
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c, nil
}

// FetchPost загружает пост, которому принадлежит ветка
func (c *Client) FetchPost(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, expand(c.endpoints.Post, postID), nil, &post); err != nil {
		return nil, fmt.Errorf("client.FetchPost: %w", err)
	}
	return &post, nil
}

// FetchComments возвращает плоский список комментариев в серверном порядке
func (c *Client) FetchComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := c.do(ctx, http.MethodGet, expand(c.endpoints.Comments, postID), nil, &comments); err != nil {
		return nil, fmt.Errorf("client.FetchComments: %w", err)
	}
	return comments, nil
}

// CreateComment отправляет новый комментарий
func (c *Client) CreateComment(ctx context.Context, in models.NewComment) (*models.Comment, error) {
	var created models.Comment
	if err := c.do(ctx, http.MethodPost, expand(c.endpoints.CreateComment, in.PostID), in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateComment: %w", err)
	}
	return &created, nil
}

// DeleteComment просит сервер пометить комментарий удалённым
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodPost, c.endpoints.DeleteComment, models.DeleteComment{ID: id}, nil); err != nil {
		return fmt.Errorf("client.DeleteComment: %w", err)
	}
	return nil
}

// FetchIdentity спрашивает пользователя сессии. Без токена запрос не отправляется.
func (c *Client) FetchIdentity(ctx context.Context) (*models.Identity, error) {
	if c.session == nil || c.session.Token() == "" {
		return nil, ErrNoSession
	}
	var identity models.Identity
	if err := c.do(ctx, http.MethodGet, c.endpoints.Identity, nil, &identity); err != nil {
		return nil, fmt.Errorf("client.FetchIdentity: %w", err)
	}
	return &identity, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	return &u, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	u, err := c.resolve(path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.log.WithFields(logrus.Fields{"method": method, "url": u.String()})
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return err
	}
	defer resp.Body.Close()
	log.WithField("status", resp.StatusCode).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.Body)}
		if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
			c.session.Invalidate()
		}
		return serr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return string(bytes.TrimSpace(data))
}
