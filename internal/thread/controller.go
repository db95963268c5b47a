// Package thread держит состояние страницы с веткой комментариев:
// черновики, единственное открытое поле ответа и последний собранный лес.
// После каждой успешной мутации список перечитывается целиком.
package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MosinFAM/comment-threads/internal/client"
	"github.com/MosinFAM/comment-threads/internal/forest"
	"github.com/MosinFAM/comment-threads/internal/models"

	"github.com/sirupsen/logrus"
)

// DefaultPlaceholder показывается вместо текста удалённого комментария
const DefaultPlaceholder = "This comment has been deleted."

var (
	ErrPostUnavailable = errors.New("post unavailable")
	ErrLoginRequired   = errors.New("login required")
	ErrEmptyDraft      = errors.New("empty draft")
	ErrNoReplyTarget   = errors.New("no reply box open")
	ErrNotPermitted    = errors.New("not permitted")
	ErrUnknownComment  = errors.New("unknown comment")
	ErrBusy            = errors.New("another request is in flight")
)

// Phase - фаза мутации: Idle -> Submitting -> Idle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)

// Controller - состояние страницы одной ветки комментариев
type Controller struct {
	postID      int64
	store       Store
	notifier    Notifier
	nav         Navigator
	log         logrus.FieldLogger
	placeholder string

	mu          sync.Mutex
	identity    *models.Identity
	post        *models.Post
	forest      models.Forest
	rootDraft   string
	replyTarget *int64
	replyDraft  string
	phase       Phase
	issued      uint64 // номер последнего отправленного запроса списка
	applied     uint64 // номер последнего применённого ответа
}

// Option настраивает Controller
type Option func(*Controller)

// WithNotifier задаёт, куда показывать уведомления
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithNavigator задаёт переходы назад и на вход
func WithNavigator(nav Navigator) Option {
	return func(c *Controller) { c.nav = nav }
}

// WithLogger задаёт логгер
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

// WithPlaceholder меняет текст вместо удалённого комментария
func WithPlaceholder(text string) Option {
	return func(c *Controller) { c.placeholder = text }
}

// New создаёт контроллер ветки поста postID; до Load он пуст
func New(postID int64, store Store, opts ...Option) *Controller {
	c := &Controller{
		postID:      postID,
		store:       store,
		notifier:    nopNotifier{},
		nav:         nopNavigator{},
		log:         logrus.StandardLogger(),
		placeholder: DefaultPlaceholder,
		forest:      models.Forest{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("post_id", postID)
	return c
}

// Snapshot - копия состояния контроллера
type Snapshot struct {
	Identity    *models.Identity
	Post        *models.Post
	Forest      models.Forest
	RootDraft   string
	ReplyTarget *int64
	ReplyDraft  string
	Phase       Phase
}

// State возвращает копию текущего состояния
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Forest:     c.forest,
		RootDraft:  c.rootDraft,
		ReplyDraft: c.replyDraft,
		Phase:      c.phase,
	}
	if c.identity != nil {
		identity := *c.identity
		s.Identity = &identity
	}
	if c.post != nil {
		post := *c.post
		s.Post = &post
	}
	if c.replyTarget != nil {
		target := *c.replyTarget
		s.ReplyTarget = &target
	}
	return s
}

// Load - вход на страницу: пользователь, пост, затем комментарии.
// Ошибка личности не фатальна (режим только чтения), ошибка поста - фатальна для страницы.
func (c *Controller) Load(ctx context.Context) error {
	identity, err := c.store.FetchIdentity(ctx)
	switch {
	case err == nil:
	case errors.Is(err, client.ErrNoSession):
		c.log.Debug("no session, read-only mode")
		identity = nil
	default:
		c.log.WithError(err).Warn("identity lookup failed, read-only mode")
		identity = nil
		if errors.Is(err, client.ErrUnauthorized) {
			c.nav.SignIn()
		}
	}

	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()

	post, err := c.store.FetchPost(ctx, c.postID)
	if err != nil {
		c.log.WithError(err).Error("post fetch failed")
		c.notifier.Notify(Notice{Level: LevelError, Message: MsgPostUnavailable, Blocking: true})
		c.nav.Back()
		return fmt.Errorf("%w: %v", ErrPostUnavailable, err)
	}

	c.mu.Lock()
	c.post = post
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh перечитывает список и заменяет лес целиком.
// Ответ, пришедший позже более свежего, отбрасывается.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	comments, err := c.store.FetchComments(ctx, c.postID)
	if err == nil {
		err = forest.Validate(c.postID, comments)
	}

	built := models.Forest{}
	if err == nil {
		built = forest.Build(comments)
	}

	c.mu.Lock()
	if seq < c.applied {
		c.mu.Unlock()
		c.log.WithField("seq", seq).Debug("stale comment list discarded")
		return nil
	}
	c.applied = seq
	c.forest = built
	if err == nil {
		c.reconcileReplyTarget()
	}
	c.mu.Unlock()

	if err != nil {
		c.log.WithError(err).Warn("comment list unavailable")
		c.notifier.Notify(Notice{Level: LevelWarning, Message: MsgCommentsUnavailable})
		return fmt.Errorf("thread.Refresh: %w", err)
	}
	c.log.WithField("comments", len(comments)).Debug("forest rebuilt")
	return nil
}

// reconcileReplyTarget закрывает поле ответа, если цель исчезла или удалена
func (c *Controller) reconcileReplyTarget() {
	if c.replyTarget == nil {
		return
	}
	node := forest.Find(c.forest, *c.replyTarget)
	if node == nil || node.IsDeleted {
		c.replyTarget = nil
		c.replyDraft = ""
	}
}

// SetRootDraft сохраняет текст нового корневого комментария
func (c *Controller) SetRootDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rootDraft = text
}

// SetReplyDraft сохраняет текст ответа в открытом поле
func (c *Controller) SetReplyDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replyDraft = text
}

// ToggleReply открывает поле ответа под комментарием id (закрывая другое)
// или закрывает его, если оно уже открыто. Возвращает, открыто ли поле под id.
func (c *Controller) ToggleReply(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.replyTarget != nil && *c.replyTarget == id {
		c.replyTarget = nil
		c.replyDraft = ""
		return false
	}

	node := forest.Find(c.forest, id)
	if node == nil || !c.canReply(node) {
		return false
	}
	c.replyTarget = &id
	c.replyDraft = ""
	return true
}

// SubmitRoot публикует корневой комментарий из rootDraft
func (c *Controller) SubmitRoot(ctx context.Context) error {
	c.mu.Lock()
	if n, err := c.checkSubmit(c.rootDraft); err != nil {
		c.mu.Unlock()
		c.notifier.Notify(n)
		return err
	}
	in := c.newComment(c.rootDraft, nil)
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	_, err := c.store.CreateComment(ctx, in)

	c.mu.Lock()
	c.phase = PhaseIdle
	// текст, набранный во время запроса, не трогаем
	if err == nil && c.rootDraft == in.Content {
		c.rootDraft = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.mutationFailed(err, MsgCreateFailed)
		return fmt.Errorf("thread.SubmitRoot: %w", err)
	}
	c.log.Info("root comment created")
	_ = c.Refresh(ctx)
	return nil
}

// SubmitReply публикует ответ на комментарий с открытым полем ответа
func (c *Controller) SubmitReply(ctx context.Context) error {
	c.mu.Lock()
	if c.replyTarget == nil {
		c.mu.Unlock()
		c.notifier.Notify(Notice{Level: LevelInfo, Message: MsgNoReplyTarget})
		return ErrNoReplyTarget
	}
	if n, err := c.checkSubmit(c.replyDraft); err != nil {
		c.mu.Unlock()
		c.notifier.Notify(n)
		return err
	}
	target := *c.replyTarget
	in := c.newComment(c.replyDraft, &target)
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	_, err := c.store.CreateComment(ctx, in)

	c.mu.Lock()
	c.phase = PhaseIdle
	// пока запрос шёл, пользователь мог открыть другое поле или дописать текст
	if err == nil && c.replyTarget != nil && *c.replyTarget == target && c.replyDraft == in.Content {
		c.replyTarget = nil
		c.replyDraft = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.mutationFailed(err, MsgCreateFailed)
		return fmt.Errorf("thread.SubmitReply: %w", err)
	}
	c.log.WithField("parent_id", target).Info("reply created")
	_ = c.Refresh(ctx)
	return nil
}

// Delete помечает свой комментарий удалённым. Проверка владельца здесь - подсказка
// интерфейсу, решение принимает сервер.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		c.notifier.Notify(Notice{Level: LevelInfo, Message: MsgBusy})
		return ErrBusy
	}
	if c.identity == nil {
		c.mu.Unlock()
		c.notifier.Notify(Notice{Level: LevelWarning, Message: MsgLoginRequired})
		return ErrLoginRequired
	}
	node := forest.Find(c.forest, id)
	if node == nil {
		c.mu.Unlock()
		c.notifier.Notify(Notice{Level: LevelWarning, Message: MsgUnknownComment})
		return ErrUnknownComment
	}
	if !c.canDelete(node) {
		c.mu.Unlock()
		c.notifier.Notify(Notice{Level: LevelWarning, Message: MsgNotPermitted})
		return ErrNotPermitted
	}
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	err := c.store.DeleteComment(ctx, id)

	c.mu.Lock()
	c.phase = PhaseIdle
	c.mu.Unlock()

	if err != nil {
		c.mutationFailed(err, MsgDeleteFailed)
		return fmt.Errorf("thread.Delete: %w", err)
	}
	c.log.WithField("comment_id", id).Info("comment deleted")
	_ = c.Refresh(ctx)
	return nil
}

// CanReply - можно ли открыть поле ответа под узлом
func (c *Controller) CanReply(node *models.CommentNode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canReply(node)
}

// CanDelete - показывать ли кнопку удаления
func (c *Controller) CanDelete(node *models.CommentNode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canDelete(node)
}

func (c *Controller) canReply(node *models.CommentNode) bool {
	return node != nil && !node.IsDeleted
}

func (c *Controller) canDelete(node *models.CommentNode) bool {
	if node == nil || node.IsDeleted || c.identity == nil || c.identity.UserID == "" {
		return false
	}
	return c.identity.UserID == node.AuthorID
}

// checkSubmit вызывается под c.mu; уведомление отправляет вызывающий, отпустив блокировку
func (c *Controller) checkSubmit(draft string) (Notice, error) {
	if c.phase == PhaseSubmitting {
		return Notice{Level: LevelInfo, Message: MsgBusy}, ErrBusy
	}
	if c.identity == nil {
		return Notice{Level: LevelWarning, Message: MsgLoginRequired}, ErrLoginRequired
	}
	if strings.TrimSpace(draft) == "" {
		return Notice{Level: LevelInfo, Message: MsgEmptyDraft}, ErrEmptyDraft
	}
	return Notice{}, nil
}

func (c *Controller) newComment(content string, parentID *int64) models.NewComment {
	return models.NewComment{
		PostID:         c.postID,
		AuthorID:       c.identity.UserID,
		AuthorNickname: c.identity.Nickname,
		Content:        content,
		ParentID:       parentID,
	}
}

func (c *Controller) mutationFailed(err error, msg string) {
	c.log.WithError(err).Warn("mutation failed")
	if errors.Is(err, client.ErrUnauthorized) {
		c.notifier.Notify(Notice{Level: LevelError, Message: MsgSessionExpired, Blocking: true})
		c.nav.SignIn()
		return
	}
	c.notifier.Notify(Notice{Level: LevelError, Message: msg, Blocking: true})
}
