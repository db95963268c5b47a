package thread

// Level - важность уведомления
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice - сообщение пользователю. Blocking требует подтверждения (модальное окно).
type Notice struct {
	Level    Level
	Message  string
	Blocking bool
}

const (
	MsgPostUnavailable     = "This post could not be loaded."
	MsgCommentsUnavailable = "Comments could not be loaded."
	MsgLoginRequired       = "Please sign in to write a comment."
	MsgEmptyDraft          = "Please enter a comment."
	MsgNoReplyTarget       = "Choose a comment to reply to."
	MsgCreateFailed        = "Your comment could not be posted. Please try again."
	MsgDeleteFailed        = "The comment could not be deleted."
	MsgNotPermitted        = "You can only delete your own comments."
	MsgUnknownComment      = "This comment no longer exists."
	MsgBusy                = "Please wait for the previous request to finish."
	MsgSessionExpired      = "Your session has expired. Please sign in again."
)

// Notifier показывает уведомления пользователю
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc позволяет передать функцию как Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Navigator уводит пользователя со страницы ветки
type Navigator interface {
	// Back - назад к списку постов
	Back()
	// SignIn - на страницу входа после инвалидации сессии
	SignIn()
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

type nopNavigator struct{}

func (nopNavigator) Back()   {}
func (nopNavigator) SignIn() {}
