package models

// Identity - пользователь текущей сессии
type Identity struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}
