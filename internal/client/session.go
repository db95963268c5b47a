package client

import "sync"

// Session - внешний держатель токена сессии
type Session interface {
	Token() string
	// Invalidate вызывается при ответе 401: токен стирается, дальше - вход заново
	Invalidate()
}

// StaticSession хранит токен в памяти процесса
type StaticSession struct {
	mu          sync.RWMutex
	token       string
	onInvalid   func()
	invalidated bool
}

// NewStaticSession создаёт сессию с готовым токеном; "" - аноним
func NewStaticSession(token string) *StaticSession {
	return &StaticSession{token: token}
}

// OnInvalidate задаёт колбэк, вызываемый один раз при инвалидации
func (s *StaticSession) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalid = fn
}

func (s *StaticSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *StaticSession) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.invalidated = false
}

// Invalidate забывает токен после 401
func (s *StaticSession) Invalidate() {
	s.mu.Lock()
	fire := !s.invalidated && s.onInvalid != nil
	cb := s.onInvalid
	s.token = ""
	s.invalidated = true
	s.mu.Unlock()

	if fire {
		cb()
	}
}
