package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/logto-io/go/v2/client"
	"go.uber.org/zap"
)

// SessionStorage keeps the Logto client's state in the gin cookie session.
type SessionStorage struct {
	session sessions.Session
	log     *zap.Logger
}

func NewSessionStorage(session sessions.Session, log *zap.Logger) client.Storage {
	return &SessionStorage{session: session, log: log}
}

func (s *SessionStorage) GetItem(key string) string {
	value, ok := s.session.Get(key).(string)
	if !ok {
		return ""
	}
	return value
}

func (s *SessionStorage) SetItem(key, value string) {
	s.session.Set(key, value)
	if err := s.session.Save(); err != nil {
		s.log.Error("Failed to save session", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Debug("Session item stored", zap.String("key", key))
}
