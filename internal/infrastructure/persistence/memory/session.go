package memory

import (
	"context"
	"sync"
	"time"
)

// SessionStore 进程内会话存储，redis.enabled=false时替代Redis
// 只在单实例部署下正确：多实例之间黑名单不共享
type SessionStore struct {
	mu        sync.Mutex
	now       func() time.Time
	sessions  map[uint]map[string]interface{}
	blacklist map[string]time.Time // token → 过期时间
}

// NewSessionStore 创建内存会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		now:       time.Now,
		sessions:  make(map[uint]map[string]interface{}),
		blacklist: make(map[string]time.Time),
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, sessionData map[string]interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make(map[string]interface{}, len(sessionData))
	for k, v := range sessionData {
		data[k] = v
	}
	s.sessions[userID] = data
	return nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// 顺便清理过期条目，黑名单不会无限增长
	for t, exp := range s.blacklist {
		if !exp.After(now) {
			delete(s.blacklist, t)
		}
	}
	s.blacklist[token] = now.Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !exp.After(s.now()) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}
