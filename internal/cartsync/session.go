package cartsync

import "sync"

// Identity は現在の顧客IDを返す。未ログインなら ok=false。
type Identity interface {
	CustomerID() (id string, ok bool)
}

// CustomerSession はログイン状態を明示的に持つ Identity 実装
type CustomerSession struct {
	mu sync.RWMutex
	id string
}

func NewCustomerSession(id string) *CustomerSession {
	return &CustomerSession{id: id}
}

func (s *CustomerSession) CustomerID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id, s.id != ""
}

func (s *CustomerSession) Set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

// ログアウト
func (s *CustomerSession) Clear() {
	s.Set("")
}
