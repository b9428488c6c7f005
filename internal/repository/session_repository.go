package repository

import (
	"carbon_quiz_backend/internal/model"
	"carbon_quiz_backend/internal/util"
	"carbon_quiz_backend/pkg/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

// sessionEntry 包装会话和独立互斥锁，保证单会话读改写的原子性
type sessionEntry struct {
	mu       sync.Mutex
	session  *model.QuizSession
	lastSeen time.Time
}

// SessionRepository 进程内会话存储
// TTL为0时不过期，复现无限增长的原始行为
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
}

func (r *SessionRepository) Create(session *model.QuizSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.SessionID] = &sessionEntry{
		session:  session,
		lastSeen: time.Now(),
	}
}

// Get 返回会话快照，Answers为浅拷贝，调用方修改不影响存储
func (r *SessionRepository) Get(sessionID string) (*model.QuizSession, bool) {
	r.mu.RLock()
	entry, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastSeen = time.Now()

	snapshot := *entry.session
	answers := make(map[string]interface{}, len(entry.session.Answers))
	for k, v := range entry.session.Answers {
		answers[k] = v
	}
	snapshot.Answers = answers
	return &snapshot, true
}

// Mutate 在单会话锁内执行fn，fn返回错误时修改照常保留，由fn自身保证不变量
func (r *SessionRepository) Mutate(sessionID string, fn func(*model.QuizSession) error) error {
	r.mu.RLock()
	entry, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return util.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastSeen = time.Now()
	return fn(entry.session)
}

func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartSweeper 定期清理过期会话
func (r *SessionRepository) StartSweeper(interval time.Duration) {
	if r.ttl <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if evicted := r.sweep(); evicted > 0 {
					logger.Log.Info("Expired quiz sessions evicted", zap.Int("count", evicted))
				}
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *SessionRepository) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

func (r *SessionRepository) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, entry := range r.sessions {
		if time.Since(entry.lastSeen) > r.ttl {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}
