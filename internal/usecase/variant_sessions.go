package usecase

import (
	"sync"
	"time"

	"github.com/phenrril/newmobile/internal/domain"
	"github.com/phenrril/newmobile/internal/variant"
)

// VariantSessions es el arena de sesiones del motor de variantes, una por
// visitante. El motor no es concurrente; el lock lo pone el host.
type VariantSessions struct {
	Config variant.Config
	TTL    time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *variant.Session
	lastSeen time.Time
}

func (vs *VariantSessions) now() time.Time {
	if vs.Config.Now != nil {
		return vs.Config.Now()
	}
	return time.Now()
}

// With loads p into the visitor's session and runs fn while holding the lock.
// Switching to another product resets the session (selection and decay).
func (vs *VariantSessions) With(visitorID string, p *domain.Product, fn func(s *variant.Session)) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	now := vs.now()
	vs.pruneLocked(now)
	if vs.sessions == nil {
		vs.sessions = map[string]*sessionEntry{}
	}
	tree := variant.NewTree(p)
	e, ok := vs.sessions[visitorID]
	if !ok {
		e = &sessionEntry{session: variant.NewSession(tree, vs.Config)}
		vs.sessions[visitorID] = e
	} else {
		e.session.Load(tree)
	}
	e.lastSeen = now
	fn(e.session)
}

func (vs *VariantSessions) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.sessions)
}

func (vs *VariantSessions) pruneLocked(now time.Time) {
	if vs.TTL <= 0 {
		return
	}
	for id, e := range vs.sessions {
		if now.Sub(e.lastSeen) > vs.TTL {
			delete(vs.sessions, id)
		}
	}
}
