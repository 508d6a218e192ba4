package jobs

import (
	"log"
	"time"

	"github.com/cdlprep/cdl-prep-backend/services"
)

// SessionReaper finalizes practice tests abandoned mid-attempt. A session
// left in progress past the TTL is completed with whatever answers it has.
type SessionReaper struct {
	sessions *services.SessionService
	ttl      time.Duration
}

func NewSessionReaper(sessions *services.SessionService, ttl time.Duration) *SessionReaper {
	return &SessionReaper{sessions: sessions, ttl: ttl}
}

func (r *SessionReaper) Run() {
	log.Println("Running job: SessionReaper...")

	expired, err := r.sessions.ExpireStale(r.ttl)
	if err != nil {
		log.Printf("Error expiring stale sessions: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Expired %d stale test sessions", expired)
	}
}
