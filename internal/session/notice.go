package session

import (
	"fmt"
	"itinerary-route-service/internal/reconcile"
	"time"
)

const (
	maxNotices = 20
	noticeTTL  = time.Minute
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a transient, non-blocking message for the user.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	Day     int         `json:"day,omitempty"`
	At      time.Time   `json:"at"`
}

func (s *Session) notify(epoch uint64, n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return
	}
	n.At = s.now()
	s.notices = append(s.notices, n)
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

// activeNotices must be called with s.mu held.
func (s *Session) activeNotices() []Notice {
	cutoff := s.now().Add(-noticeTTL)
	out := make([]Notice, 0, len(s.notices))
	for _, n := range s.notices {
		if n.At.After(cutoff) {
			out = append(out, n)
		}
	}
	return out
}

// noticeObserver turns failed sequencing attempts into notices for the
// session epoch it was created for.
type noticeObserver struct {
	s     *Session
	epoch uint64
}

func (o noticeObserver) OnSequenced(e reconcile.Event) {
	if e.Outcome != reconcile.OutcomeFailed {
		return
	}
	o.s.notify(o.epoch, Notice{
		Level:   NoticeWarning,
		Message: fmt.Sprintf("Couldn't optimize day %d right now; kept the current order.", e.Day),
		Day:     e.Day,
	})
}
