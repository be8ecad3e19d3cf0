// Package workflow implements the complaint lifecycle: status and priority
// transitions with an audit trail, deputy assignment and closure rewards, the
// public-visibility gate, and the vote toggle ledger.
package workflow

import (
	"naebak/internal/models"
	"naebak/internal/storage"

	"github.com/sirupsen/logrus"
)

// Reward for the assigned deputy when a complaint is closed.
const (
	PointsComplaintClosed = 10
	ActionComplaintClosed = "إغلاق شكوى"
)

// Notifier persists a notification for a user. Failures are logged, never
// propagated: losing a notification must not fail the underlying transition.
type Notifier interface {
	Send(userID uint, ntype models.NotificationType, title, message, complaintRef string)
}

// Invalidator marks cached views stale after a mutation.
type Invalidator interface {
	Invalidate(path string)
	InvalidatePrefix(prefix string)
}

type Service struct {
	store  storage.Store
	notify Notifier
	cache  Invalidator
	log    *logrus.Entry
}

func NewService(store storage.Store, notify Notifier, cache Invalidator) *Service {
	return &Service{
		store:  store,
		notify: notify,
		cache:  cache,
		log:    logrus.WithField("component", "workflow"),
	}
}

// invalidateComplaintViews drops every cached view a complaint mutation can
// affect: the public board, the detail page, and the role dashboards.
func (s *Service) invalidateComplaintViews(ref string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidatePrefix("/complaints")
	s.cache.Invalidate("/c/" + ref)
	s.cache.InvalidatePrefix("/dashboard")
	s.cache.InvalidatePrefix("/deputy")
	s.cache.InvalidatePrefix("/manager")
}
