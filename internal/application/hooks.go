package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/pkg/helpers"
)

// Hooks are best-effort side effects run after a user is persisted.
// A failing hook is logged and never fails the calling operation.
type Hooks struct {
	Indexer  UserIndexer
	Notifier WelcomeNotifier
	Metrics  Recorder
	Logger   *logrus.Logger
}

func (h *Hooks) logger() *logrus.Logger {
	if h == nil || h.Logger == nil {
		return helpers.DiscardLogger()
	}
	return h.Logger
}

func (h *Hooks) metrics() Recorder {
	if h == nil || h.Metrics == nil {
		return nopRecorder{}
	}
	return h.Metrics
}

func (h *Hooks) created(ctx context.Context, u *entity.User) {
	h.updated(ctx, u)
	if h == nil || h.Notifier == nil {
		return
	}
	if err := h.Notifier.Welcome(ctx, u); err != nil {
		h.logger().WithError(err).WithField("user_id", u.ID).Warn("welcome notification failed")
	}
}

func (h *Hooks) updated(ctx context.Context, u *entity.User) {
	if h == nil || h.Indexer == nil {
		return
	}
	if err := h.Indexer.Index(ctx, u); err != nil {
		h.logger().WithError(err).WithField("user_id", u.ID).Warn("user index failed")
	}
}
