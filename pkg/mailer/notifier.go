package mailer

import (
	"context"

	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/pkg/mailer/templates"
)

// Publisher enqueues a JSON job.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// WelcomeNotifier enqueues a welcome email for newly created users.
type WelcomeNotifier struct {
	Pub   Publisher
	Brand templates.Brand
}

func NewWelcomeNotifier(pub Publisher, brand templates.Brand) *WelcomeNotifier {
	return &WelcomeNotifier{Pub: pub, Brand: brand}
}

func (n *WelcomeNotifier) Welcome(ctx context.Context, u *entity.User) error {
	job := EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data:     templates.WelcomeData(n.Brand, u.Name, u.Email),
	}
	return n.Pub.PublishJSON(ctx, job)
}
