package application

import (
	"context"
	"io"

	"github.com/oksasatya/educatalog/internal/domain/entity"
)

// UserIndexer keeps a searchable projection of users.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// WelcomeNotifier is told about users created through any credential path.
type WelcomeNotifier interface {
	Welcome(ctx context.Context, u *entity.User) error
}

// AvatarStore persists uploaded profile pictures and returns a public URL.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// Recorder receives auth outcome counters.
type Recorder interface {
	RecordTokenIssued(method string)
	RecordFederation(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordTokenIssued(string) {}
func (nopRecorder) RecordFederation(string)  {}

// ProviderClient is the external OAuth provider integration. Exchange turns
// an authorization code into a verified profile.
type ProviderClient interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*entity.ExternalProfile, error)
}
