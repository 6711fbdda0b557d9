package application_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/oksasatya/educatalog/internal/application"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	"github.com/oksasatya/educatalog/internal/domain/repository"
	"github.com/oksasatya/educatalog/internal/infrastructure/memory"
	"github.com/oksasatya/educatalog/pkg/helpers"
)

type recorder struct {
	mu          sync.Mutex
	tokens      map[string]int
	federations map[string]int
}

func newRecorder() *recorder {
	return &recorder{tokens: map[string]int{}, federations: map[string]int{}}
}

func (r *recorder) RecordTokenIssued(method string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[method]++
}

func (r *recorder) RecordFederation(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.federations[outcome]++
}

func (r *recorder) federation(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.federations[outcome]
}

type indexer struct {
	mu      sync.Mutex
	indexed []string
	err     error
}

func (x *indexer) Index(_ context.Context, u *entity.User) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.indexed = append(x.indexed, u.ID)
	return x.err
}

func (x *indexer) Search(_ context.Context, q string, _ int) ([]map[string]any, error) {
	return []map[string]any{{"q": q}}, nil
}

type notifier struct {
	welcomed atomic.Int32
	err      error
}

func (n *notifier) Welcome(context.Context, *entity.User) error {
	n.welcomed.Add(1)
	return n.err
}

type avatarStore struct {
	path string
	body string
	err  error
}

func (a *avatarStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	b, _ := io.ReadAll(r)
	a.path, a.body = objectPath, string(b)
	return "https://cdn.example/" + objectPath, nil
}

// blindRepo hides existing users from the first lookups so the caller's
// create collides with the unique index, the way a concurrent first login
// does.
type blindRepo struct {
	*memory.UserRepository
	blind atomic.Int32
}

func (b *blindRepo) FindByEmailOrProvider(ctx context.Context, email, providerID string) (*entity.User, error) {
	if b.blind.Add(-1) >= 0 {
		return nil, repository.ErrNotFound
	}
	return b.UserRepository.FindByEmailOrProvider(ctx, email, providerID)
}

type fakeProvider struct {
	profile *entity.ExternalProfile
	err     error
	codes   []string
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*entity.ExternalProfile, error) {
	p.codes = append(p.codes, code)
	if p.err != nil {
		return nil, p.err
	}
	cp := *p.profile
	return &cp, nil
}

var errBoom = errors.New("boom")

type fixture struct {
	repo     *memory.UserRepository
	jwt      *helpers.JWTManager
	rec      *recorder
	idx      *indexer
	welcome  *notifier
	hooks    *application.Hooks
	auth     *application.AuthService
	fed      *application.Federator
	provider *fakeProvider
	flow     *application.OAuthFlow
}

func newFixture() *fixture {
	f := &fixture{
		repo:    memory.NewUserRepository(),
		jwt:     helpers.NewJWTManager("test-secret"),
		rec:     newRecorder(),
		idx:     &indexer{},
		welcome: &notifier{},
		provider: &fakeProvider{profile: &entity.ExternalProfile{
			ProviderID:  "g-1",
			Email:       "Parent@Example.com",
			DisplayName: "Pat Parent",
			PictureURL:  "https://pics.example/1.png",
		}},
	}
	f.hooks = &application.Hooks{Indexer: f.idx, Notifier: f.welcome, Metrics: f.rec, Logger: helpers.DiscardLogger()}
	f.auth = application.NewAuthService(f.repo, f.jwt, f.hooks)
	f.fed = application.NewFederator(f.repo, f.hooks)
	f.flow = application.NewOAuthFlow(f.provider, helpers.NewStateSigner("state-secret", 0), f.fed, f.auth, nil)
	return f
}

// deactivatingRepo deactivates the user between the caller's read and its
// write, the way an admin DELETE racing a profile write does.
type deactivatingRepo struct {
	*memory.UserRepository
}

func (d *deactivatingRepo) Update(ctx context.Context, u *entity.User) error {
	if _, err := d.UserRepository.SetActive(ctx, u.ID, false); err != nil {
		return err
	}
	return d.UserRepository.Update(ctx, u)
}
