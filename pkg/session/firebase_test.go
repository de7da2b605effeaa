package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/example/fondantshop/pkg/models"
	"go.uber.org/zap/zaptest"
)

type fakeAuth struct {
	tokens  map[string]string
	users   map[string]*auth.UserRecord
	revoked []string
}

func (f *fakeAuth) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &auth.Token{UID: uid}, nil
}

func (f *fakeAuth) GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, errors.New("no user")
	}
	return u, nil
}

func (f *fakeAuth) RevokeRefreshTokens(ctx context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func TestFirebaseProvider_SignInOut(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	fa := &fakeAuth{
		tokens: map[string]string{"tok-a": "uid-a"},
		users: map[string]*auth.UserRecord{
			"uid-a": {
				UserInfo:      &auth.UserInfo{UID: "uid-a", Email: "alice@example.com", DisplayName: "Alice"},
				EmailVerified: true,
				UserMetadata:  &auth.UserMetadata{CreationTimestamp: created.UnixMilli()},
			},
		},
	}
	p := newFirebaseProvider(fa, zaptest.NewLogger(t))

	var seen []*models.Identity
	p.OnAuthStateChanged(func(u *models.Identity) { seen = append(seen, u) })

	if _, err := p.SignIn(context.Background(), "forged"); err == nil {
		t.Fatal("expected invalid token error")
	}

	user, err := p.SignIn(context.Background(), "tok-a")
	if err != nil {
		t.Fatal(err)
	}
	if user.UID != "uid-a" || user.DisplayName != "Alice" || !user.EmailVerified || !user.CreatedAt.Equal(created) {
		t.Fatalf("unexpected identity: %+v", user)
	}
	if p.CurrentUser() != user {
		t.Fatal("signed-in user should be current")
	}

	if err := p.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(fa.revoked) != 1 || fa.revoked[0] != "uid-a" {
		t.Fatalf("revoked = %v", fa.revoked)
	}
	if len(seen) != 3 || seen[0] != nil || seen[1] != user || seen[2] != nil {
		t.Fatalf("unexpected notifications: %v", seen)
	}
}
