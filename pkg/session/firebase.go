package session

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/example/fondantshop/pkg/config"
	"github.com/example/fondantshop/pkg/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// authClient is the part of *auth.Client the provider uses.
type authClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseProvider backs the session with Firebase Authentication. A page
// signs in by presenting the ID token its client obtained; signing out
// revokes the user's refresh tokens.
type FirebaseProvider struct {
	broadcaster
	client authClient
	logger *zap.Logger
}

func NewFirebaseProvider(ctx context.Context, cfg *config.FirebaseConfig, logger *zap.Logger) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return newFirebaseProvider(client, logger), nil
}

func newFirebaseProvider(client authClient, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{client: client, logger: logger.Named("firebase")}
}

// SignIn verifies idToken and makes its user the active identity.
func (p *FirebaseProvider) SignIn(ctx context.Context, idToken string) (*models.Identity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	record, err := p.client.GetUser(ctx, token.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", token.UID, err)
	}

	user := identityFromRecord(record)
	p.logger.Info("User logged in", zap.String("uid", user.UID))
	p.set(user)
	return user, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context) error {
	user := p.CurrentUser()
	if user == nil {
		return nil
	}
	if err := p.client.RevokeRefreshTokens(ctx, user.UID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	p.logger.Info("User logged out", zap.String("uid", user.UID))
	p.set(nil)
	return nil
}

func identityFromRecord(record *auth.UserRecord) *models.Identity {
	user := &models.Identity{EmailVerified: record.EmailVerified}
	if record.UserInfo != nil {
		user.UID = record.UID
		user.Email = record.Email
		user.DisplayName = record.DisplayName
	}
	if record.UserMetadata != nil && record.UserMetadata.CreationTimestamp > 0 {
		user.CreatedAt = time.UnixMilli(record.UserMetadata.CreationTimestamp).UTC()
	}
	return user
}
