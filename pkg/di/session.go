package di

import (
	"context"

	"github.com/example/fondantshop/pkg/config"
	"github.com/example/fondantshop/pkg/session"
	"go.uber.org/zap"
)

// OpenProvider returns the Firebase provider when a project is configured
// and an anonymous in-memory provider otherwise.
func OpenProvider(ctx context.Context, cfg *config.FirebaseConfig, logger *zap.Logger) (session.Provider, error) {
	if cfg.ProjectID == "" {
		logger.Info("No identity project configured, using in-memory sessions")
		return session.NewMemoryProvider(nil), nil
	}
	return session.NewFirebaseProvider(ctx, cfg, logger)
}
