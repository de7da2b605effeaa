package discovery

import (
	"context"

	"go.uber.org/zap"
)

type Discoverer interface {
	Discover(ctx context.Context, serviceName string) ([]*ServiceInstance, error)
}

// Address returns the first registered address of service, or fallback
// when the service is not registered or the lookup fails.
func Address(ctx context.Context, d Discoverer, service, fallback string, logger *zap.Logger) string {
	if d == nil {
		return fallback
	}
	instances, err := d.Discover(ctx, service)
	if err != nil || len(instances) == 0 {
		logger.Info("Using default address", zap.String("service", service), zap.String("address", fallback))
		return fallback
	}
	addr := instances[0].Addr()
	logger.Info("Discovered service", zap.String("service", service), zap.String("address", addr))
	return addr
}

// HTTPResolver resolves an HTTP base URL for a discovered service.
type HTTPResolver struct {
	Discoverer Discoverer
	Service    string
	Fallback   string
	Logger     *zap.Logger
}

func (r *HTTPResolver) Resolve(ctx context.Context) (string, error) {
	if r.Discoverer == nil {
		return r.Fallback, nil
	}
	instances, err := r.Discoverer.Discover(ctx, r.Service)
	if err != nil {
		return "", err
	}
	if len(instances) == 0 {
		if r.Fallback != "" {
			return r.Fallback, nil
		}
		return "", ErrNoInstances
	}
	base := "http://" + instances[0].Addr()
	r.Logger.Debug("Resolved service", zap.String("service", r.Service), zap.String("base_url", base))
	return base, nil
}
