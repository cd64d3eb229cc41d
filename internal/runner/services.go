package runner

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/thenoetrevino/etapa/internal/models"
)

// serviceDialTimeout bounds a single dial attempt.
const serviceDialTimeout = 2 * time.Second

// WaitForServices dials every declared service until it answers, with
// exponential backoff per service, bounded by the overall timeout. The run
// errors before any job starts when a service never comes up.
func WaitForServices(ctx context.Context, services []models.Service, timeout time.Duration) error {
	if len(services) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for _, svc := range services {
		if err := waitForService(ctx, svc); err != nil {
			return err
		}
		slog.Info("service ready", "service", svc.Name, "addr", svc.Addr())
	}
	return nil
}

func waitForService(ctx context.Context, svc models.Service) error {
	var dialer net.Dialer
	delay := 100 * time.Millisecond

	for {
		dialCtx, cancel := context.WithTimeout(ctx, serviceDialTimeout)
		conn, err := dialer.DialContext(dialCtx, "tcp", svc.Addr())
		cancel()
		if err == nil {
			conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("service %s (%s) not reachable: %w", svc.Name, svc.Addr(), ctx.Err())
		case <-time.After(delay):
		}
		if delay < 2*time.Second {
			delay *= 2
		}
	}
}
