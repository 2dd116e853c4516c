package telemetry

import (
	"context"
	"testing"
	"time"

	"tattle/src/internal/config"

	"github.com/stretchr/testify/require"
)

func TestNotifySignals_ContextCancel(t *testing.T) {
	svc := &Service{cfg: &config.TelemetryConfig{}, logger: newTestLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	svc.NotifySignals(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return svc.shuttingDown.Load()
	}, time.Second, 10*time.Millisecond, "context end must drive the shutdown transition")
}
