package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
)

type fakePinger struct {
	down atomic.Bool
}

func (p *fakePinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func startBufconn(t *testing.T, p Pinger) (healthpb.HealthClient, context.CancelFunc, <-chan error) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer("bufnet", logging.Nop{}, p)
	srv.probeInterval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = conn.Close()
	})

	return healthpb.NewHealthClient(conn), cancel, done
}

func check(t *testing.T, c healthpb.HealthClient) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealth_FollowsDatabase(t *testing.T) {
	p := &fakePinger{}
	client, _, _ := startBufconn(t, p)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client))

	p.down.Store(true)
	assert.Eventually(t, func() bool {
		return check(t, client) == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	p.down.Store(false)
	assert.Eventually(t, func() bool {
		return check(t, client) == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHealth_StartsNotServingWhenDatabaseDown(t *testing.T) {
	p := &fakePinger{}
	p.down.Store(true)
	client, _, _ := startBufconn(t, p)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client))
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	_, cancel, done := startBufconn(t, &fakePinger{})

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, &fakePinger{})

	err := srv.Run(context.Background())
	assert.Error(t, err)
}
