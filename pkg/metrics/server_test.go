package metrics_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhaus/kafka-publisher/pkg/metrics"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServer_ServesMetricsAndHealth(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)
	m.AddEnqueued(5)

	port := freePort(t)
	srv := metrics.NewServer(fmt.Sprintf("127.0.0.1:%d", port), registry)
	errCh := srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, srv.Shutdown(ctx))
	})

	base := fmt.Sprintf("http://127.0.0.1:%d", port)

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(base + "/health")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "kafka_publisher_messages_enqueued_total 5")

	select {
	case serveErr := <-errCh:
		require.NoError(t, serveErr)
	default:
	}
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := metrics.NewServer(l.Addr().String(), prometheus.NewRegistry())
	errCh := srv.Start()

	select {
	case serveErr := <-errCh:
		require.Error(t, serveErr)
	case <-time.After(2 * time.Second):
		t.Fatal("expected bind failure")
	}
}
