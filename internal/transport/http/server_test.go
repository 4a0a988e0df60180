package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/config"
	"github.com/fleshka4/autoswap/internal/metrics"
	servicedto "github.com/fleshka4/autoswap/internal/service/dto"
	"github.com/fleshka4/autoswap/internal/status"
	"github.com/fleshka4/autoswap/internal/transport/http/dto"
)

func newTestServer(t *testing.T, source StatusSource, metricsHandler http.Handler) *Server {
	t.Helper()

	server, err := NewServer(source, metricsHandler, &config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return server
}

func doRequest(t *testing.T, server *Server, method, target string) (*http.Response, []byte) {
	t.Helper()

	w := httptest.NewRecorder()
	server.mux.ServeHTTP(w, httptest.NewRequest(method, target, nil))

	resp := w.Result()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestNewServerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewServer(status.NewStore(), nil, nil, nil)
	require.Error(t, err)

	_, err = NewServer(nil, nil, &config.Config{}, nil)
	require.Error(t, err)
}

func TestPingHandler(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, status.NewStore(), nil)

	resp, body := doRequest(t, server, http.MethodGet, "/ping")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "pong", string(body))
}

func TestStatusHandler(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, status.NewStore(), nil)

		resp, body := doRequest(t, server, http.MethodGet, "/status")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var got dto.StatusResponse
		require.NoError(t, json.Unmarshal(body, &got))
		require.Zero(t, got.Cycles)
		require.Nil(t, got.Last)
		require.Nil(t, got.LastSuccessAt)
	})

	t.Run("confirmed swap", func(t *testing.T) {
		t.Parallel()

		store := status.NewStore()
		finished := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		store.Record(status.Report{
			CycleID:    "c-1",
			StartedAt:  finished.Add(-time.Minute),
			FinishedAt: finished,
			Result:     apperrors.KindNone,
			Outcome: &servicedto.SwapOutcome{
				TxHash:      common.HexToHash("0xbeef"),
				Confirmed:   true,
				DecimalsIn:  18,
				DecimalsOut: 6,
				AmountIn:    big.NewInt(1_000_000_000_000_000),
				QuotedOut:   big.NewInt(2_000_000),
				MinOut:      big.NewInt(1_900_000),
				BlockNumber: big.NewInt(42),
				Before:      servicedto.Balances{TokenIn: big.NewInt(5_000_000_000_000_000), TokenOut: big.NewInt(0)},
			},
		})
		server := newTestServer(t, store, nil)

		_, body := doRequest(t, server, http.MethodGet, "/status")

		var got dto.StatusResponse
		require.NoError(t, json.Unmarshal(body, &got))
		require.Equal(t, uint64(1), got.Cycles)
		require.NotNil(t, got.LastSuccessAt)
		require.True(t, finished.Equal(*got.LastSuccessAt))
		require.Equal(t, "c-1", got.Last.CycleID)
		require.Equal(t, apperrors.KindNone, got.Last.Result)
		require.Equal(t, "0.001", got.Last.Swap.AmountIn)
		require.Equal(t, "2.0", got.Last.Swap.QuotedOut)
		require.Equal(t, "1.9", got.Last.Swap.MinOut)
		require.Equal(t, "42", got.Last.Swap.BlockNumber)
		require.Equal(t, "0.005", got.Last.Swap.Before.TokenIn)
		require.Nil(t, got.Last.Swap.After)
	})

	t.Run("failed cycle", func(t *testing.T) {
		t.Parallel()

		store := status.NewStore()
		store.Record(status.Report{CycleID: "c-2", Result: apperrors.KindApprovalFailed, Error: "5 attempts"})
		server := newTestServer(t, store, nil)

		_, body := doRequest(t, server, http.MethodGet, "/status")

		var got dto.StatusResponse
		require.NoError(t, json.Unmarshal(body, &got))
		require.Equal(t, uint64(1), got.Failures)
		require.Equal(t, apperrors.KindApprovalFailed, got.Last.Result)
		require.Equal(t, "5 attempts", got.Last.Error)
		require.Nil(t, got.Last.Swap)
	})

	t.Run("wrong http method", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, status.NewStore(), nil)

		resp, _ := doRequest(t, server, http.MethodPost, "/status")
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestMetricsRoute(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewRecorder()
	recorder.ObserveCycle(apperrors.KindQuoteUnavailable, time.Second)

	server := newTestServer(t, status.NewStore(), recorder.Handler())
	resp, body := doRequest(t, server, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "autoswap_cycles_total")

	withoutMetrics := newTestServer(t, status.NewStore(), nil)
	resp, _ = doRequest(t, withoutMetrics, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogMiddleware(t *testing.T) {
	t.Parallel()

	var logOutput bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	server, err := NewServer(status.NewStore(), nil, &config.Config{}, logger)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	server.logMiddleware(server.mux).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Contains(t, logOutput.String(), "method=GET")
	require.Contains(t, logOutput.String(), "path=/ping")
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	server, err := NewServer(status.NewStore(), nil, &config.Config{
		Status: config.StatusConfig{
			ReadHeaderTimeout: 5 * time.Second,
			GraceTimeout:      5 * time.Second,
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServer_ListenAndServeBadAddr(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, status.NewStore(), nil)
	err := server.ListenAndServe(context.Background(), "not-an-address")
	require.Error(t, err)
}
