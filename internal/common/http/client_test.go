package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/database"
	"bizplan-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type recordedRequest struct {
	path          string
	authorization string
	contentType   string
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			path:          r.URL.Path,
			authorization: r.Header.Get("Authorization"),
			contentType:   r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func TestClient_FetchJSON_Success(t *testing.T) {
	srv, requests := newRecordingServer(t, jsonHandler(`{"companyName":"Acme","year":2024}`))
	c := NewClient(Config{BaseURL: srv.URL + "/api/bpc/", Token: "real-token"}, WithLogger(logger.NewTestLogger(t)))

	data := c.FetchJSON(context.Background(), "/cover-page")
	require.NotNil(t, data)
	assert.Equal(t, "Acme", data["companyName"])
	assert.Equal(t, 2024.0, data["year"])

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/bpc/cover-page", reqs[0].path)
	assert.Equal(t, "Bearer real-token", reqs[0].authorization)
	assert.Equal(t, "application/json", reqs[0].contentType)
}

func TestClient_FetchJSON_OmitsPlaceholderToken(t *testing.T) {
	for _, token := range []string{"", PlaceholderToken} {
		t.Run(fmt.Sprintf("token=%q", token), func(t *testing.T) {
			srv, requests := newRecordingServer(t, jsonHandler(`{}`))
			c := NewClient(Config{BaseURL: srv.URL, Token: token})

			require.NotNil(t, c.FetchJSON(context.Background(), "/grants"))
			assert.Empty(t, requests()[0].authorization)
			assert.False(t, c.HasToken())
		})
	}
}

func TestClient_FetchJSON_FailuresYieldNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    FailureKind
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusInternalServerError)
			},
			kind: NonSuccessStatus,
		},
		{
			name:    "invalid json",
			handler: jsonHandler(`{"companyName":`),
			kind:    ParseFailure,
		},
		{
			name:    "array instead of object",
			handler: jsonHandler(`[1,2,3]`),
			kind:    ParseFailure,
		},
		{
			name: "slow server",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
				fmt.Fprint(w, `{}`)
			},
			kind: Timeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newRecordingServer(t, tt.handler)
			log, logs := logger.NewObservedLogger(zapcore.DebugLevel)
			c := NewClient(Config{BaseURL: srv.URL, Timeout: 100 * time.Millisecond}, WithLogger(log))

			assert.Nil(t, c.FetchJSON(context.Background(), "/market-analysis"))

			_, err := c.Fetch(context.Background(), "/market-analysis")
			var ferr *FetchError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.kind, ferr.Kind)

			if tt.kind == Timeout {
				assert.NotZero(t, logs.FilterMessage("remote request timed out").Len())
			} else {
				assert.NotZero(t, logs.FilterMessage("remote request failed").Len())
			}
		})
	}
}

func TestClient_FetchJSON_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: base, Timeout: time.Second})
	_, err := c.Fetch(context.Background(), "/appendix")
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, NetworkFailure, ferr.Kind)
	assert.Nil(t, c.FetchJSON(context.Background(), "/appendix"))
}

func TestClient_Health(t *testing.T) {
	srv, requests := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == HealthEndpoint {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := NewClient(Config{BaseURL: srv.URL, Token: "real-token"})

	assert.True(t, c.Health(context.Background()))
	assert.Empty(t, requests()[0].authorization)

	down := NewClient(Config{BaseURL: srv.URL + "/down"})
	assert.False(t, down.Health(context.Background()))
}

func TestClient_EndpointsAndURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://api.example.com/api/bpc/"})

	assert.Equal(t, "https://api.example.com/api/bpc/grants", c.URL("grants"))
	eps := c.Endpoints()
	assert.Len(t, eps, 14)
	assert.Equal(t, "https://api.example.com/api/bpc/cover-page", eps["cover-page"])
	assert.Equal(t, "https://api.example.com/api/bpc/health", eps["health"])
}

func TestClient_ProbeAll(t *testing.T) {
	srv, requests := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/grants"):
			http.Error(w, "missing", http.StatusNotFound)
		case strings.HasSuffix(r.URL.Path, "/appendix"):
			fmt.Fprint(w, "not json")
		default:
			fmt.Fprint(w, `{}`)
		}
	})
	c := NewClient(Config{BaseURL: srv.URL})

	results := c.ProbeAll(context.Background())
	require.Len(t, results, 13)
	assert.Equal(t, "cover-page", string(results[0].Section))
	assert.True(t, results[0].OK)

	byKey := map[string]ProbeResult{}
	for _, r := range results {
		byKey[string(r.Section)] = r
	}
	assert.False(t, byKey["grants"].OK)
	assert.Equal(t, NonSuccessStatus, byKey["grants"].Failure)
	assert.False(t, byKey["appendix"].OK)
	assert.Equal(t, ParseFailure, byKey["appendix"].Failure)

	reqs := requests()
	require.Len(t, reqs, 13)
	assert.Equal(t, "/cover-page", reqs[0].path)
	assert.Equal(t, "/grants", reqs[12].path)
}

func TestClient_ResponseCache(t *testing.T) {
	mr := miniredis.RunT(t)
	redis := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer redis.Close()
	cache := database.NewResponseCache(redis, "test:", time.Minute)

	srv, requests := newRecordingServer(t, jsonHandler(`{"industry":"Retail"}`))
	c := NewClient(Config{BaseURL: srv.URL}, WithCache(cache))

	first := c.FetchJSON(context.Background(), "/company-description")
	second := c.FetchJSON(context.Background(), "/company-description")
	assert.Equal(t, "Retail", first["industry"])
	assert.Equal(t, first, second)
	assert.Len(t, requests(), 1)
	assert.True(t, mr.Exists("test:/company-description"))
}

func TestClient_ResponseCacheErrorsIgnored(t *testing.T) {
	mr := miniredis.RunT(t)
	redis := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer redis.Close()
	cache := database.NewResponseCache(redis, "test:", time.Minute)
	mr.SetError("LOADING")

	srv, requests := newRecordingServer(t, jsonHandler(`{"industry":"Retail"}`))
	c := NewClient(Config{BaseURL: srv.URL}, WithCache(cache))

	data := c.FetchJSON(context.Background(), "/company-description")
	assert.Equal(t, "Retail", data["industry"])
	assert.Len(t, requests(), 1)
}

func TestClient_FailuresAreNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	redis := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer redis.Close()
	cache := database.NewResponseCache(redis, "test:", time.Minute)

	srv, _ := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := NewClient(Config{BaseURL: srv.URL}, WithCache(cache))

	assert.Nil(t, c.FetchJSON(context.Background(), "/grants"))
	assert.False(t, mr.Exists("test:/grants"))
}
