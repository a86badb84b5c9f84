package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingServer(t *testing.T) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"companyName":"Remote Co"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Remote.BaseURL = baseURL
	return cfg
}

func TestNewRemote_WithoutCache(t *testing.T) {
	srv, hits := countingServer(t)
	r := NewRemote(context.Background(), testConfig(srv.URL), logger.NewTestLogger(t))
	defer r.Close()

	assert.False(t, r.Cached())
	r.Client.FetchJSON(context.Background(), "/cover-page")
	r.Client.FetchJSON(context.Background(), "/cover-page")
	assert.Equal(t, int64(2), atomic.LoadInt64(hits))
}

func TestNewRemote_WithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	srv, hits := countingServer(t)

	cfg := testConfig(srv.URL)
	cfg.Cache.Enabled = true
	cfg.Cache.Redis.Address = mr.Addr()

	r := NewRemote(context.Background(), cfg, logger.NewTestLogger(t))
	defer r.Close()

	require.True(t, r.Cached())
	r.Client.FetchJSON(context.Background(), "/cover-page")
	r.Client.FetchJSON(context.Background(), "/cover-page")
	assert.Equal(t, int64(1), atomic.LoadInt64(hits))
	assert.True(t, mr.Exists(cfg.Cache.KeyPrefix+"/cover-page"))
}

func TestNewRemote_CacheUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	srv, _ := countingServer(t)
	cfg := testConfig(srv.URL)
	cfg.Cache.Enabled = true
	cfg.Cache.Redis.Address = addr

	r := NewRemote(context.Background(), cfg, logger.NewTestLogger(t))
	defer r.Close()

	assert.False(t, r.Cached())
	assert.NotNil(t, r.Client.FetchJSON(context.Background(), "/cover-page"))
}

func TestNewImporter(t *testing.T) {
	srv, _ := countingServer(t)
	r := NewRemote(context.Background(), testConfig(srv.URL), logger.NewTestLogger(t))

	imp := NewImporter(r, logger.NewTestLogger(t), nil, true)
	c, err := imp.ImportCoverPage(context.Background(), map[string]interface{}{"statsCards": "not json"})
	require.NoError(t, err)
	assert.Equal(t, "Remote Co", c.Str("companyName"))
	assert.Empty(t, c.CardList("statsCards"))

	strict := NewImporter(r, logger.NewTestLogger(t), nil, false)
	_, err = strict.ImportSection(context.Background(), businessplan.CoverPage, map[string]interface{}{"statsCards": "not json"})
	assert.Error(t, err)
}
