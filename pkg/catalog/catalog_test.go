package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kakapoServer(t *testing.T) *httptest.Server {
	t.Helper()
	data, err := os.ReadFile("testdata/kakapo.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/kakapo" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher(t *testing.T) {
	srv := kakapoServer(t)

	t.Run("decodes records", func(t *testing.T) {
		records, err := NewHTTPFetcher(srv.URL+"/api/kakapo", time.Second).Fetch(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 14)
		assert.Equal(t, "Wind", records[0].Name)
		assert.Equal(t, models.SourceYoutube, records[13].Source)
	})

	t.Run("non-200 is a fetch error", func(t *testing.T) {
		_, err := NewHTTPFetcher(srv.URL+"/missing", time.Second).Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeFetchFailed))
	})

	t.Run("unreachable host is a fetch error", func(t *testing.T) {
		f := NewHTTPFetcher("http://127.0.0.1:1/sounds", 200*time.Millisecond)
		_, err := f.Fetch(context.Background())
		assert.True(t, errors.Is(err, errors.ErrCodeFetchFailed))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewHTTPFetcher(srv.URL+"/api/kakapo", time.Second).Fetch(ctx)
		assert.True(t, errors.Is(err, errors.ErrCodeFetchFailed))
	})
}

func TestFileFetcher(t *testing.T) {
	records, err := (&FileFetcher{Path: "testdata/local.yml"}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Summer Night", records[0].Name)
	require.NotNil(t, records[1].Progress)
	assert.Equal(t, 0.25, *records[1].Progress)

	_, err = (&FileFetcher{Path: "testdata/nope.json"}).Fetch(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeFetchFailed))
}

func TestNewPicksFetcher(t *testing.T) {
	assert.IsType(t, &HTTPFetcher{}, New("https://kakapo.co/api", 0))
	f, ok := New("file:///tmp/sounds.json", 0).(*FileFetcher)
	require.True(t, ok)
	assert.Equal(t, "/tmp/sounds.json", f.Path)
}

func TestNormalize(t *testing.T) {
	records := Normalize([]models.Record{
		{ID: "keep-me", Name: "Other"},
		{Name: "Summer  Night"},
		{},
	})
	assert.Equal(t, "keep-me", records[0].ID)
	assert.Equal(t, "summer-night", records[1].ID)
	_, err := uuid.Parse(records[2].ID)
	assert.NoError(t, err)
}

func TestNormalizeDuplicateIDs(t *testing.T) {
	records := Normalize([]models.Record{
		{Name: "Rain", Tags: "first"},
		{Name: "Wind"},
		{Name: "rain", Tags: "second"},
		{ID: "wind", Name: "Gust"},
	})
	require.Len(t, records, 2)
	assert.Equal(t, "rain", records[0].ID)
	assert.Equal(t, "second", records[0].Tags, "the later record wins")
	assert.Equal(t, "wind", records[1].ID)
	assert.Equal(t, "Gust", records[1].Name)
}

func TestWithExclusions(t *testing.T) {
	srv := kakapoServer(t)

	f, err := WithExclusions(NewHTTPFetcher(srv.URL+"/api/kakapo", time.Second), []string{"whitenoise", "f*"})
	require.NoError(t, err)

	records, err := f.Fetch(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.NotContains(t, ids, "whitenoise")
	assert.NotContains(t, ids, "fire")
	assert.NotContains(t, ids, "fan")
	assert.NotContains(t, ids, "forest")
	assert.Contains(t, ids, "wind")
	assert.Len(t, records, 10)

	plain, err := WithExclusions(NewHTTPFetcher(srv.URL+"/api/kakapo", time.Second), nil)
	require.NoError(t, err)
	records, err = plain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 14)
}

func TestFetcherFunc(t *testing.T) {
	f := FetcherFunc(func(ctx context.Context) ([]models.Record, error) {
		return []models.Record{{ID: "wind"}}, nil
	})
	records, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
