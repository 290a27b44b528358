package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDownload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "moviedb-cli/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("title\nHeat\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{})
	body, err := f.Download(context.Background(), srv.URL+"/movies.csv")
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "title\nHeat\n", string(data))
}

func TestHTTPDownload_NoRetryOnServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{})
	_, err := f.Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
	assert.Equal(t, 1, calls)
}

func TestHTTPDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{})
	_, err := f.Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestHTTPDownload_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 20 * time.Millisecond})
	_, err := f.Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http: download")
}

func TestHTTPDownload_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTPFetcher(HTTPOptions{})
	_, err := f.Download(ctx, srv.URL)
	require.Error(t, err)
}

func TestHTTPDownloadToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.csv")
	f := NewHTTPFetcher(HTTPOptions{})
	n, err := f.DownloadToFile(context.Background(), srv.URL, path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
}

func TestForLocation(t *testing.T) {
	tests := []struct {
		location string
		remote   bool
		ftp      bool
	}{
		{"movies.csv", false, false},
		{"/data/movies.csv", false, false},
		{"http://example.com/movies.csv", true, false},
		{"HTTPS://example.com/movies.zip", true, false},
		{"ftp://ftp.example.com/movies.csv", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			f, ok := ForLocation(tt.location, Options{})
			assert.Equal(t, tt.remote, ok)
			if !ok {
				assert.Nil(t, f)
				return
			}
			_, isFTP := f.(*FTPFetcher)
			assert.Equal(t, tt.ftp, isFTP)
		})
	}
}
