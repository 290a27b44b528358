// Package fetcher retrieves dataset files over HTTP and FTP and reads CSV,
// XLSX and ZIP sources.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"strings"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Options configures the fetchers returned by ForLocation.
type Options struct {
	HTTP HTTPOptions
	FTP  FTPOptions
}

// ForLocation returns the fetcher able to retrieve location, or false when
// location is a local path.
func ForLocation(location string, opts Options) (Fetcher, bool) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPFetcher(opts.HTTP), true
	case "ftp":
		return NewFTPFetcher(opts.FTP), true
	default:
		return nil, false
	}
}
