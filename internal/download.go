package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type ProgressWriter struct {
	Total      int64
	Written    int64
	OnProgress func(written, total int64)
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.Written += int64(n)
	if pw.OnProgress != nil {
		pw.OnProgress(pw.Written, pw.Total)
	}
	return n, nil
}

func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Downloader fetches remote word-vector files into a local cache.
type Downloader struct {
	cacheDir string
	token    string
	client   *http.Client
}

func NewDownloader(cacheDir, token string) *Downloader {
	return &Downloader{
		cacheDir: cacheDir,
		token:    token,
		client:   http.DefaultClient,
	}
}

// CachedPath is where rawURL lives in the cache. The file keeps the base name
// of the URL path, without query or fragment, so format detection still works.
func (d *Downloader) CachedPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	filename := path.Base(u.Path)
	if filename == "" || filename == "/" || filename == "." {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}
	return filepath.Join(d.cacheDir, filename), nil
}

// EnsureVectors returns the cached copy of rawURL, downloading it first when
// it is not cached yet.
func (d *Downloader) EnsureVectors(ctx context.Context, rawURL string, onProgress func(written, total int64)) (string, error) {
	dest, err := d.CachedPath(rawURL)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	if err := os.MkdirAll(d.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	if err := d.download(ctx, rawURL, dest, onProgress); err != nil {
		return "", err
	}

	return dest, nil
}

func (d *Downloader) download(ctx context.Context, rawURL, dest string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	pw := &ProgressWriter{
		Total:      resp.ContentLength,
		OnProgress: onProgress,
	}

	return writeFileAtomic(dest, func(w io.Writer) error {
		_, err := io.Copy(w, io.TeeReader(resp.Body, pw))
		return err
	})
}

func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "boc", "vectors"), nil
}
