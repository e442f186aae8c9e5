package spec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/erraggy/refitgen/rgerrors"
)

// IsURL reports whether path refers to a remote document.
func IsURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (l *OASLoader) read(ctx context.Context, path string) ([]byte, error) {
	if IsURL(path) {
		return l.fetch(ctx, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, rgerrors.DocumentLoad(path, "", err)
	}
	if info.IsDir() {
		return nil, rgerrors.DocumentLoad(path, "is a directory", nil)
	}
	if info.Size() > l.maxSize {
		return nil, rgerrors.DocumentLoad(path, fmt.Sprintf("document exceeds %d bytes", l.maxSize), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rgerrors.DocumentLoad(path, "", err)
	}
	return data, nil
}

func (l *OASLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, rgerrors.DocumentLoad(url, "invalid URL", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml, text/yaml, */*")

	l.logger.Debug("fetching document", "url", url, "timeout", l.timeout)
	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, rgerrors.DocumentLoad(url, fmt.Sprintf("fetch timed out after %s", l.timeout), err)
		}
		return nil, rgerrors.DocumentLoad(url, "fetch failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rgerrors.DocumentLoad(url, fmt.Sprintf("unexpected HTTP status %s", resp.Status), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxSize+1))
	if err != nil {
		return nil, rgerrors.DocumentLoad(url, "reading response body", err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, rgerrors.DocumentLoad(url, fmt.Sprintf("document exceeds %d bytes", l.maxSize), nil)
	}
	return data, nil
}
