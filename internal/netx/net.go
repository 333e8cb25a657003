// Package netx holds small HTTP helpers for presigned object storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadPresignedURL fetches the object behind a presigned GET URL and
// copies it to w. It returns the number of bytes written.
func DownloadPresignedURL(ctx context.Context, client *http.Client, url string, w io.Writer) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	return io.Copy(w, resp.Body)
}
