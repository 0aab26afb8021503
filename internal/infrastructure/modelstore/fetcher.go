package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"teeth-classifier/internal/domain/entity"
)

// ChunkSize размер блока, которым модель пишется на диск.
const ChunkSize = 32 << 10

// HTTPFetcher скачивает файл модели потоком.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher создаёт загрузчик. Таймаута нет: большая модель может качаться долго.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{}}
}

// Fetch скачивает url во временный файл рядом с dest и переименовывает его после успешной записи.
// Возвращает число записанных байт.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create model directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &entity.FetchError{URL: url, Err: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, &entity.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &entity.FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	tmp := filepath.Join(dir, "."+filepath.Base(dest)+"."+uuid.NewString()+".part")
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := copyChunks(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return n, &entity.FetchError{URL: url, Err: err}
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return n, fmt.Errorf("move model into place: %w", err)
	}

	return n, nil
}

// copyChunks копирует r в w блоками по ChunkSize.
func copyChunks(w io.Writer, r io.Reader) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
		}
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
