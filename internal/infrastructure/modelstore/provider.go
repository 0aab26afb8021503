package modelstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
)

// ErrClosed модель уже освобождена, повторная загрузка не выполняется.
var ErrClosed = errors.New("model provider is closed")

// Fetcher скачивает артефакт модели в локальный файл
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (int64, error)
}

// Provider скачивает модель при первом запуске и загружает её один раз за время жизни процесса.
//
// Успешная загрузка и LoadError запоминаются. FetchError не запоминается,
// чтобы следующий вызов мог повторить скачивание.
type Provider struct {
	url     string
	path    string
	fetcher Fetcher
	loader  port.ModelLoader

	mu         sync.Mutex
	classifier port.Classifier
	loadErr    error
	closed     bool
}

// NewProvider создаёт провайдер модели для url и локального пути path.
func NewProvider(url, path string, fetcher Fetcher, loader port.ModelLoader) *Provider {
	return &Provider{
		url:     url,
		path:    path,
		fetcher: fetcher,
		loader:  loader,
	}
}

// Ensure возвращает загруженную модель, при необходимости скачав её.
func (p *Provider) Ensure(ctx context.Context) (port.Classifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if p.classifier != nil || p.loadErr != nil {
		return p.classifier, p.loadErr
	}

	if err := p.download(ctx); err != nil {
		return nil, err
	}

	classifier, err := p.loader.Load(p.path)
	if err != nil {
		p.loadErr = &entity.LoadError{Path: p.path, Err: err}
		return nil, p.loadErr
	}

	p.classifier = classifier
	return classifier, nil
}

func (p *Provider) download(ctx context.Context) error {
	_, err := os.Stat(p.path)
	if err == nil {
		slog.Debug("model is cached", "path", p.path)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat model: %w", err)
	}
	if p.url == "" {
		return &entity.FetchError{URL: p.url, Err: errors.New("model is missing and no download URL is configured")}
	}

	slog.Info("downloading model", "url", p.url, "path", p.path)
	start := time.Now()

	n, err := p.fetcher.Fetch(ctx, p.url, p.path)
	if err != nil {
		return err
	}

	slog.Info("model downloaded",
		"path", p.path,
		"size", humanize.Bytes(uint64(n)),
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// Close освобождает загруженную модель. После Close провайдер больше не загружает модель.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.classifier == nil {
		return nil
	}
	err := p.classifier.Close()
	p.classifier = nil
	return err
}

var _ port.ModelProvider = (*Provider)(nil)
