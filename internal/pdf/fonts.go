package pdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFontURL serves the Cairo regular TrueType face used for Arabic text.
const DefaultFontURL = "https://cdn.jsdelivr.net/gh/google/fonts@main/ofl/cairo/Cairo-Regular.ttf"

// FontProvisioner lazily fetches and caches the Arabic report font. The
// fetch happens at most once per process; a failed fetch is retried on the
// next call and never surfaces past the provisioner, leaving the renderer on
// its fallback face.
type FontProvisioner struct {
	url    string
	client *http.Client
	logger zerolog.Logger

	mu     sync.Mutex
	loaded bool
	font   []byte
}

// NewFontProvisioner builds a provisioner fetching from the given URL, or
// DefaultFontURL when empty.
func NewFontProvisioner(url string, client *http.Client, logger zerolog.Logger) *FontProvisioner {
	if url == "" {
		url = DefaultFontURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &FontProvisioner{
		url:    url,
		client: client,
		logger: logger.With().Str("component", "font_provisioner").Logger(),
	}
}

// EnsureFont makes the Arabic font available, fetching it on first use.
// Failure is soft: a warning is logged and the renderer falls back to the
// core font, so exported reports may render Arabic text incorrectly.
func (p *FontProvisioner) EnsureFont(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return
	}

	font, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Str("url", p.url).Msg("arabic report font unavailable, exporting with fallback font")
		return
	}

	p.font = font
	p.loaded = true
	p.logger.Info().Int("bytes", len(font)).Msg("arabic report font provisioned")
}

// Ready reports whether the font has been provisioned.
func (p *FontProvisioner) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Font returns the cached font bytes, or nil when not provisioned.
func (p *FontProvisioner) Font() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return nil
	}
	return p.font
}

func (p *FontProvisioner) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build font request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch font: unexpected status %s", resp.Status)
	}

	font, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read font body: %w", err)
	}

	if len(font) == 0 {
		return nil, fmt.Errorf("fetch font: empty response body")
	}

	return font, nil
}
