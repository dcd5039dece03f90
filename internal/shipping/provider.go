package shipping

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

// Provider yields the current shipping setting. A nil setting means none is configured.
type Provider interface {
	Current(ctx context.Context) (*Setting, error)
}

// CacheRecorder observes cache hits and misses.
type CacheRecorder interface {
	IncCache(hit bool)
}

// CachedProvider loads the setting once and serves it until ttl elapses.
// Failed loads are not cached.
type CachedProvider struct {
	source   Provider
	ttl      time.Duration
	now      func() time.Time
	recorder CacheRecorder

	mu       sync.Mutex
	loaded   bool
	setting  *Setting
	loadedAt time.Time
}

func NewCachedProvider(source Provider, ttl time.Duration, recorder CacheRecorder) *CachedProvider {
	return &CachedProvider{source: source, ttl: ttl, now: time.Now, recorder: recorder}
}

func (p *CachedProvider) Current(ctx context.Context) (*Setting, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded && (p.ttl <= 0 || p.now().Sub(p.loadedAt) < p.ttl) {
		p.record(true)
		return copySetting(p.setting), nil
	}
	p.record(false)

	setting, err := p.source.Current(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping settings")
	}
	p.setting = setting
	p.loaded = true
	p.loadedAt = p.now()
	return copySetting(setting), nil
}

// Invalidate drops the cached setting.
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	p.loaded = false
	p.setting = nil
	p.mu.Unlock()
}

func (p *CachedProvider) record(hit bool) {
	if p.recorder != nil {
		p.recorder.IncCache(hit)
	}
}

func copySetting(s *Setting) *Setting {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
