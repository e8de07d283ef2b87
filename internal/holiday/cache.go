package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/priyankverma/cleansched/internal/cache"
	"github.com/priyankverma/cleansched/pkg/models"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the freshness window for cached holiday data.
const DefaultTTL = 24 * time.Hour

// CachedSource wraps a Source with a shared cache and a freshness window.
// Readers tolerate staleness up to the TTL; concurrent callers with a cold
// cache trigger at most one outbound fetch per (country, year).
type CachedSource struct {
	source      Source
	cache       cache.Cache
	countryCode string
	ttl         time.Duration
	now         func() time.Time
	group       singleflight.Group
}

// NewCachedSource creates a CachedSource. The clock is injected so staleness
// behavior is testable; pass time.Now in production.
func NewCachedSource(src Source, c cache.Cache, countryCode string, ttl time.Duration, now func() time.Time) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &CachedSource{
		source:      src,
		cache:       c,
		countryCode: countryCode,
		ttl:         ttl,
		now:         now,
	}
}

type cachedYear struct {
	FetchedAt time.Time              `json:"fetched_at"`
	Holidays  []models.PublicHoliday `json:"holidays"`
}

func (s *CachedSource) Holidays(ctx context.Context, year int) ([]models.PublicHoliday, error) {
	key := cache.HolidaysKey(s.countryCode, year)

	if raw, found, err := s.cache.Get(ctx, key); err == nil && found {
		var entry cachedYear
		if err := json.Unmarshal(raw, &entry); err == nil &&
			s.now().Sub(entry.FetchedAt) < s.ttl {
			return entry.Holidays, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		holidays, err := s.source.Holidays(ctx, year)
		if err != nil {
			return nil, err
		}

		entry := cachedYear{FetchedAt: s.now(), Holidays: holidays}
		if raw, err := json.Marshal(entry); err == nil {
			// Cache write failure degrades to fetch-every-call, nothing more.
			_ = s.cache.Set(ctx, key, raw, s.ttl)
		}
		return holidays, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch holidays %d: %w", year, err)
	}
	return v.([]models.PublicHoliday), nil
}

// Compile-time check that CachedSource implements Source.
var _ Source = (*CachedSource)(nil)
