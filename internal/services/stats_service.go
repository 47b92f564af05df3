package services

import (
	"fmt"
	"sync"
	"time"

	"walletmate/internal/cache"
	"walletmate/internal/category"
	"walletmate/internal/core"
	"walletmate/internal/store"
)

// CategoryStat is a CategoryTotal decorated for display.
type CategoryStat struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	Icon     string  `json:"icon"`
	Amount   float64 `json:"amount"`
	Display  string  `json:"display"`
}

// MonthStats is everything the statistics screen shows for one month.
type MonthStats struct {
	Year       int               `json:"year"`
	Month      int               `json:"month"` // 1-12
	Summary    core.MonthSummary `json:"summary"`
	Categories []CategoryStat    `json:"categories"`
}

// MonthPoint is one labelled bar of the yearly chart.
type MonthPoint struct {
	core.MonthlyTotal
	Name string `json:"name"`
}

type StatsConfig struct {
	Location  *time.Location
	CacheSize int
	CacheTTL  time.Duration
}

// StatsService computes aggregates over the store snapshot and caches them
// per period until the next mutation.
type StatsService struct {
	store      *store.TransactionStore
	categories *category.Table
	loc        *time.Location

	months cache.Cache[MonthStats]
	years  cache.Cache[[]MonthPoint]

	// gen counts invalidations. A result is cached only if no invalidation
	// happened while it was computed; mu orders that check against Invalidate.
	mu       sync.Mutex
	gen      uint64
	snapshot func() []core.Transaction
}

func NewStatsService(st *store.TransactionStore, categories *category.Table, cfg StatsConfig) *StatsService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 24
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &StatsService{
		store:      st,
		categories: categories,
		loc:        cfg.Location,
		months:     cache.NewLRUCache[MonthStats](cfg.CacheSize, cfg.CacheTTL),
		years:      cache.NewLRUCache[[]MonthPoint](cfg.CacheSize, cfg.CacheTTL),
		snapshot:   st.All,
	}
}

// Cleaners exposes the caches for a cache.Manager.
func (s *StatsService) Cleaners() []cache.Cleaner {
	var out []cache.Cleaner
	for _, c := range []any{s.months, s.years} {
		if cl, ok := c.(cache.Cleaner); ok {
			out = append(out, cl)
		}
	}
	return out
}

func (s *StatsService) Location() *time.Location { return s.loc }

// Invalidate drops every cached aggregate.
func (s *StatsService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.months.Clear()
	s.years.Clear()
}

func (s *StatsService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// storeIfCurrent caches a result computed at generation gen, unless an
// invalidation has happened since.
func storeIfCurrent[T any](s *StatsService, c cache.Cache[T], gen uint64, key string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		c.Set(key, v)
	}
}

// Month returns the totals and per-category expenses of the month that
// contains ref in the service location.
func (s *StatsService) Month(ref time.Time) MonthStats {
	ref = ref.In(s.loc)
	key := fmt.Sprintf("%04d-%02d", ref.Year(), int(ref.Month()))
	if cached, ok := s.months.Get(key); ok {
		return cached
	}

	gen := s.generation()
	txs := s.snapshot()
	totals := core.CategoryTotals(txs, ref)
	cats := make([]CategoryStat, 0, len(totals))
	for _, ct := range totals {
		c := s.categories.Lookup(ct.Category)
		cats = append(cats, CategoryStat{
			Category: ct.Category,
			Label:    c.Label,
			Color:    c.Color,
			Icon:     c.Icon,
			Amount:   ct.Amount,
			Display:  core.FormatCurrency(-ct.Amount),
		})
	}

	stats := MonthStats{
		Year:       ref.Year(),
		Month:      int(ref.Month()),
		Summary:    core.MonthlyTotals(txs, ref),
		Categories: cats,
	}
	storeIfCurrent(s, s.months, gen, key, stats)
	return stats
}

// Year returns the 12 labelled monthly totals of year.
func (s *StatsService) Year(year int) []MonthPoint {
	key := fmt.Sprintf("%04d", year)
	if cached, ok := s.years.Get(key); ok {
		return cached
	}

	gen := s.generation()
	series := core.YearSeries(s.snapshot(), year, s.loc)
	points := make([]MonthPoint, len(series))
	for i, m := range series {
		points[i] = MonthPoint{
			MonthlyTotal: m,
			Name:         category.MonthName(s.categories.Locale(), m.Month),
		}
	}
	storeIfCurrent(s, s.years, gen, key, points)
	return points
}
