package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/pkg/cache"
	"github.com/mbaylon/interntrack/internal/pkg/live"
)

// StatsService derives dashboard counters from the roster snapshot. Counters
// are cached per scope since every dashboard render requests them; written
// keys are tracked so a roster mutation can drop every scope's entry.
type StatsService struct {
	students     StudentStore
	cache        *cache.StatsCache
	requiredDocs []string
	logger       zerolog.Logger

	mu   sync.Mutex
	keys map[string]struct{}
}

// NewStatsService creates a new stats service instance
func NewStatsService(students StudentStore, statsCache *cache.StatsCache, requiredDocs []string, logger zerolog.Logger) *StatsService {
	return &StatsService{
		students:     students,
		cache:        statsCache,
		requiredDocs: requiredDocs,
		logger:       logger,
		keys:         make(map[string]struct{}),
	}
}

// GetStats computes the counters over the caller's visible roster
func (s *StatsService) GetStats(ctx context.Context, scope roster.Scope) (*dto.StatsResponse, error) {
	key := cacheKey(scope)

	var cached dto.StatsResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Stats cache read failed")
	} else if hit {
		return &cached, nil
	}

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	visible := scope.Restrict(students)

	stats := &dto.StatsResponse{
		BySection: make(map[string]int64),
		ByProgram: make(map[string]int64),
	}
	for i := range visible {
		student := &visible[i]
		stats.TotalStudents++
		if student.Hired {
			stats.Hired++
		}
		if student.OpenToRelocation {
			stats.OpenToRelocation++
		}
		if models.AllApproved(student.Requirements, s.requiredDocs) {
			stats.AllApproved++
		}
		stats.BySection[student.Section]++
		stats.ByProgram[student.Program]++
	}

	if err := s.cache.Set(ctx, key, stats); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Stats cache write failed")
	} else {
		s.mu.Lock()
		s.keys[key] = struct{}{}
		s.mu.Unlock()
	}
	return stats, nil
}

// InvalidateStats drops every cached counter entry after a roster mutation
func (s *StatsService) InvalidateStats(ctx context.Context) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	s.keys = make(map[string]struct{})
	s.mu.Unlock()

	s.cache.Invalidate(ctx, keys...)
}

// StatsInvalidator drops cached dashboard counters
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// InvalidatingFeed decorates a feed publisher so every change event also
// drops the cached counters. Events are only published on roster mutations,
// so the feed is the single choke point for invalidation.
type InvalidatingFeed struct {
	feed  FeedPublisher
	stats StatsInvalidator
}

// NewInvalidatingFeed wraps a feed publisher with counter invalidation
func NewInvalidatingFeed(feed FeedPublisher, stats StatsInvalidator) *InvalidatingFeed {
	return &InvalidatingFeed{feed: feed, stats: stats}
}

// Publish drops the cached counters, then forwards the event
func (f *InvalidatingFeed) Publish(event *live.Event) {
	f.stats.InvalidateStats(context.Background())
	f.feed.Publish(event)
}

// cacheKey derives a stable cache key from the scope partition
func cacheKey(scope roster.Scope) string {
	if scope.All() {
		return "stats:all"
	}
	sections := append([]string(nil), scope.Sections...)
	codes := append([]string(nil), scope.ProgramCodes...)
	sort.Strings(sections)
	sort.Strings(codes)
	return fmt.Sprintf("stats:%s:%s:%s", scope.Role,
		strings.Join(sections, ","), strings.Join(codes, ","))
}
