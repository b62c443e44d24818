package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

// Summary feeds the dashboard cards.
type Summary struct {
	Counts repository.StatusCounts `json:"counts"`
}

// Trend feeds the completion chart: one point per day of the window, zero
// filled for days without activity.
type Trend struct {
	Days   int                     `json:"days"`
	Points []repository.TrendPoint `json:"points"`
}

type UseCase struct {
	stats  repository.StatsRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(stats repository.StatsRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stats:  stats,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *UseCase) Summary(ctx context.Context, userID string) (Summary, error) {
	if userID == "" {
		return Summary{}, domain.ErrMissingUserID
	}
	counts, err := uc.stats.CountByStatus(ctx, userID)
	if err != nil {
		return Summary{}, domain.WrapError(domain.ErrCodeRemoteFailure, "load summary failed", err)
	}
	return Summary{Counts: counts}, nil
}

// CompletionTrend returns the trailing window of created-vs-completed
// counts, padded so every day has a point.
func (uc *UseCase) CompletionTrend(ctx context.Context, userID string, days int) (Trend, error) {
	if userID == "" {
		return Trend{}, domain.ErrMissingUserID
	}
	if days <= 0 || days > 90 {
		days = 7
	}

	start := uc.now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))
	points, err := uc.stats.CompletionTrend(ctx, userID, start)
	if err != nil {
		return Trend{}, domain.WrapError(domain.ErrCodeRemoteFailure, "load trend failed", err)
	}

	byDay := make(map[time.Time]repository.TrendPoint, len(points))
	for _, p := range points {
		byDay[p.Day.UTC().Truncate(24*time.Hour)] = p
	}

	filled := make([]repository.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		if p, ok := byDay[day]; ok {
			p.Day = day
			filled = append(filled, p)
			continue
		}
		filled = append(filled, repository.TrendPoint{Day: day})
	}

	return Trend{Days: days, Points: filled}, nil
}
