package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

type fakeStatsRepo struct {
	counts    repository.StatusCounts
	points    []repository.TrendPoint
	err       error
	lastSince time.Time
}

func (f *fakeStatsRepo) CountByStatus(ctx context.Context, userID string) (repository.StatusCounts, error) {
	return f.counts, f.err
}

func (f *fakeStatsRepo) CompletionTrend(ctx context.Context, userID string, since time.Time) ([]repository.TrendPoint, error) {
	f.lastSince = since
	return f.points, f.err
}

func fixedClock(uc *UseCase, at time.Time) {
	uc.now = func() time.Time { return at }
}

func TestSummary(t *testing.T) {
	stats := &fakeStatsRepo{counts: repository.StatusCounts{
		Total: 10, Pending: 4, InProgress: 3, Completed: 3,
	}}
	uc := New(stats, nil)

	summary, err := uc.Summary(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Counts.Total)
	assert.Equal(t, 4, summary.Counts.Pending)
}

func TestSummaryMissingUser(t *testing.T) {
	uc := New(&fakeStatsRepo{}, nil)
	_, err := uc.Summary(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingUserID)
}

func TestSummaryRepoFailure(t *testing.T) {
	uc := New(&fakeStatsRepo{err: errors.New("db down")}, nil)
	_, err := uc.Summary(context.Background(), "u-1")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRemoteFailure))
}

func TestCompletionTrendZeroFillsWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2026, 3, 10+offset, 0, 0, 0, 0, time.UTC)
	}

	stats := &fakeStatsRepo{points: []repository.TrendPoint{
		{Day: day(-4), Created: 2, Completed: 1},
		{Day: day(0), Created: 1, Completed: 1},
	}}
	uc := New(stats, nil)
	fixedClock(uc, now)

	trend, err := uc.CompletionTrend(context.Background(), "u-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, trend.Days)
	require.Len(t, trend.Points, 7)

	assert.Equal(t, day(-6), trend.Points[0].Day, "window starts six days back")
	assert.Zero(t, trend.Points[0].Created)

	assert.Equal(t, 2, trend.Points[2].Created)
	assert.Equal(t, 1, trend.Points[2].Completed)

	assert.Equal(t, day(0), trend.Points[6].Day)
	assert.Equal(t, 1, trend.Points[6].Created)

	assert.Equal(t, day(-6), stats.lastSince)
}

func TestCompletionTrendDefaultsWindow(t *testing.T) {
	uc := New(&fakeStatsRepo{}, nil)
	fixedClock(uc, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	for _, days := range []int{0, -3, 91} {
		trend, err := uc.CompletionTrend(context.Background(), "u-1", days)
		require.NoError(t, err)
		assert.Equal(t, 7, trend.Days)
		assert.Len(t, trend.Points, 7)
	}
}

func TestCompletionTrendMissingUser(t *testing.T) {
	uc := New(&fakeStatsRepo{}, nil)
	_, err := uc.CompletionTrend(context.Background(), "", 7)
	assert.ErrorIs(t, err, domain.ErrMissingUserID)
}
