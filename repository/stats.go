package repository

import (
	"context"
	"time"
)

// StatusCounts summarizes a user's tasks by status for the dashboard cards.
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// TrendPoint is one day of the created-vs-completed chart.
type TrendPoint struct {
	Day       time.Time `json:"day"`
	Created   int       `json:"created"`
	Completed int       `json:"completed"`
}

type StatsRepository interface {
	CountByStatus(ctx context.Context, userID string) (StatusCounts, error)
	CompletionTrend(ctx context.Context, userID string, since time.Time) ([]TrendPoint, error)
}
