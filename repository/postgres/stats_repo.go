package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns SQL-backed dashboard aggregations.
func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CountByStatus(ctx context.Context, userID string) (repository.StatusCounts, error) {
	var counts repository.StatusCounts
	if userID == "" {
		return counts, domain.ErrMissingUserID
	}

	const query = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'in_progress'),
		COUNT(*) FILTER (WHERE status = 'completed')
	FROM tasks
	WHERE user_id = $1
	`
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&counts.Total,
		&counts.Pending,
		&counts.InProgress,
		&counts.Completed,
	)
	return counts, err
}

func (r *statsRepository) CompletionTrend(ctx context.Context, userID string, since time.Time) ([]repository.TrendPoint, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}

	const query = `
	SELECT
		date_trunc('day', created_at) AS day,
		COUNT(*) AS created,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed
	FROM tasks
	WHERE user_id = $1 AND created_at >= $2
	GROUP BY day
	ORDER BY day
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []repository.TrendPoint
	for rows.Next() {
		var p repository.TrendPoint
		if err := rows.Scan(&p.Day, &p.Created, &p.Completed); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
