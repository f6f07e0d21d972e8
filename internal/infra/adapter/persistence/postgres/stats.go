package postgres

import (
	"context"
	"fmt"
)

// StatsRepo reports content totals for the business gauges.
type StatsRepo struct {
	db DBTX
}

func NewStatsRepo(db DBTX) *StatsRepo {
	return &StatsRepo{db: db}
}

// Counts returns the number of articles and users in one round trip.
func (repo *StatsRepo) Counts(ctx context.Context) (int64, int64, error) {
	const query = `SELECT (SELECT COUNT(*) FROM articles), (SELECT COUNT(*) FROM users)`
	var articles, users int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&articles, &users); err != nil {
		return 0, 0, fmt.Errorf("Counts: %w", err)
	}
	return articles, users, nil
}
