package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	articles, users int64
	err             error
	gotDeadline     bool
}

func (f *fakeSource) Counts(ctx context.Context) (int64, int64, error) {
	_, f.gotDeadline = ctx.Deadline()
	return f.articles, f.users, f.err
}

func TestRecordArticleOperation(t *testing.T) {
	before := testutil.ToFloat64(ArticleOperationsTotal.WithLabelValues("delete", ResultForbidden))
	RecordArticleOperation("delete", ResultForbidden)
	assert.Equal(t, before+1, testutil.ToFloat64(ArticleOperationsTotal.WithLabelValues("delete", ResultForbidden)))
}

func TestRefreshContentTotals(t *testing.T) {
	src := &fakeSource{articles: 12, users: 3}
	require.NoError(t, RefreshContentTotals(context.Background(), src, time.Second))

	assert.True(t, src.gotDeadline)
	assert.Equal(t, 12.0, testutil.ToFloat64(ArticlesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(UsersTotal))
}

func TestRefreshContentTotals_KeepsLastValueOnError(t *testing.T) {
	UpdateContentTotals(5, 2)
	before := testutil.ToFloat64(StatsRefreshErrors)

	err := RefreshContentTotals(context.Background(), &fakeSource{err: errors.New("db down")}, time.Second)
	require.Error(t, err)

	assert.Equal(t, 5.0, testutil.ToFloat64(ArticlesTotal))
	assert.Equal(t, before+1, testutil.ToFloat64(StatsRefreshErrors))
}

func TestScheduleStatsRefresh(t *testing.T) {
	c := cron.New()

	id, err := ScheduleStatsRefresh(c, &fakeSource{}, time.Minute, nil)
	require.NoError(t, err)

	entry := c.Entry(id)
	require.True(t, entry.Valid())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Minute), entry.Schedule.Next(now))

	_, err = ScheduleStatsRefresh(c, &fakeSource{}, 0, nil)
	assert.Error(t, err)
}
