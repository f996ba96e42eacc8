// README: Holiday store tests (Redis cache via miniredis, Postgres when TOLL_TEST_DSN is set).
package toll

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestStore_ListHolidays_FromCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	_, err := mr.SAdd(holidayCacheKey, "2013-12-25", "2013-01-01")
	require.NoError(t, err)

	dates, err := NewStore(nil, rdb).ListHolidays(context.Background())
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2013-01-01", dates[0].Format(dateLayout))
	assert.Equal(t, "2013-12-25", dates[1].Format(dateLayout))
}

func TestStore_ListHolidays_BadCacheEntry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	_, err := mr.SAdd(holidayCacheKey, "not-a-date")
	require.NoError(t, err)

	_, err = NewStore(nil, rdb).ListHolidays(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestStore_ListHolidays_NoBackends(t *testing.T) {
	dates, err := NewStore(nil, nil).ListHolidays(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestStore_CacheHolidays(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewStore(nil, rdb)

	dates, err := ParseHolidayDates([]string{"2013-05-01", "2013-06-06"})
	require.NoError(t, err)
	require.NoError(t, s.cacheHolidays(context.Background(), dates))

	members, err := mr.Members(holidayCacheKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2013-05-01", "2013-06-06"}, members)
	assert.Equal(t, holidayCacheTTL, mr.TTL(holidayCacheKey))
}

func TestStore_UpsertHolidays_RequiresDB(t *testing.T) {
	err := NewStore(nil, nil).UpsertHolidays(context.Background(), []time.Time{time.Now()}, "x")
	assert.Error(t, err)
}

// TestStore_Postgres round-trips holidays through Postgres and the cache.
// It skips when TOLL_TEST_DSN is not set.
func TestStore_Postgres(t *testing.T) {
	dsn := os.Getenv("TOLL_TEST_DSN")
	if dsn == "" {
		t.Skip("TOLL_TEST_DSN not set; skipping DB-backed tests")
	}
	ctx := context.Background()

	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, `CREATE TABLE IF NOT EXISTS holiday_dates (day DATE PRIMARY KEY, name TEXT NOT NULL DEFAULT '')`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `TRUNCATE TABLE holiday_dates`)
	require.NoError(t, err)

	mr, rdb := newTestRedis(t)
	s := NewStore(db, rdb)

	dates, err := ParseHolidayDates([]string{"2013-12-31", "2013-11-01"})
	require.NoError(t, err)
	require.NoError(t, s.UpsertHolidays(ctx, dates, "test"))
	require.False(t, mr.Exists(holidayCacheKey))

	got, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2013-11-01", got[0].Format(dateLayout))
	assert.True(t, mr.Exists(holidayCacheKey))
}

func TestStore_Calendar_MergesCachedAndExtra(t *testing.T) {
	mr, rdb := newTestRedis(t)
	_, err := mr.SAdd(holidayCacheKey, "2014-01-06")
	require.NoError(t, err)

	extra, err := ParseHolidayDates([]string{"2013-12-25", "2014-01-06"})
	require.NoError(t, err)

	c, err := NewStore(nil, rdb).Calendar(context.Background(), extra)
	require.NoError(t, err)
	require.Len(t, c.Dates(), 2)
	assert.True(t, c.IsHoliday(time.Date(2014, 1, 6, 8, 0, 0, 0, time.UTC)))
	assert.True(t, c.IsHoliday(time.Date(2013, 12, 25, 8, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsHoliday(time.Date(2014, 12, 25, 8, 0, 0, 0, time.UTC)))
}
