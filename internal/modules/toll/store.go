// README: Holiday store backed by PostgreSQL with a Redis cache.
package toll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	holidayCacheKey = "toll:holidays"
	holidayCacheTTL = time.Hour
)

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

// NewStore accepts nil for either backend.
func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

// ListHolidays reads the cached set first and falls back to Postgres,
// refilling the cache from it.
func (s *Store) ListHolidays(ctx context.Context) ([]time.Time, error) {
	if s.redis != nil {
		cached, err := s.redis.SMembers(ctx, holidayCacheKey).Result()
		if err != nil {
			return nil, fmt.Errorf("read holiday cache: %w", err)
		}
		if len(cached) > 0 {
			dates, err := ParseHolidayDates(cached)
			if err != nil {
				return nil, err
			}
			sortDates(dates)
			return dates, nil
		}
	}
	if s.db == nil {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `SELECT day FROM holiday_dates ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holidays: %w", err)
	}

	if err := s.cacheHolidays(ctx, dates); err != nil {
		return nil, err
	}
	return dates, nil
}

// UpsertHolidays stores new dates and invalidates the cache.
func (s *Store) UpsertHolidays(ctx context.Context, dates []time.Time, name string) error {
	if s.db == nil {
		return fmt.Errorf("upsert holidays: no database configured")
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range dates {
		if _, err := tx.Exec(ctx, `
			INSERT INTO holiday_dates (day, name) VALUES ($1, $2)
			ON CONFLICT (day) DO NOTHING`,
			d.Format(dateLayout), name,
		); err != nil {
			return fmt.Errorf("insert holiday %s: %w", d.Format(dateLayout), err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, holidayCacheKey).Err(); err != nil {
			return fmt.Errorf("invalidate holiday cache: %w", err)
		}
	}
	return nil
}

func (s *Store) cacheHolidays(ctx context.Context, dates []time.Time) error {
	if s.redis == nil || len(dates) == 0 {
		return nil
	}
	members := make([]interface{}, len(dates))
	for i, d := range dates {
		members[i] = d.Format(dateLayout)
	}
	pipe := s.redis.Pipeline()
	pipe.SAdd(ctx, holidayCacheKey, members...)
	pipe.Expire(ctx, holidayCacheKey, holidayCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write holiday cache: %w", err)
	}
	return nil
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}

// Calendar merges the stored dates with extra and builds a DateCalendar.
func (s *Store) Calendar(ctx context.Context, extra []time.Time) (*DateCalendar, error) {
	stored, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	return NewDateCalendar(append(stored, extra...)), nil
}
