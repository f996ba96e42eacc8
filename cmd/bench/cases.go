// README: Bench cases for the toll API; fee scenarios, shell guards, storage checks and load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"

	holidayCacheKey = "toll:holidays"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	passage := r.cfg.BaseURL + "/api/v1/toll/passage"
	passages := r.cfg.BaseURL + "/api/v1/toll/passages"

	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "holiday store reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "holiday cache reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "apply migration SQL",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "tables from the migration file are present",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Cache: holiday set populated",
			Focus: "toll-api fills the Redis holiday cache at startup",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil || r.db == nil {
					return Result{Status: statusSkip, Note: "db and redis required"}
				}
				n, err := r.redis.SCard(ctx, holidayCacheKey).Result()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: statusFail, Note: "cache empty"}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("dates=%d", n)}
			},
		},
		{
			Name:  "API: health",
			Focus: "server reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
				start := time.Now()
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				return Result{Status: statusPass, Latency: time.Since(start)}
			},
		},

		// Single passage fees
		feeCase("Fee: 06:15 -> 8", passage, passageBody("car", "2013-03-11T06:15:00"), 8),
		feeCase("Fee: 07:30 -> 18", passage, passageBody("car", "2013-03-11T07:30:00"), 18),
		feeCase("Fee: 15:29 -> 13", passage, passageBody("car", "2013-03-11T15:29:00"), 13),
		feeCase("Fee: 15:30 -> 18", passage, passageBody("car", "2013-03-11T15:30:00"), 18),
		feeCase("Fee: 18:30 -> 0", passage, passageBody("car", "2013-03-11T18:30:00"), 0),
		feeCase("Fee: Saturday -> 0", passage, passageBody("car", "2013-03-09T07:30:00"), 0),
		feeCase("Fee: holiday -> 0", passage, passageBody("car", "2013-12-24T07:30:00"), 0),
		feeCase("Fee: July -> 0", passage, passageBody("car", "2013-07-15T07:30:00"), 0),
		feeCase("Fee: exempt vehicle -> 0", passage, passageBody("diplomat", "2013-03-11T07:30:00"), 0),

		// Windows and cap
		totalCase("Window: 06:10/06:40/07:09 -> 18", passages, passagesBody("car",
			"2013-03-11T06:10:00", "2013-03-11T06:40:00", "2013-03-11T07:09:00"), 18),
		totalCase("Daily: 44", passages, passagesBody("car",
			"2013-03-11T06:10:00", "2013-03-11T06:40:00", "2013-03-11T07:09:00",
			"2013-03-11T08:20:00", "2013-03-11T15:00:00"), 44),
		totalCase("Daily: capped at 60", passages, passagesBody("car",
			"2013-03-11T06:00:00", "2013-03-11T07:15:00", "2013-03-11T08:20:00",
			"2013-03-11T15:35:00", "2013-03-11T16:40:00", "2013-03-11T17:45:00"), 60),
		totalCase("Multi-day: 44 + 44 = 88", passages, passagesBody("car",
			"2013-03-11T06:10:00", "2013-03-11T06:40:00", "2013-03-11T07:09:00",
			"2013-03-11T08:20:00", "2013-03-11T15:00:00",
			"2013-03-12T06:10:00", "2013-03-12T06:40:00", "2013-03-12T07:09:00",
			"2013-03-12T08:20:00", "2013-03-12T15:00:00"), 88),
		totalCase("Empty passages -> 0", passages, passagesBody("car"), 0),
		totalCase("Undefined vehicle -> 0", passages, passagesBody("undefined", "2013-03-11T07:30:00"), 0),

		// Shell guards
		statusCase("Guard: unknown vehicle -> 400", passage, passageBody("boat", "2013-03-11T07:30:00"), http.StatusBadRequest),
		statusCase("Guard: bad timestamp -> 400", passage, passageBody("car", "noon"), http.StatusBadRequest),
		statusCase("Guard: missing body -> 400", passage, nil, http.StatusBadRequest),

		{
			Name:  "Concurrency: identical requests agree",
			Focus: "shared service returns the same total to every caller",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentAgree(ctx, r, passages, passagesBody("car",
					"2013-03-11T06:10:00", "2013-03-11T08:20:00", "2013-03-11T15:00:00"))
			},
		},
		{
			Name:  "Perf: passages throughput",
			Focus: "sustained multi-passage calculations",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, passages, passagesBody("car",
					"2013-03-11T06:10:00", "2013-03-11T06:40:00", "2013-03-11T07:09:00",
					"2013-03-11T08:20:00", "2013-03-11T15:00:00"))
			},
		},
	}
}

func passageBody(vehicle, at string) map[string]any {
	return map[string]any{"vehicle": vehicle, "passage": at}
}

func passagesBody(vehicle string, at ...string) map[string]any {
	if at == nil {
		at = []string{}
	}
	return map[string]any{"vehicle": vehicle, "passages": at}
}

func (r *Runner) post(ctx context.Context, url string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	return resp.StatusCode, out, time.Since(start), err
}

func statusCase(name, url string, body any, want int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			code, _, latency, err := r.post(ctx, url, body)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			if code != want {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", code, want)}
			}
			return Result{Status: statusPass, Latency: latency}
		},
	}
}

func feeCase(name, url string, body any, want int) TestCase {
	return amountCase(name, url, body, "fee", want)
}

func totalCase(name, url string, body any, want int) TestCase {
	return amountCase(name, url, body, "total", want)
}

func amountCase(name, url string, body any, field string, want int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			code, raw, latency, err := r.post(ctx, url, body)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			if code != http.StatusOK {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", code)}
			}
			var resp map[string]any
			if err := json.Unmarshal(raw, &resp); err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}
			got, _ := resp[field].(float64)
			if int(got) != want {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("%s=%v want=%d", field, resp[field], want)}
			}
			return Result{Status: statusPass, Latency: latency}
		},
	}
}

func concurrentAgree(ctx context.Context, r *Runner, url string, body any) Result {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		bodies = map[string]int{}
		errs   int
	)

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, raw, _, err := r.post(ctx, url, body)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || code != http.StatusOK {
				errs++
				return
			}
			bodies[string(raw)]++
		}()
	}
	wg.Wait()

	if errs > 0 {
		return Result{Status: statusFail, Note: fmt.Sprintf("errors=%d", errs)}
	}
	if len(bodies) != 1 {
		return Result{Status: statusFail, Note: fmt.Sprintf("distinct responses=%d", len(bodies))}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("requests=%d", r.cfg.Concurrency)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				code, _, _, err := r.post(ctx, url, payload)
				if err != nil || code != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
