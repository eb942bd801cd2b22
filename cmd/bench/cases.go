// README: Benchmark cases covering storage, validation, the session gate, budget and export.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"wanderlust/internal/http/handlers"
	"wanderlust/internal/infra"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

var tables = []string{"itineraries", "trip_budgets", "activity_costs"}

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// itineraryID is set by the generation case for the cases that follow it.
	itineraryID string
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 90 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := infra.NewDB(ctx, r.cfg.DSN); err == nil {
			r.db = db
		} else {
			fmt.Printf("db: %v\n", err)
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
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
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
	unknownID := uuid.NewString()
	return []TestCase{
		{Name: "Env: Postgres connect", Run: checkDB},
		{Name: "Env: Redis connect", Run: checkRedis},
		{Name: "Migration: apply (optional)", Run: applyMigrations},
		{Name: "Migration: tables exist", Run: checkTables},
		{Name: "API: health", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/health", nil, "", http.StatusOK)
		}},

		// Validation never reaches the AI provider.
		httpCase("Prefs: empty destination -> 400", map[string]any{"destination": "", "duration": 3, "interests": "food"}, http.StatusBadRequest),
		httpCase("Prefs: duration 0 -> 400", map[string]any{"destination": "Rome", "duration": 0, "interests": "food"}, http.StatusBadRequest),
		httpCase("Prefs: duration 31 -> 400", map[string]any{"destination": "Rome", "duration": 31, "interests": "food"}, http.StatusBadRequest),
		httpCase("Prefs: fractional duration -> 400", map[string]any{"destination": "Rome", "duration": "2.5", "interests": "food"}, http.StatusBadRequest),
		httpCase("Prefs: empty interests -> 400", map[string]any{"destination": "Rome", "duration": 2, "interests": " "}, http.StatusBadRequest),
		{Name: "Session: missing header -> 400", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/itineraries",
				map[string]any{"destination": "Rome", "duration": 2, "interests": "food"}, "", http.StatusBadRequest)
		}},
		{Name: "Session: fresh session is idle", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/api/itineraries/latest", nil, uuid.NewString(), http.StatusOK)
		}},
		{Name: "Lookup: unknown itinerary -> 404", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/api/itineraries/"+unknownID, nil, "", http.StatusNotFound)
		}},
		{Name: "Export: unknown itinerary pdf -> 404", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/api/itineraries/"+unknownID+"/pdf", nil, "", http.StatusNotFound)
		}},

		// Generation flow (calls the provider)
		{Name: "Generate: 2-day itinerary", Run: generate},
		{Name: "Concurrency: one in-flight generation per session", Run: concurrentSubmit},
		{Name: "Budget: set total and activity cost", Run: budgetFlow},
		{Name: "Export: pdf", Run: func(ctx context.Context, r *Runner) Result {
			if r.itineraryID == "" {
				return Result{Status: StatusSkip, Note: "no itinerary generated"}
			}
			return r.expect(ctx, http.MethodGet, "/api/itineraries/"+r.itineraryID+"/pdf", nil, "", http.StatusOK)
		}},

		// Performance
		{Name: "Perf: latest-result polling throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, http.MethodGet, "/api/itineraries/latest", nil)
		}},
	}
}

func checkDB(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func checkRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func applyMigrations(ctx context.Context, r *Runner) Result {
	if !r.cfg.ApplyMigration {
		return Result{Status: StatusSkip, Note: "apply-migration=false"}
	}
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	if err := infra.ApplyMigrations(ctx, r.db, r.cfg.MigrationsDir); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func checkTables(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	for _, t := range tables {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
			t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: StatusFail, Note: "missing table: " + t}
		}
	}
	return Result{Status: StatusPass}
}

func generate(ctx context.Context, r *Runner) Result {
	if !r.cfg.Generate {
		return Result{Status: StatusSkip, Note: "generate=false"}
	}
	start := time.Now()
	status, body, err := r.do(ctx, http.MethodPost, "/api/itineraries",
		map[string]any{"destination": "Lisbon, Portugal", "duration": 2, "interests": "history, food"}, uuid.NewString())
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	latency := time.Since(start)
	if status != http.StatusOK {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d body=%s", status, body)}
	}
	var res struct {
		ID        string `json:"id"`
		Itinerary struct {
			Days []json.RawMessage `json:"days"`
		} `json:"itinerary"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
	}
	if len(res.Itinerary.Days) != 2 {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("days=%d", len(res.Itinerary.Days))}
	}
	r.itineraryID = res.ID
	return Result{Status: StatusPass, Latency: latency, Note: "id=" + res.ID}
}

func concurrentSubmit(ctx context.Context, r *Runner) Result {
	if !r.cfg.Generate {
		return Result{Status: StatusSkip, Note: "generate=false"}
	}
	sid := uuid.NewString()
	payload := map[string]any{"destination": "Porto, Portugal", "duration": 1, "interests": "wine"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	counts := map[int]int{}
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _, err := r.do(ctx, http.MethodPost, "/api/itineraries", payload, sid)
			if err != nil {
				return
			}
			mu.Lock()
			counts[status]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	started := counts[http.StatusOK] + counts[http.StatusBadGateway]
	if started <= 1 {
		return Result{Status: StatusPass, Note: fmt.Sprintf("statuses=%v", counts)}
	}
	return Result{Status: StatusFail, Note: fmt.Sprintf("statuses=%v", counts)}
}

func budgetFlow(ctx context.Context, r *Runner) Result {
	if r.itineraryID == "" {
		return Result{Status: StatusSkip, Note: "no itinerary generated"}
	}
	base := "/api/itineraries/" + r.itineraryID + "/budget"
	if res := r.expect(ctx, http.MethodPut, base, map[string]any{"total": 500}, "", http.StatusOK); res.Status != StatusPass {
		return res
	}
	if res := r.expect(ctx, http.MethodPut, base+"/activities",
		map[string]any{"day_index": 0, "activity_index": 0, "amount": -1}, "", http.StatusBadRequest); res.Status != StatusPass {
		return res
	}
	return r.expect(ctx, http.MethodPut, base+"/activities",
		map[string]any{"day_index": 0, "activity_index": 0, "amount": 42.5}, "", http.StatusOK)
}

func httpCase(name string, body any, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/itineraries", body, uuid.NewString(), want)
		},
	}
}

func (r *Runner) expect(ctx context.Context, method, path string, body any, sessionID string, want int) Result {
	start := time.Now()
	status, _, err := r.do(ctx, method, path, body, sessionID)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	latency := time.Since(start)
	if status != want {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", status, want)}
	}
	return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
}

func (r *Runner) do(ctx context.Context, method, path string, body any, sessionID string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(handlers.SessionHeader, sessionID)
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

func perfLoad(ctx context.Context, r *Runner, method, path string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		sid := uuid.NewString()
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, err := r.do(ctx, method, path, payload, sid)
				mu.Lock()
				if err != nil || status >= 500 {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}
