// Package main provides the CLI entry point for the load generator.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/time/rate"

	"github.com/koperasi/tools/loadgen/internal/pool"
)

// Version information (populated at build time)
var (
	version   = "dev"
	gitCommit = "unknown"
)

// CLI flags
var (
	baseURL     string
	username    string
	password    string
	qps         float64
	duration    time.Duration
	workers     int
	seedMembers int
	showVersion bool
)

func init() {
	flag.StringVar(&baseURL, "base-url", "http://localhost:8080", "Base URL of the cooperative API")
	flag.StringVar(&username, "username", "admin", "Username for authentication")
	flag.StringVar(&password, "password", "", "Password for authentication")
	flag.Float64Var(&qps, "qps", 50, "Target requests per second")
	flag.DurationVar(&duration, "duration", time.Minute, "Test duration (e.g., 5m, 1h)")
	flag.DurationVar(&duration, "d", time.Minute, "Test duration (shorthand)")
	flag.IntVar(&workers, "workers", 10, "Number of concurrent workers")
	flag.IntVar(&seedMembers, "seed-members", 20, "Members to register before the run")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("loadgen %s (%s)\n", version, gitCommit)
		return
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "error: -password is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := newAPIClient(ctx, baseURL, username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	params := pool.NewShardedParameterPool(pool.PoolConfig{
		MaxValuesPerType: 10000,
		EvictionPolicy:   pool.EvictionFIFO,
		ShardCount:       16,
	})
	defer params.Close()

	fmt.Printf("Seeding %d members against %s\n", seedMembers, baseURL)
	if err := seed(ctx, client, params, seedMembers); err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running for %s at %.0f qps with %d workers\n", duration, qps, workers)
	stats := run(ctx, client, params, duration)
	stats.print(os.Stdout)
}

// apiClient is a thin authenticated HTTP client for the cooperative API.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(ctx context.Context, base, user, pass string) (*apiClient, error) {
	c := &apiClient{
		base: base + "/api/v1",
		http: &http.Client{Timeout: 10 * time.Second},
	}

	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": user,
		"password": pass,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return c, nil
}

// do sends a request and decodes the data field of the response envelope.
func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(raw, 200))
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// seed registers members and collects their IDs and savings account IDs
// into the parameter pool for the traffic phase.
func seed(ctx context.Context, client *apiClient, params pool.ParameterPool, count int) error {
	for i := 0; i < count; i++ {
		memberNumber := fmt.Sprintf("LG-%d-%04d", time.Now().Unix(), i)

		var registered struct {
			ID string `json:"id"`
		}
		err := client.do(ctx, http.MethodPost, "/members", map[string]any{
			"member_number": memberNumber,
			"full_name":     gofakeit.Name(),
			"email":         gofakeit.Email(),
			"phone":         gofakeit.Phone(),
			"joined_at":     time.Now().UTC().Format(time.RFC3339),
		}, &registered)
		if err != nil {
			return err
		}

		var detail struct {
			SavingsAccounts []struct {
				ID string `json:"id"`
			} `json:"savings_accounts"`
		}
		if err := client.do(ctx, http.MethodGet, "/members/"+registered.ID, nil, &detail); err != nil {
			return err
		}

		params.Add(ctx, pool.NewParameterValue(registered.ID, pool.SemanticTypeMemberID, 0).
			WithSource("POST /members", "$.data.id"))
		for _, acc := range detail.SavingsAccounts {
			params.Add(ctx, pool.NewParameterValue(acc.ID, pool.SemanticTypeAccountID, 0).
				WithSource("GET /members/:id", "$.data.savings_accounts[*].id"))
		}
	}
	return nil
}

// runStats aggregates request outcomes across workers.
type runStats struct {
	requests  atomic.Int64
	errors    atomic.Int64
	totalNano atomic.Int64
	byOp      sync.Map // op name -> *atomic.Int64
}

func (s *runStats) record(op string, elapsed time.Duration, err error) {
	s.requests.Add(1)
	s.totalNano.Add(int64(elapsed))
	if err != nil {
		s.errors.Add(1)
		return
	}
	counter, _ := s.byOp.LoadOrStore(op, &atomic.Int64{})
	counter.(*atomic.Int64).Add(1)
}

func (s *runStats) print(w io.Writer) {
	requests := s.requests.Load()
	fmt.Fprintf(w, "\nRequests:  %d\n", requests)
	fmt.Fprintf(w, "Errors:    %d\n", s.errors.Load())
	if requests > 0 {
		avg := time.Duration(s.totalNano.Load() / requests)
		fmt.Fprintf(w, "Avg latency: %s\n", avg.Round(time.Millisecond))
	}
	s.byOp.Range(func(key, value any) bool {
		fmt.Fprintf(w, "  %-22s %d\n", key, value.(*atomic.Int64).Load())
		return true
	})
}

// run drives mixed traffic against the API until the duration elapses.
func run(ctx context.Context, client *apiClient, params pool.ParameterPool, d time.Duration) *runStats {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(qps), workers)
	stats := &runStats{}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				fire(ctx, client, params, rng, stats)
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()

	return stats
}

// fire executes one randomly chosen operation using pooled parameters.
func fire(ctx context.Context, client *apiClient, params pool.ParameterPool, rng *rand.Rand, stats *runStats) {
	var (
		op  string
		err error
	)
	start := time.Now()

	switch n := rng.Intn(100); {
	case n < 40: // deposit
		op = "POST /savings/deposits"
		err = postTransaction(ctx, client, params, "/savings/deposits", 10_000+rng.Intn(490_000))
	case n < 55: // withdrawal, may legitimately bounce on balance
		op = "POST /savings/withdrawals"
		err = postTransaction(ctx, client, params, "/savings/withdrawals", 5_000+rng.Intn(95_000))
	case n < 80: // member detail
		op = "GET /members/:id"
		var v *pool.ParameterValue
		v, err = params.GetRandom(ctx, pool.SemanticTypeMemberID)
		if err == nil {
			err = client.do(ctx, http.MethodGet, "/members/"+v.Value.(string), nil, nil)
		}
	default: // ledger page
		op = "GET /savings/transactions"
		err = client.do(ctx, http.MethodGet, "/savings/transactions?page=1&page_size=20", nil, nil)
	}

	stats.record(op, time.Since(start), err)
}

func postTransaction(ctx context.Context, client *apiClient, params pool.ParameterPool, path string, amount int) error {
	v, err := params.GetRandom(ctx, pool.SemanticTypeAccountID)
	if err != nil {
		return err
	}
	return client.do(ctx, http.MethodPost, path, map[string]any{
		"account_id":  v.Value,
		"amount":      amount,
		"description": "load test traffic",
	}, nil)
}
