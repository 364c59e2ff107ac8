// Command postbench seeds posts/blogs through the use-case layer and reports
// write and list latencies against the configured database.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/blog-service/config"
	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/repository"
	"github.com/d60-Lab/blog-service/internal/usecase"
	"github.com/d60-Lab/blog-service/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	mgr := must(database.NewManager(cfg.Database))
	ctx := context.Background()
	if err := mgr.Connect(ctx); err != nil {
		panic(err)
	}
	defer func() { _ = mgr.Disconnect() }()
	if err := mgr.Migrate(model.All()...); err != nil {
		panic(err)
	}

	N := envInt("N", 2000)
	CONC := envInt("CONC", 8)
	LISTS := envInt("LISTS", 50)

	db := mgr.Client()
	posts := usecase.NewPostUseCases(repository.NewPostRepository(db))
	blogs := usecase.NewBlogUseCases(repository.NewBlogRepository(db))

	// dispatch N creates with CONC workers
	workers := CONC
	if workers > N {
		workers = N
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	writeCh := make(chan time.Duration, N)
	errCh := make(chan int, workers)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		go func() {
			failed := 0
			for i := range feed {
				tag := uuid.New().String()[:8]
				st := time.Now()
				var err error
				if i%2 == 0 {
					_, err = posts.Create.Execute(ctx, model.CreatePostData{Title: "post-" + tag, Content: "bench"})
				} else {
					_, err = blogs.Create.Execute(ctx, model.CreateBlogData{Title: "blog-" + tag, Content: "bench", Author: "bench"})
				}
				if err != nil {
					failed++
					continue
				}
				writeCh <- time.Since(st)
			}
			errCh <- failed
		}()
	}
	failed := 0
	for w := 0; w < workers; w++ {
		failed += <-errCh
	}
	close(writeCh)
	writeDur := time.Since(t0)
	writes := make([]time.Duration, 0, N)
	for d := range writeCh {
		writes = append(writes, d)
	}

	// list queries（无分页，全量读取）
	listRecs := make([]time.Duration, 0, LISTS)
	var rows int
	for i := 0; i < LISTS; i++ {
		st := time.Now()
		list, err := posts.List.Execute(ctx)
		if err != nil {
			panic(err)
		}
		listRecs = append(listRecs, time.Since(st))
		rows = len(list)
	}

	fmt.Printf("N=%d, CONC=%d, LISTS=%d\n", N, CONC, LISTS)
	fmt.Printf("Create total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failed: %d\n",
		writeDur, writeDur/time.Duration(N), pct(writes, 0.50), pct(writes, 0.95), pct(writes, 0.99), failed)
	fmt.Printf("List posts (%d rows): p50: %v, p95: %v, p99: %v\n",
		rows, pct(listRecs, 0.50), pct(listRecs, 0.95), pct(listRecs, 0.99))
	fmt.Printf("Liveness probe: connected=%v\n", mgr.IsConnected(ctx))
}
