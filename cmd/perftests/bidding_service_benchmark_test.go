package perftests

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"
)

// Benchmark 1: PlaceBid - Isolated Listings (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	ctx := context.Background()
	env := newBenchEnv(b, 50)
	listings := env.addAuctions(b, b.N, 50)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		bidAmount := float64(50 + rand.Intn(100))
		if _, err := env.svc.PlaceBid(ctx, listings[i], env.bidder(i), bidAmount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Listing (High Contention - Concurrency Benchmark)
func Benchmark_PlaceBid_ConcurrentSharedListing(b *testing.B) {
	ctx := context.Background()
	env := newBenchEnv(b, 100)
	listing := env.addAuctions(b, 1, 50)[0]

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 50

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			// concurrent bids can arrive out of order and lose to a higher one
			_, _ = env.svc.PlaceBid(ctx, listing, env.bidder(rnd.Int()), float64(nextBid))
		}
	})
}

// Benchmark 3: GetWinningBid - Single - Threaded (Low Contention)
func Benchmark_GetWinningBid_SingleThreaded(b *testing.B) {
	ctx := context.Background()
	env := newBenchEnv(b, 10)
	listings := env.addAuctions(b, b.N, 50)

	for i, id := range listings {
		for j := 0; j < 10; j++ {
			if _, err := env.svc.PlaceBid(ctx, id, env.bidder(i+j), float64(50+j*10)); err != nil {
				b.Fatalf("failed to seed bid: %v", err)
			}
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := env.svc.GetWinningBid(ctx, listings[i]); err != nil {
			b.Fatalf("failed to get winning bid: %v", err)
		}
	}
}

// Benchmark 4: GetWinningBid - Concurrent (High Contention)
func Benchmark_GetWinningBid_ConcurrentSharedListing(b *testing.B) {
	ctx := context.Background()
	env := newBenchEnv(b, 100)
	listing := env.addAuctions(b, 1, 50)[0]

	for j := 0; j < 100; j++ {
		if _, err := env.svc.PlaceBid(ctx, listing, env.bidder(j), float64(50+j)); err != nil {
			b.Fatalf("failed to seed bid: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var counter int64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := env.svc.GetWinningBid(ctx, listing); err != nil {
				b.Errorf("failed to get winning bid: %v", err)
				return
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}

// Benchmark 5: Mixed Workload (Readers + Writers concurrently)
func Benchmark_MixedWorkload_SharedListing(b *testing.B) {
	ctx := context.Background()
	env := newBenchEnv(b, 100)
	listing := env.addAuctions(b, 1, 50)[0]

	for j := 0; j < 50; j++ {
		if _, err := env.svc.PlaceBid(ctx, listing, env.bidder(j), float64(50+j*2)); err != nil {
			b.Fatalf("failed to seed bid: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 150
	var counter int64

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			switch opType := rnd.Intn(10); {
			case opType < 3:
				nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
				_, _ = env.svc.PlaceBid(ctx, listing, env.bidder(rnd.Int()), float64(nextBid))
			default:
				if _, err := env.svc.GetWinningBid(ctx, listing); err != nil {
					b.Errorf("read error: %v", err)
					return
				}
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}
