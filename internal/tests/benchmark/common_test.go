package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/miniredis-go/internal/cli/connection"
	"github.com/yndnr/miniredis-go/internal/server/redisserver"
	"github.com/yndnr/miniredis-go/internal/storage/memory"
	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
)

// KeyCounts defines the keyspace sizes for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

// keyName returns the i-th benchmark key.
func keyName(i int) []byte {
	return []byte(fmt.Sprintf("key:%08d", i))
}

// prefillStore fills store with count keys holding a 64-byte value.
func prefillStore(store *memory.Store, count int) [][]byte {
	value := make([]byte, 64)
	keys := make([][]byte, count)
	for i := 0; i < count; i++ {
		keys[i] = keyName(i)
		store.Set(keys[i], value)
	}
	return keys
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various keyspace sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}

// startServer starts a RESP server on a loopback port and returns a
// connected client.
func startServer(b *testing.B, store *memory.Store) *connection.Client {
	b.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	srv := redisserver.New(cfg, redisserver.NewDispatcher(store, nil), nil, logger.Nop())
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("start server: %v", err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	client := connection.NewClient(srv.Addr().String(), 5*time.Second)
	if err := client.Connect(context.Background()); err != nil {
		b.Fatalf("connect: %v", err)
	}
	b.Cleanup(func() { _ = client.Close() })
	return client
}
