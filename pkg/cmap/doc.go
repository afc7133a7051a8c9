// Package cmap provides a concurrent map keyed by string.
//
// Keys are spread over a power-of-two number of shards chosen by a
// murmur3 hash, each shard guarded by its own RWMutex, so unrelated keys
// rarely contend.
//
// Usage:
//
//	m := cmap.New[*rate.Limiter]()
//	lim := m.GetOrCreate(ip, func() *rate.Limiter { return rate.NewLimiter(r, b) })
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has) use RLock,
// write operations (Set, Delete, GetOrCreate) use Lock.
package cmap
