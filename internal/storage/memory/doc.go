// Package memory provides the in-memory keyspace for miniredis.
//
// The Store maps opaque byte-string keys to opaque byte-string values and
// remembers the order in which keys were first inserted, so that listing
// the keyspace is reproducible across runs.
//
// Thread Safety:
//
// Connections are served by independent goroutines, so every operation
// takes the store mutex. Multi-key operations (DeleteMany, CountExisting)
// hold the lock for the whole call and therefore observe a single
// consistent snapshot of the keyspace.
package memory
