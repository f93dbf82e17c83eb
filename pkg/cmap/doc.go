// Package cmap provides a sharded concurrent map keyed by strings.
//
// Every operation takes the lock of a single shard, so operations on
// different keys rarely contend. Operations that must be atomic for one
// key (SetIfAbsent, DeleteIf) run entirely under that key's shard lock.
//
// Usage:
//
//	m := cmap.New[string, *Conn]()
//	if !m.SetIfAbsent("alice", conn) {
//		// someone else holds "alice"
//	}
//	m.DeleteIf("alice", func(c *Conn) bool { return c == conn })
//
// Keys are hashed with murmur3 using a per-map random seed.
package cmap
