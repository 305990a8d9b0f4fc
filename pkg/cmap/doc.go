// Package cmap provides a sharded concurrent map keyed by strings.
//
// Keys are spread over a power-of-two number of shards using murmur3;
// each shard carries its own RWMutex, so readers of different shards
// never contend.
//
//	users := cmap.New[string, *domain.Account]()
//	users.Set(id, account)
//	acc, ok := users.Get(id)
package cmap
