// Package redis wraps go-redis with reqkit logging, configuration
// conventions and component lifecycle.
//
// It backs shared caches such as the redis token store of package auth:
//
//	client, err := redis.New(redis.Config{Enabled: true, Addr: "localhost:6379"}, log)
//	store := redis.NewTypedStore[auth.Token](client, "reqkit:tokens")
//
// Package redistest provides an in-memory server for tests.
package redis
