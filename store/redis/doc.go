// Package redis implements store.Store using go-redis/v9. Entities are
// stored as Hashes with msgpack-encoded metadata, and the version-guarded
// status write runs as a Lua script so check and write are one atomic step.
//
// The caller owns the Redis client lifecycle -- redis never closes it:
//
//	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	store := redis.New(client)
//	if err := store.Ping(ctx); err != nil { ... }
package redis
