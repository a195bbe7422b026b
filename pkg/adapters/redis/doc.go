// Package redis provides Redis-backed adapters: the conversation store,
// the global search flag, the last-request snapshot and a distributed lock.
// Several bot replicas can share one Redis and behave as a single bot.
package redis
