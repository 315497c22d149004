// Package redis creates verified go-redis clients.
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL: "redis://localhost:6379/0",
//		RetryAttempts: 3,
//		RetryInterval: time.Second,
//	})
//
// Connect retries the initial ping with a doubling interval so that a
// server still starting up does not fail the process. Healthcheck returns a
// probe for readiness endpoints. Both redis:// and rediss:// URLs work.
package redis
