package preflight

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CheckRedis verifies the redis CLI is installed and the server answers a
// ping. A present CLI with a dead server is a distinct failure from a
// missing install; both block, with different remedies.
func (c *Checker) CheckRedis(ctx context.Context) CheckResult {
	result := CheckResult{
		Name:     "redis",
		Required: true,
	}

	path, err := c.lookPath("redis-cli")
	if err != nil {
		result.Status = StatusFail
		result.Message = "not installed"
		result.Remedy = "sudo apt-get install redis-server"
		return result
	}
	result.Details = path

	if err := c.pingRedis(ctx); err != nil {
		result.Status = StatusFail
		result.Message = "installed but not running (" + c.redisAddr + ")"
		result.Remedy = "sudo systemctl start redis-server"
		return result
	}

	result.Status = StatusPass
	result.Message = "running at " + c.redisAddr
	return result
}

// pingRedis issues a single round trip with a short deadline.
func (c *Checker) pingRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:        c.redisAddr,
		DialTimeout: c.pingTimeout,
		ReadTimeout: c.pingTimeout,
		// One shot, no reconnect loops.
		MaxRetries: -1,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	return client.Ping(ctx).Err()
}
