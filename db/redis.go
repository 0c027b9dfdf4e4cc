// db/redis.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/config"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

var RedisClient *redis.Client

// unlockScript deletes a lock only if it still holds the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func InitRedis(ctx context.Context) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         config.GetString("redis.addr"),
		Password:     config.GetString("redis.password"),
		DB:           config.GetInt("redis.db"),
		DialTimeout:  config.GetDuration("redis.dialTimeout"),
		ReadTimeout:  config.GetDuration("redis.readTimeout"),
		WriteTimeout: config.GetDuration("redis.writeTimeout"),
		PoolSize:     config.GetInt("redis.poolSize"),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(pingCtx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func portalSnapshotKey(profileID string) string {
	return fmt.Sprintf("portal:profile:%s", profileID)
}

// CachePortalSnapshot stores the published view of a profile. It has no
// TTL: it stays until the next publish replaces it.
func CachePortalSnapshot(ctx context.Context, snapshot *model.PortalSnapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal portal snapshot: %w", err)
	}

	err = RedisClient.Set(ctx, portalSnapshotKey(snapshot.ProfileID), snapshotJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to cache portal snapshot: %w", err)
	}

	logger.Debug("Portal snapshot cached successfully", zap.String("profileID", snapshot.ProfileID))
	return nil
}

func GetCachedPortalSnapshot(ctx context.Context, profileID string) (*model.PortalSnapshot, error) {
	snapshotJSON, err := RedisClient.Get(ctx, portalSnapshotKey(profileID)).Result()
	if err == redis.Nil {
		logger.Debug("Portal snapshot not found in cache", zap.String("profileID", profileID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get portal snapshot from cache: %w", err)
	}

	var snapshot model.PortalSnapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal portal snapshot: %w", err)
	}

	logger.Debug("Portal snapshot retrieved from cache", zap.String("profileID", profileID))
	return &snapshot, nil
}

func DeleteCachedPortalSnapshot(ctx context.Context, profileID string) error {
	if err := RedisClient.Del(ctx, portalSnapshotKey(profileID)).Err(); err != nil {
		return fmt.Errorf("failed to delete portal snapshot from cache: %w", err)
	}
	logger.Debug("Portal snapshot deleted from cache", zap.String("profileID", profileID))
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

// LockResource tries to take a lock for ttl. On success it returns the token
// needed to release it; an empty token means the lock is held elsewhere.
func LockResource(ctx context.Context, resourceName string, ttl time.Duration) (string, error) {
	key := fmt.Sprintf("lock:%s", resourceName)
	token := uuid.New().String()
	locked, err := RedisClient.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire lock: %w", err)
	}
	logger.Debug("Lock acquisition attempt",
		zap.String("resource", resourceName),
		zap.Bool("locked", locked))
	if !locked {
		return "", nil
	}
	return token, nil
}

func UnlockResource(ctx context.Context, resourceName, token string) error {
	key := fmt.Sprintf("lock:%s", resourceName)
	if err := unlockScript.Run(ctx, RedisClient, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	logger.Debug("Lock released", zap.String("resource", resourceName))
	return nil
}
