package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	config "github.com/tutorlink/tutorlink/configs"
	"github.com/tutorlink/tutorlink/models"
)

const (
	directoryKey = "tutors:directory"
	directoryTTL = 5 * time.Minute
)

// InitRedis returns nil when no address is configured; the directory
// cache then degrades to a no-op and every listing hits the database.
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// TutorDirectory caches the unfiltered tutor listing. It is purely an
// optimization: it is invalidated on every profile update and review
// submission, and correctness never depends on it.
type TutorDirectory struct {
	rdb *redis.Client
}

func NewTutorDirectory(rdb *redis.Client) *TutorDirectory {
	return &TutorDirectory{rdb: rdb}
}

func (d *TutorDirectory) Get(ctx context.Context) ([]models.TutorProfile, bool) {
	if d.rdb == nil {
		return nil, false
	}
	raw, err := d.rdb.Get(ctx, directoryKey).Bytes()
	if err != nil {
		return nil, false
	}
	var profiles []models.TutorProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, false
	}
	return profiles, true
}

func (d *TutorDirectory) Set(ctx context.Context, profiles []models.TutorProfile) {
	if d.rdb == nil {
		return
	}
	raw, err := json.Marshal(profiles)
	if err != nil {
		return
	}
	d.rdb.Set(ctx, directoryKey, raw, directoryTTL)
}

func (d *TutorDirectory) Invalidate(ctx context.Context) {
	if d.rdb == nil {
		return
	}
	d.rdb.Del(ctx, directoryKey)
}
