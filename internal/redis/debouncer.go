package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// likeDebounceInterval is how long a session's like on a given whisper
// suppresses repeats. The key expires on its own; nothing to prune.
const likeDebounceInterval = 1 * time.Hour

// LikeDebouncer implements domain.LikeDebouncer with a SETNX-and-TTL key
// per (whisper, session) pair.
type LikeDebouncer struct {
	rdb *goredis.Client
}

func NewLikeDebouncer(rdb *goredis.Client) *LikeDebouncer {
	return &LikeDebouncer{rdb: rdb}
}

// CheckDebounce returns true when the like may proceed. The first caller for
// a pair wins the SETNX; everyone else inside the interval is suppressed.
func (d *LikeDebouncer) CheckDebounce(ctx context.Context, whisperID, sessionID uuid.UUID) (bool, error) {
	set, err := d.rdb.SetNX(ctx, likeKey(whisperID, sessionID), "1", likeDebounceInterval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check like debounce: %w", err)
	}
	return set, nil
}

func likeKey(whisperID, sessionID uuid.UUID) string {
	return "like:" + whisperID.String() + ":" + sessionID.String()
}
