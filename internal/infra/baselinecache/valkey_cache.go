package baselinecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
)

// ValkeyCache stores resolved baselines in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "bikeshare"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key baseline.Key) (baseline.Resolution, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return baseline.Resolution{}, false, nil
		}
		return baseline.Resolution{}, false, err
	}
	var res baseline.Resolution
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return baseline.Resolution{}, false, err
	}
	return res, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key baseline.Key, res baseline.Resolution, ttl time.Duration) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key baseline.Key) string {
	return fmt.Sprintf("%s:baseline:%d:%d:%d", c.prefix, key.StationID, key.Weekday, key.Hour)
}

var _ baseline.Cache = (*ValkeyCache)(nil)
