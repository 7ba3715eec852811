// Copyright (c) 2026 Steve Jovs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package qcache caches natural-language → Gmail query translations in
// Redis with a TTL, so repeated questions skip the model call. The cache
// is an optimisation only: a nil cache, a miss, or a Redis error all just
// mean the translator does its normal work.
package qcache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a translation is remembered. Gmail queries
	// built from relative terms (newer_than:7d) stay correct within this
	// window.
	DefaultTTL = 1 * time.Hour

	// keyPrefix namespaces translation keys in Redis.
	keyPrefix = "ragmail:query:"
)

// Cache stores query translations keyed by the normalized natural query.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a translation cache backed by Redis. A zero ttl selects
// DefaultTTL.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(naturalQuery string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(naturalQuery))
}

// Get returns the cached translation for a natural query, or "" on a miss.
func (c *Cache) Get(ctx context.Context, naturalQuery string) (string, error) {
	if c == nil || c.rdb == nil {
		return "", nil
	}

	val, err := c.rdb.Get(ctx, key(naturalQuery)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cache GET: %w", err)
	}
	return val, nil
}

// Put stores a translation with the configured TTL.
func (c *Cache) Put(ctx context.Context, naturalQuery, translated string) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	if err := c.rdb.Set(ctx, key(naturalQuery), translated, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache SET: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}
