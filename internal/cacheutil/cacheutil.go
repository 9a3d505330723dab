// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/pagediff/internal/log"
)

// Env variables controlling the cache.
const (
	EnvDir     = "PAGEDIFF_CACHE_DIR"
	EnvEnabled = "PAGEDIFF_CACHE"
)

// Cache stores immutable blobs, such as remote snapshot bodies, under
// sha256-named files. The zero value is disabled.
type Cache struct {
	Base string
}

// Dir resolves the base cache directory.
// Precedence:
//  1. PAGEDIFF_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/pagediff
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv(EnvDir); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "pagediff"), true
	}
	return "", false
}

// Enabled returns true unless PAGEDIFF_CACHE explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled := os.Getenv(EnvEnabled)
	return enabled != "0" && enabled != "false"
}

// Default returns the cache described by the environment, rooted at subdir.
// A disabled or unresolvable cache is returned as the zero Cache.
func Default(subdir ...string) Cache {
	if !Enabled() {
		return Cache{}
	}
	base, ok := Dir()
	if !ok {
		return Cache{}
	}
	return Cache{Base: filepath.Join(append([]string{base}, subdir...)...)}
}

// Enabled reports whether c stores anything.
func (c Cache) Enabled() bool {
	return c.Base != ""
}

// Path returns where the entry for key lives.
func (c Cache) Path(key string) string {
	encoded := encodeKey(key)
	return filepath.Join(c.Base, encoded[:2], encoded)
}

// Get returns the entry for key.
func (c Cache) Get(key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	b, err := os.ReadFile(c.Path(key))
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", key)
	return b, true
}

// Put stores data for key, creating directories as needed. A disabled cache
// silently drops the data.
func (c Cache) Put(key string, data []byte) error {
	if !c.Enabled() {
		return nil
	}
	p := c.Path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write then rename so a concurrent reader never sees a partial entry.
	tmp, err := os.CreateTemp(filepath.Dir(p), ".put-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", key)
	return nil
}

// Purge removes entries older than maxAge and returns how many were removed.
// A non-positive maxAge removes nothing.
func (c Cache) Purge(maxAge time.Duration) (int, error) {
	if !c.Enabled() || maxAge <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}

	removed := 0
	err := filepath.WalkDir(c.Base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Gone between listing and stat.
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				removed++
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}
	return removed, nil
}

func encodeKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
