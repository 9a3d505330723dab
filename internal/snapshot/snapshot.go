// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoBaseline is returned when a page has no stored snapshot.
	ErrNoBaseline = errors.New("no baseline history")

	// ErrNotFound is returned when a spec matches no snapshot.
	ErrNotFound = errors.New("snapshot not found")
)

// Snapshot is one captured body of a page.
type Snapshot struct {
	ID         string    `json:"id" yaml:"id"`
	Page       string    `json:"page" yaml:"page"`
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`
	Hash       string    `json:"hash" yaml:"hash"`
	Body       string    `json:"body,omitempty" yaml:"body,omitempty"`
}

// New returns a snapshot of body for page, stamped with at. The ID is a
// UUIDv7, so IDs of one page sort in capture order.
func New(page, body string, at time.Time) (Snapshot, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Snapshot{}, fmt.Errorf("generating snapshot id: %w", err)
	}

	return Snapshot{
		ID:         id.String(),
		Page:       CanonicalPage(page),
		CapturedAt: at.UTC(),
		Hash:       Hash(body),
		Body:       body,
	}, nil
}

// Hash returns the hex sha256 of body.
func Hash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// CanonicalPage trims page and, for URLs, lowercases scheme and host and
// drops the fragment so that equivalent addresses share one history.
func CanonicalPage(page string) string {
	page = strings.TrimSpace(page)
	u, err := url.Parse(page)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return page
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// PageKey is the storage-safe key of page.
func PageKey(page string) string {
	return Hash(CanonicalPage(page))
}

// Sort orders snapshots newest first. Ties fall back to descending ID.
func Sort(snaps []Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].CapturedAt.Equal(snaps[j].CapturedAt) {
			return snaps[i].CapturedAt.After(snaps[j].CapturedAt)
		}
		return snaps[i].ID > snaps[j].ID
	})
}

// Latest returns the first of a newest-first list.
func Latest(snaps []Snapshot, page string) (Snapshot, error) {
	if len(snaps) == 0 {
		return Snapshot{}, fmt.Errorf("%w for: %s", ErrNoBaseline, page)
	}
	return snaps[0], nil
}
