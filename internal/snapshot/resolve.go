// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Resolve takes a newest-first history plus specs and returns the snapshot
// each spec selects, in spec order. No specs selects the newest.
func Resolve(snaps []Snapshot, specs ...string) ([]Snapshot, error) {
	if len(specs) == 0 {
		specs = []string{"~0"}
	}

	result := make([]Snapshot, 0, len(specs))
	for _, spec := range specs {
		s, err := resolveSpec(spec, snaps)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, nil
}

func resolveSpec(spec string, snaps []Snapshot) (Snapshot, error) {
	upper := strings.ToUpper(spec)
	switch {
	case spec == "":
		return Snapshot{}, fmt.Errorf("%w: empty spec", ErrNotFound)

	case strings.HasPrefix(upper, "CSV~"):
		return resolveIndex(spec[len("CSV~"):], snaps)

	case strings.HasPrefix(spec, "~"):
		return resolveIndex(spec[1:], snaps)

	case isRelative(spec):
		return resolveIndex(strings.TrimPrefix(spec, "-"), snaps)

	case isFilePath(spec):
		return resolveFile(spec)

	default:
		return resolveID(spec, snaps)
	}
}

func resolveIndex(n string, snaps []Snapshot) (Snapshot, error) {
	index, err := strconv.Atoi(n)
	if err != nil || index < 0 {
		return Snapshot{}, fmt.Errorf("invalid snapshot index: %s", n)
	}

	if index > len(snaps)-1 {
		return Snapshot{}, fmt.Errorf("%w: index %d out of range for history of length %d", ErrNotFound, index, len(snaps))
	}

	return snaps[index], nil
}

// resolveFile reads spec as an ad-hoc snapshot whose ID and page are the path.
func resolveFile(spec string) (Snapshot, error) {
	body, err := os.ReadFile(spec)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot file: %w", err)
	}
	stat, err := os.Stat(spec)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot file: %w", err)
	}

	return Snapshot{
		ID:         spec,
		Page:       spec,
		CapturedAt: stat.ModTime().UTC(),
		Hash:       Hash(string(body)),
		Body:       string(body),
	}, nil
}

func resolveID(spec string, snaps []Snapshot) (Snapshot, error) {
	for _, s := range snaps {
		if strings.HasPrefix(s.ID, spec) {
			return s, nil
		}
	}

	return Snapshot{}, fmt.Errorf("%w: no snapshot with ID prefix %s", ErrNotFound, spec)
}

// isRelative matches "0" and "-N". A bare positive number is left to the ID
// prefix match since UUIDv7 IDs often start with digits.
func isRelative(s string) bool {
	if s == "0" {
		return true
	}
	if !strings.HasPrefix(s, "-") {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

func isFilePath(s string) bool {
	info, err := os.Stat(s)
	return err == nil && !info.IsDir()
}
