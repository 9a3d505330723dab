// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/pagediff/internal/cacheutil"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// fakeS3 is an in-memory bucket that pages listings two keys at a time.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3v2.ListObjectsV2Input, _ ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, awsv2.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := min(start+2, len(keys))

	out := &s3v2.ListObjectsV2Output{IsTruncated: awsv2.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: awsv2.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = awsv2.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++

	data, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[awsv2.ToString(in.Key)] = data
	return &s3v2.PutObjectOutput{}, nil
}

type failingS3 struct{ *fakeS3 }

func (failingS3) PutObject(context.Context, *s3v2.PutObjectInput, ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	return nil, errors.New("access denied")
}

func newStore(t *testing.T, client Client, cache cacheutil.Cache) *StoreS3 {
	t.Helper()
	st, err := NewStoreS3(context.Background(), nil,
		WithBucket("snapshots"),
		WithPrefix("/team/pagediff/"),
		WithClient(client),
		WithCache(cache),
	)
	require.NoError(t, err)
	return st
}

func TestNewStoreS3_RequiresBucket(t *testing.T) {
	_, err := NewStoreS3(context.Background(), nil, WithClient(newFakeS3()))
	assert.ErrorContains(t, err, "requires a bucket")
}

func TestStoreS3_AppendList(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	st := newStore(t, fake, cacheutil.Cache{})
	assert.Equal(t, "s3://snapshots/team/pagediff", st.String())

	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i, body := range []string{"one", "two", "three"} {
		s, err := snapshot.New("https://example.com/", body, t0.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, st.Append(ctx, s))
		ids = append(ids, s.ID)
	}
	other, _ := snapshot.New("https://example.com/other", "x", t0)
	require.NoError(t, st.Append(ctx, other))

	for k := range fake.objects {
		assert.True(t, strings.HasPrefix(k, "team/pagediff/"), k)
		assert.True(t, strings.HasSuffix(k, ".json"), k)
	}

	got, err := st.List(ctx, "https://example.com/")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "three", got[0].Body)
	assert.Equal(t, "two", got[1].Body)
	assert.Equal(t, "one", got[2].Body)
	assert.Equal(t, ids[2], got[0].ID)

	latest, err := st.Latest(ctx, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "three", latest.Body)
}

func TestStoreS3_NoBaseline(t *testing.T) {
	st := newStore(t, newFakeS3(), cacheutil.Cache{})
	_, err := st.Latest(context.Background(), "https://example.com/")
	assert.ErrorIs(t, err, snapshot.ErrNoBaseline)
}

func TestStoreS3_CachesBodies(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	writer := newStore(t, fake, cacheutil.Cache{})
	s, _ := snapshot.New("p", "body", time.Now())
	require.NoError(t, writer.Append(ctx, s))

	reader := newStore(t, fake, cacheutil.Cache{Base: t.TempDir()})

	_, err := reader.List(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.gets)

	got, err := reader.List(ctx, "p")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "body", got[0].Body)
	assert.Equal(t, 1, fake.gets, "second listing is served from cache")
}

func TestStoreS3_SkipsBadObjects(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	st := newStore(t, fake, cacheutil.Cache{})
	s, _ := snapshot.New("p", "body", time.Now())
	require.NoError(t, st.Append(ctx, s))

	prefix := st.pagePrefix("p")
	fake.objects[prefix+"junk.json"] = []byte("{")
	fake.objects[prefix+"notes.txt"] = []byte("ignored")

	got, err := st.List(ctx, "p")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, s.ID, got[0].ID)
}

func TestStoreS3_AppendError(t *testing.T) {
	st := newStore(t, failingS3{newFakeS3()}, cacheutil.Cache{})
	s, _ := snapshot.New("p", "body", time.Now())
	assert.ErrorContains(t, st.Append(context.Background(), s), "access denied")
}
