// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/pagediff/internal/cacheutil"
	"github.com/tfctl/pagediff/internal/config"
	"github.com/tfctl/pagediff/internal/log"
	"github.com/tfctl/pagediff/internal/snapshot"
)

// Client is the part of the S3 API the store uses.
type Client interface {
	s3v2.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// StoreS3 keeps snapshots as JSON objects at
// <prefix>/<page key>/<unix nanos>-<id>.json. Objects are never rewritten, so
// their bodies are cached on disk by object key.
type StoreS3 struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	Client   Client
	Cache    cacheutil.Cache
}

// Append implements history.Store.
func (st *StoreS3) Append(ctx context.Context, snap snapshot.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := st.objectKey(snap)
	_, err = st.Client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(st.Bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object: %w", err)
	}
	log.Debugf("snapshot written: s3://%s/%s", st.Bucket, key)

	if err := st.Cache.Put(st.cacheKey(key), data); err != nil {
		log.WithError(err).Warn("error writing to cache")
	}

	return nil
}

// List implements history.Store.
func (st *StoreS3) List(ctx context.Context, page string) ([]snapshot.Snapshot, error) {
	st.purgeCache()

	paginator := s3v2.NewListObjectsV2Paginator(st.Client, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(st.Bucket),
		Prefix: awsv2.String(st.pagePrefix(page)),
	})

	var keys []string
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range out.Contents {
			if obj.Key == nil || !strings.HasSuffix(*obj.Key, ".json") {
				continue
			}
			keys = append(keys, *obj.Key)
		}
	}

	// Zero-padded nanos make the key order the capture order.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	snaps := make([]snapshot.Snapshot, 0, len(keys))
	for _, key := range keys {
		data, err := st.body(ctx, key)
		if err != nil {
			log.WithError(err).Errorf("s3 get object failed: %s", key)
			continue
		}

		var snap snapshot.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			log.WithError(err).Warnf("skipping snapshot %s", key)
			continue
		}
		snaps = append(snaps, snap)
	}

	snapshot.Sort(snaps)
	return snaps, nil
}

// Latest implements history.Store.
func (st *StoreS3) Latest(ctx context.Context, page string) (snapshot.Snapshot, error) {
	snaps, err := st.List(ctx, page)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Latest(snaps, page)
}

func (st *StoreS3) Close() error { return nil }

func (st *StoreS3) String() string {
	return fmt.Sprintf("s3://%s/%s", st.Bucket, st.Prefix)
}

func (st *StoreS3) body(ctx context.Context, key string) ([]byte, error) {
	if data, ok := st.Cache.Get(st.cacheKey(key)); ok {
		return data, nil
	}

	obj, err := st.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(st.Bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if err := st.Cache.Put(st.cacheKey(key), data); err != nil {
		log.WithError(err).Warn("error writing to cache")
	}

	return data, nil
}

func (st *StoreS3) pagePrefix(page string) string {
	return path.Join(st.Prefix, snapshot.PageKey(page)) + "/"
}

func (st *StoreS3) objectKey(snap snapshot.Snapshot) string {
	return fmt.Sprintf("%s%020d-%s.json", st.pagePrefix(snap.Page), snap.CapturedAt.UnixNano(), snap.ID)
}

func (st *StoreS3) cacheKey(key string) string {
	return st.Bucket + "/" + key
}

func (st *StoreS3) purgeCache() {
	hours, _ := config.GetInt("cache.clean", 0)
	if _, err := st.Cache.Purge(time.Duration(hours) * time.Hour); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}
}
