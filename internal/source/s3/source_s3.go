// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	awsx "github.com/pgdrift/pgdrift/internal/aws"
	"github.com/pgdrift/pgdrift/internal/cacheutil"
	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/log"
)

// SourceS3 fetches a snapshot document from an S3 object. Fetched bodies are
// kept in the on-disk cache keyed by the full s3:// URL, so repeated reports
// against the same object skip the network.
type SourceS3 struct {
	Ctx    context.Context
	Bucket string
	Key    string
	Region string
}

// Snapshot returns the object body, from cache when available.
func (s *SourceS3) Snapshot(ctx context.Context) ([]byte, error) {
	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	if entry, ok := CacheReader(s); ok {
		return entry.Data, nil
	}

	var cfgOpts []awsx.Option
	if s.Region != "" {
		cfgOpts = append(cfgOpts, awsx.WithRegion(s.Region))
	}
	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc := awsx.NewS3(cfg)
	result, err := svc.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if err := CacheWriter(s, data); err != nil {
		log.WithError(err).Error("error writing to cache")
	}

	return data, nil
}

func (s *SourceS3) String() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}

// CacheReader reads the cached body for the source's object, if present. The
// cache is organized by bucket and object directory, with the full URL hashed
// into the filename.
func CacheReader(s *SourceS3) (*cacheutil.Entry, bool) {
	sub := []string{s.Bucket, filepath.Dir(s.Key)}
	return cacheutil.Read(sub, s.String())
}

func CacheWriter(s *SourceS3, data []byte) error {
	sub := []string{s.Bucket, filepath.Dir(s.Key)}
	return cacheutil.Write(sub, s.String(), data)
}

func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
