// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Client reads files staged in a bucket before they are pushed to the platform.
type S3Client struct {
	s3 *s3.Client
}

func NewS3Client(ctx context.Context, cfgCreds S3Config) (*S3Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfgCreds.Region),
	}
	// without static keys the default chain (env, shared profile, IMDS) applies
	if cfgCreds.AccessKey != "" {
		creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfgCreds.AccessKey,
			cfgCreds.SecretKey,
			cfgCreds.AccessToken,
		))
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Options := func(o *s3.Options) {
		if cfgCreds.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfgCreds.EndpointURL)
			o.UsePathStyle = true // most S3-compatible stores need it
		}
	}

	return &S3Client{
		s3: s3.NewFromConfig(cfg, s3Options),
	}, nil
}

type S3File struct {
	Key  string
	Size int64
}

// WalkPrefix pages through every object under prefix, skipping folder placeholders.
func (c *S3Client) WalkPrefix(
	ctx context.Context,
	bucket string,
	prefix string,
	pageSize int32,
	fn func(obj S3File) error,
) error {
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(pageSize),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list error: %w", err)
		}
		for _, obj := range page.Contents {
			if isFolderPlaceholder(obj) {
				continue
			}
			if err := fn(S3File{Key: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)}); err != nil {
				return err
			}
		}
	}
	return nil
}

func isFolderPlaceholder(obj s3types.Object) bool {
	return obj.Key == nil || (strings.HasSuffix(aws.ToString(obj.Key), "/") && aws.ToInt64(obj.Size) == 0)
}

// DownloadToFile fetches bucket/key into f with the transfer manager.
func (c *S3Client) DownloadToFile(ctx context.Context, bucket, key string, f *os.File, hook *ProgressHook) (int64, error) {
	head, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to stat s3://%s/%s: %w", bucket, key, err)
	}
	total := aws.ToInt64(head.ContentLength)

	if hook != nil && hook.OnStart != nil {
		hook.OnStart(key, total)
	}
	w := &progressWriterAt{
		w: f,
		pw: progressWriter{
			key:      key,
			total:    total,
			interval: 250 * time.Millisecond,
		},
	}
	if hook != nil {
		w.pw.onProgress = hook.OnProgress
	}

	downloader := manager.NewDownloader(c.s3, func(d *manager.Downloader) {
		d.Concurrency = 1
	})

	start := time.Now()
	n, err := downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return n, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}
	if hook != nil && hook.OnDone != nil {
		hook.OnDone(key, n, time.Since(start))
	}
	return n, nil
}
