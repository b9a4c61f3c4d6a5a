/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backend mirrors FileBackend's directory-of-files layout onto S3
// objects under Prefix, for nodes that want table data kept in object
// storage instead of on local disk. S3 has no append or positional-write
// primitive, so each RandomAccessFile buffers its object fully in memory
// and writes the whole object back with a PutObject after every WriteAt
// or Append (Close writes nothing) — acceptable for
// distribuito's table sizes since there is no compaction or streaming
// write path in scope (spec Non-goals).
type S3Backend struct {
	Bucket         string
	Prefix         string
	Region         string
	Endpoint       string
	AccessKeyID    string
	SecretKey      string
	ForcePathStyle bool

	mu     sync.Mutex
	client *s3.Client
}

func NewS3Backend(bucket, prefix string) *S3Backend {
	return &S3Backend{Bucket: bucket, Prefix: strings.TrimSuffix(prefix, "/")}
}

func (b *S3Backend) ensureClient(ctx context.Context) (*s3.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}

	var opts []func(*config.LoadOptions) error
	if b.Region != "" {
		opts = append(opts, config.WithRegion(b.Region))
	}
	if b.AccessKeyID != "" && b.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(b.AccessKeyID, b.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 backend: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if b.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(b.Endpoint) })
	}
	if b.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	b.client = s3.NewFromConfig(cfg, s3Opts...)
	return b.client, nil
}

func (b *S3Backend) key(dir, name string) string {
	if b.Prefix == "" {
		return path.Join(dir, name)
	}
	return path.Join(b.Prefix, dir, name)
}

// EnsureDir is a no-op: S3 has no directories, only key prefixes.
func (b *S3Backend) EnsureDir(dir string) error {
	return nil
}

func (b *S3Backend) CreateIfAbsent(dir, name string) error {
	ctx := context.Background()
	client, err := b.ensureClient(ctx)
	if err != nil {
		return err
	}
	key := b.key(dir, name)
	if _, err := client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(b.Bucket), Key: aws.String(key)}); err == nil {
		return nil
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	return err
}

func (b *S3Backend) Open(dir, name string) (RandomAccessFile, error) {
	ctx := context.Background()
	client, err := b.ensureClient(ctx)
	if err != nil {
		return nil, err
	}
	key := b.key(dir, name)

	var data []byte
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(b.Bucket), Key: aws.String(key)})
	if err == nil {
		defer resp.Body.Close()
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("s3 backend: read %s: %w", key, err)
		}
	}
	// any GetObject error (including NoSuchKey) is treated as "starts empty"

	return &s3File{client: client, bucket: b.Bucket, key: key, data: data}, nil
}

func (b *S3Backend) ListFiles(dir string) ([]string, error) {
	ctx := context.Background()
	client, err := b.ensureClient(ctx)
	if err != nil {
		return nil, err
	}
	prefix := b.key(dir, "") + "/"

	var names []string
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.Bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 backend: list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			names = append(names, strings.TrimPrefix(aws.ToString(obj.Key), prefix))
		}
	}
	return names, nil
}

// s3File buffers one S3 object fully in memory and flushes the whole
// object back on every mutation, so concurrent readers always see a
// RandomAccessFile consistent with the last WriteAt/Append call on this
// handle.
type s3File struct {
	client *s3.Client
	bucket string
	key    string

	mu   sync.Mutex
	data []byte
}

func (f *s3File) ReadAt(p []byte, offset int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset >= int64(len(f.data)) {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, f.data[offset:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (f *s3File) WriteAt(p []byte, offset int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	end := offset + int64(len(p))
	if end > int64(len(f.data)) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	copy(f.data[offset:end], p)
	return f.flushLocked()
}

func (f *s3File) Append(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append(f.data, p...)
	return f.flushLocked()
}

func (f *s3File) Size() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.data)), nil
}

func (f *s3File) Close() error {
	return nil
}

func (f *s3File) flushLocked() error {
	_, err := f.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key),
		Body:   bytes.NewReader(f.data),
	})
	return err
}
