package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/heartlink/internal/netx"
	sc "github.com/dmitrijs2005/heartlink/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// RingURLExpiry is how long presigned ring model URLs stay valid.
const RingURLExpiry = 15 * time.Minute

// RingURLs hands out presigned object-storage URLs for ring models.
type RingURLs interface {
	PresignGet(ctx context.Context, key string) (string, error)
	// PresignPut returns a fresh storage key and a URL to upload it to.
	PresignPut(ctx context.Context) (key, url string, err error)
}

// RingStore presigns S3 (or MinIO) URLs for the 3D ring models shown when a
// proposal is accepted.
type RingStore struct {
	config *sc.Config

	mu     sync.Mutex
	client *s3.PresignClient
	now    func() time.Time
}

func NewRingStore(config *sc.Config) *RingStore {
	return &RingStore{config: config, now: time.Now}
}

// NewRingModelKey returns a date-partitioned key for an uploaded model.
func NewRingModelKey(t time.Time) string {
	return fmt.Sprintf("rings/%d/%d/%d/%v.glb", t.Year(), int(t.Month()), t.Day(), uuid.New())
}

func (s *RingStore) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	s.client = newS3PresignClient(client)
	return s.client, nil
}

func (s *RingStore) PresignPut(ctx context.Context) (string, string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	key := NewRingModelKey(s.now())
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(netx.RingModelContentType),
	}, s3.WithPresignExpires(RingURLExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

func (s *RingStore) PresignGet(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(RingURLExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
