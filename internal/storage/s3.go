package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"

	appCfg "github.com/iarefin28/myva-fitness-tracker-sub000/internal/config"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3StateStore implements repository.StateRepository on a single S3 object
// under a fixed key. It exists for deployments without MongoDB: the state
// record is the same JSON blob either way.
type s3StateStore struct {
	client     *s3.Client
	bucketName string
	objectKey  string
}

// NewS3StateStore creates an S3-backed state store.
func NewS3StateStore(cfg appCfg.S3Config, objectKey string) (repository.StateRepository, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Path-style addressing required by most S3-compatible services (like MinIO)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Printf("S3 state store initialized for endpoint: %s, bucket: %s, key: %s", cfg.Endpoint, cfg.BucketName, objectKey)

	return &s3StateStore{
		client:     s3Client,
		bucketName: cfg.BucketName,
		objectKey:  objectKey,
	}, nil
}

// Save overwrites the state object.
func (s *s3StateStore) Save(ctx context.Context, payload []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Printf("ERROR: Failed to put state object '%s' to bucket '%s': %v", s.objectKey, s.bucketName, err)
	}
	return err
}

// Load fetches the state object, mapping a missing key to ErrNotFound.
func (s *s3StateStore) Load(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Delete removes the state object.
func (s *s3StateStore) Delete(ctx context.Context) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey),
	})
	if err != nil {
		log.Printf("ERROR: Failed to delete state object '%s' from bucket '%s': %v", s.objectKey, s.bucketName, err)
	}
	return err
}
