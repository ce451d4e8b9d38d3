package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	sc "github.com/lendaro/bankcore/internal/server/config"
	"github.com/lendaro/bankcore/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// DocumentService stores an uploaded identity document in the S3-compatible
// backend and records the opaque object key on the user. The document's
// contents are never interpreted.
type DocumentService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *sc.Config
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *DocumentService {
	return &DocumentService{db: db, repos: m, config: cfg}
}

func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("documents/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *DocumentService) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
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

	return client, nil
}

// Attach uploads the document body and stores the resulting key on the user
// record, returning the key.
func (s *DocumentService) Attach(ctx context.Context, userID string, contentType string, body io.Reader) (string, error) {

	client, err := s.getClient()
	if err != nil {
		return "", fmt.Errorf("error creating storage client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("error storing document: %w", err)
	}

	repo := s.repos.Users(s.db)
	if err := repo.UpdateDocumentKey(ctx, userID, key); err != nil {
		return "", fmt.Errorf("error saving document reference: %w", err)
	}

	return key, nil
}
