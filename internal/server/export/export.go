// Package export writes a snapshot of a user's notes and tasks to object
// storage and hands back a presigned download link.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	sc "github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/query"
)

// linkValidity is how long the presigned download URL stays usable.
const linkValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// NoteLister and TaskLister are satisfied by the notes and tasks services.
type NoteLister interface {
	List(ctx context.Context, userID string, opts query.Options) ([]*models.Note, error)
}

type TaskLister interface {
	List(ctx context.Context, userID string, opts query.Options) ([]*models.Task, error)
}

// Result locates an uploaded export.
type Result struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Document is the exported file.
type Document struct {
	ExportedAt time.Time      `json:"exported_at"`
	Notes      []*models.Note `json:"notes"`
	Tasks      []*models.Task `json:"tasks"`
}

type Service struct {
	notes  NoteLister
	tasks  TaskLister
	config *sc.Config
	now    func() time.Time
}

func NewService(notes NoteLister, tasks TaskLister, config *sc.Config) *Service {
	return &Service{notes: notes, tasks: tasks, config: config, now: time.Now}
}

// Export uploads every live note and task of userID. Locked rows are only
// included when ctx carries an unlock grant.
func (s *Service) Export(ctx context.Context, userID string) (*Result, error) {
	if !s.config.StorageEnabled() {
		return nil, common.ErrStorageDisabled
	}

	doc, err := s.collect(ctx, userID)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding export: %v", common.ErrorInternal, err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 client: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := storageKey(userID, doc.ExportedAt)

	err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: uploading export: %v", common.ErrorInternal, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(linkValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: presigning export: %v", common.ErrorInternal, err)
	}

	return &Result{Key: key, URL: req.URL, ExpiresAt: doc.ExportedAt.Add(linkValidity)}, nil
}

func (s *Service) collect(ctx context.Context, userID string) (*Document, error) {
	doc := &Document{ExportedAt: s.now().UTC()}

	partitions := []bool{false}
	if auth.IsUnlocked(ctx) {
		partitions = append(partitions, true)
	}

	for _, locked := range partitions {
		opts := query.Options{Locked: &locked, IncludeArchived: true, Sort: query.SortOldest}

		notes, err := s.notes.List(ctx, userID, opts)
		if err != nil {
			return nil, err
		}
		doc.Notes = append(doc.Notes, notes...)

		tasks, err := s.tasks.List(ctx, userID, opts)
		if err != nil {
			return nil, err
		}
		doc.Tasks = append(doc.Tasks, tasks...)
	}

	if doc.Notes == nil {
		doc.Notes = []*models.Note{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []*models.Task{}
	}
	return doc, nil
}

func (s *Service) getClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.config.S3Region)}
	if s.config.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey, s.config.S3SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func storageKey(userID string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", userID, at.Year(), at.Month(), at.Day(), uuid.New())
}
