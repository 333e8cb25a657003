package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	sc "github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/query"
)

type fakeNotes struct {
	calls []bool
	err   error
}

func (f *fakeNotes) List(_ context.Context, userID string, opts query.Options) ([]*models.Note, error) {
	f.calls = append(f.calls, *opts.Locked)
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Note{{ID: "n", UserID: userID, IsLocked: *opts.Locked, Tags: []string{}}}, nil
}

type fakeTasks struct{}

func (fakeTasks) List(_ context.Context, userID string, opts query.Options) ([]*models.Task, error) {
	return []*models.Task{{ID: "t", UserID: userID, Title: "task"}}, nil
}

type captured struct {
	endpoint string
	bucket   string
	key      string
	body     []byte
}

func stubS3(t *testing.T, putErr error) *captured {
	t.Helper()
	c := &captured{}

	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	origPresign, origGet := newS3PresignClient, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
		newS3PresignClient, presignGetObject = origPresign, origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		assert.NotNil(t, lo.Credentials, "static credentials expected")
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var o s3.Options
		for _, fn := range optFns {
			fn(&o)
		}
		if o.BaseEndpoint != nil {
			c.endpoint = *o.BaseEndpoint
		}
		assert.True(t, o.UsePathStyle)
		return &s3.Client{}
	}
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput) error {
		if putErr != nil {
			return putErr
		}
		c.bucket, c.key = *in.Bucket, *in.Key
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		c.body = b
		return nil
	}
	newS3PresignClient = func(*s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignGetObject = func(_ *s3.PresignClient, _ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://s3.example/" + *in.Key}, nil
	}
	return c
}

func testConfig() *sc.Config {
	return &sc.Config{
		S3Bucket:       "exports",
		S3Region:       "eu-west-1",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3AccessKey:    "ak",
		S3SecretKey:    "sk",
	}
}

func TestExport_Disabled(t *testing.T) {
	s := NewService(&fakeNotes{}, fakeTasks{}, &sc.Config{})
	_, err := s.Export(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrStorageDisabled)
}

func TestExport_UploadsAndPresigns(t *testing.T) {
	c := stubS3(t, nil)
	notes := &fakeNotes{}
	s := NewService(notes, fakeTasks{}, testConfig())
	fixed := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	res, err := s.Export(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000", c.endpoint)
	assert.Equal(t, "exports", c.bucket)
	assert.True(t, strings.HasPrefix(c.key, "exports/u1/2024/03/09/"), c.key)
	assert.Equal(t, c.key, res.Key)
	assert.Equal(t, "https://s3.example/"+c.key, res.URL)
	assert.Equal(t, fixed.Add(linkValidity), res.ExpiresAt)

	var doc Document
	require.NoError(t, json.Unmarshal(c.body, &doc))
	assert.Len(t, doc.Notes, 1)
	assert.Len(t, doc.Tasks, 1)
	assert.Equal(t, []bool{false}, notes.calls, "locked rows need an unlock grant")
}

func TestExport_IncludesLockedWhenUnlocked(t *testing.T) {
	stubS3(t, nil)
	notes := &fakeNotes{}
	s := NewService(notes, fakeTasks{}, testConfig())

	_, err := s.Export(auth.WithUnlocked(context.Background()), "u1")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, notes.calls)
}

func TestExport_UploadError(t *testing.T) {
	stubS3(t, errors.New("access denied"))
	s := NewService(&fakeNotes{}, fakeTasks{}, testConfig())

	_, err := s.Export(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestExport_ListError(t *testing.T) {
	s := NewService(&fakeNotes{err: common.ErrorInternal}, fakeTasks{}, testConfig())

	_, err := s.Export(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
