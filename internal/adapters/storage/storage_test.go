package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Bucket:          "goat-files",
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PresignTTL:      time.Hour,
	}
}

func TestURLValidator(t *testing.T) {
	v := NewURLValidator(testS3Config())

	assert.NoError(t, v.Validate("https://mybucket.s3.us-east-1.amazonaws.com/a/b.png"))

	err := v.Validate("http://evil.example.com/x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Invalid S3 URL format: http://evil.example.com/x", domain.MessageOf(err))

	assert.Error(t, v.Validate("https://mybucket.s3.us-east-1.amazonaws.com/"))
	assert.Error(t, v.Validate("https://mybucket.s3.us-east-1.amazonaws.com.evil.io/a"))
}

func TestURLValidatorCustomEndpoint(t *testing.T) {
	cfg := testS3Config()
	cfg.BaseEndpoint = "http://127.0.0.1:9000/"
	v := NewURLValidator(cfg)

	assert.NoError(t, v.Validate("http://127.0.0.1:9000/goat-files/uploads/a.pdf"))
	assert.Error(t, v.Validate("http://127.0.0.1:9000/other/uploads/a.pdf"))
	assert.Equal(t, "uploads/a.pdf", v.KeyFromURL("http://127.0.0.1:9000/goat-files/uploads/a.pdf"))
}

func TestKeyAndFileName(t *testing.T) {
	v := NewURLValidator(testS3Config())
	raw := "https://goat-files.s3.us-east-1.amazonaws.com/uploads/3f2c.png"

	assert.Equal(t, "uploads/3f2c.png", v.KeyFromURL(raw))
	assert.Equal(t, "3f2c.png", FileNameFromURL(raw))
}

func TestObjectURL(t *testing.T) {
	cfg := testS3Config()
	assert.Equal(t, "https://goat-files.s3.us-east-1.amazonaws.com/uploads/x.png", ObjectURL(cfg, "uploads/x.png"))

	cfg.BaseEndpoint = "http://minio:9000"
	assert.Equal(t, "http://minio:9000/goat-files/uploads/x.png", ObjectURL(cfg, "uploads/x.png"))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestNewS3StoreLoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Store(context.Background(), testS3Config())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}

func TestNewS3StoreAppliesEndpoint(t *testing.T) {
	origNew := newS3ClientFromConfig
	t.Cleanup(func() { newS3ClientFromConfig = origNew })

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	cfg := testS3Config()
	cfg.BaseEndpoint = "http://127.0.0.1:9000"
	_, err := NewS3Store(context.Background(), cfg)
	require.NoError(t, err)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestS3StorePresignGet(t *testing.T) {
	store, err := NewS3Store(context.Background(), testS3Config())
	require.NoError(t, err)

	u, err := store.PresignGet(context.Background(), "uploads/x.png", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://goat-files.s3.us-east-1.amazonaws.com/uploads/x.png?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=3600")
}

func TestS3StoreUploadAndDelete(t *testing.T) {
	origPut, origDel := putObject, deleteObject
	t.Cleanup(func() {
		putObject = origPut
		deleteObject = origDel
	})

	var putKey, putType, delKey string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		putKey = aws.ToString(in.Key)
		putType = aws.ToString(in.ContentType)
		return nil
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) error {
		delKey = aws.ToString(in.Key)
		return nil
	}

	store, err := NewS3Store(context.Background(), testS3Config())
	require.NoError(t, err)

	u, err := store.Upload(context.Background(), "uploads/a.pdf", "application/pdf", strings.NewReader("pdf"), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://goat-files.s3.us-east-1.amazonaws.com/uploads/a.pdf", u)
	assert.Equal(t, "uploads/a.pdf", putKey)
	assert.Equal(t, "application/pdf", putType)

	require.NoError(t, store.Delete(context.Background(), "uploads/a.pdf"))
	assert.Equal(t, "uploads/a.pdf", delKey)
	assert.Error(t, store.Delete(context.Background(), ""))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(config.S3Config{})

	u, err := m.Upload(ctx, "uploads/a.txt", "text/plain", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.NoError(t, NewURLValidator(m.Config()).Validate(u))
	assert.True(t, m.Has("uploads/a.txt"))

	signed, err := m.PresignGet(ctx, "uploads/a.txt", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, u+"?expires=60", signed)

	require.NoError(t, m.Delete(ctx, "uploads/a.txt"))
	assert.False(t, m.Has("uploads/a.txt"))
	assert.Error(t, m.Delete(ctx, "uploads/a.txt"))
}
