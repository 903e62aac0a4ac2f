package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "studyshare",
		TTL:          10 * time.Minute,
	}
}

func restoreSeams(t *testing.T) {
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet, origNow := presignPutObject, presignGetObject, now
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNewS3, origNewPre
		presignPutObject, presignGetObject, now = origPut, origGet, origNow
	})
}

func TestNewS3Presigner_AppliesConfig(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	p, err := NewS3Presigner(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, 10*time.Minute, p.ttl)
}

func TestNewS3Presigner_LoadError(t *testing.T) {
	restoreSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Presigner(context.Background(), testConfig())
	assert.ErrorContains(t, err, "no config")
}

func TestNewS3Presigner_DefaultTTL(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = 0
	p, err := NewS3Presigner(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, p.ttl)
}

func TestPresignPut(t *testing.T) {
	restoreSeams(t)
	p := &S3Presigner{client: &s3.PresignClient{}, bucket: "studyshare", ttl: time.Minute}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "studyshare", *in.Bucket)
		assert.Equal(t, "documents/k.pdf", *in.Key)
		assert.Equal(t, "application/pdf", *in.ContentType)
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://s3/put"}, nil
	}

	url, err := p.PresignPut(context.Background(), "documents/k.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://s3/put", url)

	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}
	_, err = p.PresignPut(context.Background(), "k", "")
	assert.ErrorContains(t, err, "presign put: sign failed")
}

func TestPresignGet(t *testing.T) {
	restoreSeams(t)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	p := &S3Presigner{client: &s3.PresignClient{}, bucket: "studyshare", ttl: 15 * time.Minute}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, `attachment; filename="my notes.pdf"`, *in.ResponseContentDisposition)
		return &v4.PresignedHTTPRequest{URL: "http://s3/get"}, nil
	}

	url, expires, err := p.PresignGet(context.Background(), "k", "my notes.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://s3/get", url)
	assert.Equal(t, fixed.Add(15*time.Minute), expires)
}

func TestStorageKey(t *testing.T) {
	restoreSeams(t)
	now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	k := StorageKey("m-1", "Lecture.PDF")
	assert.Regexp(t, regexp.MustCompile(`^documents/m-1/2024/3/1/[0-9a-f-]{36}\.PDF$`), k)
	assert.NotEqual(t, k, StorageKey("m-1", "Lecture.PDF"))
}
