package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termblocks/checklist/internal/common"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := &S3Storage{client: fake, bucket: "b"}

	require.NoError(t, s.Put(ctx, "k_a.txt", []byte("hello world")))
	assert.Equal(t, "text/plain; charset=utf-8", fake.types["k_a.txt"])

	got, err := s.Get(ctx, "k_a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), got)

	require.NoError(t, s.Delete(ctx, "k_a.txt"))
	_, err = s.Get(ctx, "k_a.txt")
	assert.ErrorIs(t, err, common.ErrorFileNotFound)
}

func TestS3Storage_ClientErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.err = errors.New("connection refused")
	s := &S3Storage{client: fake, bucket: "b"}

	err := s.Put(ctx, "k", []byte("x"))
	require.ErrorContains(t, err, "connection refused")

	_, err = s.Get(ctx, "k")
	require.ErrorContains(t, err, "s3: get")
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	require.ErrorContains(t, s.Delete(ctx, "k"), "s3: delete")
}

func TestNewS3Storage_UsesSeams(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	defer func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew }()

	fake := newFakeS3()
	var opts s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "test"}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&opts)
		}
		return fake
	}

	s, err := NewS3Storage(context.Background(), S3Config{Bucket: "checklists", BaseEndpoint: "http://minio:9000"})
	require.NoError(t, err)
	assert.Equal(t, "checklists", s.bucket)
	assert.Equal(t, "http://minio:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Storage_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = origLoad }()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("bad config")
	}

	_, err := NewS3Storage(context.Background(), S3Config{})
	require.ErrorContains(t, err, "bad config")
}
