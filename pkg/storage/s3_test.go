package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string][]byte
	fail    error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3(t *testing.T) {
	fake := newFakeObjects()
	s := newS3WithClient(fake, "sounds-bucket", "kakapo/prod")
	exercise(t, s)

	require.NoError(t, s.Set(context.Background(), KeySounds, []byte("[]")))
	assert.Contains(t, fake.objects, "sounds-bucket/kakapo/prod/sounds")
}

func TestS3Failure(t *testing.T) {
	fake := newFakeObjects()
	fake.fail = fmt.Errorf("access denied")
	s := newS3WithClient(fake, "b", "")

	_, _, err := s.Get(context.Background(), "version")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStorageFailed, errors.GetCode(err))
	assert.Error(t, s.Set(context.Background(), "version", nil))
	assert.Error(t, s.Remove(context.Background(), "version"))
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), config.S3Config{})
	assert.Error(t, err)
}

func TestNewS3StaticCredentials(t *testing.T) {
	s, err := NewS3(context.Background(), config.S3Config{
		Bucket:          "b",
		Region:          "eu-west-1",
		Endpoint:        "http://127.0.0.1:9000",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
	})
	require.NoError(t, err)
	assert.Equal(t, config.DriverS3, s.Driver())
}
