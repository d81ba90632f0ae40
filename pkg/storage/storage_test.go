package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/notethatdown/notethatdown-api/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	failures int
	calls    int
	lastKey  string
	lastBody string
	lastType string
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("slow down")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastKey = aws.ToString(in.Key)
	f.lastType = aws.ToString(in.ContentType)
	f.lastBody = string(body)
	return &s3.PutObjectOutput{}, nil
}

func quickRetry() retry.Config {
	return retry.Config{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

func TestUpload_Success(t *testing.T) {
	api := &fakePutter{}
	c := NewClientWithAPI(api, "exports-bucket")

	location, err := c.Upload(context.Background(), "exports/a.csv", "text/csv", []byte("email\n"))

	require.NoError(t, err)
	assert.Equal(t, "s3://exports-bucket/exports/a.csv", location)
	assert.Equal(t, "exports/a.csv", api.lastKey)
	assert.Equal(t, "text/csv", api.lastType)
	assert.Equal(t, "email\n", api.lastBody)
}

func TestUpload_RetriesTransientFailures(t *testing.T) {
	api := &fakePutter{failures: 1}
	c := NewClientWithAPI(api, "b")
	c.retry = quickRetry()

	_, err := c.Upload(context.Background(), "k", "text/csv", []byte("x"))

	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)
	assert.Equal(t, "x", api.lastBody)
}

func TestUpload_FailsAfterRetries(t *testing.T) {
	api := &fakePutter{failures: 10}
	c := NewClientWithAPI(api, "b")
	c.retry = quickRetry()

	_, err := c.Upload(context.Background(), "k", "text/csv", []byte("x"))

	require.Error(t, err)
	assert.Equal(t, 3, api.calls)
}

func TestNewClient_RequiresBucket(t *testing.T) {
	_, err := NewClient(Options{})
	require.Error(t, err)
}
