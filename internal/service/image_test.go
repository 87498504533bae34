package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPutter struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (p *stubPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.inputs = append(p.inputs, params)
	if p.err != nil {
		return nil, p.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestImageUpload(t *testing.T) {
	putter := &stubPutter{}
	svc := NewImageService(putter, "test-bucket")

	url, err := svc.Upload(context.Background(), []byte("fake-png"), "image/png", AvatarFolder)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://test-bucket.s3.amazonaws.com/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "test-bucket", *putter.inputs[0].Bucket)
	assert.Equal(t, "image/png", *putter.inputs[0].ContentType)
}

func TestImageUploadRejectsBadContentType(t *testing.T) {
	putter := &stubPutter{}
	svc := NewImageService(putter, "test-bucket")

	_, err := svc.Upload(context.Background(), []byte("no"), "application/pdf", AvatarFolder)
	assert.ErrorIs(t, err, ErrBadContentType)
	assert.Empty(t, putter.inputs)
}

func TestImageUploadRejectsOversize(t *testing.T) {
	putter := &stubPutter{}
	svc := NewImageService(putter, "test-bucket")

	_, err := svc.Upload(context.Background(), make([]byte, MaxUploadSize+1), "image/png", BackgroundFolder)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, putter.inputs)
}

func TestImageUploadS3Failure(t *testing.T) {
	putter := &stubPutter{err: errors.New("s3 unavailable")}
	svc := NewImageService(putter, "test-bucket")

	_, err := svc.Upload(context.Background(), []byte("fake-png"), "image/png", AvatarFolder)
	assert.Error(t, err)
}
