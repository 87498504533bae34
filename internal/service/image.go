package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds the maximum upload size")
	ErrBadContentType = errors.New("unsupported image type")
)

// MaxUploadSize caps avatar and background uploads at 5 MB.
const MaxUploadSize = 5 << 20

// Upload folders inside the bucket.
const (
	AvatarFolder     = "avatars"
	BackgroundFolder = "backgrounds"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ObjectPutter is the slice of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService validates and stores profile images in S3, returning the
// public URL the profile record keeps.
type ImageService struct {
	client ObjectPutter
	bucket string
}

// NewImageService creates a new ImageService instance
func NewImageService(client ObjectPutter, bucket string) *ImageService {
	return &ImageService{
		client: client,
		bucket: bucket,
	}
}

// Upload validates the image and writes it under folder/, returning the
// public URL. A record write failing after a successful upload leaves the
// object orphaned; it is never rolled back.
func (s *ImageService) Upload(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", ErrBadContentType
	}

	key := fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	log.Printf("[ImageService] Uploaded image to %s", publicURL)
	return publicURL, nil
}
