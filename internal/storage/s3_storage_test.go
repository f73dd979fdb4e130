package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestPutObject(t *testing.T) {
	cfg := &config.Config{AwsS3Bucket: "homes", AwsRegion: "ap-south-1"}
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "homes" &&
			aws.ToString(in.Key) == "uploads/u1/a.jpg" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			string(body) == "jpegdata"
	})).Return(&s3.PutObjectOutput{}, nil)

	s := newS3StorageWithClient(cfg, client)
	url, err := s.PutObject(context.Background(), "uploads/u1/a.jpg", "image/jpeg", []byte("jpegdata"))
	require.NoError(t, err)
	assert.Equal(t, "https://homes.s3.ap-south-1.amazonaws.com/uploads/u1/a.jpg", url)
	client.AssertExpectations(t)
}

func TestPutObject_Error(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	s := newS3StorageWithClient(&config.Config{AwsS3Bucket: "homes"}, client)
	_, err := s.PutObject(context.Background(), "k", "image/jpeg", []byte("x"))
	assert.ErrorContains(t, err, "access denied")
}

func TestPublicURL_BaseURL(t *testing.T) {
	s := newS3StorageWithClient(&config.Config{ImageBaseURL: "https://cdn.example.com/"}, nil)
	assert.Equal(t, "https://cdn.example.com/uploads/x.jpg", s.PublicURL("uploads/x.jpg"))
}
