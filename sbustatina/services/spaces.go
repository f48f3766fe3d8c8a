package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Artwork URLs are valid for one minute: long enough for the chat platform to
// fetch the image, short enough that a leaked URL is worthless. They are
// requested fresh per draw and never persisted.
const artworkURLExpiry = time.Minute

// SpacesService signs short-lived read URLs for card artwork stored in an
// S3-compatible bucket, keyed {cardRoot/}setID/imageFile.
type SpacesService struct {
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	region   string
	cardRoot string
}

func NewSpacesService(spacesKey, spacesSecret, region, bucket, cardRoot string) (*SpacesService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Spaces config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &SpacesService{
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   bucket,
		region:   region,
		cardRoot: strings.Trim(cardRoot, "/"),
	}, nil
}

// CardImageURL returns a presigned read URL for a card's artwork.
func (s *SpacesService) CardImageURL(ctx context.Context, setID string, image string) (string, error) {
	key := fmt.Sprintf("%s/%s", setID, image)
	if s.cardRoot != "" {
		key = fmt.Sprintf("%s/%s", s.cardRoot, key)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(artworkURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}

	return req.URL, nil
}

func (s *SpacesService) GetBucket() string {
	return s.bucket
}

func (s *SpacesService) GetRegion() string {
	return s.region
}
