package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveService writes raw webhook payloads to a Spaces bucket so rejected
// or malformed deliveries can be replayed later.
type ArchiveService struct {
	client *s3.Client
	bucket string
	root   string
	now    func() time.Time
}

func NewArchiveService(spacesKey, spacesSecret, region, bucket, archiveRoot string) (*ArchiveService, error) {
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
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	return &ArchiveService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		root:   strings.Trim(archiveRoot, "/"),
		now:    time.Now,
	}, nil
}

// Archive stores one payload under <root>/<source>/<date>/<eventID>.json and
// returns the object key.
func (s *ArchiveService) Archive(ctx context.Context, source, eventID string, payload []byte) (string, error) {
	day := s.now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("%s/%s/%s/%s.json", s.root, source, day, sanitizeKey(eventID))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
		ACL:         "private",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive payload %s: %w", key, err)
	}
	return key, nil
}

func sanitizeKey(id string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", "..", "_")
	return replacer.Replace(id)
}
