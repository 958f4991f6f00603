package adapters

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/config"
)

type s3ArtifactMirror struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3ArtifactMirror(s3Svc *s3.S3, s3Config *config.S3Config, logger outbound.LoggerPort) outbound.ArtifactMirrorPort {
	return &s3ArtifactMirror{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

// Mirror uploads the audio and transcript next to each other under the
// narration's base name and returns the audio object URL.
func (m *s3ArtifactMirror) Mirror(ctx context.Context, params outbound.MirrorParams) (string, error) {
	audioKey := fmt.Sprintf("narrations/%s/%s.mp3", params.BaseName, params.BaseName)
	if err := m.put(ctx, audioKey, params.Audio, "audio/mpeg"); err != nil {
		return "", err
	}

	transcriptKey := fmt.Sprintf("narrations/%s/%s.txt", params.BaseName, params.BaseName)
	if err := m.put(ctx, transcriptKey, []byte(params.Transcript), "text/plain; charset=utf-8"); err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", m.s3Config.BucketName, audioKey)
	m.logger.DebugWithFields("mirrored artifacts to S3", map[string]interface{}{
		"url": url,
	})
	return url, nil
}

func (m *s3ArtifactMirror) put(ctx context.Context, key string, payload []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(m.s3Config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
	}

	_, err := m.s3Svc.PutObjectWithContext(ctx, input)
	if err != nil {
		m.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": m.s3Config.BucketName,
			"key":    key,
		})
	}
	return err
}
