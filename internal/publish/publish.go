// Package publish uploads run summaries to S3.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRegion = "us-east-1"
	uploadPrefix  = "uploads"
)

// Publisher uploads files to a bucket.
type Publisher struct {
	bucket   string
	dryRun   bool
	uploader s3manageriface.UploaderAPI
}

// NewPublisher creates a publisher with an S3 upload manager for region.
func NewPublisher(bucket, region string, dryRun bool) (*Publisher, error) {
	if bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if region == "" {
		region = DefaultRegion
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS session")
	}
	return newPublisher(bucket, dryRun, s3manager.NewUploader(sess)), nil
}

func newPublisher(bucket string, dryRun bool, uploader s3manageriface.UploaderAPI) *Publisher {
	return &Publisher{bucket: bucket, dryRun: dryRun, uploader: uploader}
}

// ObjectKey returns the key for file: uploads/<name> unless key is set, in
// which case it must end with the file name.
func ObjectKey(file, key string) (string, error) {
	filename := filepath.Base(file)
	if key == "" {
		return fmt.Sprintf("%s/%s", uploadPrefix, filename), nil
	}
	if !strings.HasSuffix(key, filename) {
		return "", errors.Errorf("object key %q must end with the file name %q", key, filename)
	}
	return key, nil
}

// Publish uploads file with the metadata and returns the object URI.
// In dry-run mode nothing is uploaded.
func (p *Publisher) Publish(ctx context.Context, file, key string, meta map[string]string) (string, error) {
	objectKey, err := ObjectKey(file, key)
	if err != nil {
		return "", err
	}

	fd, err := os.Open(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open file %s", file)
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return "", errors.Wrapf(err, "failed to stat file %s", file)
	}

	uri := fmt.Sprintf("s3://%s/%s", p.bucket, objectKey)
	if p.dryRun {
		log.Warnf("DRY-RUN mode: skipping upload of %s (%s) to %s", file, humanize.Bytes(uint64(info.Size())), uri)
		return uri, nil
	}

	log.Debugf("uploading %s (%s) to %s", file, humanize.Bytes(uint64(info.Size())), uri)
	_, err = p.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType(file)),
		Metadata:    aws.StringMap(meta),
		Body:        fd,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload file %s to bucket %s", file, p.bucket)
	}
	log.Info("Summary published successfully to ", uri)
	return uri, nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".html":
		return "text/html"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}
