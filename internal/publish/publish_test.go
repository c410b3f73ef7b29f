package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	s3manageriface.UploaderAPI
	input *s3manager.UploadInput
	body  []byte
	err   error
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3manager.UploadOutput{Location: "https://bucket/" + *in.Key}, nil
}

func writeSummary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"coverage":{}}`), 0644))
	return path
}

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey("/tmp/out/summary.json", "")
	require.NoError(t, err)
	assert.Equal(t, "uploads/summary.json", key)

	key, err = ObjectKey("summary.json", "acme/app/42/summary.json")
	require.NoError(t, err)
	assert.Equal(t, "acme/app/42/summary.json", key)

	_, err = ObjectKey("summary.json", "acme/app/42/report.json")
	assert.ErrorContains(t, err, "must end with the file name")
}

func TestPublish(t *testing.T) {
	file := writeSummary(t)
	fake := &fakeUploader{}
	p := newPublisher("reports", false, fake)

	uri, err := p.Publish(context.Background(), file, "", map[string]string{"sha": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/uploads/summary.json", uri)

	require.NotNil(t, fake.input)
	assert.Equal(t, "reports", *fake.input.Bucket)
	assert.Equal(t, "application/json", *fake.input.ContentType)
	assert.Equal(t, "abc123", *fake.input.Metadata["sha"])
	assert.Equal(t, `{"coverage":{}}`, string(fake.body))
}

func TestPublishDryRun(t *testing.T) {
	fake := &fakeUploader{}
	p := newPublisher("reports", true, fake)

	uri, err := p.Publish(context.Background(), writeSummary(t), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/uploads/summary.json", uri)
	assert.Nil(t, fake.input)
}

func TestPublishErrors(t *testing.T) {
	fake := &fakeUploader{err: errors.New("access denied")}
	p := newPublisher("reports", false, fake)

	_, err := p.Publish(context.Background(), writeSummary(t), "", nil)
	assert.ErrorContains(t, err, "access denied")

	_, err = p.Publish(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "", nil)
	assert.ErrorContains(t, err, "failed to open file")

	_, err = NewPublisher("", "", false)
	assert.Error(t, err)
}
