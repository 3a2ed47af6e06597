package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubS3(t *testing.T, put func(in *s3.PutObjectInput) error, presign func(in *s3.GetObjectInput) (string, error)) {
	t.Helper()
	origPut, origPresign := putObject, presignGetObject

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if err := put(in); err != nil {
			return nil, err
		}
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		opts := s3.PresignOptions{}
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.Expires != exportURLValidity {
			return nil, errors.New("unexpected expiry")
		}
		url, err := presign(in)
		if err != nil {
			return nil, err
		}
		return &v4.PresignedHTTPRequest{URL: url, Method: "GET"}, nil
	}

	t.Cleanup(func() { putObject, presignGetObject = origPut, origPresign })
}

func TestExportStorageKey(t *testing.T) {
	d := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	key := ExportStorageKey("u-1", d)
	assert.Regexp(t, regexp.MustCompile(`^exports/u-1/2024/02/03/[0-9a-f-]{36}\.json$`), key)
}

func TestExport_NotConfigured(t *testing.T) {
	f := newFixture(t)
	alice := f.registerVerified(t, "alice", "hunter22")

	_, err := f.messages.Export(context.Background(), alice)
	assert.ErrorIs(t, err, common.ErrNotConfigured)
}

func TestExport_UploadsAndPresigns(t *testing.T) {
	f := newFixture(t)
	f.cfg.S3Bucket = "exports"
	f.cfg.S3BaseEndpoint = "http://127.0.0.1:9000/"
	ctx := context.Background()
	alice := f.registerVerified(t, "alice", "hunter22")
	_, err := f.messages.Send(ctx, "alice", "hello there friend")
	require.NoError(t, err)

	var uploadedKey string
	var doc Export
	stubS3(t,
		func(in *s3.PutObjectInput) error {
			assert.Equal(t, "exports", *in.Bucket)
			uploadedKey = *in.Key
			body, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			return json.Unmarshal(body, &doc)
		},
		func(in *s3.GetObjectInput) (string, error) {
			assert.Equal(t, uploadedKey, *in.Key)
			return "https://s3.test/" + *in.Key + "?sig=1", nil
		})

	url, err := f.messages.Export(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/"+uploadedKey+"?sig=1", url)
	assert.Contains(t, uploadedKey, "exports/"+alice.ID+"/")
	assert.Equal(t, "alice", doc.Username)
	require.Len(t, doc.Messages, 1)
	assert.Equal(t, "hello there friend", doc.Messages[0].Content)
}

func TestExport_UploadError(t *testing.T) {
	f := newFixture(t)
	f.cfg.S3Bucket = "exports"
	alice := f.registerVerified(t, "alice", "hunter22")

	stubS3(t,
		func(*s3.PutObjectInput) error { return errors.New("access denied") },
		func(*s3.GetObjectInput) (string, error) { return "", nil })

	_, err := f.messages.Export(context.Background(), alice)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestExport_PresignError(t *testing.T) {
	f := newFixture(t)
	f.cfg.S3Bucket = "exports"
	alice := f.registerVerified(t, "alice", "hunter22")

	stubS3(t,
		func(*s3.PutObjectInput) error { return nil },
		func(*s3.GetObjectInput) (string, error) { return "", errors.New("presign boom") })

	_, err := f.messages.Export(context.Background(), alice)
	assert.ErrorIs(t, err, common.ErrorInternal)
}
