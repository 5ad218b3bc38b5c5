package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	getErr  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://docs/scans/page.png")
	require.NoError(t, err)
	assert.Equal(t, "docs", bucket)
	assert.Equal(t, "scans/page.png", key)

	for _, bad := range []string{"docs/page.png", "s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsS3(t *testing.T) {
	assert.True(t, IsS3("s3://bucket/key"))
	assert.False(t, IsS3("/tmp/s3://x"))
	assert.False(t, IsS3("scan.pdf"))
}

func TestStore_LocalRoundTrip(t *testing.T) {
	store := New(nil)
	path := filepath.Join(t.TempDir(), "nested", "out.png")

	require.NoError(t, store.Write(context.Background(), path, []byte("pixels")))

	data, err := store.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), data)
}

func TestStore_LocalMissing(t *testing.T) {
	store := New(nil)
	_, err := store.Read(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing.pdf")
}

func TestStore_S3RoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"in/doc.png": []byte("source")}}
	store := New(fake)

	data, err := store.Read(context.Background(), "s3://in/doc.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("source"), data)

	require.NoError(t, store.Write(context.Background(), "s3://out/doc.annotated.png", []byte("result")))
	assert.Equal(t, []byte("result"), fake.objects["out/doc.annotated.png"])
}

func TestStore_S3Errors(t *testing.T) {
	_, err := New(nil).Read(context.Background(), "s3://bucket/key")
	require.ErrorIs(t, err, ErrS3Unavailable)

	err = New(nil).Write(context.Background(), "s3://bucket/key", nil)
	require.ErrorIs(t, err, ErrS3Unavailable)

	boom := errors.New("access denied")
	_, err = New(&fakeS3{getErr: boom}).Read(context.Background(), "s3://bucket/key")
	require.ErrorIs(t, err, boom)
}

func TestStore_WriteFailsOnDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken"), 0o750))
	err := New(nil).Write(context.Background(), filepath.Join(dir, "taken"), []byte("x"))
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	store := NewFromConfig(aws.Config{Region: "eu-central-1"}, "http://localhost:4566", true)
	require.NotNil(t, store)
	assert.NotNil(t, store.s3)
}
