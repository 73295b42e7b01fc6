package content

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	objects  map[string][]byte
	headErr  error
	getErr   error
	lastKey  string
	lastSize int64
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) Upload(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastKey = aws.ToString(in.Key)
	f.lastSize = aws.ToInt64(in.ContentLength)
	f.objects[f.lastKey] = data
	return &manager.UploadOutput{}, nil
}

func TestS3Bucket_PutGet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	b := newS3Bucket(S3Options{Bucket: "lessons", Prefix: "prod"}, fake, fake)

	if err := b.Put(ctx, TreeKey, strings.NewReader("[]"), 2); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if fake.lastKey != "prod/content.json" {
		t.Errorf("uploaded key = %q, want prod/content.json", fake.lastKey)
	}
	if fake.lastSize != 2 {
		t.Errorf("ContentLength = %d, want 2", fake.lastSize)
	}

	var buf bytes.Buffer
	if err := b.Get(ctx, TreeKey, &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("Get() = %q, want []", buf.String())
	}
}

func TestS3Bucket_GetMissingMapsToNotFound(t *testing.T) {
	fake := newFakeS3()
	b := newS3Bucket(S3Options{Bucket: "lessons"}, fake, fake)

	var buf bytes.Buffer
	if err := b.Get(context.Background(), TreeKey, &buf); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Get() error = %v, want ErrObjectNotFound", err)
	}
}

func TestS3Bucket_GetOtherError(t *testing.T) {
	fake := newFakeS3()
	fake.getErr = errors.New("access denied")
	b := newS3Bucket(S3Options{Bucket: "lessons"}, fake, fake)

	var buf bytes.Buffer
	err := b.Get(context.Background(), TreeKey, &buf)
	if err == nil || errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Get() error = %v, want a non-NotFound error", err)
	}
}

func TestS3Bucket_ValidateSetup(t *testing.T) {
	fake := newFakeS3()
	b := newS3Bucket(S3Options{Bucket: "lessons"}, fake, fake)
	if err := b.ValidateSetup(context.Background()); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}

	fake.headErr = errors.New("forbidden")
	if err := b.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error")
	}
}

func TestNewS3Bucket_RequiresBucket(t *testing.T) {
	if _, err := NewS3Bucket(context.Background(), S3Options{}); err == nil {
		t.Fatal("NewS3Bucket() expected error without bucket")
	}
}
