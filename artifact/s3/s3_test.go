package s3

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/artifact"
)

var _ artifact.Store = (*Store)(nil)

// apiError implements smithy.APIError for test assertions.
type apiError struct{ code string }

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// mockS3 is a thread-safe in-memory S3 backend.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	pageLen int
}

func newMockS3() *mockS3 { return &mockS3{objects: map[string][]byte{}, pageLen: 1000} }

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *mockS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) && k > aws.ToString(in.ContinuationToken) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if len(keys) > m.pageLen {
		keys = keys[:m.pageLen]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[len(keys)-1])
	}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	s := New(mock, "bucket", "/agents/")

	require.NoError(t, s.Save(ctx, "draft.txt", []byte("Hello world")))
	assert.Contains(t, mock.objects, "agents/draft.txt")

	data, err := s.Get(ctx, "draft.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", string(data))

	_, err = s.Get(ctx, "missing.txt")
	assert.ErrorIs(t, err, artifact.ErrNotFound)

	loc, err := s.Location("draft.txt")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/agents/draft.txt", loc)

	require.NoError(t, s.Delete(ctx, "draft.txt"))
	assert.ErrorIs(t, s.Delete(ctx, "draft.txt"), artifact.ErrNotFound)
}

func TestStore_ListPages(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	mock.pageLen = 2
	mock.objects["other/x.txt"] = []byte("x")
	s := New(mock, "bucket", "agents")

	for _, n := range []string{"c.txt", "a.txt", "b.txt", "d.txt", "e.txt"} {
		require.NoError(t, s.Save(ctx, n, []byte(n)))
	}

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}, names)
}

func TestStore_RejectsEscapingNames(t *testing.T) {
	s := New(newMockS3(), "bucket", "")
	assert.ErrorIs(t, s.Save(context.Background(), "../x", nil), artifact.ErrInvalidName)
}

func TestNewClient(t *testing.T) {
	c := NewClient(func(o *Options) {
		o.Region = "eu-central-1"
		o.Endpoint = "http://localhost:9000"
		o.AccessKeyID = "minio"
		o.SecretAccessKey = "minio123"
	})
	require.NotNil(t, c)
	assert.Equal(t, "eu-central-1", c.Options().Region)
	assert.True(t, c.Options().UsePathStyle)
}
