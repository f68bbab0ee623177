package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objectServer struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newObjectServer(t *testing.T) (*objectServer, *httptest.Server) {
	o := &objectServer{objects: map[string][]byte{}, types: map[string]string{}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Query().Get("X-Amz-Signature") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		body, _ := io.ReadAll(r.Body)
		o.mu.Lock()
		o.objects[r.URL.Path] = body
		o.types[r.URL.Path] = r.Header.Get("Content-Type")
		o.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	return o, ts
}

func testS3Options(endpoint string) S3Options {
	return S3Options{
		Region:          "us-east-1",
		Endpoint:        endpoint,
		Bucket:          "registo",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Prefix:          "exports",
		UsePathStyle:    true,
	}
}

func TestS3Storage_UploadPutsObjectAndReturnsDownloadURL(t *testing.T) {
	objects, ts := newObjectServer(t)
	st := NewS3Storage(testS3Options(ts.URL), ts.Client())
	st.now = func() time.Time { return time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC) }

	url, err := st.Upload(context.Background(), "registos_2024-05-03.xlsx", []byte("xlsx-bytes"), xlsxContentType)
	require.NoError(t, err)

	require.Len(t, objects.objects, 1)
	for p, body := range objects.objects {
		assert.True(t, strings.HasPrefix(p, "/registo/exports/2024/05/03/"), p)
		assert.True(t, strings.HasSuffix(p, "-registos_2024-05-03.xlsx"), p)
		assert.Equal(t, "xlsx-bytes", string(body))
		assert.Equal(t, xlsxContentType, objects.types[p])
		assert.Contains(t, url, p)
	}
	assert.True(t, strings.HasPrefix(url, ts.URL))
	assert.Contains(t, url, "X-Amz-Expires=900")
}

func TestS3Storage_NotConfigured(t *testing.T) {
	st := NewS3Storage(S3Options{}, nil)
	assert.False(t, st.Configured())

	_, err := st.Upload(context.Background(), "x.xlsx", nil, xlsxContentType)
	require.ErrorIs(t, err, ErrStorageNotConfigured)

	var nilStorage *S3Storage
	assert.False(t, nilStorage.Configured())
}

func TestS3Storage_PresignPutError(t *testing.T) {
	orig := presignPutObject
	t.Cleanup(func() { presignPutObject = orig })
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}

	st := NewS3Storage(testS3Options("http://127.0.0.1:9000"), nil)
	_, err := st.Upload(context.Background(), "x.xlsx", []byte("x"), xlsxContentType)
	require.ErrorContains(t, err, "presign-put-fail")
}

func TestS3Storage_UploadRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	st := NewS3Storage(testS3Options(ts.URL), ts.Client())
	_, err := st.Upload(context.Background(), "x.xlsx", []byte("x"), xlsxContentType)
	require.ErrorContains(t, err, "upload failed: 403")
}

func TestS3Storage_ObjectKeyIsUnique(t *testing.T) {
	st := NewS3Storage(testS3Options(""), nil)
	a, b := st.ObjectKey("f.xlsx"), st.ObjectKey("f.xlsx")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "exports/"))
}
