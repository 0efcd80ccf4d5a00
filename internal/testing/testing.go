// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/rbxup/internal/services"
)

// MockAssetService is a scriptable test double for [services.AssetService].
// Unset function fields default to success with zero values.
type MockAssetService struct {
	VerifyFunc       func(ctx context.Context) error
	FetchFunc        func(ctx context.Context, assetID int64) (*services.AssetContent, error)
	FindExistingFunc func(ctx context.Context, displayName, assetKind string) (int64, bool, error)
	PublishFunc      func(ctx context.Context, content *services.AssetContent, displayName, assetKind string) (int64, error)
}

func (m *MockAssetService) Verify(ctx context.Context) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx)
	}
	return nil
}

func (m *MockAssetService) Fetch(ctx context.Context, assetID int64) (*services.AssetContent, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, assetID)
	}
	return &services.AssetContent{Bytes: []byte("content"), Filename: "asset.rbxm"}, nil
}

func (m *MockAssetService) FindExisting(ctx context.Context, displayName, assetKind string) (int64, bool, error) {
	if m.FindExistingFunc != nil {
		return m.FindExistingFunc(ctx, displayName, assetKind)
	}
	return 0, false, nil
}

func (m *MockAssetService) Publish(ctx context.Context, content *services.AssetContent, displayName, assetKind string) (int64, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, content, displayName, assetKind)
	}
	return 1, nil
}

func (m *MockAssetService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SeqRoundTripper serves responses in order, one per request, and records the
// requests it saw. Extra requests get the last response.
type SeqRoundTripper struct {
	Responses []*http.Response
	Errs      []error
	Requests  []*http.Request
}

func (s *SeqRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	i := len(s.Requests)
	s.Requests = append(s.Requests, req)
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	var err error
	if i < len(s.Errs) {
		err = s.Errs[i]
	}
	return s.Responses[i], err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
