package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/smartrecipe/backend/internal/service"
)

// MockStorage is a mock implementation of service.Storage. The body is
// drained so callers can assert on what was written.
type MockStorage struct {
	mock.Mock
	Written []byte
}

var _ service.Storage = (*MockStorage)(nil)

func (m *MockStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.Written = data
	args := m.Called(ctx, key, size, contentType)
	return args.String(0), args.Error(1)
}
