package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type FileStore struct {
	mock.Mock
}

func (m *FileStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *FileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
