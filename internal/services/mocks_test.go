package services

import (
	"context"
	"time"

	"bizportal/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockTenantConfigRepository struct {
	mock.Mock
}

func (m *MockTenantConfigRepository) GetByUserID(ctx context.Context, userID string) (*models.TenantConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantConfig), args.Error(1)
}

func (m *MockTenantConfigRepository) Upsert(ctx context.Context, cfg *models.TenantConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Load(ctx context.Context, namespace string) (*models.BusinessRecord, error) {
	args := m.Called(ctx, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessRecord), args.Error(1)
}

func (m *MockBusinessRepository) Save(ctx context.Context, namespace string, record *models.BusinessRecord) (*models.BusinessRecord, error) {
	args := m.Called(ctx, namespace, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessRecord), args.Error(1)
}

func (m *MockBusinessRepository) Exists(ctx context.Context, namespace string) (bool, error) {
	args := m.Called(ctx, namespace)
	return args.Bool(0), args.Error(1)
}

func (m *MockBusinessRepository) ListNamespaces(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBusinessRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockTenantResolver struct {
	mock.Mock
}

func (m *MockTenantResolver) Resolve(ctx context.Context, principal *models.Principal) string {
	return m.Called(ctx, principal).String(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	return m.Called(ctx, bucketName, objectName, data, contentType).Error(0)
}

func (m *MockObjectStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	return m.Called(ctx, bucketName).Error(0)
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}
