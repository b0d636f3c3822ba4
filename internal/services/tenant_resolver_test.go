package services

import (
	"context"
	"errors"
	"testing"

	"bizportal/internal/common"
	"bizportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TenantResolverTestSuite struct {
	suite.Suite
	mockRepo  *MockTenantConfigRepository
	resolver  TenantResolver
	principal *models.Principal
}

func (suite *TenantResolverTestSuite) SetupTest() {
	suite.mockRepo = &MockTenantConfigRepository{}
	suite.mockRepo.Test(suite.T())
	suite.resolver = NewTenantResolver(suite.mockRepo, "", nil)
	suite.principal = &models.Principal{UserID: "u1"}
}

func (suite *TenantResolverTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestTenantResolverTestSuite(t *testing.T) {
	suite.Run(t, new(TenantResolverTestSuite))
}

func (suite *TenantResolverTestSuite) TestResolve_ConfiguredFolder() {
	ctx := context.Background()
	suite.mockRepo.On("GetByUserID", ctx, "u1").
		Return(&models.TenantConfig{UserID: "u1", CustomerFolder: "acme-grill"}, nil)

	assert.Equal(suite.T(), "acme-grill", suite.resolver.Resolve(ctx, suite.principal))
}

func (suite *TenantResolverTestSuite) TestResolve_MissingConfigUsesDefault() {
	ctx := context.Background()
	suite.mockRepo.On("GetByUserID", ctx, "u1").Return(nil, common.ErrNotFound)

	assert.Equal(suite.T(), "defaultBPdata", suite.resolver.Resolve(ctx, suite.principal))
}

func (suite *TenantResolverTestSuite) TestResolve_UnreadableConfigUsesDefault() {
	ctx := context.Background()
	suite.mockRepo.On("GetByUserID", ctx, "u1").Return(nil, errors.New("disk on fire"))

	assert.Equal(suite.T(), "defaultBPdata", suite.resolver.Resolve(ctx, suite.principal))
}

func (suite *TenantResolverTestSuite) TestResolve_UnusableFolderUsesDefault() {
	ctx := context.Background()
	suite.mockRepo.On("GetByUserID", ctx, "u1").
		Return(&models.TenantConfig{UserID: "u1", CustomerFolder: "../etc"}, nil).Once()
	assert.Equal(suite.T(), "defaultBPdata", suite.resolver.Resolve(ctx, suite.principal))

	suite.mockRepo.On("GetByUserID", ctx, "u1").
		Return(&models.TenantConfig{UserID: "u1", CustomerFolder: "  "}, nil).Once()
	assert.Equal(suite.T(), "defaultBPdata", suite.resolver.Resolve(ctx, suite.principal))
}

func (suite *TenantResolverTestSuite) TestResolve_ReResolvesEveryCall() {
	ctx := context.Background()
	suite.mockRepo.On("GetByUserID", ctx, "u1").
		Return(&models.TenantConfig{UserID: "u1", CustomerFolder: "first"}, nil).Once()
	suite.mockRepo.On("GetByUserID", ctx, "u1").
		Return(&models.TenantConfig{UserID: "u1", CustomerFolder: "second"}, nil).Once()

	assert.Equal(suite.T(), "first", suite.resolver.Resolve(ctx, suite.principal))
	assert.Equal(suite.T(), "second", suite.resolver.Resolve(ctx, suite.principal))
}

func (suite *TenantResolverTestSuite) TestResolve_CustomDefault() {
	ctx := context.Background()
	resolver := NewTenantResolver(suite.mockRepo, "shared-tenant", nil)
	suite.mockRepo.On("GetByUserID", ctx, "u1").Return(nil, common.ErrNotFound)

	assert.Equal(suite.T(), "shared-tenant", resolver.Resolve(ctx, suite.principal))
}

func (suite *TenantResolverTestSuite) TestResolve_NilPrincipalSkipsLookup() {
	assert.Equal(suite.T(), "defaultBPdata", suite.resolver.Resolve(context.Background(), nil))
	suite.mockRepo.AssertNotCalled(suite.T(), "GetByUserID", mock.Anything, mock.Anything)
}
