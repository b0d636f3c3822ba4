package services

import (
	"context"
	"fmt"
	"strings"

	"bizportal/internal/common"
	"bizportal/internal/models"
	"bizportal/internal/repositories"
)

type TenantConfigService interface {
	Get(ctx context.Context, principal *models.Principal) (*models.TenantConfig, error)
	Update(ctx context.Context, principal *models.Principal, customerFolder string) (*models.TenantConfig, error)
}

type tenantConfigService struct {
	configRepo       repositories.TenantConfigRepository
	businessRepo     repositories.BusinessRepository
	resolver         TenantResolver
	defaultNamespace string
}

func NewTenantConfigService(configRepo repositories.TenantConfigRepository, businessRepo repositories.BusinessRepository,
	resolver TenantResolver, defaultNamespace string) TenantConfigService {
	if defaultNamespace == "" {
		defaultNamespace = DefaultNamespace
	}
	return &tenantConfigService{
		configRepo:       configRepo,
		businessRepo:     businessRepo,
		resolver:         resolver,
		defaultNamespace: defaultNamespace,
	}
}

// Get reports the namespace the principal currently resolves to
func (s *tenantConfigService) Get(ctx context.Context, principal *models.Principal) (*models.TenantConfig, error) {
	if principal == nil {
		return nil, common.ErrUnauthorized
	}
	return &models.TenantConfig{
		UserID:         principal.UserID,
		CustomerFolder: s.resolver.Resolve(ctx, principal),
	}, nil
}

// Update maps the principal to customerFolder. A folder belongs to at most one
// user; the shared default folder cannot be claimed, and only admins may claim
// a folder that already holds a record nobody is mapped to.
func (s *tenantConfigService) Update(ctx context.Context, principal *models.Principal, customerFolder string) (*models.TenantConfig, error) {
	if principal == nil {
		return nil, common.ErrUnauthorized
	}

	customerFolder = strings.TrimSpace(customerFolder)
	if customerFolder == "" {
		return nil, fmt.Errorf("%w: customer folder is required", common.ErrInvalidInput)
	}
	if err := common.ValidateNamespace(customerFolder); err != nil {
		return nil, fmt.Errorf("%w: customer folder may only contain letters, digits, '.', '_' and '-'", common.ErrInvalidInput)
	}
	if customerFolder == s.defaultNamespace {
		return nil, fmt.Errorf("%w: the default folder is shared and cannot be claimed", common.ErrConflict)
	}

	current := s.resolver.Resolve(ctx, principal)
	if current != customerFolder && !principal.Admin {
		exists, err := s.businessRepo.Exists(ctx, customerFolder)
		if err != nil {
			return nil, fmt.Errorf("check customer folder: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: customer folder %q already holds business data", common.ErrConflict, customerFolder)
		}
	}

	cfg := &models.TenantConfig{
		UserID:         principal.UserID,
		CustomerFolder: customerFolder,
	}
	if err := s.configRepo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("update user config: %w", err)
	}
	return cfg, nil
}
