package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"bizportal/internal/common"
	"bizportal/internal/models"
	"bizportal/internal/repositories"
)

// DefaultNamespace is used for users without a readable tenant config.
const DefaultNamespace = "defaultBPdata"

type TenantResolver interface {
	Resolve(ctx context.Context, principal *models.Principal) string
}

type tenantResolver struct {
	configRepo       repositories.TenantConfigRepository
	defaultNamespace string
	logger           *zap.Logger
}

func NewTenantResolver(configRepo repositories.TenantConfigRepository, defaultNamespace string, logger *zap.Logger) TenantResolver {
	if defaultNamespace == "" {
		defaultNamespace = DefaultNamespace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tenantResolver{
		configRepo:       configRepo,
		defaultNamespace: defaultNamespace,
		logger:           logger,
	}
}

// Resolve returns the principal's customer folder. It never fails: a missing,
// unreadable or unusable config degrades to the default namespace.
func (r *tenantResolver) Resolve(ctx context.Context, principal *models.Principal) string {
	if principal == nil {
		return r.defaultNamespace
	}

	cfg, err := r.configRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			r.logger.Warn("tenant config unreadable, using default namespace",
				zap.String("user_id", principal.UserID),
				zap.Error(err),
			)
		}
		return r.defaultNamespace
	}

	folder := strings.TrimSpace(cfg.CustomerFolder)
	if err := common.ValidateNamespace(folder); err != nil {
		r.logger.Warn("tenant config has unusable customer folder, using default namespace",
			zap.String("user_id", principal.UserID),
			zap.String("customer_folder", cfg.CustomerFolder),
		)
		return r.defaultNamespace
	}
	return folder
}
