package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bizportal/internal/common"
	"bizportal/internal/models"
	"bizportal/internal/repositories"
)

type BusinessService interface {
	Retrieve(ctx context.Context, principal *models.Principal) (*models.BusinessRecord, error)
	Save(ctx context.Context, principal *models.Principal, payload *models.BusinessRecord) (*models.BusinessRecord, error)
}

type businessService struct {
	resolver     TenantResolver
	businessRepo repositories.BusinessRepository
	logger       *zap.Logger
}

func NewBusinessService(resolver TenantResolver, businessRepo repositories.BusinessRepository, logger *zap.Logger) BusinessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &businessService{
		resolver:     resolver,
		businessRepo: businessRepo,
		logger:       logger,
	}
}

func (s *businessService) Retrieve(ctx context.Context, principal *models.Principal) (*models.BusinessRecord, error) {
	if principal == nil {
		return nil, common.ErrUnauthorized
	}

	namespace := s.resolver.Resolve(ctx, principal)
	record, err := s.businessRepo.Load(ctx, namespace)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("failed to load business record",
				zap.String("user_id", principal.UserID),
				zap.String("namespace", namespace),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("load business record: %w", err)
	}
	return record, nil
}

func (s *businessService) Save(ctx context.Context, principal *models.Principal, payload *models.BusinessRecord) (*models.BusinessRecord, error) {
	if principal == nil {
		return nil, common.ErrUnauthorized
	}
	if payload.IsEmpty() {
		return nil, fmt.Errorf("%w: business information is required", common.ErrInvalidInput)
	}

	namespace := s.resolver.Resolve(ctx, principal)
	saved, err := s.businessRepo.Save(ctx, namespace, payload)
	if err != nil {
		s.logger.Error("failed to save business record",
			zap.String("user_id", principal.UserID),
			zap.String("namespace", namespace),
			zap.Error(err),
		)
		return nil, fmt.Errorf("save business record: %w", err)
	}

	s.logger.Info("business record saved",
		zap.String("user_id", principal.UserID),
		zap.String("namespace", namespace),
		zap.String("updated_at", saved.UpdatedAt),
	)
	return saved, nil
}
