package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"bizportal/internal/common"
	"bizportal/internal/metrics"
	"bizportal/internal/models"
	"bizportal/internal/repositories"
)

const (
	BackupTriggerManual    = "manual"
	BackupTriggerScheduled = "scheduled"
)

type BackupService interface {
	Export(ctx context.Context, principal *models.Principal) (*models.BackupReceipt, error)
	ExportNamespace(ctx context.Context, namespace, trigger string) (*models.BackupReceipt, error)
	Enabled() bool
}

type backupService struct {
	storage      ObjectStorage
	bucket       string
	urlExpiry    time.Duration
	resolver     TenantResolver
	businessRepo repositories.BusinessRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewBackupService copies business records to object storage. A nil storage
// yields a service whose exports fail with common.ErrBackupDisabled.
func NewBackupService(storage ObjectStorage, bucket string, urlExpiry time.Duration, resolver TenantResolver,
	businessRepo repositories.BusinessRepository, m *metrics.Metrics, logger *zap.Logger) BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backupService{
		storage:      storage,
		bucket:       bucket,
		urlExpiry:    urlExpiry,
		resolver:     resolver,
		businessRepo: businessRepo,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *backupService) Enabled() bool {
	return s.storage != nil
}

func (s *backupService) Export(ctx context.Context, principal *models.Principal) (*models.BackupReceipt, error) {
	if principal == nil {
		return nil, common.ErrUnauthorized
	}
	return s.ExportNamespace(ctx, s.resolver.Resolve(ctx, principal), BackupTriggerManual)
}

func (s *backupService) ExportNamespace(ctx context.Context, namespace, trigger string) (receipt *models.BackupReceipt, err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.metrics.RecordBackup(trigger, result)
	}()

	if !s.Enabled() {
		return nil, common.ErrBackupDisabled
	}

	record, err := s.businessRepo.Load(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("load business record: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode business record: %w", err)
	}

	now := s.now().UTC()
	objectKey := BackupObjectKey(namespace, now)
	if err := s.storage.PutObject(ctx, s.bucket, objectKey, data, "application/json"); err != nil {
		return nil, fmt.Errorf("%w: upload backup: %v", common.ErrStorageFailure, err)
	}

	receipt = &models.BackupReceipt{
		Bucket:    s.bucket,
		ObjectKey: objectKey,
		CreatedAt: now.Format(time.RFC3339),
	}

	if trigger == BackupTriggerManual {
		url, err := s.storage.GetPresignedURL(ctx, s.bucket, objectKey, s.urlExpiry)
		if err != nil {
			// the export succeeded; the receipt goes out without a link
			s.logger.Warn("failed to presign backup url",
				zap.String("object_key", objectKey),
				zap.Error(err),
			)
		} else {
			receipt.URL = url
		}
	}

	s.logger.Info("business record exported",
		zap.String("namespace", namespace),
		zap.String("bucket", s.bucket),
		zap.String("object_key", objectKey),
		zap.String("trigger", trigger),
	)
	return receipt, nil
}

// BackupObjectKey names the object a namespace's record is exported to at t
func BackupObjectKey(namespace string, t time.Time) string {
	return path.Join(namespace, "restaurant-information-"+t.UTC().Format("20060102T150405Z")+".json")
}
