package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"bizportal/internal/common"
	"bizportal/internal/metrics"
	"bizportal/internal/models"
)

const (
	businessDataDir  = "businessdata"
	businessDataFile = "restaurant-information.json"
)

type BusinessRepository interface {
	Load(ctx context.Context, namespace string) (*models.BusinessRecord, error)
	Save(ctx context.Context, namespace string, record *models.BusinessRecord) (*models.BusinessRecord, error)
	Exists(ctx context.Context, namespace string) (bool, error)
	ListNamespaces(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

type fileBusinessRepo struct {
	root    string
	now     func() time.Time
	metrics *metrics.Metrics
}

// NewFileBusinessRepo stores one business record per namespace below root.
func NewFileBusinessRepo(root string, m *metrics.Metrics) BusinessRepository {
	return &fileBusinessRepo{root: root, now: time.Now, metrics: m}
}

// RecordPath returns the location of a namespace's business record below root
func RecordPath(root, namespace string) string {
	return filepath.Join(root, namespace, businessDataDir, businessDataFile)
}

func (r *fileBusinessRepo) Load(ctx context.Context, namespace string) (record *models.BusinessRecord, err error) {
	defer r.observe("load", time.Now(), &err)

	if err := common.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.read(RecordPath(r.root, namespace))
}

func (r *fileBusinessRepo) Save(ctx context.Context, namespace string, record *models.BusinessRecord) (saved *models.BusinessRecord, err error) {
	defer r.observe("save", time.Now(), &err)

	if err := common.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: nil business record", common.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := RecordPath(r.root, namespace)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", common.ErrStorageFailure, businessDataDir, err)
	}

	// created_at survives rewrites even when the caller sends a record without it.
	var storedCreatedAt string
	if existing, err := r.read(path); err == nil {
		storedCreatedAt = existing.CreatedAt
	}

	toStore := *record
	toStore.Touch(r.now(), storedCreatedAt)

	data, err := json.MarshalIndent(&toStore, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode business record: %v", common.ErrStorageFailure, err)
	}
	if err := writeFileAtomic(dir, path, data); err != nil {
		return nil, err
	}
	return &toStore, nil
}

func (r *fileBusinessRepo) Exists(ctx context.Context, namespace string) (bool, error) {
	if err := common.ValidateNamespace(namespace); err != nil {
		return false, err
	}
	_, err := os.Stat(RecordPath(r.root, namespace))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
}

// ListNamespaces returns every namespace that currently holds a business record
func (r *fileBusinessRepo) ListNamespaces(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list namespaces: %v", common.ErrStorageFailure, err)
	}

	var namespaces []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || common.ValidateNamespace(entry.Name()) != nil {
			continue
		}
		if ok, err := r.Exists(ctx, entry.Name()); err == nil && ok {
			namespaces = append(namespaces, entry.Name())
		}
	}
	sort.Strings(namespaces)
	return namespaces, nil
}

// Ping verifies the data root exists and is a directory
func (r *fileBusinessRepo) Ping(ctx context.Context) error {
	info, err := os.Stat(r.root)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: data root is not a directory", common.ErrStorageFailure)
	}
	return nil
}

func (r *fileBusinessRepo) read(path string) (*models.BusinessRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: read business record: %v", common.ErrStorageFailure, err)
	}

	var record models.BusinessRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptRecord, err)
	}
	return &record, nil
}

func (r *fileBusinessRepo) observe(operation string, start time.Time, err *error) {
	result := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, common.ErrNotFound):
		result = "not_found"
	case errors.Is(*err, common.ErrCorruptRecord):
		result = "corrupt"
	default:
		result = "error"
	}
	r.metrics.RecordStoreOp(operation, result, time.Since(start).Seconds())
}

// writeFileAtomic writes data to a temp file in dir and renames it over path,
// so readers see either the previous document or the new one.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", common.ErrStorageFailure, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write temp file: %v", common.ErrStorageFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync temp file: %v", common.ErrStorageFailure, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close temp file: %v", common.ErrStorageFailure, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("%w: chmod temp file: %v", common.ErrStorageFailure, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: rename temp file: %v", common.ErrStorageFailure, err)
	}
	return nil
}
