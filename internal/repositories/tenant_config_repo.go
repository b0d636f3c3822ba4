package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bizportal/internal/common"
	"bizportal/internal/models"
)

const (
	// tenantConfigDir sits beside the namespaces; the leading dot can never match a namespace.
	tenantConfigDir = ".userconfig"

	uniqueViolation = "23505"
)

type TenantConfigRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.TenantConfig, error)
	// Upsert fails with common.ErrConflict when the folder is mapped to another user.
	Upsert(ctx context.Context, cfg *models.TenantConfig) error
}

type fileTenantConfigRepo struct {
	dir string
	now func() time.Time
	// serialises Upsert so two users cannot claim one folder at the same time
	mu sync.Mutex
}

// NewFileTenantConfigRepo keeps one userconfig JSON file per user below root
func NewFileTenantConfigRepo(root string) TenantConfigRepository {
	return &fileTenantConfigRepo{dir: filepath.Join(root, tenantConfigDir), now: time.Now}
}

// ConfigFileName maps a user ID onto a file name. Subjects come from the identity
// provider in any alphabet, so the name is derived from a digest of the ID.
func ConfigFileName(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:]) + ".json"
}

func (r *fileTenantConfigRepo) path(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: empty user id", common.ErrInvalidInput)
	}
	return filepath.Join(r.dir, ConfigFileName(userID)), nil
}

func (r *fileTenantConfigRepo) GetByUserID(ctx context.Context, userID string) (*models.TenantConfig, error) {
	path, err := r.path(userID)
	if err != nil {
		return nil, err
	}

	cfg, err := readTenantConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.UserID = userID
	return cfg, nil
}

func (r *fileTenantConfigRepo) Upsert(ctx context.Context, cfg *models.TenantConfig) error {
	path, err := r.path(cfg.UserID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	owner, err := r.folderOwner(ctx, cfg.CustomerFolder)
	if err != nil {
		return err
	}
	if owner != "" && owner != cfg.UserID {
		return fmt.Errorf("%w: customer folder %q is assigned to another user", common.ErrConflict, cfg.CustomerFolder)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create user config dir: %v", common.ErrStorageFailure, err)
	}

	cfg.UpdatedAt = r.now().UTC().Format(time.RFC3339Nano)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode user config: %v", common.ErrStorageFailure, err)
	}
	return writeFileAtomic(r.dir, path, data)
}

// folderOwner returns the user already mapped to folder, or "" when nobody is
func (r *fileTenantConfigRepo) folderOwner(ctx context.Context, folder string) (string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: list user configs: %v", common.ErrStorageFailure, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		existing, err := readTenantConfig(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			// an unreadable entry cannot be resolved by the resolver either
			continue
		}
		if existing.CustomerFolder == folder {
			return existing.UserID, nil
		}
	}
	return "", nil
}

func readTenantConfig(path string) (*models.TenantConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: read user config: %v", common.ErrStorageFailure, err)
	}

	var cfg models.TenantConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: user config: %v", common.ErrCorruptRecord, err)
	}
	return &cfg, nil
}

// PgxPool is the subset of *pgxpool.Pool used by the Postgres repositories
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgTenantConfigRepo struct {
	db PgxPool
}

func NewPgTenantConfigRepo(db PgxPool) TenantConfigRepository {
	return &pgTenantConfigRepo{db: db}
}

func (r *pgTenantConfigRepo) GetByUserID(ctx context.Context, userID string) (*models.TenantConfig, error) {
	cfg := &models.TenantConfig{}
	var updatedAt time.Time
	query := `
		SELECT user_id, customer_folder, updated_at
		FROM user_configs
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&cfg.UserID, &cfg.CustomerFolder, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query user config: %v", common.ErrStorageFailure, err)
	}
	cfg.UpdatedAt = updatedAt.UTC().Format(time.RFC3339Nano)
	return cfg, nil
}

func (r *pgTenantConfigRepo) Upsert(ctx context.Context, cfg *models.TenantConfig) error {
	query := `
		INSERT INTO user_configs (user_id, customer_folder, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET customer_folder = EXCLUDED.customer_folder, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, cfg.UserID, cfg.CustomerFolder); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: customer folder %q is assigned to another user", common.ErrConflict, cfg.CustomerFolder)
		}
		return fmt.Errorf("%w: upsert user config: %v", common.ErrStorageFailure, err)
	}
	return nil
}
