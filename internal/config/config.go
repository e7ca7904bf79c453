// Package config resolves flowtask settings from the optional
// ~/.flowtask/config.toml file and FLOWTASK_* environment variables.
// Precedence: command-line flag > environment > config file > default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the resolved settings.
type Config struct {
	DatabaseURL string // FLOWTASK_DB or [database] url; default ~/.flowtask/flowtask.db

	// Backup settings ([backup] table / FLOWTASK_BACKUP_* vars).
	BackupS3Bucket   string // enables the backup command when set
	BackupS3Region   string // default "us-east-1"
	BackupS3Endpoint string // custom endpoint for MinIO and similar
	BackupS3Key      string // default "flowtask/backup.json"
}

// fileConfig mirrors the TOML layout of ~/.flowtask/config.toml.
type fileConfig struct {
	Database struct {
		URL string `toml:"url"`
	} `toml:"database"`
	Backup struct {
		S3Bucket   string `toml:"s3_bucket"`
		S3Region   string `toml:"s3_region"`
		S3Endpoint string `toml:"s3_endpoint"`
		S3Key      string `toml:"s3_key"`
	} `toml:"backup"`
}

// DefaultPath returns the default database location, ~/.flowtask/flowtask.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".flowtask", "flowtask.db"), nil
}

func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".flowtask", "config.toml"), nil
}

// Load resolves the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	var fc fileConfig
	if path, err := configFilePath(); err == nil {
		if _, err := toml.DecodeFile(path, &fc); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	c := &Config{
		DatabaseURL:      firstNonEmpty(os.Getenv("FLOWTASK_DB"), fc.Database.URL),
		BackupS3Bucket:   firstNonEmpty(os.Getenv("FLOWTASK_BACKUP_S3_BUCKET"), fc.Backup.S3Bucket),
		BackupS3Region:   firstNonEmpty(os.Getenv("FLOWTASK_BACKUP_S3_REGION"), fc.Backup.S3Region, "us-east-1"),
		BackupS3Endpoint: firstNonEmpty(os.Getenv("FLOWTASK_BACKUP_S3_ENDPOINT"), fc.Backup.S3Endpoint),
		BackupS3Key:      firstNonEmpty(os.Getenv("FLOWTASK_BACKUP_S3_KEY"), fc.Backup.S3Key, "flowtask/backup.json"),
	}

	if c.DatabaseURL == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		c.DatabaseURL = path
	}

	return c, nil
}

// IsPostgres reports whether the database URL selects the PostgreSQL backend.
// Anything else is treated as a SQLite file path.
func IsPostgres(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") ||
		strings.HasPrefix(databaseURL, "postgresql://")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
