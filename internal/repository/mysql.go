package repository

import (
	"context"
	"fmt"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ClickLogRepository archives raw clicks in MySQL
type ClickLogRepository struct {
	db *gorm.DB
}

// NewClickLogRepository connects to MySQL and migrates the click_logs table
func NewClickLogRepository(cfg *config.MySQLConfig) (*ClickLogRepository, error) {
	// Configure GORM logger
	var gormLogger logger.Interface
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gormLogger = logger.Default.LogMode(logger.Silent)
	} else {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if err := db.AutoMigrate(&model.ClickLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate click_logs: %w", err)
	}

	log.Info().Msg("MySQL click archive connected successfully")

	return &ClickLogRepository{db: db}, nil
}

// SaveClickLog appends one click to the archive
func (r *ClickLogRepository) SaveClickLog(ctx context.Context, click *model.ClickLog) error {
	return r.db.WithContext(ctx).Create(click).Error
}

// GetClickLogs returns the most recent clicks of a slug, newest first. A
// non-positive limit returns every row.
func (r *ClickLogRepository) GetClickLogs(ctx context.Context, slug string, limit int) ([]model.ClickLog, error) {
	var logs []model.ClickLog
	query := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Order("clicked_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&logs).Error
	return logs, err
}

// RenameSlug moves archived clicks to a new slug
func (r *ClickLogRepository) RenameSlug(ctx context.Context, oldSlug, newSlug string) error {
	return r.db.WithContext(ctx).
		Model(&model.ClickLog{}).
		Where("slug = ?", oldSlug).
		Update("slug", newSlug).Error
}

// DeleteBySlug removes every archived click of a slug
func (r *ClickLogRepository) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Delete(&model.ClickLog{})
	return result.RowsAffected, result.Error
}

// Close closes the database connection
func (r *ClickLogRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
