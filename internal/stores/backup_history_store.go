package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"server-runner/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

// BackupHistoryStore keeps an audit trail of backup operations.
//
//go:generate mockgen -source=backup_history_store.go -destination=./mocks/backup_history_store_mock.go -package=mocks
type BackupHistoryStore interface {
	Record(ctx context.Context, entry *models.HistoryEntry) error
	// Recent returns the newest entries first. A non-positive limit uses the default.
	Recent(ctx context.Context, limit int) ([]*models.HistoryEntry, error)
	ForFile(ctx context.Context, fileName string) ([]*models.HistoryEntry, error)
}

type backupHistoryRecord struct {
	ID         uint      `gorm:"primaryKey"`
	CreatedAt  time.Time `gorm:"index"`
	Operation  string    `gorm:"size:32;index;not null"`
	FileName   string    `gorm:"size:255;index;not null"`
	SizeBytes  int64
	Checksum   string `gorm:"size:64"`
	Actor      string `gorm:"size:128"`
	Client     string `gorm:"size:64"`
	DurationMs int64
	Details    datatypes.JSON
}

func (backupHistoryRecord) TableName() string { return "backup_history" }

type gormBackupHistoryStore struct {
	db *gorm.DB
}

// NewBackupHistoryStore migrates the history table and returns a gorm backed store.
func NewBackupHistoryStore(db *gorm.DB) (BackupHistoryStore, error) {
	if err := db.AutoMigrate(&backupHistoryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate backup history: %w", err)
	}
	return &gormBackupHistoryStore{db: db}, nil
}

func (s *gormBackupHistoryStore) Record(ctx context.Context, entry *models.HistoryEntry) error {
	record, err := toHistoryRecord(entry)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to record backup history: %w", err)
	}
	entry.ID = record.ID
	entry.CreatedAt = record.CreatedAt
	return nil
}

func (s *gormBackupHistoryStore) Recent(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var records []backupHistoryRecord
	err := s.db.WithContext(ctx).
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query backup history: %w", err)
	}
	return fromHistoryRecords(records)
}

func (s *gormBackupHistoryStore) ForFile(ctx context.Context, fileName string) ([]*models.HistoryEntry, error) {
	var records []backupHistoryRecord
	err := s.db.WithContext(ctx).
		Where("file_name = ?", fileName).
		Order("created_at desc").Order("id desc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query backup history: %w", err)
	}
	return fromHistoryRecords(records)
}

func toHistoryRecord(entry *models.HistoryEntry) (*backupHistoryRecord, error) {
	record := &backupHistoryRecord{
		CreatedAt:  entry.CreatedAt,
		Operation:  string(entry.Operation),
		FileName:   entry.FileName,
		SizeBytes:  entry.SizeBytes,
		Checksum:   entry.Checksum,
		Actor:      entry.Actor,
		Client:     entry.Client,
		DurationMs: entry.Duration.Milliseconds(),
	}
	if len(entry.Details) > 0 {
		details, err := json.Marshal(entry.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal history details: %w", err)
		}
		record.Details = datatypes.JSON(details)
	}
	return record, nil
}

func fromHistoryRecords(records []backupHistoryRecord) ([]*models.HistoryEntry, error) {
	entries := make([]*models.HistoryEntry, 0, len(records))
	for _, record := range records {
		entry := &models.HistoryEntry{
			ID:        record.ID,
			Operation: models.HistoryOperation(record.Operation),
			FileName:  record.FileName,
			SizeBytes: record.SizeBytes,
			Checksum:  record.Checksum,
			Actor:     record.Actor,
			Client:    record.Client,
			Duration:  time.Duration(record.DurationMs) * time.Millisecond,
			CreatedAt: record.CreatedAt.UTC(),
		}
		if len(record.Details) > 0 {
			if err := json.Unmarshal(record.Details, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal history details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type nopBackupHistoryStore struct{}

// NewNopBackupHistoryStore returns a store that drops every entry. Used when no database is configured.
func NewNopBackupHistoryStore() BackupHistoryStore {
	return nopBackupHistoryStore{}
}

func (nopBackupHistoryStore) Record(context.Context, *models.HistoryEntry) error { return nil }

func (nopBackupHistoryStore) Recent(context.Context, int) ([]*models.HistoryEntry, error) {
	return []*models.HistoryEntry{}, nil
}

func (nopBackupHistoryStore) ForFile(context.Context, string) ([]*models.HistoryEntry, error) {
	return []*models.HistoryEntry{}, nil
}
