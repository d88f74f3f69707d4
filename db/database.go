package db

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"

	"bdecode/bencode"
	"bdecode/config"
	"bdecode/db/models"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PreviewSize is how many input bytes are kept with each record.
const PreviewSize = 64

type Database struct {
	db *gorm.DB
}

func Init() (*Database, error) {
	return Open(config.Main.DB.Path)
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema.
func Open(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "creating database directory %s", dir)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", path)
	}

	err = db.AutoMigrate(&models.DecodeRecord{})
	if err != nil {
		return nil, errors.Wrap(err, "migrating database")
	}

	return &Database{
		db: db,
	}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDecodeRecord describes one decode of input. decodeErr is the error the
// decoder returned, or nil on success.
func NewDecodeRecord(input []byte, output string, decodeErr error) *models.DecodeRecord {
	sum := sha1.Sum(input)
	preview := input
	if len(preview) > PreviewSize {
		preview = preview[:PreviewSize]
	}
	rec := &models.DecodeRecord{
		InputHash: hex.EncodeToString(sum[:]),
		InputSize: len(input),
		Preview:   string(preview),
		Output:    output,
		Status:    StatusOf(decodeErr),
	}
	if decodeErr != nil {
		rec.Error = decodeErr.Error()
	}
	return rec
}

// StatusOf classifies a decoder error.
func StatusOf(err error) models.DecodeStatus {
	switch {
	case err == nil:
		return models.StatusOK
	case errors.Is(err, bencode.ErrTruncated):
		return models.StatusTruncated
	case errors.Is(err, bencode.ErrInputTooDeep):
		return models.StatusTooDeep
	case errors.Is(err, bencode.ErrTrailingData):
		return models.StatusTrailing
	default:
		return models.StatusMalformed
	}
}

func (d *Database) RecordDecode(rec *models.DecodeRecord) error {
	return d.db.Create(rec).Error
}

// RecentDecodes returns up to limit records, newest first.
func (d *Database) RecentDecodes(limit int, onlyFailed bool) ([]models.DecodeRecord, error) {
	records := make([]models.DecodeRecord, 0)
	tx := d.db.Order("id desc")
	if onlyFailed {
		tx = tx.Where("status <> ?", models.StatusOK)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountByStatus returns how many records exist for each status.
func (d *Database) CountByStatus() (map[models.DecodeStatus]int64, error) {
	var rows []struct {
		Status models.DecodeStatus
		Count  int64
	}
	err := d.db.Model(&models.DecodeRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.DecodeStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
