// Package store provides the durable transaction table: idempotent schema
// creation, point lookups against the uniqueness key and per-record
// committed inserts.
package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"finledger/ingest/internal/logging"
	"finledger/ingest/internal/models"
)

// ErrDuplicate is returned by Insert when a record with the same
// (transaction_id, reference_number) pair already exists. The driver
// pre-checks with Exists, so this surfacing means the constraint caught a
// record that slipped through; callers log it and continue.
var ErrDuplicate = errors.New("transaction already exists")

// TransactionStore owns the SQLite connection for the lifetime of one driver
// invocation. It is handed explicitly to the ingestion driver, there is no
// ambient global connection.
type TransactionStore struct {
	db     *gorm.DB
	logger logging.Logger
}

// OwnerCount pairs an account owner with its row count, the post-run
// verification read back from the store.
type OwnerCount struct {
	AccountOwner string
	Count        int64
}

// DuplicatePair describes a uniqueness-key pair occurring more than once.
// A healthy table yields none.
type DuplicatePair struct {
	TransactionID   string
	ReferenceNumber string
	Count           int64
}

// Open connects to the SQLite database at the given path. A failure here is
// fatal for the run; nothing has touched the store yet.
func Open(path string, logger logging.Logger) (*TransactionStore, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", path, err)
	}

	logger.WithField("path", path).Info("Connected to the database")
	return &TransactionStore{db: db, logger: logger}, nil
}

// EnsureSchema idempotently creates the transactions table and its composite
// unique index. Safe to call on every startup; it also backfills the
// account_owner column on tables created before that column existed.
func (s *TransactionStore) EnsureSchema() error {
	if err := s.db.AutoMigrate(&TransactionEntity{}); err != nil {
		return fmt.Errorf("error migrating transactions table: %w", err)
	}
	return nil
}

// Exists reports whether a record with the given uniqueness key is already
// stored.
func (s *TransactionStore) Exists(transactionID, referenceNumber string) (bool, error) {
	var count int64
	err := s.db.Model(&TransactionEntity{}).
		Where("transaction_id = ? AND reference_number = ?", transactionID, referenceNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("error checking for duplicate: %w", err)
	}
	return count > 0, nil
}

// Insert persists a single record. Each insert is its own committed
// statement, so a mid-run failure loses at most the in-flight record.
func (s *TransactionStore) Insert(t models.Transaction) error {
	entity := toEntity(t)
	if err := s.db.Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("error inserting record %s: %w", t.TransactionID, err)
	}
	return nil
}

// Count returns the total number of stored transactions.
func (s *TransactionStore) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&TransactionEntity{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return count, nil
}

// CountByOwner returns per-account-owner row counts for post-run
// verification.
func (s *TransactionStore) CountByOwner() ([]OwnerCount, error) {
	var counts []OwnerCount
	err := s.db.Model(&TransactionEntity{}).
		Select("account_owner, count(*) as count").
		Group("account_owner").
		Order("account_owner").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("error counting transactions by owner: %w", err)
	}
	return counts, nil
}

// DuplicatePairs audits the uniqueness invariant: it returns every
// (transaction_id, reference_number) pair stored more than once.
func (s *TransactionStore) DuplicatePairs() ([]DuplicatePair, error) {
	var pairs []DuplicatePair
	err := s.db.Model(&TransactionEntity{}).
		Select("transaction_id, reference_number, count(*) as count").
		Group("transaction_id, reference_number").
		Having("count(*) > 1").
		Scan(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("error auditing duplicate pairs: %w", err)
	}
	return pairs, nil
}

// All reads back every stored transaction, the collaborator boundary the
// presentation layer consumes.
func (s *TransactionStore) All() ([]models.Transaction, error) {
	var entities []*TransactionEntity
	if err := s.db.Order("id").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}

	transactions := make([]models.Transaction, len(entities))
	for i, e := range entities {
		transactions[i] = toModel(e)
	}
	return transactions, nil
}

// Close releases the underlying connection.
func (s *TransactionStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
