package bookshelf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ Persister = (*boltPersister)(nil)

type boltPersister struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *BoltDBConfig) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database folder, %v", err)
	}
	db, err := bolt.Open(config.FilePath, 0o600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltPersister provides an instance of bolt-based blob storage.
func NewBoltPersister(logger *zap.Logger, config *BoltDBConfig, client *bolt.DB) Persister {
	return &boltPersister{
		logger: logger,
		client: client,
		config: config,
	}
}

// Close shuts down the underlying bolt database.
func (bp *boltPersister) Close() error {
	return bp.client.Close()
}

// Get reads the blob stored under key. The returned slice is a copy
// since bolt values are only valid while the transaction is open.
func (bp *boltPersister) Get(_ context.Context, key string) ([]byte, error) {
	tx, err := bp.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	value := tx.Bucket([]byte(bp.config.BucketName)).Get([]byte(key))
	if value == nil {
		return nil, ErrBlobNotFound
	}
	data := make([]byte, len(value))
	copy(data, value)
	return data, nil
}

// Set overwrites the blob stored under key.
func (bp *boltPersister) Set(_ context.Context, key string, data []byte) error {
	err := bp.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bp.config.BucketName)).Put([]byte(key), data)
	})
	if err != nil {
		bp.logger.Error("bolt: failed to write blob", zap.String("key", key), zap.Error(err))
	}
	return err
}
