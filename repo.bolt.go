package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltOrderArchive struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltOrderArchive provides an instance of bolt-based order archive.
func NewBoltOrderArchive(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) OrderArchive {
	return &boltOrderArchive{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based order archive.
func (ba *boltOrderArchive) Close() error {
	return ba.client.Close()
}

// Save inserts an accepted order record into boltdb store.
func (ba *boltOrderArchive) Save(_ context.Context, id string, record OrderRecord) error {
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	err = ba.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ba.config.BucketName)).Put([]byte(id), recordBytes)
	})
	return err
}

// GetOne retrieves an order record based on its ID from boltdb store.
func (ba *boltOrderArchive) GetOne(_ context.Context, id string) (OrderRecord, error) {
	var record OrderRecord
	// initialize a readable transaction.
	tx, err := ba.client.Begin(false)
	if err != nil {
		return record, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(ba.config.BucketName)).Get([]byte(id))
	if result == nil {
		return record, ErrOrderNotFound
	}
	err = json.Unmarshal(result, &record)
	return record, err
}

// GetAll retrieves a list of all order records stored in the bolt database.
func (ba *boltOrderArchive) GetAll(_ context.Context) ([]OrderRecord, error) {
	tx, err := ba.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Create a cursor on the orders' bucket.
	c := tx.Bucket([]byte(ba.config.BucketName)).Cursor()

	records := []OrderRecord{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var record OrderRecord
		if err = json.Unmarshal(v, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
