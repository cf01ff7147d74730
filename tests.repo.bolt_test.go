package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltArchive returns a new order archive backed by a temporary file.
func newTestBoltArchive() (*boltOrderArchive, error) {
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	if err != nil {
		return nil, err
	}
	f.Close()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   f.Name(),
			Timeout:    5 * time.Second,
			BucketName: "test.orders",
		},
	}

	client, err := GetBoltDBClient(testConfig)

	return &boltOrderArchive{
		logger: zap.NewNop(),
		client: client,
		config: &testConfig.BoltDB,
	}, err
}

// closeTestBoltArchive closes the temporary archive and removes the
// underlying data file.
func (ba *boltOrderArchive) closeTestBoltArchive() error {
	defer os.Remove(ba.config.FilePath)
	return ba.Close()
}

// Ensure bolt archive can save and retrieve an accepted order record.
func TestBoltArchive_SaveOrder(t *testing.T) {
	ba, err := newTestBoltArchive()
	require.NoError(t, err, "failed in creating a test bolt archive")
	defer ba.closeTestBoltArchive()
	testOrderID := "o:0"

	// Archive a new order record.
	record := OrderRecord{ID: testOrderID, Reference: "REF-42", Total: 160}
	err = ba.Save(context.TODO(), testOrderID, record)
	assert.NoError(t, err)

	// Verify the record can be retrieved.
	got, err := ba.GetOne(context.TODO(), testOrderID)
	assert.NoError(t, err)
	assert.Equal(t, testOrderID, got.ID)
	assert.Equal(t, "REF-42", got.Reference)
	assert.Equal(t, int64(160), got.Total)
}

// Ensure fetching a missing order record fails with the right error.
func TestBoltArchive_GetMissingOrder(t *testing.T) {
	ba, err := newTestBoltArchive()
	require.NoError(t, err, "failed in creating a test bolt archive")
	defer ba.closeTestBoltArchive()

	_, err = ba.GetOne(context.TODO(), "o:404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// Ensure the archive lists every stored record.
func TestBoltArchive_GetAllOrders(t *testing.T) {
	ba, err := newTestBoltArchive()
	require.NoError(t, err, "failed in creating a test bolt archive")
	defer ba.closeTestBoltArchive()

	for _, id := range []string{"o:0", "o:1", "o:2"} {
		require.NoError(t, ba.Save(context.TODO(), id, OrderRecord{ID: id}))
	}

	records, err := ba.GetAll(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, 3, len(records))
}
