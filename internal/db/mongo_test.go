package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/garagedesk/jobcard-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestConnectMongo_BadURI(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://bad:uri")
	client, err := ConnectMongo()
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestInsertJobCard_NilCollection(t *testing.T) {
	coll := &MongoJobCardCollection{Collection: nil}
	_, err := coll.InsertJobCard(context.Background(), models.JobCard{})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestEnsureIndexes_NilCollection(t *testing.T) {
	coll := &MongoJobCardCollection{Collection: nil}
	if err := coll.EnsureIndexes(context.Background()); err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestFormatJobNumber(t *testing.T) {
	tests := []struct {
		name     string
		when     time.Time
		seq      int
		expected string
	}{
		{"january single digit", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 1, "JC-24-01-01"},
		{"december double digit", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 42, "JC-25-12-42"},
		{"sequence cap", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 99, "JC-24-06-99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatJobNumber(tt.when, tt.seq))
		})
	}
}

func TestJobNumberPrefix(t *testing.T) {
	prefix := jobNumberPrefix(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "JC-24-03-", prefix)
}

// Integration tests below require a running MongoDB.

func setupJobCardCollection(t *testing.T) *MongoJobCardCollection {
	t.Helper()
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	collection := client.Database("test_jobcards").Collection("jobcards")
	collection.Drop(context.Background())
	return &MongoJobCardCollection{Collection: collection}
}

func TestMongoJobCardCollection_InsertAssignsIdentity(t *testing.T) {
	coll := setupJobCardCollection(t)

	job, err := coll.InsertJobCard(context.Background(), models.JobCard{
		CustomerName:  "Alice Nguyen",
		PaymentStatus: models.PaymentUnpaid,
	})
	require.NoError(t, err)
	assert.False(t, job.ID.IsZero())
	assert.NotZero(t, job.CreatedAt)
	assert.Equal(t, FormatJobNumber(time.Now(), 1), job.JobNumber)

	// The next insert in the same month takes the next sequence number.
	second, err := coll.InsertJobCard(context.Background(), models.JobCard{CustomerName: "Bob Carter"})
	require.NoError(t, err)
	assert.Equal(t, FormatJobNumber(time.Now(), 2), second.JobNumber)
}

func TestMongoJobCardCollection_ConcurrentInsertsAllocateDistinctNumbers(t *testing.T) {
	coll := setupJobCardCollection(t)
	require.NoError(t, coll.EnsureIndexes(context.Background()))

	// Each duplicate-key retry means another insert won that number, so
	// with as many goroutines as retry attempts every insert must land.
	const n = 5
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job, err := coll.InsertJobCard(context.Background(), models.JobCard{CustomerName: "Concurrent"})
			if err != nil {
				errs <- err
				return
			}
			numbers <- job.JobNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Errorf("insert failed: %v", err)
	}
	seen := make(map[string]bool)
	for num := range numbers {
		assert.False(t, seen[num], "duplicate job number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestMongoJobCardCollection_FindByID(t *testing.T) {
	coll := setupJobCardCollection(t)

	inserted, err := coll.InsertJobCard(context.Background(), models.JobCard{CustomerName: "Alice Nguyen"})
	require.NoError(t, err)

	found, err := coll.FindJobCardByID(context.Background(), inserted.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Alice Nguyen", found.CustomerName)

	_, err = coll.FindJobCardByID(context.Background(), "invalid-id")
	assert.Error(t, err)

	_, err = coll.FindJobCardByID(context.Background(), "000000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoJobCardCollection_PartialUpdate(t *testing.T) {
	coll := setupJobCardCollection(t)

	inserted, err := coll.InsertJobCard(context.Background(), models.JobCard{
		CustomerName:  "Alice Nguyen",
		PaymentStatus: models.PaymentUnpaid,
	})
	require.NoError(t, err)

	updated, err := coll.UpdateJobCard(context.Background(), inserted.ID.Hex(), bson.M{
		"payment_status": models.PaymentPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	// Unsupplied fields are untouched by a sparse update.
	assert.Equal(t, "Alice Nguyen", updated.CustomerName)
	assert.Equal(t, inserted.JobNumber, updated.JobNumber)
	assert.Equal(t, inserted.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = coll.UpdateJobCard(context.Background(), "000000000000000000000000", bson.M{"notes": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoJobCardCollection_ImmutableFieldsStripped(t *testing.T) {
	coll := setupJobCardCollection(t)

	inserted, err := coll.InsertJobCard(context.Background(), models.JobCard{CustomerName: "Alice Nguyen"})
	require.NoError(t, err)

	updated, err := coll.UpdateJobCard(context.Background(), inserted.ID.Hex(), bson.M{
		"job_number": "JC-99-99-99",
		"notes":      "rotated tyres",
	})
	require.NoError(t, err)
	assert.Equal(t, inserted.JobNumber, updated.JobNumber)
	assert.Equal(t, "rotated tyres", updated.Notes)
}

func TestMongoJobCardCollection_FindArchivedPredicate(t *testing.T) {
	coll := setupJobCardCollection(t)

	_, err := coll.InsertJobCard(context.Background(), models.JobCard{CustomerName: "Active"})
	require.NoError(t, err)
	archived, err := coll.InsertJobCard(context.Background(), models.JobCard{CustomerName: "Archived", IsArchived: true})
	require.NoError(t, err)

	jobs, err := coll.FindJobCards(context.Background(), bson.M{"is_archived": true})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, archived.ID, jobs[0].ID)

	all, err := coll.FindJobCards(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMongoJobCardCollection_Delete(t *testing.T) {
	coll := setupJobCardCollection(t)

	inserted, err := coll.InsertJobCard(context.Background(), models.JobCard{CustomerName: "Alice Nguyen"})
	require.NoError(t, err)

	require.NoError(t, coll.DeleteJobCard(context.Background(), inserted.ID.Hex()))
	assert.ErrorIs(t, coll.DeleteJobCard(context.Background(), inserted.ID.Hex()), ErrNotFound)
}
