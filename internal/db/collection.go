package db

import (
	"context"
	"errors"

	"github.com/garagedesk/jobcard-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a record id does not exist. Callers branch
// on it as a normal outcome rather than treating it as exceptional.
var ErrNotFound = errors.New("record not found")

// ErrJobNumbersExhausted is returned when the month's job-number sequence
// reaches its cap of 99.
var ErrJobNumbersExhausted = errors.New("job number sequence exhausted for month")

// JobCardCollection defines the record-store contract for job cards.
type JobCardCollection interface {
	InsertJobCard(ctx context.Context, job models.JobCard) (*models.JobCard, error)
	FindJobCards(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.JobCard, error)
	FindJobCardByID(ctx context.Context, id string) (*models.JobCard, error)
	UpdateJobCard(ctx context.Context, id string, fields bson.M) (*models.JobCard, error)
	DeleteJobCard(ctx context.Context, id string) error
}

// JobCardCursor defines the cursor operations used by job card queries.
type JobCardCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}
