package job

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dgroleau/thalweg/pkg/errors"
)

const jobsCollection = "jobs"

// MongoStore is a MongoDB-backed Store for deployments that need jobs
// to survive process restarts.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds connection settings for the job store.
type MongoConfig struct {
	URI      string
	Database string
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "mongodb ping failed")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(jobsCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Job, error) {
	var j Job
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to load job %s", id)
	}
	if j.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, nil
	}
	return &j, nil
}

func (s *MongoStore) Set(ctx context.Context, j *Job) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": j.ID}, j, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to store job %s", j.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to delete job %s", id)
	}
	return nil
}

func (s *MongoStore) Cleanup(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to clean up expired jobs")
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
