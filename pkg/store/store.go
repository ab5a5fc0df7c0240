// Package store archives simulation runs in MongoDB.
//
// The archive is optional: the CLI and server run fine without it, and
// callers that want persistence construct a [RunStore] from a connection
// URI. Runs are keyed by their UUID and queried by persona and recency.
package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sproutworks/furrow/pkg/errors"
	"github.com/sproutworks/furrow/pkg/sim"
)

// Default database and collection names.
const (
	DefaultDatabase   = "furrow"
	runsCollection    = "runs"
	connectTimeout    = 10 * time.Second
	DefaultListLimit  = 50
	maxListLimit      = 500
)

// RunStore persists simulation runs in a MongoDB collection.
type RunStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewRunStore connects to MongoDB and verifies the connection. An empty
// database name selects [DefaultDatabase].
func NewRunStore(ctx context.Context, uri, database string) (*RunStore, error) {
	if database == "" {
		database = DefaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to run store")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "run store unreachable")
	}

	s := &RunStore{
		client: client,
		runs:   client.Database(database).Collection(runsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the persona+recency index used by List.
func (s *RunStore) ensureIndexes(ctx context.Context) error {
	_, err := s.runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "persona", Value: 1},
			{Key: "started_at", Value: -1},
		},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create run indexes")
	}
	return nil
}

// Save upserts a run by its id.
func (s *RunStore) Save(ctx context.Context, run sim.Run) error {
	if err := errors.ValidateRunID(run.ID); err != nil {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	_, err := s.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save run %s", run.ID)
	}
	return nil
}

// Get fetches a run by id.
func (s *RunStore) Get(ctx context.Context, id string) (sim.Run, error) {
	if err := errors.ValidateRunID(id); err != nil {
		return sim.Run{}, err
	}

	var run sim.Run
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return sim.Run{}, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	if err != nil {
		return sim.Run{}, errors.Wrap(errors.ErrCodeStorage, err, "get run %s", id)
	}
	return run, nil
}

// List returns recent runs, newest first. An empty persona matches all;
// limit is clamped to a sane range with [DefaultListLimit] as the default.
func (s *RunStore) List(ctx context.Context, persona string, limit int) ([]sim.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := bson.M{}
	if persona != "" {
		filter["persona"] = persona
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.runs.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list runs")
	}
	defer cursor.Close(ctx)

	var runs []sim.Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode runs")
	}
	return runs, nil
}

// Delete removes a run by id. Deleting an absent run is not an error.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateRunID(id); err != nil {
		return err
	}
	if _, err := s.runs.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete run %s", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *RunStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
