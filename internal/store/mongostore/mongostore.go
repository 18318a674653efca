// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mongostore loads expression records into a MongoDB collection.
package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pdiddy/matrix-import/pkg/types"
)

// IndexName is the name of the single-field index on feature.
const IndexName = "feature_idx"

// Store writes to one collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to uri and verifies the connection with a ping.
func Open(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongo")
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Document converts rec to the stored document shape.
func Document(rec types.ExpressionRecord) bson.D {
	return bson.D{
		{Key: "feature", Value: rec.Feature},
		{Key: "feature_type", Value: rec.FeatureType},
		{Key: "id", Value: rec.Barcode},
		{Key: "value", Value: rec.Value.Interface()},
	}
}

// Reset drops the collection. Dropping a missing collection is not an error.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.coll.Drop(ctx); err != nil {
		return errors.Wrapf(err, "dropping collection %s", s.coll.Name())
	}
	return nil
}

// InsertMany issues one insertMany command for the batch.
func (s *Store) InsertMany(ctx context.Context, recs []types.ExpressionRecord) error {
	if len(recs) == 0 {
		return nil
	}
	docs := make([]interface{}, len(recs))
	for i, rec := range recs {
		docs[i] = Document(rec)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errors.Wrapf(err, "inserting into %s", s.coll.Name())
	}
	return nil
}

// CreateIndex builds an ascending index on feature.
func (s *Store) CreateIndex(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "feature", Value: 1}},
		Options: options.Index().SetName(IndexName),
	})
	if err != nil {
		return errors.Wrapf(err, "creating index on %s.feature", s.coll.Name())
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
