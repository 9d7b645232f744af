package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// MongoSink writes comment batches to one collection per source table.
type MongoSink struct {
	db *mongo.Database
}

func NewMongoSink(ctx context.Context, uri, database string) (*MongoSink, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	s := &MongoSink{db: client.Database(database)}
	s.ensureIndexes(ctx)

	log.Printf("Connected to MongoDB database %s", database)
	return s, nil
}

func (s *MongoSink) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, source := range model.AllSources() {
		collection := s.db.Collection(source.Table())

		indexes := []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "country", Value: 1},
					{Key: "parent_id", Value: 1},
					{Key: "comment_id", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "extracted_at", Value: -1}},
			},
		}

		if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
			log.Printf("Warning: Failed to create indexes for %s: %v", source.Table(), err)
		}
	}
}

// Append upserts the batch keyed on (country, parent_id, comment_id), so a
// retried batch replaces instead of duplicating.
func (s *MongoSink) Append(ctx context.Context, table string, records []model.CommentRecord) error {
	if len(records) == 0 {
		return nil
	}

	var operations []mongo.WriteModel
	for _, record := range records {
		operation := mongo.NewReplaceOneModel().
			SetFilter(bson.M{
				"country":    record.Country,
				"parent_id":  record.ParentID,
				"comment_id": record.CommentID,
			}).
			SetReplacement(record).
			SetUpsert(true)

		operations = append(operations, operation)
	}

	opts := options.BulkWrite().SetOrdered(false)

	result, err := s.db.Collection(table).BulkWrite(ctx, operations, opts)
	if err != nil {
		return fmt.Errorf("bulk write to %s: %w", table, err)
	}

	log.Printf("Appended to %s: %d inserted, %d replaced", table, result.UpsertedCount, result.ModifiedCount)
	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}
