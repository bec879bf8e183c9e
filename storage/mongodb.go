package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davidwtbuxton/captain-pasty/models"
)

const mongoTimeout = 10 * time.Second

// MongoStore implements PasteStore using MongoDB
type MongoStore struct {
	client *mongo.Client
	pastes *mongo.Collection
	stars  *mongo.Collection
}

// NewMongoStore creates a new MongoDB storage backend
func NewMongoStore(url, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	store := &MongoStore{
		client: client,
		pastes: database.Collection("pastes"),
		stars:  database.Collection("stars"),
	}

	if err := store.createIndexes(); err != nil {
		return nil, err
	}

	return store, nil
}

// createIndexes creates necessary indexes for the collections
func (m *MongoStore) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Index on created for recency queries
	createdIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "created", Value: -1}},
	}
	if _, err := m.pastes.Indexes().CreateOne(ctx, createdIndex); err != nil {
		return err
	}

	// Stars are listed per author, most recent first
	starIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}, {Key: "created", Value: -1}},
	}
	_, err := m.stars.Indexes().CreateOne(ctx, starIndex)
	return err
}

// PutPaste saves a paste record, replacing any existing record
func (m *MongoStore) PutPaste(ctx context.Context, paste *models.Paste) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := m.pastes.ReplaceOne(ctx, bson.M{"_id": paste.ID}, paste, opts)
	if err != nil {
		return &models.StorageError{Op: "put", Path: paste.ID, Err: err}
	}
	return nil
}

// GetPaste retrieves a paste record by its ID
func (m *MongoStore) GetPaste(ctx context.Context, id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var paste models.Paste
	err := m.pastes.FindOne(ctx, bson.M{"_id": id}).Decode(&paste)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, &models.StorageError{Op: "get", Path: id, Err: err}
	}

	return &paste, nil
}

// ForEachPaste iterates over every paste record
func (m *MongoStore) ForEachPaste(ctx context.Context, fn func(*models.Paste) error) error {
	cursor, err := m.pastes.Find(ctx, bson.M{})
	if err != nil {
		return &models.StorageError{Op: "scan", Path: "pastes", Err: err}
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	for cursor.Next(ctx) {
		var paste models.Paste
		if err := cursor.Decode(&paste); err != nil {
			return &models.StorageError{Op: "scan", Path: "pastes", Err: err}
		}
		if err := fn(&paste); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// GetOrInsertStar inserts a star or returns the existing record unchanged.
// The upsert on the composite key makes concurrent duplicate requests
// collapse into one record without a lock.
func (m *MongoStore) GetOrInsertStar(ctx context.Context, star *models.Star) (*models.Star, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	update := bson.M{"$setOnInsert": star}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result models.Star
	err := m.stars.FindOneAndUpdate(ctx, bson.M{"_id": star.ID}, update, opts).Decode(&result)
	if err != nil {
		return nil, &models.StorageError{Op: "put", Path: star.ID, Err: err}
	}
	return &result, nil
}

// DeleteStar removes a star by its composite ID
func (m *MongoStore) DeleteStar(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := m.stars.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return &models.StorageError{Op: "delete", Path: id, Err: err}
	}
	return nil
}

// ListStarsByAuthor returns an author's stars, most recently created first
func (m *MongoStore) ListStarsByAuthor(ctx context.Context, author string, limit int) ([]*models.Star, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.stars.Find(ctx, bson.M{"author": author}, opts)
	if err != nil {
		return nil, &models.StorageError{Op: "list", Path: "stars", Err: err}
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var stars []*models.Star
	for cursor.Next(ctx) {
		var star models.Star
		if err := cursor.Decode(&star); err != nil {
			return nil, &models.StorageError{Op: "list", Path: "stars", Err: err}
		}
		stars = append(stars, &star)
	}
	return stars, cursor.Err()
}

// Close closes the MongoDB connection
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	return m.client.Disconnect(ctx)
}
