package search

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davidwtbuxton/captain-pasty/models"
)

const mongoTimeout = 10 * time.Second

// MongoBackend implements Backend on a MongoDB collection with a text
// index. Field terms map to exact matches, free text to $text search.
type MongoBackend struct {
	client *mongo.Client
	docs   *mongo.Collection
}

// NewMongoBackend creates a search backend on dbName's "search_docs"
// collection.
func NewMongoBackend(url, dbName string) (*MongoBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	backend := &MongoBackend{
		client: client,
		docs:   client.Database(dbName).Collection("search_docs"),
	}
	if err := backend.createIndexes(); err != nil {
		return nil, err
	}
	return backend, nil
}

func (b *MongoBackend) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	textIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "description", Value: "text"},
			{Key: "author", Value: "text"},
			{Key: "files.filename", Value: "text"},
			{Key: "files.content", Value: "text"},
		},
	}
	rankIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "rank", Value: -1}, {Key: "_id", Value: -1}},
	}

	_, err := b.docs.Indexes().CreateMany(ctx, []mongo.IndexModel{textIndex, rankIndex})
	return err
}

// Put stores doc, replacing any existing document with the same ID
func (b *MongoBackend) Put(ctx context.Context, doc *models.SearchDocument) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := b.docs.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

// Delete removes documents by ID; missing IDs are ignored
func (b *MongoBackend) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := b.docs.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// mongoCursor is the decoded pagination cursor: the (rank, id) position of
// the last document on the previous page.
type mongoCursor struct {
	Rank int64  `json:"r"`
	ID   string `json:"i"`
}

// Query runs a page of the query, most recent first, with keyset pagination
func (b *MongoBackend) Query(ctx context.Context, query, cursor string, limit int) ([]string, string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	filter := buildMongoFilter(parseQuery(query))

	if cursor != "" {
		pos, err := decodeMongoCursor(cursor)
		if err != nil {
			return nil, "", false, err
		}
		filter = bson.M{
			"$and": bson.A{
				filter,
				bson.M{"$or": bson.A{
					bson.M{"rank": bson.M{"$lt": pos.Rank}},
					bson.M{"rank": pos.Rank, "_id": bson.M{"$lt": pos.ID}},
				}},
			},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rank", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit + 1)).
		SetProjection(bson.M{"_id": 1, "rank": 1})

	mc, err := b.docs.Find(ctx, filter, opts)
	if err != nil {
		return nil, "", false, err
	}
	defer func() {
		_ = mc.Close(ctx)
	}()

	type row struct {
		ID   string `bson:"_id"`
		Rank int64  `bson:"rank"`
	}
	var rows []row
	for mc.Next(ctx) {
		var r row
		if err := mc.Decode(&r); err != nil {
			return nil, "", false, err
		}
		rows = append(rows, r)
	}
	if err := mc.Err(); err != nil {
		return nil, "", false, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	var next string
	if hasMore {
		last := rows[len(rows)-1]
		next = encodeMongoCursor(mongoCursor{Rank: last.Rank, ID: last.ID})
	}
	return ids, next, hasMore, nil
}

// Close disconnects from MongoDB
func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	return b.client.Disconnect(ctx)
}

func buildMongoFilter(q parsedQuery) bson.M {
	filter := bson.M{}

	if q.Author != "" {
		filter["author"] = q.Author
	}
	if q.ContentType != "" {
		filter["files.content_type"] = q.ContentType
	}
	if q.Filename != "" {
		filter["files.filename"] = q.Filename
	}
	if len(q.FreeText) > 0 {
		filter["$text"] = bson.M{"$search": strings.Join(q.FreeText, " ")}
	}

	return filter
}

func encodeMongoCursor(pos mongoCursor) string {
	raw, _ := json.Marshal(pos)
	return base64.URLEncoding.EncodeToString(raw)
}

func decodeMongoCursor(cursor string) (mongoCursor, error) {
	var pos mongoCursor

	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return pos, fmt.Errorf("invalid cursor: %w", err)
	}
	if err := json.Unmarshal(raw, &pos); err != nil {
		return pos, fmt.Errorf("invalid cursor: %w", err)
	}
	return pos, nil
}
