package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/davidwtbuxton/captain-pasty/models"
)

const dynamoTimeout = 10 * time.Second

// DynamoStore implements PasteStore using DynamoDB. Paste records and star
// records live in separate tables, both keyed by "id".
type DynamoStore struct {
	client     *dynamodb.Client
	pasteTable string
	starTable  string
}

// NewDynamoStore creates a new DynamoDB storage backend
func NewDynamoStore(pasteTable, starTable, region string) (*DynamoStore, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(cfg)

	return &DynamoStore{
		client:     client,
		pasteTable: pasteTable,
		starTable:  starTable,
	}, nil
}

// PutPaste saves a paste record, replacing any existing record
func (d *DynamoStore) PutPaste(ctx context.Context, paste *models.Paste) error {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	item, err := attributevalue.MarshalMap(paste)
	if err != nil {
		return &models.StorageError{Op: "put", Path: paste.ID, Err: err}
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.pasteTable),
		Item:      item,
	})
	if err != nil {
		return &models.StorageError{Op: "put", Path: paste.ID, Err: err}
	}
	return nil
}

// GetPaste retrieves a paste record by its ID
func (d *DynamoStore) GetPaste(ctx context.Context, id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.pasteTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, &models.StorageError{Op: "get", Path: id, Err: err}
	}
	if result.Item == nil {
		return nil, nil // Not found
	}

	var paste models.Paste
	if err := attributevalue.UnmarshalMap(result.Item, &paste); err != nil {
		return nil, &models.StorageError{Op: "get", Path: id, Err: err}
	}
	return &paste, nil
}

// ForEachPaste iterates over every paste record via a paged table scan
func (d *DynamoStore) ForEachPaste(ctx context.Context, fn func(*models.Paste) error) error {
	var startKey map[string]types.AttributeValue

	for {
		result, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(d.pasteTable),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return &models.StorageError{Op: "scan", Path: d.pasteTable, Err: err}
		}

		for _, item := range result.Items {
			var paste models.Paste
			if err := attributevalue.UnmarshalMap(item, &paste); err != nil {
				return &models.StorageError{Op: "scan", Path: d.pasteTable, Err: err}
			}
			if err := fn(&paste); err != nil {
				return err
			}
		}

		if result.LastEvaluatedKey == nil {
			return nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// GetOrInsertStar inserts a star with a conditional put on the composite
// key; when the condition fails the existing record is fetched and returned
// unchanged. Concurrent duplicate requests collapse into one record.
func (d *DynamoStore) GetOrInsertStar(ctx context.Context, star *models.Star) (*models.Star, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	item, err := attributevalue.MarshalMap(star)
	if err != nil {
		return nil, &models.StorageError{Op: "put", Path: star.ID, Err: err}
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.starTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err == nil {
		return star, nil
	}

	var condErr *types.ConditionalCheckFailedException
	if !errors.As(err, &condErr) {
		return nil, &models.StorageError{Op: "put", Path: star.ID, Err: err}
	}

	// Already starred; return the existing record.
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.starTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: star.ID},
		},
	})
	if err != nil {
		return nil, &models.StorageError{Op: "get", Path: star.ID, Err: err}
	}
	if result.Item == nil {
		// Deleted between the put and the get; treat the caller's record as
		// the winner of the race.
		return star, nil
	}

	var existing models.Star
	if err := attributevalue.UnmarshalMap(result.Item, &existing); err != nil {
		return nil, &models.StorageError{Op: "get", Path: star.ID, Err: err}
	}
	return &existing, nil
}

// DeleteStar removes a star by its composite ID
func (d *DynamoStore) DeleteStar(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.starTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return &models.StorageError{Op: "delete", Path: id, Err: err}
	}
	return nil
}

// ListStarsByAuthor returns an author's stars, most recently created first.
// Star tables are small; a filtered scan avoids maintaining a GSI.
func (d *DynamoStore) ListStarsByAuthor(ctx context.Context, author string, limit int) ([]*models.Star, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	var stars []*models.Star
	var startKey map[string]types.AttributeValue

	for {
		result, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(d.starTable),
			FilterExpression: aws.String("author = :author"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":author": &types.AttributeValueMemberS{Value: author},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, &models.StorageError{Op: "list", Path: d.starTable, Err: err}
		}

		for _, item := range result.Items {
			var star models.Star
			if err := attributevalue.UnmarshalMap(item, &star); err != nil {
				return nil, &models.StorageError{Op: "list", Path: d.starTable, Err: err}
			}
			stars = append(stars, &star)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	sort.Slice(stars, func(i, j int) bool {
		return stars[i].Created.After(stars[j].Created)
	})
	if limit > 0 && len(stars) > limit {
		stars = stars[:limit]
	}
	return stars, nil
}

// Close is a no-op for DynamoDB
func (d *DynamoStore) Close() error {
	return nil
}
