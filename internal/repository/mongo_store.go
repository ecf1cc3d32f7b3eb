package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentStore implementa DocumentStore sobre una base de MongoDB.
type MongoDocumentStore struct {
	db *mongo.Database
}

func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{db: db}
}

func (s *MongoDocumentStore) FindOne(ctx context.Context, collection, field string, value any) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{field: value}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("find %s by %s: %w", collection, field, err)
	}
	return documentFromBSON(raw), nil
}

func (s *MongoDocumentStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	doc := bson.M(copyFields(fields))
	delete(doc, "_id")

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateKey
		}
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return objectIDString(res.InsertedID), nil
}

func (s *MongoDocumentStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	set := bson.M(copyFields(fields))
	delete(set, "_id")

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("update %s %s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoDocumentStore) EnsureUnique(ctx context.Context, collection, field string) error {
	if err := validIdentifier(field); err != nil {
		return err
	}
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(collection + "_" + field + "_unique"),
	})
	if err != nil {
		return fmt.Errorf("create unique index %s.%s: %w", collection, field, err)
	}
	return nil
}

func documentFromBSON(raw bson.M) Document {
	id := objectIDString(raw["_id"])
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		fields[k] = v
	}
	return Document{ID: id, Fields: fields}
}

func objectIDString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
