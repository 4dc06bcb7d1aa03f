package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	ContactCollection        = "contact-form"
	ServiceInquiryCollection = "service-inquiries"
)

// MongoStore holds the client and database shared by the Mongo repositories.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo opens a client for uri, pings the primary and selects dbName.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// Ping satisfies DB.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the query indexes both collections rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	desc := func(keys ...string) bson.D {
		d := bson.D{}
		for _, k := range keys {
			if k == "createdAt" {
				d = append(d, bson.E{Key: k, Value: -1})
			} else {
				d = append(d, bson.E{Key: k, Value: 1})
			}
		}
		return d
	}

	contactIdx := []mongo.IndexModel{
		{Keys: desc("email", "createdAt")},
		{Keys: desc("phone")},
		{Keys: desc("status", "createdAt")},
		{Keys: desc("priority", "status")},
		{Keys: desc("createdAt")},
		{Keys: desc("followUpRequired", "followUpDate")},
		{Keys: desc("assignedTo", "status")},
	}
	if _, err := s.db.Collection(ContactCollection).Indexes().CreateMany(ctx, contactIdx); err != nil {
		return fmt.Errorf("contact indexes: %w", err)
	}

	inquiryIdx := []mongo.IndexModel{
		{Keys: desc("email", "createdAt")},
		{Keys: desc("serviceCategory", "status")},
		{Keys: desc("mobile")},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: -1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := s.db.Collection(ServiceInquiryCollection).Indexes().CreateMany(ctx, inquiryIdx); err != nil {
		return fmt.Errorf("service inquiry indexes: %w", err)
	}
	return nil
}

// newestFirst sorts by creation time descending with _id as a stable tie-breaker.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// hideSensitive is the list projection that drops client metadata.
var hideSensitive = bson.M{"ipAddress": 0, "userAgent": 0}

var dupKeyField = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?:`)

// mongoError maps driver errors onto repository errors.
func mongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{Field: duplicateField(err.Error()), Err: err}
	}
	return err
}

func duplicateField(msg string) string {
	if m := dupKeyField.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return "key"
}

// objectID parses a hex id; malformed ids cannot exist, so they map to ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func pageOptions(limit, offset int) *options.FindOptions {
	return options.Find().
		SetSort(newestFirst).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(hideSensitive)
}
