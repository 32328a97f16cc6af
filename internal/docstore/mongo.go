package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoBackend adapts a MongoDB database to the Backend contract.
type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

// DialMongo creates a client for uri and selects database. It does not verify
// liveness; call Ping for that.
func DialMongo(ctx context.Context, uri, database string) (*MongoBackend, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri must not be empty")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database name must not be empty")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return &MongoBackend{client: client, db: client.Database(database)}, nil
}

// Name reports the backend kind.
func (m *MongoBackend) Name() string {
	return BackendMongo
}

// Collection returns a handle to the named collection.
func (m *MongoBackend) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name)}
}

// Ping checks that the primary is reachable.
func (m *MongoBackend) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *MongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc Document) (InsertResult, error) {
	if doc == nil {
		return InsertResult{}, fmt.Errorf("insert into %s: nil document", c.coll.Name())
	}

	id := primitive.NewObjectID()
	doc["_id"] = id

	if _, err := c.coll.InsertOne(ctx, bson.M(doc)); err != nil {
		return InsertResult{}, err
	}
	return InsertResult{InsertedID: id}, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter, limit int64) ([]Document, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := c.coll.Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]Document, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	var doc Document
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Filter, update Update) (UpdateResult, error) {
	if len(update.Set) == 0 {
		return UpdateResult{}, nil
	}

	result, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": bson.M(update.Set)})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	result, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{DeletedCount: result.DeletedCount}, nil
}

func toBSON(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}
