package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoDocuments is returned by FindOne when nothing matches the filter.
var ErrNoDocuments = errors.New("docstore: no documents in result")

// Document is a schema-less record stored in a collection.
type Document map[string]interface{}

// Filter selects documents by exact top-level field equality.
type Filter map[string]interface{}

// Update describes a partial modification. Only field assignment is supported; an
// empty Set is a no-op that reports zero matched and modified documents.
type Update struct {
	Set Document
}

// InsertResult reports the identifier assigned to an inserted document.
type InsertResult struct {
	InsertedID primitive.ObjectID
}

// UpdateResult reports how many documents an update touched.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64
}

// Collection is the operation set every backend exposes per named collection.
type Collection interface {
	InsertOne(ctx context.Context, doc Document) (InsertResult, error)
	Find(ctx context.Context, filter Filter, limit int64) ([]Document, error)
	FindOne(ctx context.Context, filter Filter) (Document, error)
	UpdateOne(ctx context.Context, filter Filter, update Update) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error)
}

// Backend is a handle to one database inside a document store.
type Backend interface {
	Name() string
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Backend names reported by Name.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// IDString renders a stored identifier in its transport form.
func IDString(value interface{}) string {
	switch id := value.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}
