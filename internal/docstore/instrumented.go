package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/educollab-analytics/internal/observability"
)

// Instrument wraps a backend so every collection operation is counted and timed.
func Instrument(backend Backend) Backend {
	if backend == nil {
		return nil
	}
	if _, ok := backend.(*instrumentedBackend); ok {
		return backend
	}
	return &instrumentedBackend{Backend: backend}
}

type instrumentedBackend struct {
	Backend
}

func (b *instrumentedBackend) Collection(name string) Collection {
	return &instrumentedCollection{
		inner:      b.Backend.Collection(name),
		backend:    b.Backend.Name(),
		collection: name,
	}
}

type instrumentedCollection struct {
	inner      Collection
	backend    string
	collection string
}

func (c *instrumentedCollection) observe(operation string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNoDocuments):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	observability.DocstoreOperations().WithLabelValues(c.backend, c.collection, operation, outcome).Inc()
	observability.DocstoreLatency().WithLabelValues(c.backend, c.collection, operation).Observe(time.Since(start).Seconds())
}

func (c *instrumentedCollection) InsertOne(ctx context.Context, doc Document) (InsertResult, error) {
	start := time.Now()
	result, err := c.inner.InsertOne(ctx, doc)
	c.observe("insert_one", start, err)
	return result, err
}

func (c *instrumentedCollection) Find(ctx context.Context, filter Filter, limit int64) ([]Document, error) {
	start := time.Now()
	docs, err := c.inner.Find(ctx, filter, limit)
	c.observe("find", start, err)
	return docs, err
}

func (c *instrumentedCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	start := time.Now()
	doc, err := c.inner.FindOne(ctx, filter)
	c.observe("find_one", start, err)
	return doc, err
}

func (c *instrumentedCollection) UpdateOne(ctx context.Context, filter Filter, update Update) (UpdateResult, error) {
	start := time.Now()
	result, err := c.inner.UpdateOne(ctx, filter, update)
	c.observe("update_one", start, err)
	return result, err
}

func (c *instrumentedCollection) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	start := time.Now()
	result, err := c.inner.DeleteOne(ctx, filter)
	c.observe("delete_one", start, err)
	return result, err
}
