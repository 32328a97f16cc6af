package docstore

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryBackend keeps collections as ordered slices inside the process. It is the
// substitute used when the live store cannot be reached and the backend used in tests.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

// NewMemoryBackend constructs an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string][]Document)}
}

// Name reports the backend kind.
func (m *MemoryBackend) Name() string {
	return BackendMemory
}

// Collection returns a handle to the named collection, created empty on first write.
func (m *MemoryBackend) Collection(name string) Collection {
	return &memoryCollection{backend: m, name: name}
}

// Ping always succeeds.
func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}

// Close is a no-op; data lives as long as the process.
func (m *MemoryBackend) Close(context.Context) error {
	return nil
}

type memoryCollection struct {
	backend *MemoryBackend
	name    string
}

func (c *memoryCollection) InsertOne(_ context.Context, doc Document) (InsertResult, error) {
	if doc == nil {
		return InsertResult{}, fmt.Errorf("insert into %s: nil document", c.name)
	}

	id := primitive.NewObjectID()
	doc["_id"] = id

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	c.backend.collections[c.name] = append(c.backend.collections[c.name], cloneDocument(doc))

	return InsertResult{InsertedID: id}, nil
}

func (c *memoryCollection) Find(_ context.Context, filter Filter, limit int64) ([]Document, error) {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()

	results := make([]Document, 0)
	for _, doc := range c.backend.collections[c.name] {
		if limit > 0 && int64(len(results)) >= limit {
			break
		}
		if matches(doc, filter) {
			results = append(results, cloneDocument(doc))
		}
	}
	return results, nil
}

func (c *memoryCollection) FindOne(_ context.Context, filter Filter) (Document, error) {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()

	for _, doc := range c.backend.collections[c.name] {
		if matches(doc, filter) {
			return cloneDocument(doc), nil
		}
	}
	return nil, ErrNoDocuments
}

func (c *memoryCollection) UpdateOne(_ context.Context, filter Filter, update Update) (UpdateResult, error) {
	if len(update.Set) == 0 {
		return UpdateResult{}, nil
	}

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	for _, doc := range c.backend.collections[c.name] {
		if !matches(doc, filter) {
			continue
		}
		// validate every path before touching the document so a bad path leaves it intact
		for key := range update.Set {
			if err := checkPath(doc, key); err != nil {
				return UpdateResult{}, err
			}
		}
		for key, value := range update.Set {
			setPath(doc, key, cloneValue(value))
		}
		return UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return UpdateResult{}, nil
}

func (c *memoryCollection) DeleteOne(_ context.Context, filter Filter) (DeleteResult, error) {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	docs := c.backend.collections[c.name]
	for i, doc := range docs {
		if matches(doc, filter) {
			c.backend.collections[c.name] = append(docs[:i:i], docs[i+1:]...)
			return DeleteResult{DeletedCount: 1}, nil
		}
	}
	return DeleteResult{}, nil
}

// matches implements strict equality on top-level fields only. Operators, dotted
// paths and numeric coercion are deliberately unsupported.
func matches(doc Document, filter Filter) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func checkPath(doc Document, path string) error {
	parts := strings.Split(path, ".")
	current := map[string]interface{}(doc)
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok || next == nil {
			return nil
		}
		nested, ok := asMap(next)
		if !ok {
			return fmt.Errorf("cannot create field %q in non-document element %q", path, part)
		}
		current = nested
	}
	return nil
}

func setPath(doc Document, path string, value interface{}) {
	parts := strings.Split(path, ".")
	current := map[string]interface{}(doc)
	for _, part := range parts[:len(parts)-1] {
		nested, ok := asMap(current[part])
		if !ok {
			created := primitive.M{}
			current[part] = created
			nested = created
		}
		current = nested
	}
	current[parts[len(parts)-1]] = value
}

func asMap(value interface{}) (map[string]interface{}, bool) {
	switch m := value.(type) {
	case Document:
		return m, true
	case primitive.M:
		return m, true
	case map[string]interface{}:
		return m, true
	default:
		return nil, false
	}
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case Document:
		return cloneDocument(v)
	case primitive.M:
		out := make(primitive.M, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case primitive.A:
		out := make(primitive.A, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
