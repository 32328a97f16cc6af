package docstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryInsertAssignsIdentifierInPlace(t *testing.T) {
	coll := NewMemoryBackend().Collection("user_activities")

	doc := Document{"user_id": int64(7), "activity_type": "login"}
	result, err := coll.InsertOne(context.Background(), doc)
	require.NoError(t, err)
	require.False(t, result.InsertedID.IsZero())
	require.Equal(t, result.InsertedID, doc["_id"])
	require.NotEmpty(t, IDString(doc["_id"]))
}

func TestMemoryFindExactMatchAndLimit(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("user_activities")

	for i, userID := range []int64{7, 8, 7, 7, 9, 7} {
		_, err := coll.InsertOne(ctx, Document{"user_id": userID, "seq": i})
		require.NoError(t, err)
	}

	all, err := coll.Find(ctx, Filter{"user_id": int64(7)}, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for _, doc := range all {
		require.Equal(t, int64(7), doc["user_id"])
	}

	limited, err := coll.Find(ctx, Filter{"user_id": int64(7)}, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, 0, limited[0]["seq"])
	require.Equal(t, 2, limited[1]["seq"])
}

func TestMemoryFindDoesNotCoerceTypes(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("forum_interactions")

	_, err := coll.InsertOne(ctx, Document{"user_id": int64(7)})
	require.NoError(t, err)

	docs, err := coll.Find(ctx, Filter{"user_id": 7}, 0)
	require.NoError(t, err)
	require.Empty(t, docs)

	docs, err = coll.Find(ctx, Filter{"user_id": "7"}, 0)
	require.NoError(t, err)
	require.Empty(t, docs)

	docs, err = coll.Find(ctx, Filter{"missing": nil}, 0)
	require.NoError(t, err)
	require.Empty(t, docs, "absent keys never match, even against nil")
}

func TestMemoryFindIgnoresOperators(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("user_activities")

	_, err := coll.InsertOne(ctx, Document{"user_id": int64(3)})
	require.NoError(t, err)

	docs, err := coll.Find(ctx, Filter{"user_id": Document{"$gt": int64(1)}}, 0)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestMemoryFindOne(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("course_analytics")

	_, err := coll.FindOne(ctx, Filter{"course_id": int64(1)})
	require.ErrorIs(t, err, ErrNoDocuments)

	_, err = coll.InsertOne(ctx, Document{"course_id": int64(1), "n": "first"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, Document{"course_id": int64(1), "n": "second"})
	require.NoError(t, err)

	doc, err := coll.FindOne(ctx, Filter{"course_id": int64(1)})
	require.NoError(t, err)
	require.Equal(t, "first", doc["n"])
}

func TestMemoryReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("user_activities")

	_, err := coll.InsertOne(ctx, Document{"user_id": int64(1), "details": primitive.M{"page": "home"}})
	require.NoError(t, err)

	doc, err := coll.FindOne(ctx, Filter{"user_id": int64(1)})
	require.NoError(t, err)
	doc["user_id"] = int64(99)
	doc["details"].(primitive.M)["page"] = "changed"

	again, err := coll.FindOne(ctx, Filter{"user_id": int64(1)})
	require.NoError(t, err)
	require.Equal(t, "home", again["details"].(primitive.M)["page"])
}

func TestMemoryUpdateOneSetsNestedPaths(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("course_analytics")

	_, err := coll.InsertOne(ctx, Document{"course_id": int64(4), "metrics": primitive.M{"views": 5.0}})
	require.NoError(t, err)

	result, err := coll.UpdateOne(ctx, Filter{"course_id": int64(4)}, Update{Set: Document{"metrics.completions": 2.0, "flag": true}})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.ModifiedCount)

	doc, err := coll.FindOne(ctx, Filter{"course_id": int64(4)})
	require.NoError(t, err)
	require.Equal(t, primitive.M{"views": 5.0, "completions": 2.0}, doc["metrics"])
	require.Equal(t, true, doc["flag"])
}

func TestMemoryUpdateOneWithoutMatchLeavesCollectionUntouched(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	coll := backend.Collection("course_analytics")

	_, err := coll.InsertOne(ctx, Document{"course_id": int64(1), "metrics": primitive.M{"views": 1.0}})
	require.NoError(t, err)

	before := cloneDocument(backend.collections["course_analytics"][0])

	result, err := coll.UpdateOne(ctx, Filter{"course_id": int64(2)}, Update{Set: Document{"metrics.views": 10.0}})
	require.NoError(t, err)
	require.Equal(t, int64(0), result.ModifiedCount)
	require.Equal(t, int64(0), result.MatchedCount)

	require.Len(t, backend.collections["course_analytics"], 1)
	require.Equal(t, before, backend.collections["course_analytics"][0])
}

func TestMemoryUpdateOneWithEmptySetIsNoOp(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	coll := backend.Collection("course_analytics")

	_, err := coll.InsertOne(ctx, Document{"course_id": int64(1)})
	require.NoError(t, err)
	before := cloneDocument(backend.collections["course_analytics"][0])

	result, err := coll.UpdateOne(ctx, Filter{"course_id": int64(1)}, Update{})
	require.NoError(t, err)
	require.Equal(t, UpdateResult{}, result)
	require.Equal(t, before, backend.collections["course_analytics"][0])
}

func TestMemoryUpdateOneRejectsPathThroughScalar(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("course_analytics")

	_, err := coll.InsertOne(ctx, Document{"course_id": int64(1), "metrics": "flat"})
	require.NoError(t, err)

	_, err = coll.UpdateOne(ctx, Filter{"course_id": int64(1)}, Update{Set: Document{"metrics.views": 1.0, "other": 1}})
	require.Error(t, err)

	doc, err := coll.FindOne(ctx, Filter{"course_id": int64(1)})
	require.NoError(t, err)
	require.Equal(t, "flat", doc["metrics"])
	require.NotContains(t, doc, "other")
}

func TestMemoryDeleteOne(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("forum_interactions")

	for _, postID := range []int64{1, 2, 1} {
		_, err := coll.InsertOne(ctx, Document{"post_id": postID})
		require.NoError(t, err)
	}

	result, err := coll.DeleteOne(ctx, Filter{"post_id": int64(1)})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.DeletedCount)

	remaining, err := coll.Find(ctx, Filter{}, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	require.Equal(t, int64(2), remaining[0]["post_id"])
	require.Equal(t, int64(1), remaining[1]["post_id"])

	result, err = coll.DeleteOne(ctx, Filter{"post_id": int64(42)})
	require.NoError(t, err)
	require.Equal(t, int64(0), result.DeletedCount)
}

func TestMemoryCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	_, err := backend.Collection("a").InsertOne(ctx, Document{"k": 1})
	require.NoError(t, err)

	docs, err := backend.Collection("b").Find(ctx, Filter{}, 0)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestMemoryConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryBackend().Collection("user_activities")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = coll.InsertOne(ctx, Document{"user_id": int64(1)})
		}()
	}
	wg.Wait()

	docs, err := coll.Find(ctx, Filter{"user_id": int64(1)}, 0)
	require.NoError(t, err)
	require.Len(t, docs, 50)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	type record struct {
		ID      primitive.ObjectID     `bson:"_id,omitempty"`
		UserID  int64                  `bson:"user_id"`
		Details map[string]interface{} `bson:"details"`
		Course  *int64                 `bson:"course_id"`
	}

	doc, err := Encode(record{UserID: 5, Details: map[string]interface{}{"nested": map[string]interface{}{"a": "b"}}})
	require.NoError(t, err)
	require.Equal(t, int64(5), doc["user_id"])
	require.Nil(t, doc["course_id"])
	require.Contains(t, doc, "course_id")
	require.NotContains(t, doc, "_id")

	var out record
	require.NoError(t, Decode(doc, &out))
	require.Equal(t, int64(5), out.UserID)
	require.Nil(t, out.Course)
	nested, ok := out.Details["nested"].(primitive.M)
	require.True(t, ok)
	require.Equal(t, "b", nested["a"])
}
