package xload

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// fakeCollection 按过滤条件的第一个字段值查找内存中的文档。
type fakeCollection struct {
	docs    map[string]bson.D
	err     error
	filters []bson.D
}

func (f *fakeCollection) FindOne(_ context.Context, filter any, _ ...options.Lister[options.FindOneOptions]) *mongo.SingleResult {
	d, _ := filter.(bson.D)
	f.filters = append(f.filters, d)
	if f.err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.err, nil)
	}
	key, _ := d[0].Value.(string)
	doc, ok := f.docs[key]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func TestMongo_NilCollection(t *testing.T) {
	_, err := Mongo(nil)
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestMongo_Load(t *testing.T) {
	coll := &fakeCollection{docs: map[string]bson.D{
		"logo":  {{Key: "_id", Value: "logo"}, {Key: "data", Value: bson.Binary{Data: []byte{0x89, 'P', 'N', 'G'}}}},
		"title": {{Key: "_id", Value: "title"}, {Key: "data", Value: "hello"}},
	}}
	load := mongoLoader(coll)
	ctx := context.Background()

	data, err := load(ctx, "logo")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	data, err = load(ctx, "title")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.Len(t, coll.filters, 2)
	assert.Equal(t, bson.D{{Key: "_id", Value: "logo"}}, coll.filters[0])
}

func TestMongo_CustomFields(t *testing.T) {
	coll := &fakeCollection{docs: map[string]bson.D{
		"a.txt": {{Key: "path", Value: "a.txt"}, {Key: "body", Value: "abc"}},
	}}
	load := mongoLoader(coll, WithKeyField("path"), WithDataField("body"), WithKeyField(""))

	data, err := load(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
	assert.Equal(t, "path", coll.filters[0][0].Key)
}

func TestMongo_Errors(t *testing.T) {
	coll := &fakeCollection{docs: map[string]bson.D{
		"nofield": {{Key: "_id", Value: "nofield"}},
		"number":  {{Key: "_id", Value: "number"}, {Key: "data", Value: int32(7)}},
	}}
	load := mongoLoader(coll)
	ctx := context.Background()

	_, err := load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "_id=missing")

	_, err = load(ctx, "nofield")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = load(ctx, "number")
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "32-bit integer")

	boom := errors.New("server selection timeout")
	_, err = mongoLoader(&fakeCollection{err: boom})(ctx, "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMongo_NotFoundIsNotRetried(t *testing.T) {
	coll := &fakeCollection{}
	load := WithRetry(mongoLoader(coll), fastRetry()...)

	cache, err := xrescache.NewWithConfig(xrescache.Config{
		Capacity: 4, MaxUses: 10, ClearFraction: 0.5,
	}, xrescache.WithSink(xrescache.NoopSink{}))
	require.NoError(t, err)

	_, err = xrescache.Get(context.Background(), cache, "ghost", load)
	assert.ErrorIs(t, err, xrescache.ErrLoad)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, coll.filters, 1)
	assert.Zero(t, cache.Len())
}
