package xload

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// 默认的文档字段：按 _id 查找，返回 data 字段。
const (
	DefaultMongoKeyField  = "_id"
	DefaultMongoDataField = "data"
)

// MongoOption 配置 Mongo 回源函数。
type MongoOption func(*mongoOptions)

type mongoOptions struct {
	keyField  string
	dataField string
}

// WithKeyField 设置匹配 key 的文档字段。空字符串会被忽略。
func WithKeyField(name string) MongoOption {
	return func(o *mongoOptions) {
		if name != "" {
			o.keyField = name
		}
	}
}

// WithDataField 设置返回内容的文档字段。空字符串会被忽略。
func WithDataField(name string) MongoOption {
	return func(o *mongoOptions) {
		if name != "" {
			o.dataField = name
		}
	}
}

// mongoFinder 是 *mongo.Collection 的 FindOne 子集，测试时注入。
type mongoFinder interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
}

var _ mongoFinder = (*mongo.Collection)(nil)

// Mongo 返回从 MongoDB 集合读取资源的回源函数。
// 按 {keyField: key} 查找一个文档，返回 dataField 的内容，字段可以是二进制或字符串。
// 文档不存在时返回 ErrNotFound；字段缺失或类型不符时返回 ErrDecode。
func Mongo(coll *mongo.Collection, opts ...MongoOption) (xrescache.LoadFunc[[]byte], error) {
	if coll == nil {
		return nil, ErrNilClient
	}
	return mongoLoader(coll, opts...), nil
}

func mongoLoader(coll mongoFinder, opts ...MongoOption) xrescache.LoadFunc[[]byte] {
	o := mongoOptions{keyField: DefaultMongoKeyField, dataField: DefaultMongoDataField}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	find := options.FindOne().SetProjection(bson.D{{Key: o.dataField, Value: 1}})

	return func(ctx context.Context, key string) ([]byte, error) {
		raw, err := coll.FindOne(ctx, bson.D{{Key: o.keyField, Value: key}}, find).Raw()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s=%s", ErrNotFound, o.keyField, key)
		}
		if err != nil {
			return nil, fmt.Errorf("xload: mongo find %s: %w", key, err)
		}

		val, err := raw.LookupErr(o.dataField)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: field %s: %w", ErrDecode, key, o.dataField, err)
		}
		if _, data, ok := val.BinaryOK(); ok {
			return data, nil
		}
		if s, ok := val.StringValueOK(); ok {
			return []byte(s), nil
		}
		return nil, fmt.Errorf("%w: %s: field %s is %s", ErrDecode, key, o.dataField, val.Type)
	}
}
