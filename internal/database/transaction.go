package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor chạy fn trong một transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor dùng session MongoDB; client nil => chạy fn trực tiếp (standalone mongod).
type MongoTransactor struct {
	client *mongo.Client
}

// NewMongoTransactor trả về transactor; enabled=false cho môi trường không có replica set
func NewMongoTransactor(client *mongo.Client, enabled bool) *MongoTransactor {
	if !enabled {
		return &MongoTransactor{}
	}
	return &MongoTransactor{client: client}
}

// WithinTransaction chạy fn trong transaction. ctx truyền cho fn là mongo.SessionContext
// nên mọi thao tác collection dùng ctx đó đều thuộc transaction.
func (t *MongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t == nil || t.client == nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
