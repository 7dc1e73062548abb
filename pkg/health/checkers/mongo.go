package checkers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoChecker struct {
	client  *mongo.Client
	timeout time.Duration
}

func NewMongoChecker(client *mongo.Client, timeout time.Duration) *MongoChecker {
	return &MongoChecker{client: client, timeout: orDefault(timeout)}
}

func (c *MongoChecker) Name() string { return "mongo" }

func (c *MongoChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Ping(ctx, readpref.Primary())
}
