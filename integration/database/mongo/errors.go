package mongo

import "errors"

var (
	ErrEmptyConnectionURL     = errors.New("empty mongodb connection url, use MONGODB_URL env var")
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrEmptyDatabaseName      = errors.New("empty mongodb database name")
)
