package database

import (
	client "workforce/internal/database/client"
	fluentdRepo "workforce/internal/database/fluentd/repository"
	mongoRepo "workforce/internal/database/mongodb/repository"
	redisRepo "workforce/internal/database/redis/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
