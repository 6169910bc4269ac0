package service

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"workforce/internal/database/client"

	"golang.org/x/sync/errgroup"
)

const dependencyPingTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	live         atomic.Bool
	ready        atomic.Bool
	dependencies map[string]pinger
}

func NewHealthService(mongoClient *client.MongoClient, redisClient *client.RedisClient) *HealthService {
	return newHealthService(map[string]pinger{
		"mongodb": mongoClient,
		"redis":   redisClient,
	})
}

func newHealthService(dependencies map[string]pinger) *HealthService {
	s := &HealthService{dependencies: dependencies}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.ready.Load()
}

// CheckDependencies 並行 ping，回傳每個依賴的錯誤訊息（正常為 "ok"）與是否全部正常
func (s *HealthService) CheckDependencies(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, dependencyPingTimeout)
	defer cancel()

	names := make([]string, 0, len(s.dependencies))
	for name := range s.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]string, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			if err := s.dependencies[name].Ping(ctx); err != nil {
				results[i] = err.Error()
				return err
			}
			results[i] = "ok"
			return nil
		})
	}
	healthy := g.Wait() == nil

	out := make(map[string]string, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, healthy
}
