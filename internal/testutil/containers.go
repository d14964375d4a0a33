//go:build integration

// Package testutil starts the backing services integration tests run against.
// Each test package shares one set of containers through Main.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mongoImage = "mongo:7.0"
	redisImage = "redis:7-alpine"

	maxDBNameLength = 50
)

// Service names a backing service Main should start.
type Service int

const (
	Mongo Service = iota
	Redis
)

// Container is a running backing service and the address clients dial.
type Container struct {
	testcontainers.Container
	URI string
}

// Terminate stops the container.
func (c *Container) Terminate(ctx context.Context) error {
	if c == nil || c.Container == nil {
		return nil
	}
	if err := c.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate container: %w", err)
	}
	return nil
}

var (
	mu     sync.RWMutex
	shared = map[Service]*Container{}
)

// StartMongo runs a throwaway MongoDB server.
func StartMongo(ctx context.Context) (*Container, error) {
	c, err := mongodb.Run(ctx, mongoImage)
	if err != nil {
		return nil, fmt.Errorf("start mongodb: %w", err)
	}
	uri, err := c.ConnectionString(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("mongodb connection string: %w", err)
	}
	return &Container{Container: c, URI: uri}, nil
}

// StartRedis runs a throwaway Redis server. URI is a redis:// URL.
func StartRedis(ctx context.Context) (*Container, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start redis: %w", err)
	}
	endpoint, err := c.Endpoint(ctx, "")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("redis endpoint: %w", err)
	}
	return &Container{Container: c, URI: "redis://" + endpoint}, nil
}

// Main starts the requested services, runs the package's tests and tears
// the services down again. Use it from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.Main(m, testutil.Mongo))
//	}
func Main(m *testing.M, services ...Service) int {
	ctx := context.Background()

	for _, s := range services {
		start := StartMongo
		if s == Redis {
			start = StartRedis
		}
		c, err := start(ctx)
		if err != nil {
			terminateAll(ctx)
			_, _ = fmt.Fprintln(os.Stderr, err)
			return 1
		}
		mu.Lock()
		shared[s] = c
		mu.Unlock()
	}

	code := m.Run()
	terminateAll(ctx)
	return code
}

func terminateAll(ctx context.Context) {
	mu.Lock()
	defer mu.Unlock()
	for s, c := range shared {
		if err := c.Terminate(ctx); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "warning:", err)
		}
		delete(shared, s)
	}
}

func uriOf(s Service, name string) string {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := shared[s]
	if !ok {
		panic(name + " container not started; pass it to testutil.Main")
	}
	return c.URI
}

// MongoURI is the connection string of the package's shared MongoDB.
func MongoURI() string { return uriOf(Mongo, "mongodb") }

// RedisURL is the redis:// URL of the package's shared Redis.
func RedisURL() string { return uriOf(Redis, "redis") }

// DBName derives a database name unique to the running test so tests can
// share one MongoDB server without seeing each other's data.
func DBName(t testing.TB) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ".", "_", " ", "_", "\"", "_", "$", "_").Replace(t.Name())
	if len(name) > maxDBNameLength {
		name = name[:maxDBNameLength]
	}
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano()%1_000_000)
}
