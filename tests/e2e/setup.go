//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"parkspot/cmd/bootstrap"
	"parkspot/cmd/bootstrap/components"
	"parkspot/internal/infra/db"
	"parkspot/internal/pkg/config"
	"parkspot/internal/usecase/shared"
	"parkspot/migrations"
	"parkspot/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	testUser     = "test"
	testPassword = "testpass"
	eventPrefix  = "parking-e2e"
)

// one postgres and one NATS broker per test process; every suite gets its own
// database on the shared server
var (
	containersOnce sync.Once
	containersErr  error
	postgresAddr   endpoint
	natsAddr       endpoint
)

type endpoint struct {
	Host string
	Port nat.Port
}

func (e endpoint) hostPort() string {
	return e.Host + ":" + e.Port.Port()
}

func startContainers(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	containersOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		var pg, broker testcontainers.Container
		pg, containersErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: postgresRequest(),
			Started:          true,
		})
		if containersErr != nil {
			return
		}
		broker, containersErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: natsRequest(),
			Started:          true,
		})
		if containersErr != nil {
			return
		}

		if postgresAddr, containersErr = mappedEndpoint(ctx, pg, "5432/tcp"); containersErr != nil {
			return
		}
		natsAddr, containersErr = mappedEndpoint(ctx, broker, "4222/tcp")
	})
	require.NoError(t, containersErr, "failed to start e2e containers")
}

func postgresRequest() testcontainers.ContainerRequest {
	return testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       "postgres",
		},
		Tmpfs: map[string]string{
			"/var/lib/postgresql/data": "rw,size=512m",
		},
		// durability off: the data dies with the container anyway
		Cmd: []string{
			"postgres",
			"-c", "fsync=off",
			"-c", "full_page_writes=off",
			"-c", "synchronous_commit=off",
			"-c", "max_connections=200",
			"-c", "log_statement=none",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
				testUser, testPassword, host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
		Labels: map[string]string{"purpose": "parkspot-e2e"},
	}
}

func natsRequest() testcontainers.ContainerRequest {
	return testcontainers.ContainerRequest{
		Image:        "nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(30 * time.Second),
		Labels:       map[string]string{"purpose": "parkspot-e2e"},
	}
}

func mappedEndpoint(ctx context.Context, c testcontainers.Container, port string) (endpoint, error) {
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return endpoint{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return endpoint{}, err
	}
	return endpoint{Host: host, Port: mapped}, nil
}

// createDatabase makes a fresh migrated database for one suite and drops it on cleanup.
func createDatabase(t *testing.T) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()
	dbName := "parkspot_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s/postgres?sslmode=disable", testUser, testPassword, postgresAddr.hostPort())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer adminPool.Close()

	// parallel suites occasionally collide on the template database lock
	var createErr error
	for attempt := range 5 {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}
		if _, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName); createErr == nil {
			break
		}
		slog.Warn("retrying database creation", "attempt", attempt+1, "error", createErr)
	}
	require.NoError(t, createErr, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			slog.Warn("cleanup connection failed", "database", dbName, "error", err)
			return
		}
		defer pool.Close()
		if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err)
		}
	})

	dbConfig := config.DBConfig{
		Host:     postgresAddr.Host,
		Port:     postgresAddr.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",

		TxMaxRetries: 3,
		LockTimeout:  5 * time.Second,
	}

	pool, cleanup, err := db.Connect(dbConfig)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)

	_, err = migrations.Apply(ctx, pool)
	require.NoError(t, err, "migrations failed")

	return pool, dbConfig
}

// startApp boots the production modules against the suite's database and the
// shared broker. The worker module stays out so no background sweep races a test.
func startApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.UseCaseModule,
		bootstrap.StoreModule,
		bootstrap.EventsModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err)
		}
	})
	return router
}

// SharedSuite gives each e2e suite its own database, a running app and a NATS
// connection to observe what the app publishes.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool // fixtures and assertions go through this pool
	Config config.Config
	Events *nats.Conn
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	startContainers(t)

	pool, dbConfig := createDatabase(t)
	cfg := config.NewTestConfig()
	cfg.Store.Backend = config.StoreBackendPostgres
	cfg.DB = dbConfig
	cfg.NATS.URL = "nats://" + natsAddr.hostPort()
	cfg.NATS.SubjectPrefix = eventPrefix + "." + dbConfig.DBName

	conn, err := nats.Connect(cfg.NATS.URL, nats.Name("parkspot-e2e-observer"))
	require.NoError(t, err, "nats connection failed")
	t.Cleanup(conn.Close)

	s.DB = pool
	s.Config = cfg
	s.Events = conn
	s.Router = startApp(t, cfg)
}

func (s *SharedSuite) SetupSubTest() {
	err := dbtest.ResetDB(s.DB)
	require.NoError(s.T(), err, "Failed to reset database state")
}

// SubscribeEvents collects lifecycle events of type et published by this
// suite's app. Subscribe before triggering the action.
func (s *SharedSuite) SubscribeEvents(et shared.EventType) <-chan shared.LifecycleEvent {
	t := s.T()
	out := make(chan shared.LifecycleEvent, 32)
	sub, err := s.Events.Subscribe(s.Config.NATS.SubjectPrefix+"."+string(et), func(msg *nats.Msg) {
		var ev shared.LifecycleEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Errorf("undecodable event on %s: %v", msg.Subject, err)
			return
		}
		select {
		case out <- ev:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, s.Events.Flush(), "subscription not registered with the broker")
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	return out
}

// AwaitEvent fails the test when nothing arrives on ch within a few seconds.
func (s *SharedSuite) AwaitEvent(ch <-chan shared.LifecycleEvent) shared.LifecycleEvent {
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		s.T().Fatal("timed out waiting for lifecycle event")
		return shared.LifecycleEvent{}
	}
}
