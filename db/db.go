// db/db.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dev-mohitbeniwal/accessledger/config"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
)

var (
	Neo4jDriver neo4j.DriverWithContext
	Postgres    *gorm.DB
)

func InitNeo4j(ctx context.Context) error {
	var err error
	uri := config.GetString("neo4j.uri")
	logger.Info("Connecting to Neo4j at URI", zap.String("uri", uri))
	Neo4jDriver, err = neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(
			config.GetString("neo4j.username"),
			config.GetString("neo4j.password"),
			"",
		),
		func(c *neo4j.Config) {
			c.MaxConnectionLifetime = 30 * time.Minute
			c.MaxConnectionPoolSize = 50
			c.Log = neo4j.ConsoleLogger(neo4j.ERROR)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	// Test the connection
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = Neo4jDriver.VerifyConnectivity(verifyCtx); err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	logger.Info("Successfully connected to Neo4j")
	return nil
}

func CloseNeo4j(ctx context.Context) {
	if Neo4jDriver == nil {
		return
	}
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := Neo4jDriver.Close(closeCtx); err != nil {
		logger.Error("Error closing Neo4j connection", zap.Error(err))
		return
	}
	logger.Info("Neo4j connection closed successfully")
}

func InitPostgres(ctx context.Context) error {
	var err error
	logger.Info("Connecting to Postgres")

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		Postgres, err = gorm.Open(postgres.Open(config.GetString("postgres.dsn")), &gorm.Config{
			Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
			DisableForeignKeyConstraintWhenMigrating: true,
			TranslateError:                           true,
		})
		if err == nil {
			break
		}
		logger.Warn("Failed to connect to Postgres",
			zap.Int("attempt", i+1),
			zap.Int("maxRetries", maxRetries),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := Postgres.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping Postgres: %w", err)
	}

	logger.Info("Successfully connected to Postgres")
	return nil
}
