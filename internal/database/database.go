package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"verideal_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Connections holds every backend client opened at start-up. Optional
// backends (Postgres, Elasticsearch, MinIO) stay nil when not configured.
type Connections struct {
	Scylla   *ScyllaManager
	Redis    *redis.Client
	Postgres *sql.DB
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
}

type ScyllaManager struct {
	cfg     config.ScyllaConfig
	session *gocql.Session
	mu      sync.Mutex
}

// Connect opens every configured backend. Scylla and Redis are mandatory.
func Connect(cfg *config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conns := &Connections{}

	scylla, err := NewScyllaManager(cfg.Scylla)
	if err != nil {
		return nil, fmt.Errorf("scylla init failed: %w", err)
	}
	conns.Scylla = scylla

	if conns.Redis, err = connectRedis(ctx, cfg.Redis); err != nil {
		conns.Close()
		return nil, err
	}

	if cfg.Store.Driver == "postgres" {
		if conns.Postgres, err = connectPostgres(ctx, cfg.Postgres); err != nil {
			conns.Close()
			return nil, err
		}
	}

	if cfg.Elastic.URL != "" {
		if conns.Elastic, err = connectElastic(cfg.Elastic); err != nil {
			log.Printf("⚠️ Elasticsearch unavailable, search falls back to catalog scan: %v", err)
		}
	} else {
		log.Println("⚠️ ELASTIC_URL not set, search falls back to catalog scan")
	}

	if cfg.MinIO.Endpoint != "" {
		if conns.MinIO, err = connectMinIO(ctx, cfg.MinIO); err != nil {
			log.Printf("⚠️ MinIO unavailable, avatar uploads disabled: %v", err)
		}
	} else {
		log.Println("⚠️ MINIO_ENDPOINT not set, avatar uploads disabled")
	}

	log.Println("✅ All databases connected")
	return conns, nil
}

func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️ Redis close: %v", err)
		}
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			log.Printf("⚠️ Postgres close: %v", err)
		}
	}
}

// =============================================
// SCYLLA DB
// =============================================

func NewScyllaManager(cfg config.ScyllaConfig) (*ScyllaManager, error) {
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("SCYLLA_HOSTS not configured")
	}
	sm := &ScyllaManager{cfg: cfg}
	if _, err := sm.Session(); err != nil {
		return nil, err
	}
	return sm, nil
}

func createScyllaCluster(cfg config.ScyllaConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	if cfg.SSLEnabled && cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("cannot parse CA certificate")
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster, nil
}

// Session returns the live session, recreating it if the previous one died.
func (sm *ScyllaManager) Session() (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.session != nil {
		if err := sm.session.Query("SELECT now() FROM system.local").Exec(); err == nil {
			return sm.session, nil
		}
		sm.session.Close()
		sm.session = nil
	}

	cluster, err := createScyllaCluster(sm.cfg)
	if err != nil {
		return nil, fmt.Errorf("cluster config for %s: %w", sm.cfg.Keyspace, err)
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("session for %s: %w", sm.cfg.Keyspace, err)
	}

	sm.session = session
	log.Printf("✅ New ScyllaDB session for keyspace '%s'", sm.cfg.Keyspace)
	return session, nil
}

func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.session != nil {
		sm.session.Close()
		sm.session = nil
		log.Printf("🔌 ScyllaDB session closed for keyspace '%s'", sm.cfg.Keyspace)
	}
}

// =============================================
// REDIS
// =============================================

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("REDIS_HOST not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	log.Println("✅ Connected to Redis")
	return client, nil
}

// =============================================
// POSTGRES
// =============================================

func connectPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	log.Println("✅ Connected to Postgres")
	return db, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func connectElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch connection: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}
	log.Println("✅ Connected to Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================

func connectMinIO(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
		log.Println("🪣 Bucket created:", cfg.Bucket)
	} else {
		log.Println("🪣 MinIO bucket present:", cfg.Bucket)
	}

	log.Println("✅ Connected to MinIO:", cfg.Endpoint)
	return client, nil
}
