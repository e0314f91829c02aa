package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connections regroupe les clients ouverts au démarrage. Un champ nil = service non configuré.
type Connections struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

func (c *Connections) Close(log *zap.Logger) {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Info("🔌 Session ScyllaDB fermée")
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("⚠️ Fermeture Redis", zap.Error(err))
		}
	}
}

// =============================================
// SCYLLA DB
// =============================================

// ConnectScylla crée le keyspace si besoin, ouvre la session puis applique le schéma.
func ConnectScylla(ctx context.Context, cfg config.ScyllaConfig, log *zap.Logger) (*gocql.Session, error) {
	consistency, err := parseConsistency(cfg.Consistency)
	if err != nil {
		return nil, err
	}

	bootstrap := newCluster(cfg, consistency)
	admin, err := bootstrap.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connexion ScyllaDB: %w", err)
	}
	err = admin.Query(fmt.Sprintf(createKeyspace, cfg.Keyspace)).WithContext(ctx).Exec()
	admin.Close()
	if err != nil {
		return nil, fmt.Errorf("création keyspace %s: %w", cfg.Keyspace, err)
	}

	cluster := newCluster(cfg, consistency)
	cluster.Keyspace = cfg.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", cfg.Keyspace, err)
	}

	if err := Migrate(ctx, session); err != nil {
		session.Close()
		return nil, err
	}

	log.Info("✅ Session ScyllaDB ouverte",
		zap.String("keyspace", cfg.Keyspace),
		zap.Strings("hosts", cfg.Hosts),
		zap.String("consistency", consistency.String()))
	return session, nil
}

func newCluster(cfg config.ScyllaConfig, consistency gocql.Consistency) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Consistency = consistency
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
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

func parseConsistency(s string) (gocql.Consistency, error) {
	c, err := gocql.ParseConsistencyWrapper(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return 0, fmt.Errorf("SCYLLA_CONSISTENCY invalide %q: %w", s, err)
	}
	return c, nil
}

// =============================================
// REDIS
// =============================================

func ConnectRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
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
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}
	log.Info("✅ Connecté à Redis", zap.String("addr", cfg.Host))
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func ConnectElastic(cfg config.ElasticConfig, log *zap.Logger) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("connexion Elasticsearch: %s", res.Status())
	}

	log.Info("✅ Connecté à Elasticsearch", zap.String("url", cfg.URL))
	return client, nil
}

// =============================================
// MINIO
// =============================================

// ConnectMinIO crée le bucket au premier démarrage.
func ConnectMinIO(ctx context.Context, cfg config.MinIOConfig, log *zap.Logger) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("vérification bucket MinIO: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("création bucket MinIO: %w", err)
		}
		log.Info("🪣 Bucket créé", zap.String("bucket", cfg.Bucket))
	}

	log.Info("✅ Connecté à MinIO", zap.String("endpoint", cfg.Endpoint))
	return client, nil
}
