package infra

import (
	"log"
	"path/filepath"

	"github.com/tnqbao/gau-drop-service/blobstore"
	"github.com/tnqbao/gau-drop-service/config"
	"github.com/tnqbao/gau-drop-service/infra/produce"
)

type Infra struct {
	Telemetry *Telemetry
	Logger    *LoggerClient
	Postgres  *PostgresClient
	Redis     *RedisClient
	RabbitMQ  *RabbitMQClient
	Minio     *MinioClient
	BlobStore blobstore.Store
	Produce   *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	telemetry := InitTelemetry(cfg.EnvConfig)

	logger := InitLoggerClient(cfg.EnvConfig, telemetry.LoggerProvider)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	// MinIO is optional: without an endpoint blobs live on the local disk
	var minio *MinioClient
	var store blobstore.Store
	if cfg.EnvConfig.Minio.Endpoint != "" {
		minio = InitMinioClient(cfg.EnvConfig)
		store = blobstore.NewMinioStore(minio.Client, minio.Bucket)
	} else {
		diskStore, err := blobstore.NewDiskStore(filepath.Clean(cfg.EnvConfig.Upload.LocalDir))
		if err != nil {
			panic("Failed to initialize disk blob store: " + err.Error())
		}
		store = diskStore
		log.Println("MinIO endpoint not configured, using local disk blob store:", cfg.EnvConfig.Upload.LocalDir)
	}

	infraInstance = &Infra{
		Telemetry: telemetry,
		Logger:    logger,
		Postgres:  postgres,
		Redis:     redis,
		RabbitMQ:  rabbitMQ,
		Minio:     minio,
		BlobStore: store,
		Produce:   produceService,
	}

	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}
