package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	BlobDriverFS = "fs"
	BlobDriverS3 = "s3"

	// 100MB
	defaultMaxUploadBytes = int64(100 << 20)
)

type (
	APP struct {
		Name           string
		Version        string
		Host           string
		Port           string
		Env            string
		UploadDir      string
		MaxUploadBytes int64
		AllowedOrigins []string
	}
	DB struct {
		Driver     string
		SQLitePath string
		User       string
		Password   string
		Name       string
		Host       string
		Port       string
	}
	Blob struct {
		Driver string
	}
	S3 struct {
		Region          string
		Bucket          string
		Endpoint        string
		Prefix          string
		PathStyle       bool
		AccessKeyID     string
		SecretAccessKey string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App  APP
		DB   DB
		Blob Blob
		S3   S3
		MQ   MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func Load() Config {
	app := APP{
		Name:           getEnv("SERVICE_NAME", "filestorage"),
		Version:        getEnv("SERVICE_VERSION", "1.0.0"),
		Host:           getEnv("SERVICE_HOST", ""),
		Port:           getEnv("SERVICE_PORT", "8000"),
		Env:            getEnv("SERVICE_ENV", ""),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadBytes: parseInt64(getEnv("MAX_UPLOAD_BYTES", ""), defaultMaxUploadBytes),
		AllowedOrigins: ParseOrigins(getEnv("ALLOWED_ORIGINS", "*")),
	}
	db := DB{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DBDriverSQLite)),
		SQLitePath: getEnv("SQLITE_PATH", "./files.db"),
		User:       getEnv("POSTGRES_USER", ""),
		Password:   getEnv("POSTGRES_PASSWORD", ""),
		Name:       getEnv("POSTGRES_DB", ""),
		Host:       getEnv("POSTGRES_HOST", ""),
		Port:       getEnv("POSTGRES_PORT", "5432"),
	}
	blob := Blob{
		Driver: strings.ToLower(getEnv("BLOB_DRIVER", BlobDriverFS)),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", "us-east-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		Prefix:          getEnv("S3_PREFIX", ""),
		PathStyle:       strings.EqualFold(getEnv("S3_PATH_STYLE", ""), "true"),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "files"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "files.audit"),
	}

	return Config{
		App:  app,
		DB:   db,
		Blob: blob,
		S3:   s3,
		MQ:   mq,
	}
}

// ParseOrigins turns ALLOWED_ORIGINS into a list. "*" (or an empty value)
// allows every origin.
func ParseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}

	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}

	return out
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (c Config) DBDSN() (string, error) {
	switch c.DB.Driver {
	case DBDriverSQLite:
		if c.DB.SQLitePath == "" {
			return "", fmt.Errorf("incomplete DB config: sqlite path is required")
		}
		return fmt.Sprintf(
			"%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
			c.DB.SQLitePath,
		), nil
	case DBDriverPostgres:
		if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
			return "", fmt.Errorf("incomplete DB config")
		}
		return fmt.Sprintf(
			"postgres://%s@%s:%s/%s",
			url.UserPassword(c.DB.User, c.DB.Password).String(),
			c.DB.Host,
			c.DB.Port,
			c.DB.Name,
		), nil
	default:
		return "", fmt.Errorf("unknown DB driver %q", c.DB.Driver)
	}
}

func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
