// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Server   ServerConfig            `mapstructure:"server"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Redis    RedisConfig             `mapstructure:"redis"`
	Dispatch DispatchConfig          `mapstructure:"dispatch"`
	AWS      AWSConfig               `mapstructure:"aws"`
	Report   ReportConfig            `mapstructure:"report"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Tracing  TracingConfig           `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	OpsPort      int      `mapstructure:"ops_port"` // health, readiness and /metrics
	Mode         string   `mapstructure:"mode"`     // gin mode: debug, release, test
	CORSOrigins  []string `mapstructure:"cors_origins"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int      `mapstructure:"write_timeout"` // milliseconds
}

func (s ServerConfig) Addr() string    { return fmt.Sprintf(":%d", s.Port) }
func (s ServerConfig) OpsAddr() string { return fmt.Sprintf(":%d", s.OpsPort) }

type CamundaConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BrokerAddress     string `mapstructure:"broker_address"`
	MaxJobsActive     int    `mapstructure:"max_jobs_active"`
	Timeout           int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout    int    `mapstructure:"request_timeout"` // milliseconds
	FollowUpProcessID string `mapstructure:"follow_up_process_id"`
}

type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	CacheTTL   int    `mapstructure:"cache_ttl"`   // seconds
	InsightTTL int    `mapstructure:"insight_ttl"` // seconds
}

type DispatchConfig struct {
	WebhookURL   string `mapstructure:"webhook_url"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
	DefaultEmail string `mapstructure:"default_email"`
	Source       string `mapstructure:"source"`
	Workflow     string `mapstructure:"workflow"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	SES    struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
	SNS struct {
		Enabled        bool   `mapstructure:"enabled"`
		CrisisTopicARN string `mapstructure:"crisis_topic_arn"`
	} `mapstructure:"sns"`
}

type ReportConfig struct {
	ChromePath string `mapstructure:"chrome_path"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // for error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig leaves tracing off unless a collector endpoint is set.
type TracingConfig struct {
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
