package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Service     *svcConfig
	ObjectStore *objectStoreConfig
}

type svcConfig struct {
	Address        string `envconfig:"ARCHIVER_ADDRESS" default:":8080"`
	MetricsAddress string `envconfig:"ARCHIVER_METRICS_ADDRESS" default:":8081"`
	LogLevel       string `envconfig:"ARCHIVER_LOG_LEVEL" default:"info"`
	OutputDir      string `envconfig:"ARCHIVER_OUTPUT_DIR" default:"data/output"`
	JobWorkers     int    `envconfig:"ARCHIVER_JOB_WORKERS" default:"4"`
	MaxVideos      int    `envconfig:"ARCHIVER_MAX_VIDEOS" default:"2500"`
}

type objectStoreConfig struct {
	Endpoint  string `envconfig:"ARCHIVER_OBJECT_STORE_ENDPOINT" default:""`
	Bucket    string `envconfig:"ARCHIVER_OBJECT_STORE_BUCKET" default:"dataset_youtube_katube"`
	AccessKey string `envconfig:"ARCHIVER_OBJECT_STORE_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"ARCHIVER_OBJECT_STORE_SECRET_KEY" default:""`
	UseSSL    bool   `envconfig:"ARCHIVER_OBJECT_STORE_USE_SSL" default:"false"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
