package main

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/opine-platform/opine-backend/pkg/db"
	"github.com/opine-platform/opine-backend/pkg/utils"
	"github.com/opine-platform/opine-backend/pkg/verification"

	responseDB "github.com/opine-platform/opine-backend/pkg/db/response"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_RESPONSE_DB_USERNAME = "RESPONSE_DB_USERNAME"
	ENV_RESPONSE_DB_PASSWORD = "RESPONSE_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		ResponseDB db.DBConfigYaml `json:"response_db" yaml:"response_db"`
	} `json:"db_configs" yaml:"db_configs"`

	InstanceIDs []string `json:"instance_ids" yaml:"instance_ids"`

	SweepConfig struct {
		SkipExpiredLockSweep bool `json:"skip_expired_lock_sweep" yaml:"skip_expired_lock_sweep"`
	} `json:"sweep_config" yaml:"sweep_config"`
}

var conf config

var (
	responseDBService *responseDB.ResponseDBService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
		conf.Logging.IncludeBuildInfo,
	)

	// Override secrets from environment variables
	secretsOverride()

	// init db
	initDBs()

	// init verification workflow service
	verification.Init(responseDBService, 0)
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_RESPONSE_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.ResponseDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_RESPONSE_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.ResponseDB.Password = dbPassword
	}
}

func initDBs() {
	var err error
	responseDBService, err = responseDB.NewResponseDBService(db.DBConfigFromYamlObj(conf.DBConfigs.ResponseDB, conf.InstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Response DB", slog.String("error", err.Error()))
		panic(err)
	}
}
