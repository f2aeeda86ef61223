package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	"github.com/opine-platform/opine-backend/pkg/apihelpers"
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

	ENV_INTERVIEWER_JWT_SIGN_KEY = "INTERVIEWER_JWT_SIGN_KEY"
)

type FieldApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	AllowedInstanceIDs []string `json:"allowed_instance_ids" yaml:"allowed_instance_ids"`

	// API keys the interviewer device apps present
	FieldDeviceAPIKeys []FieldDeviceAPIKey `json:"field_device_api_keys" yaml:"field_device_api_keys"`

	// DB configs
	DBConfigs struct {
		ResponseDB db.DBConfigYaml `json:"response_db" yaml:"response_db"`
	} `json:"db_configs" yaml:"db_configs"`

	InterviewerJWTConfig struct {
		SignKey   string        `json:"sign_key" yaml:"sign_key"`
		ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
	} `json:"interviewer_jwt_config" yaml:"interviewer_jwt_config"`
}

type FieldDeviceAPIKey struct {
	DeviceGroup string `json:"device_group" yaml:"device_group"`
	Key         string `json:"key" yaml:"key"`
}

var conf FieldApiConfig

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

	// Init DBs
	initDBs()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Init verification workflow service, TTL is only relevant for qc-api
	verification.Init(responseDBService, 0)
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_RESPONSE_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.ResponseDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_RESPONSE_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.ResponseDB.Password = dbPassword
	}

	if signKey := os.Getenv(ENV_INTERVIEWER_JWT_SIGN_KEY); signKey != "" {
		conf.InterviewerJWTConfig.SignKey = signKey
	}

	// Override device API keys from environment variables
	for i := range conf.FieldDeviceAPIKeys {
		deviceKey := &conf.FieldDeviceAPIKeys[i]

		if deviceKey.DeviceGroup == "" {
			continue
		}

		envVarName := utils.GenerateFieldDeviceAPIKeyEnvVarName(deviceKey.DeviceGroup)
		if apiKey := os.Getenv(envVarName); apiKey != "" {
			deviceKey.Key = apiKey
		}
	}
}

func initDBs() {
	var err error
	responseDBService, err = responseDB.NewResponseDBService(db.DBConfigFromYamlObj(conf.DBConfigs.ResponseDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Response DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func apiKeysFromConfig() []string {
	keys := make([]string, 0, len(conf.FieldDeviceAPIKeys))
	for _, deviceKey := range conf.FieldDeviceAPIKeys {
		if deviceKey.Key != "" {
			keys = append(keys, deviceKey.Key)
		}
	}
	return keys
}
