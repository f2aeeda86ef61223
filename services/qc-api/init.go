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

	ENV_REVIEWER_JWT_SIGN_KEY = "REVIEWER_JWT_SIGN_KEY"

	ENV_REVIEW_ASSIGNMENT_TTL = "REVIEW_ASSIGNMENT_TTL"
)

type QcApiConfig struct {
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

	// DB configs
	DBConfigs struct {
		ResponseDB db.DBConfigYaml `json:"response_db" yaml:"response_db"`
	} `json:"db_configs" yaml:"db_configs"`

	ReviewerJWTConfig struct {
		SignKey   string        `json:"sign_key" yaml:"sign_key"`
		ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
	} `json:"reviewer_jwt_config" yaml:"reviewer_jwt_config"`

	// Verification workflow config
	VerificationConfigs struct {
		ReviewAssignmentTTL time.Duration `json:"review_assignment_ttl" yaml:"review_assignment_ttl"`
	} `json:"verification_configs" yaml:"verification_configs"`
}

var conf QcApiConfig

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

	// Init verification workflow service
	initVerificationService()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_RESPONSE_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.ResponseDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_RESPONSE_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.ResponseDB.Password = dbPassword
	}

	if signKey := os.Getenv(ENV_REVIEWER_JWT_SIGN_KEY); signKey != "" {
		conf.ReviewerJWTConfig.SignKey = signKey
	}

	if ttl := os.Getenv(ENV_REVIEW_ASSIGNMENT_TTL); ttl != "" {
		d, err := utils.ParseDurationString(ttl)
		if err != nil {
			slog.Error("could not parse review assignment TTL override", slog.String("error", err.Error()))
			panic(err)
		}
		conf.VerificationConfigs.ReviewAssignmentTTL = d
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

func initVerificationService() {
	verification.Init(
		responseDBService,
		conf.VerificationConfigs.ReviewAssignmentTTL,
	)
}
