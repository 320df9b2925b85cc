package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Values are read by
// Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	S3       S3Config       `mapstructure:"s3"`
	ML       MLConfig       `mapstructure:"ml"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// DatasetConfig points at the exercise dataset used for bulk loads.
type DatasetConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// MLConfig seeds the readiness-gate thresholds; the runtime values live in
// the system_config collection and are editable through the admin API.
type MLConfig struct {
	TrainingWindowDays     int `mapstructure:"training_window_days"`
	MinSessionsForTraining int `mapstructure:"min_sessions_for_training"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables override the file, nested keys flattened with
	// underscores (database.uri -> DATABASE_URI).
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitgen")
	viper.SetDefault("dataset.csv_path", "data/megaGymDataset.csv")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("ml.training_window_days", 30)
	viper.SetDefault("ml.min_sessions_for_training", 5)

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file is fine: defaults plus env vars carry the service.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
