package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Enabled reports whether a database has been configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	Seed     int64  `mapstructure:"seed"`
	LogLevel string `mapstructure:"log_level"`

	// model store
	ModelSource          string        `mapstructure:"model_source"` // local or s3
	ModelPath            string        `mapstructure:"model_path"`
	ModelBucket          string        `mapstructure:"model_bucket"`
	ModelKey             string        `mapstructure:"model_key"`
	AWSRegion            string        `mapstructure:"aws_region"`
	ModelRefreshInterval time.Duration `mapstructure:"model_refresh_interval"`
	ModelRefreshCron     string        `mapstructure:"model_refresh_cron"`

	TypicalMinutes float64 `mapstructure:"typical_minutes"`
	Workers        int     `mapstructure:"workers"`

	// results sink
	Database          DatabaseConfig     `mapstructure:"database"`
	KafkaEnabled      bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	KafkaTopic        string             `mapstructure:"kafka_topic"`
	OutputFormat      string             `mapstructure:"output_format"` // console, json or parquet
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"` // local or s3
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	// geocoding and simulation
	Places      map[string]Location `mapstructure:"places"`
	CityLat     float64             `mapstructure:"city_latitude"`
	CityLon     float64             `mapstructure:"city_longitude"`
	UrbanRadius float64             `mapstructure:"urban_radius"` // km
}

func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("model_source", "local")
	viper.SetDefault("model_path", DefaultModelPath)
	viper.SetDefault("model_refresh_interval", DefaultRefreshInterval*time.Second)
	viper.SetDefault("typical_minutes", DefaultTypicalMinutes)
	viper.SetDefault("workers", 4)
	viper.SetDefault("kafka_broker_list", "localhost:9092")
	viper.SetDefault("kafka_topic", TopicPredictions)
	viper.SetDefault("output_format", "console")
	viper.SetDefault("output_folder", "predictions")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	// Bengaluru, where the model was trained
	viper.SetDefault("city_latitude", 12.9716)
	viper.SetDefault("city_longitude", 77.5946)
	viper.SetDefault("urban_radius", 15.0)
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// default config file is not an error; an explicit one that cannot be read is.
func LoadConfig(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if config.ModelRefreshInterval <= 0 {
		config.ModelRefreshInterval = DefaultRefreshInterval * time.Second
	}
	if config.TypicalMinutes <= 0 {
		config.TypicalMinutes = DefaultTypicalMinutes
	}
	return &config, nil
}
