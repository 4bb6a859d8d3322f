// Copyright 2021 Converter Systems LLC. All rights reserved.

package config

import (
	"bytes"
	"strings"
	"time"

	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of the pubsubserver process.
type Config struct {
	ApplicationURI string        `mapstructure:"application_uri" validate:"required"`
	Logger         LoggerConfig  `mapstructure:"logger"`
	Server         ServerConfig  `mapstructure:"server"`
	PubSub         PubSubConfig  `mapstructure:"pubsub"`
	MQTT           MQTTConfig    `mapstructure:"mqtt"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type LoggerConfig struct {
	Level            string `mapstructure:"level" validate:"oneof=TRACE DEBUG INFO WARN ERROR trace debug info warn error"`
	Format           string `mapstructure:"format" validate:"oneof=TEXT JSON text json"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp"`
}

type ServerConfig struct {
	MaxWorkerThreads      int           `mapstructure:"max_worker_threads" validate:"min=1,max=1024"`
	MinPublishingInterval time.Duration `mapstructure:"min_publishing_interval" validate:"gt=0"`
}

type PubSubConfig struct {
	// URI selects the transport, e.g. "opc.udp://224.0.0.22:4840/".
	URI              string `mapstructure:"uri"`
	NetworkInterface string `mapstructure:"network_interface"`
	ConnectionName   string `mapstructure:"connection_name" validate:"required"`
	// PublisherID is random if zero.
	PublisherID   uint32              `mapstructure:"publisher_id"`
	WriterGroup   WriterGroupConfig   `mapstructure:"writer_group"`
	DataSetWriter DataSetWriterConfig `mapstructure:"data_set_writer"`
}

type WriterGroupConfig struct {
	Name               string        `mapstructure:"name"`
	ID                 uint16        `mapstructure:"id" validate:"required"`
	PublishingInterval time.Duration `mapstructure:"publishing_interval" validate:"gt=0"`
}

type DataSetWriterConfig struct {
	Name          string `mapstructure:"name"`
	ID            uint16 `mapstructure:"id" validate:"required"`
	KeyFrameCount uint32 `mapstructure:"key_frame_count"`
}

type MQTTConfig struct {
	ClientID       string        `mapstructure:"client_id"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	QoS            uint8         `mapstructure:"qos" validate:"max=2"`
	Retain         bool          `mapstructure:"retain"`
	KeepAlive      uint16        `mapstructure:"keep_alive"`
	ConnectRetry   time.Duration `mapstructure:"connect_retry"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Topic          string        `mapstructure:"topic" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address" validate:"required_if=Enabled true"`
}

var defaultConfig = []byte(`
{
	"application_uri": "urn:steamengine:uapubsub",
	"logger": {
		"level": "INFO",
		"format": "TEXT",
		"disable_timestamp": false
	},
	"server": {
		"max_worker_threads": 4,
		"min_publishing_interval": "1ms"
	},
	"pubsub": {
		"uri": "opc.udp://224.0.0.22:4840/",
		"network_interface": "",
		"connection_name": "UADP Connection 1",
		"publisher_id": 0,
		"writer_group": {
			"name": "Demo WriterGroup",
			"id": 100,
			"publishing_interval": "100ms"
		},
		"data_set_writer": {
			"name": "Demo DataSetWriter",
			"id": 62541,
			"key_frame_count": 10
		}
	},
	"mqtt": {
		"client_id": "",
		"user": "",
		"password": "",
		"qos": 0,
		"retain": false,
		"keep_alive": 10,
		"connect_retry": "5s",
		"connect_timeout": "10s",
		"topic": "uapubsub/json"
	},
	"metrics": {
		"enabled": false,
		"address": ":8080"
	}
}
`)

var validate = validator.New()

// Load reads the defaults, then the file, then the environment, e.g. UAPUBSUB_PUBSUB_URI.
// If file is empty, config.json is looked up in ./configs/ and /configs/, and may be missing.
func Load(file string) (Config, error) {
	var cfg Config
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return cfg, errors.Wrapf(ua.BadConfigurationError, "default config: %s", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs/")
		v.AddConfigPath("/configs/")
	}
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return cfg, errors.Wrapf(ua.BadConfigurationError, "config file: %s", err)
		}
	}

	v.SetEnvPrefix("UAPUBSUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrapf(ua.BadConfigurationError, "unmarshal config: %s", err)
	}
	if err := Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the config.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(ua.BadConfigurationError, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return err.Error()
	}
	e := validationErrs[0]
	switch e.Tag() {
	case "required", "required_if":
		return e.Namespace() + ": field is required"
	case "min", "gt":
		return e.Namespace() + ": must be greater than " + orZero(e.Param())
	case "max":
		return e.Namespace() + ": must not exceed " + e.Param()
	case "oneof":
		return e.Namespace() + ": must be one of " + e.Param()
	default:
		return e.Namespace() + ": validation failed (" + e.Tag() + ")"
	}
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
