package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

// LoadConfig reads config/server.yaml (or /config/server.yaml) once. Every key
// can be overridden with a NAMI_SERVER_ prefixed environment variable, for
// example NAMI_SERVER_DISPATCH_CLAIM_TIMEOUT=2m.
func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("nami_server")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")

		cfg, err := Load(viper.GetViper())
		if err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = cfg
	})

	return configInstance
}

// Load applies defaults to v, reads its config file when one is set up and
// maps the result. A missing config file is not an error.
func Load(v *viper.Viper) (AppConfig, error) {
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, err
		}
	}

	return AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
			Timezone: v.GetString("general.timezone"),
		},
		HTTP: HTTPConfig{
			Address:        v.GetString("http.address"),
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
		},
		Postgresql: PostgresqlConfig{
			URL:          v.GetString("database.url"),
			DSN:          v.GetString("database.dsn"),
			QueryTimeout: v.GetDuration("database.query_timeout"),
		},
		Dispatch: DispatchConfig{
			ClaimTimeout:                v.GetDuration("dispatch.claim_timeout"),
			MaxRetries:                  v.GetInt("dispatch.max_retries"),
			SweepSchedule:               v.GetString("dispatch.sweep_schedule"),
			DedupWindow:                 v.GetDuration("dispatch.dedup_window"),
			ConfirmationRequiredIntents: v.GetStringSlice("dispatch.confirmation_required_intents"),
			RobotID:                     v.GetString("dispatch.robot_id"),
		},
		Robot: RobotConfig{
			ID:                   v.GetString("robot.id"),
			APIBase:              v.GetString("robot.api_base"),
			PollInterval:         v.GetDuration("robot.poll_interval"),
			RequestTimeout:       v.GetDuration("robot.request_timeout"),
			TravelTime:           v.GetDuration("robot.travel_time"),
			PharmacyLocation:     v.GetString("robot.pharmacy_location"),
			HomeLocation:         v.GetString("robot.home_location"),
			InitialLocation:      v.GetString("robot.initial_location"),
			UnreachableLocations: v.GetStringSlice("robot.unreachable_locations"),
			LogFile:              v.GetString("robot.log_file"),
		},
		RobotStatus: RobotStatusConfig{
			TTL: v.GetDuration("robot_status.ttl"),
		},
		MQTTClient: MQTTClientConfig{
			Broker:   v.GetString("mqtt_client.broker"),
			ClientID: v.GetString("mqtt_client.client_id"),
			Username: v.GetString("mqtt_client.username"),
			Password: v.GetString("mqtt_client.password"),
		},
		Kafka: KafkaConfig{
			Brokers:           v.GetStringSlice("kafka.brokers"),
			Topic:             v.GetString("kafka.topic"),
			SchemaRegistryURL: v.GetString("kafka.schema_registry_url"),
		},
	}, nil
}

// SetDefaults registers the values used when neither the file nor the
// environment sets a key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.timezone", "UTC")
	v.SetDefault("http.address", ":3000")
	v.SetDefault("database.query_timeout", 5*time.Second)
	v.SetDefault("dispatch.claim_timeout", 2*time.Minute)
	v.SetDefault("dispatch.max_retries", 3)
	v.SetDefault("dispatch.sweep_schedule", "@every 10s")
	v.SetDefault("dispatch.dedup_window", time.Duration(0))
	v.SetDefault("dispatch.confirmation_required_intents", []string{})
	v.SetDefault("dispatch.robot_id", "nami-1")
	v.SetDefault("robot.id", "nami-1")
	v.SetDefault("robot.api_base", "http://localhost:3000")
	v.SetDefault("robot.poll_interval", 2*time.Second)
	v.SetDefault("robot.request_timeout", 5*time.Second)
	v.SetDefault("robot.travel_time", 3*time.Second)
	v.SetDefault("robot.pharmacy_location", "Pharmacy")
	v.SetDefault("robot.home_location", "Nurse Station")
	v.SetDefault("robot.initial_location", "Nurse Station")
	v.SetDefault("robot.unreachable_locations", []string{})
	v.SetDefault("robot_status.ttl", 30*time.Second)
	v.SetDefault("mqtt_client.client_id", "nami_server")
	v.SetDefault("kafka.topic", "robot_command_events")
}

type AppConfig struct {
	General     GeneralConfig
	HTTP        HTTPConfig
	Postgresql  PostgresqlConfig
	Dispatch    DispatchConfig
	Robot       RobotConfig
	RobotStatus RobotStatusConfig
	MQTTClient  MQTTClientConfig
	Kafka       KafkaConfig
}

type GeneralConfig struct {
	LogLevel string
	Timezone string
}

type HTTPConfig struct {
	Address        string
	AllowedOrigins []string
}

type PostgresqlConfig struct {
	// URL feeds the pgx readiness probe; empty disables it
	URL string
	// DSN selects postgres for the command store; empty means in-memory sqlite
	DSN          string
	QueryTimeout time.Duration
}

type DispatchConfig struct {
	ClaimTimeout                time.Duration
	MaxRetries                  int
	SweepSchedule               string
	DedupWindow                 time.Duration
	ConfirmationRequiredIntents []string
	// RobotID answers status queries that do not name a robot
	RobotID string
}

type RobotConfig struct {
	ID                   string
	APIBase              string
	PollInterval         time.Duration
	RequestTimeout       time.Duration
	TravelTime           time.Duration
	PharmacyLocation     string
	HomeLocation         string
	InitialLocation      string
	UnreachableLocations []string
	LogFile              string
}

type RobotStatusConfig struct {
	TTL time.Duration
}

type MQTTClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	// SchemaRegistryURL switches the audit stream to the Confluent wire
	// format. Empty keeps bare Avro.
	SchemaRegistryURL string
}
