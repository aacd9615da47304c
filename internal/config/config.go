package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"near2door-tracker/internal/domain"
)

// Geolocation sources
const (
	SourcePush = "push"
	SourceMQTT = "mqtt"
)

// Config stores the tracker settings.
type Config struct {
	Port             int           `yaml:"port"`
	LogLevel         string        `yaml:"log_level"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
	Debug            Debug         `yaml:"debug"`

	Backend     Backend     `yaml:"backend"`
	Retry       Retry       `yaml:"retry"`
	Redis       Redis       `yaml:"redis"`
	Geolocation Geolocation `yaml:"geolocation"`
	Kafka       Kafka       `yaml:"kafka"`
	Tracking    Tracking    `yaml:"tracking"`
	RateLimit   RateLimit   `yaml:"rate_limit"`
	JWT         JWT         `yaml:"jwt"`
}

// Backend describes the marketplace REST backend and the persisted credentials.
type Backend struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Token   string        `yaml:"token"`
	UserID  string        `yaml:"user_id"`
	Role    string        `yaml:"role"`
	ShopID  string        `yaml:"shop_id"`
}

// Retry tunes the retrying backend gateway.
type Retry struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// Redis enables the shared position store when Addr is set.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Geolocation selects where device fixes come from.
type Geolocation struct {
	Source string `yaml:"source"`
	MQTT   MQTT   `yaml:"mqtt"`
}

// MQTT defines the device broker.
type MQTT struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

// Kafka enables the order status consumer when Brokers is not empty.
type Kafka struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
	Topic   string   `yaml:"topic"`
}

// Tracking tunes live tracking sessions.
type Tracking struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// RateLimit tunes the per-user token bucket.
type RateLimit struct {
	Limit      int           `yaml:"limit"`
	Window     time.Duration `yaml:"window"`
	TTL        time.Duration `yaml:"ttl"`
	MaxBuckets int           `yaml:"max_buckets"`
}

// Debug mounts the profiler under /debug. Non-loopback callers need basic auth.
type Debug struct {
	Enabled bool   `yaml:"enabled"`
	User    string `yaml:"user"`
	Pass    string `yaml:"pass"`
}

// JWT holds the token verification settings.
type JWT struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// Load reads configuration in order: defaults → YAML file → .env (if present) → environment → flags.
func Load() (*Config, error) {
	return LoadArgs(pflag.CommandLine, os.Args[1:])
}

// LoadArgs is Load with an explicit flag set and arguments.
func LoadArgs(fs *pflag.FlagSet, args []string) (*Config, error) {
	fl := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg := Defaults()

	path := fl.configPath
	if !fs.Changed("config") {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	fl.apply(fs, &cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend url: %q", c.Backend.URL)
	}
	if c.Backend.Role != "" && !domain.Actor(c.Backend.Role).Valid() {
		return fmt.Errorf("invalid backend role: %q", c.Backend.Role)
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt secret is required")
	}
	if c.Tracking.PollInterval <= 0 {
		return fmt.Errorf("invalid tracking poll interval: %s", c.Tracking.PollInterval)
	}
	if c.Tracking.MaxBackoff < c.Tracking.PollInterval {
		return fmt.Errorf("tracking max backoff %s is below poll interval %s", c.Tracking.MaxBackoff, c.Tracking.PollInterval)
	}
	switch c.Geolocation.Source {
	case SourcePush:
	case SourceMQTT:
		if c.Geolocation.MQTT.Broker == "" {
			return errors.New("mqtt broker is required for the mqtt geolocation source")
		}
		if c.Geolocation.MQTT.QoS < 0 || c.Geolocation.MQTT.QoS > 2 {
			return fmt.Errorf("invalid mqtt qos: %d", c.Geolocation.MQTT.QoS)
		}
	default:
		return fmt.Errorf("unknown geolocation source: %q", c.Geolocation.Source)
	}
	if c.RateLimit.Limit < 0 || (c.RateLimit.Limit > 0 && c.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit: %d per %s", c.RateLimit.Limit, c.RateLimit.Window)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("invalid retry attempts: %d", c.Retry.MaxAttempts)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("LOG_LEVEL", &cfg.LogLevel)
	str("BACKEND_URL", &cfg.Backend.URL)
	str("BACKEND_TOKEN", &cfg.Backend.Token)
	str("BACKEND_USER_ID", &cfg.Backend.UserID)
	str("BACKEND_ROLE", &cfg.Backend.Role)
	str("BACKEND_SHOP_ID", &cfg.Backend.ShopID)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	str("GEOLOCATION_SOURCE", &cfg.Geolocation.Source)
	str("MQTT_BROKER", &cfg.Geolocation.MQTT.Broker)
	str("MQTT_CLIENT_ID", &cfg.Geolocation.MQTT.ClientID)
	str("MQTT_USERNAME", &cfg.Geolocation.MQTT.Username)
	str("MQTT_PASSWORD", &cfg.Geolocation.MQTT.Password)
	str("MQTT_TOPIC_PREFIX", &cfg.Geolocation.MQTT.TopicPrefix)
	str("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)
	str("KAFKA_ORDER_STATUS_TOPIC", &cfg.Kafka.Topic)
	str("JWT_SECRET", &cfg.JWT.Secret)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	str("DEBUG_USER", &cfg.Debug.User)
	str("DEBUG_PASS", &cfg.Debug.Pass)
	if v := os.Getenv("DEBUG_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG_ENABLED: %w", err)
		}
		cfg.Debug.Enabled = b
	}

	for _, step := range []error{
		num("PORT", &cfg.Port),
		num("REDIS_DB", &cfg.Redis.DB),
		num("MQTT_QOS", &cfg.Geolocation.MQTT.QoS),
		num("RATE_LIMIT", &cfg.RateLimit.Limit),
		num("GATEWAY_MAX_ATTEMPTS", &cfg.Retry.MaxAttempts),
		dur("OPERATION_TIMEOUT", &cfg.OperationTimeout),
		dur("BACKEND_TIMEOUT", &cfg.Backend.Timeout),
		dur("POSITION_TTL", &cfg.Redis.TTL),
		dur("TRACKING_POLL_INTERVAL", &cfg.Tracking.PollInterval),
		dur("TRACKING_MAX_BACKOFF", &cfg.Tracking.MaxBackoff),
		dur("TRACKING_REQUEST_TIMEOUT", &cfg.Tracking.RequestTimeout),
		dur("RATE_LIMIT_WINDOW", &cfg.RateLimit.Window),
		dur("JWT_TTL", &cfg.JWT.TTL),
	} {
		if step != nil {
			return step
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type flagValues struct {
	configPath   string
	port         int
	logLevel     string
	backendURL   string
	redisAddr    string
	geoSource    string
	mqttBroker   string
	kafkaBrokers []string
	pollInterval time.Duration
	debug        bool
}

func registerFlags(fs *pflag.FlagSet) *flagValues {
	fl := &flagValues{}
	fs.StringVarP(&fl.configPath, "config", "c", "", "path to a YAML config file")
	fs.IntVarP(&fl.port, "port", "p", defaultPort, "port to listen on")
	fs.StringVar(&fl.logLevel, "log-level", "info", "log level")
	fs.StringVar(&fl.backendURL, "backend-url", "", "marketplace backend base url")
	fs.StringVar(&fl.redisAddr, "redis-addr", "", "redis address for the shared position store")
	fs.StringVar(&fl.geoSource, "geolocation-source", "", "push or mqtt")
	fs.StringVar(&fl.mqttBroker, "mqtt-broker", "", "mqtt broker url")
	fs.StringSliceVar(&fl.kafkaBrokers, "kafka-brokers", nil, "kafka brokers")
	fs.DurationVar(&fl.pollInterval, "poll-interval", 0, "counterpart poll interval")
	fs.BoolVar(&fl.debug, "debug", false, "mount the profiler under /debug")
	return fl
}

func (fl *flagValues) apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("port") {
		cfg.Port = fl.port
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = fl.logLevel
	}
	if fs.Changed("backend-url") {
		cfg.Backend.URL = fl.backendURL
	}
	if fs.Changed("redis-addr") {
		cfg.Redis.Addr = fl.redisAddr
	}
	if fs.Changed("geolocation-source") {
		cfg.Geolocation.Source = fl.geoSource
	}
	if fs.Changed("mqtt-broker") {
		cfg.Geolocation.MQTT.Broker = fl.mqttBroker
	}
	if fs.Changed("kafka-brokers") {
		cfg.Kafka.Brokers = fl.kafkaBrokers
	}
	if fs.Changed("poll-interval") {
		cfg.Tracking.PollInterval = fl.pollInterval
	}
	if fs.Changed("debug") {
		cfg.Debug.Enabled = fl.debug
	}
}
