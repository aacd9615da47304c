package config

import "time"

const defaultPort = 8080

var defaultBackend = Backend{
	URL:     "http://localhost:5000/api",
	Timeout: 10 * time.Second,
}

var defaultRetry = Retry{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultRedis = Redis{
	TTL: 24 * time.Hour,
}

var defaultGeolocation = Geolocation{
	Source: SourcePush,
	MQTT: MQTT{
		ClientID:    "near2door-tracker",
		TopicPrefix: "near2door/devices",
		QoS:         1,
	},
}

var defaultKafka = Kafka{
	GroupID: "near2door-tracker",
	Topic:   "order-status",
}

var defaultTracking = Tracking{
	PollInterval:   5 * time.Second,
	MaxBackoff:     60 * time.Second,
	RequestTimeout: 10 * time.Second,
}

var defaultRateLimit = RateLimit{
	Limit:      20,
	Window:     time.Second,
	TTL:        time.Minute,
	MaxBuckets: 10000,
}

var defaultJWT = JWT{
	TTL: time.Hour,
}

const defaultOperationTimeout = 5 * time.Second

// Defaults returns a Config with every default applied.
func Defaults() Config {
	return Config{
		Port:             defaultPort,
		LogLevel:         "info",
		OperationTimeout: defaultOperationTimeout,
		Backend:          defaultBackend,
		Retry:            defaultRetry,
		Redis:            defaultRedis,
		Geolocation:      defaultGeolocation,
		Kafka:            defaultKafka,
		Tracking:         defaultTracking,
		RateLimit:        defaultRateLimit,
		JWT:              defaultJWT,
	}
}
