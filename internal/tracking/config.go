package tracking

import (
	"time"

	"near2door-tracker/internal/geolocation"
)

// Config tunes every session started by a Manager.
type Config struct {
	PollInterval   time.Duration
	MaxBackoff     time.Duration
	RequestTimeout time.Duration
	StoreTimeout   time.Duration
	SubscriberBuf  int
	Geolocation    geolocation.Options
}

// DefaultConfig polls every 5s and backs off up to a minute.
func DefaultConfig() Config {
	return Config{
		PollInterval:   5 * time.Second,
		MaxBackoff:     60 * time.Second,
		RequestTimeout: 10 * time.Second,
		StoreTimeout:   2 * time.Second,
		SubscriberBuf:  16,
		Geolocation:    geolocation.DefaultOptions(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.MaxBackoff < c.PollInterval {
		c.MaxBackoff = d.MaxBackoff
		if c.MaxBackoff < c.PollInterval {
			c.MaxBackoff = c.PollInterval
		}
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = d.StoreTimeout
	}
	if c.SubscriberBuf <= 0 {
		c.SubscriberBuf = d.SubscriberBuf
	}
	if c.Geolocation.Timeout <= 0 {
		c.Geolocation.Timeout = geolocation.DefaultTimeout
	}
	return c
}
