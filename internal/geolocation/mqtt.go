package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/logx"
)

// MQTTConfig describes the device feed broker.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// DialMQTT connects to the broker with auto reconnect enabled.
func DialMQTT(ctx context.Context, cfg MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return client, nil
}

// subackFailure is the SUBACK return code for a refused subscription.
const subackFailure = 0x80

type locationMessage struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
	TS       int64   `json:"ts"`
}

// MQTTProvider serves sources fed by devices publishing to
// <prefix>/<userID>/location.
type MQTTProvider struct {
	client mqtt.Client
	prefix string
	qos    byte
	logger logx.Logger

	mu      sync.Mutex
	sources map[string]*mqttSource
}

// NewMQTTProvider wraps a connected client.
func NewMQTTProvider(client mqtt.Client, prefix string, qos byte, logger logx.Logger) *MQTTProvider {
	if logger == nil {
		logger = logx.Nop()
	}
	if prefix == "" {
		prefix = "near2door/devices"
	}
	return &MQTTProvider{
		client:  client,
		prefix:  prefix,
		qos:     qos,
		logger:  logger,
		sources: make(map[string]*mqttSource),
	}
}

// Source returns the device source of userID.
func (p *MQTTProvider) Source(userID string) Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sources[userID]
	if !ok {
		s = &mqttSource{
			feed:   newFeed(),
			p:      p,
			userID: userID,
			topic:  fmt.Sprintf("%s/%s/location", p.prefix, userID),
		}
		s.available = s.ensureSubscribed
		p.sources[userID] = s
	}
	return s
}

type mqttSource struct {
	*feed
	p      *MQTTProvider
	userID string
	topic  string

	subMu      sync.Mutex
	subscribed bool
}

func (s *mqttSource) ensureSubscribed() error {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subscribed {
		return nil
	}
	if !s.p.client.IsConnectionOpen() {
		return ErrUnavailable
	}

	token := s.p.client.Subscribe(s.topic, s.p.qos, s.onMessage)
	if !token.WaitTimeout(DefaultTimeout) {
		return ErrTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if st, ok := token.(interface{ Result() map[string]byte }); ok {
		if code, ok := st.Result()[s.topic]; ok && code >= subackFailure {
			return ErrPermissionDenied
		}
	}
	s.subscribed = true
	return nil
}

func (s *mqttSource) ClearWatch(id WatchID) {
	s.feed.ClearWatch(id)
	if s.watchCount() > 0 {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if !s.subscribed {
		return
	}
	s.subscribed = false
	token := s.p.client.Unsubscribe(s.topic)
	if token.WaitTimeout(DefaultTimeout) && token.Error() != nil {
		s.p.logger.Warn("mqtt unsubscribe failed",
			logx.String("topic", s.topic),
			logx.Err(token.Error()),
		)
	}
}

func (s *mqttSource) onMessage(_ mqtt.Client, msg mqtt.Message) {
	var m locationMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		s.p.logger.Warn("bad device location payload",
			logx.String("topic", msg.Topic()),
			logx.Err(err),
		)
		return
	}
	fx := Fix{
		Coordinate: domain.Coordinate{Lat: m.Lat, Lng: m.Lng},
		Accuracy:   m.Accuracy,
		At:         time.UnixMilli(m.TS),
	}
	if m.TS == 0 {
		fx.At = s.now()
	}
	if err := fx.Coordinate.Validate(); err != nil {
		s.p.logger.Warn("device location rejected",
			logx.String("user_id", s.userID),
			logx.Err(err),
		)
		return
	}
	s.publish(fx)
}
