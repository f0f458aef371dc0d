package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/solarcar/core/history"
	"github.com/kilianp07/solarcar/core/input"
	"github.com/kilianp07/solarcar/core/model"
	coremon "github.com/kilianp07/solarcar/core/monitoring"
	coremqtt "github.com/kilianp07/solarcar/core/mqtt"
	"github.com/kilianp07/solarcar/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled     bool        `json:"enabled"`
	Broker      string      `json:"broker"`
	ClientID    string      `json:"client_id"`
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	TopicPrefix string      `json:"topic_prefix"`
	QoS         byte        `json:"qos"`
	Retain      bool        `json:"retain"`
	Requests    bool        `json:"requests"`
	UseTLS      bool        `json:"use_tls"`
	ClientCert  string      `json:"client_cert"`
	ClientKey   string      `json:"client_key"`
	CABundle    string      `json:"ca_bundle"`
	LWTPayload  string      `json:"lwt_payload"`
	MaxRetries  int         `json:"max_retries"`
	BackoffMS   int         `json:"backoff_ms"`
	TLSConfig   *tls.Config `json:"-"`
}

// SetDefaults fills in the topic prefix, client id and retry policy.
func (c *Config) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "solarcar"
	}
	if c.ClientID == "" {
		c.ClientID = "solarcar-" + uuid.NewString()[:8]
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Validate checks mandatory fields when publishing is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	if c.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	return nil
}

// ResultTopic is where records of a scenario are published.
func (c Config) ResultTopic(sc model.ScenarioType) string {
	return fmt.Sprintf("%s/%s/result", c.TopicPrefix, sc)
}

// ReplyTopic answers calculation requests of a scenario.
func (c Config) ReplyTopic(sc model.ScenarioType) string {
	return fmt.Sprintf("%s/%s/reply", c.TopicPrefix, sc)
}

// RequestTopic is the wildcard subscription for calculation requests.
func (c Config) RequestTopic() string {
	return c.TopicPrefix + "/+/request"
}

// StatusTopic carries the online/offline state of the service.
func (c Config) StatusTopic() string {
	return c.TopicPrefix + "/status"
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoPublisher publishes calculation records with Eclipse Paho and
// optionally answers calculation requests.
type PahoPublisher struct {
	cli       pahoClient
	cfg       Config
	calculate coremqtt.CalculateFunc
	logger    logger.Logger
	backoff   time.Duration
}

// NewPahoPublisher connects to the broker. When cfg.Requests is set and calc
// is not nil, the publisher subscribes to RequestTopic and answers each
// request on ReplyTopic.
func NewPahoPublisher(cfg Config, calc coremqtt.CalculateFunc) (*PahoPublisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	p := &PahoPublisher{
		cfg:       cfg,
		calculate: calc,
		logger:    log,
		backoff:   time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		c.Publish(cfg.StatusTopic(), cfg.QoS, true, "online")
		if cfg.Requests && p.calculate != nil {
			if token := c.Subscribe(cfg.RequestTopic(), cfg.QoS, p.onRequest); token.Wait() && token.Error() != nil {
				log.Errorf("subscribe error: %v", token.Error())
			}
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	// Request handlers wait on publish acks and must not run on the router.
	opts.SetOrderMatters(false)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	payload := cfg.LWTPayload
	if payload == "" {
		payload = "offline"
	}
	opts.SetWill(cfg.StatusTopic(), payload, cfg.QoS, true)
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// PublishRecord sends rec to the result topic of its scenario, retrying with
// exponential backoff.
func (p *PahoPublisher) PublishRecord(ctx context.Context, rec history.Record) error {
	return p.publish(ctx, p.cfg.ResultTopic(rec.Scenario), rec)
}

func (p *PahoPublisher) publish(ctx context.Context, topic string, v any) error {
	if p.cli == nil || !p.cli.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published to %s", topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == p.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	coremon.CaptureException(publishErr, map[string]string{"module": "mqtt", "topic": topic})
	return publishErr
}

// request is the payload expected on RequestTopic.
type request struct {
	RequestID string         `json:"request_id"`
	Fields    map[string]any `json:"fields"`
}

// Reply is published on ReplyTopic for every request.
type Reply struct {
	RequestID string         `json:"request_id"`
	Error     string         `json:"error,omitempty"`
	Record    history.Record `json:"record"`
}

func (p *PahoPublisher) onRequest(_ paho.Client, msg paho.Message) {
	parts := strings.Split(msg.Topic(), "/")
	if len(parts) < 2 {
		return
	}
	sc, err := model.ParseScenarioType(parts[len(parts)-2])
	if err != nil {
		p.logger.Warnf("ignoring request on %s: %v", msg.Topic(), err)
		return
	}
	var req request
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		p.logger.Errorf("failed to decode request: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rec, calcErr := p.calculate(ctx, sc, input.FromValues(req.Fields))
	reply := Reply{RequestID: req.RequestID, Record: rec}
	if calcErr != nil {
		reply.Error = calcErr.Error()
		p.logger.Debugf("request %s: %v", req.RequestID, calcErr)
	}
	if err := p.publish(ctx, p.cfg.ReplyTopic(sc), reply); err != nil {
		p.logger.Errorf("publish reply: %v", err)
	}
}

// Close publishes the offline status and disconnects.
func (p *PahoPublisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Publish(p.cfg.StatusTopic(), p.cfg.QoS, true, "offline").Wait()
		p.cli.Disconnect(250)
	}
	return nil
}
