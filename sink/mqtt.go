package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/mklimuk/transducer/pressure"
)

// Publisher is the part of the paho client used for publishing.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

type MQTTOpts struct {
	Broker      string
	Username    string
	Password    string
	ClientID    string
	TopicPrefix string
	Device      string
	Model       string
	Discovery   bool
	Timeout     time.Duration
	Logger      *slog.Logger
}

// MQTT publishes values to <prefix>/<device>/<quantity> and announces the
// sensor with Home Assistant discovery.
type MQTT struct {
	pub     Publisher
	client  pahomqtt.Client
	prefix  string
	device  string
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewMQTT wraps an already connected publisher.
func NewMQTT(pub Publisher, opts MQTTOpts) *MQTT {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &MQTT{
		pub:     pub,
		prefix:  opts.TopicPrefix,
		device:  opts.Device,
		model:   opts.Model,
		timeout: opts.Timeout,
		logger:  opts.Logger.With("component", "mqtt"),
	}
}

// DialMQTT connects to the broker. Availability and discovery are published
// again after every reconnect.
func DialMQTT(opts MQTTOpts) (*MQTT, error) {
	if opts.ClientID == "" {
		opts.ClientID = "transducer-" + uuid.NewString()
	}
	m := NewMQTT(nil, opts)
	o := pahomqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(m.availabilityTopic(), "offline", 1, true).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			m.logger.Info("MQTT connected", "broker", opts.Broker)
			go m.announce(opts.Discovery)
		}).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			m.logger.Warn("MQTT connection lost", "err", err)
		})
	if opts.Username != "" {
		o.SetUsername(opts.Username)
		o.SetPassword(opts.Password)
	}
	client := pahomqtt.NewClient(o)
	m.client = client
	m.pub = client
	if err := connect(client, 10*time.Second); err != nil {
		return nil, err
	}
	return m, nil
}

// connector is the part of the paho client used while connecting.
type connector interface {
	Connect() pahomqtt.Token
	Disconnect(quiesce uint)
}

// connect waits for the first connection. On failure the client is
// disconnected so its retry loop stops.
func connect(client connector, timeout time.Duration) error {
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		client.Disconnect(0)
		return fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (m *MQTT) Topic(q Quantity) string {
	return fmt.Sprintf("%s/%s/%s", m.prefix, m.device, q)
}

func (m *MQTT) availabilityTopic() string {
	return fmt.Sprintf("%s/%s/availability", m.prefix, m.device)
}

func (m *MQTT) For(q Quantity) pressure.Sink {
	topic := m.Topic(q)
	return pressure.SinkFunc(func(ctx context.Context, value float64) error {
		payload := strconv.FormatFloat(value, 'f', -1, 64)
		return m.send(ctx, topic, []byte(payload), false)
	})
}

// PublishDiscovery announces both quantities to Home Assistant.
func (m *MQTT) PublishDiscovery(ctx context.Context) error {
	msgs, err := m.buildDiscovery()
	if err != nil {
		return err
	}
	var errs []error
	for _, msg := range msgs {
		if err := m.send(ctx, msg.Topic, msg.Payload, true); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	m.logger.Info("published HA discovery", "device", m.device)
	return nil
}

func (m *MQTT) announce(discovery bool) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.send(ctx, m.availabilityTopic(), []byte("online"), true); err != nil {
		m.logger.Warn("could not publish availability", "err", err)
	}
	if !discovery {
		return
	}
	if err := m.PublishDiscovery(ctx); err != nil {
		m.logger.Warn("could not publish discovery", "err", err)
	}
}

// Close marks the sensor offline and disconnects.
func (m *MQTT) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.send(ctx, m.availabilityTopic(), []byte("offline"), true); err != nil {
		m.logger.Warn("could not publish availability", "err", err)
	}
	if m.client != nil {
		m.client.Disconnect(250)
	}
}

func (m *MQTT) send(ctx context.Context, topic string, payload []byte, retained bool) error {
	token := m.pub.Publish(topic, 1, retained, payload)
	timer := time.NewTimer(m.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish to %s: %w", topic, err)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("mqtt publish to %s: timeout", topic)
	case <-ctx.Done():
		return ctx.Err()
	}
}
