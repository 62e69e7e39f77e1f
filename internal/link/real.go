package link

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	// commandQueueLen bounds the inbound command channel; the comms task
	// drains it every period, so a small queue is enough.
	commandQueueLen = 16

	// offlineBufferLen bounds telemetry buffered while disconnected.
	offlineBufferLen = 64
)

// RealLink is the MQTT implementation of the wireless command channel.
type RealLink struct {
	client   paho.Client
	commands chan string

	mu      sync.Mutex
	offline *offlineQueue
}

// NewRealLink connects to the broker and subscribes to the command topic.
// The client auto-reconnects; messages published while down are buffered
// and replayed on reconnect.
func NewRealLink(broker string) (*RealLink, error) {
	l := &RealLink{
		commands: make(chan string, commandQueueLen),
		offline:  newOfflineQueue(offlineBufferLen),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("rfboard").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(l.onConnect)

	l.client = paho.NewClient(opts)
	token := l.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return l, nil
}

func (l *RealLink) onConnect(c paho.Client) {
	token := c.Subscribe(TopicCommands, 1, l.onCommand)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("link: subscribe commands: %v", token.Error())
	}
	l.replayOffline(c)
}

func (l *RealLink) onCommand(_ paho.Client, msg paho.Message) {
	line := strings.TrimRight(string(msg.Payload()), "\r\n")
	select {
	case l.commands <- line:
	default:
		log.Printf("link: command queue full, dropping %q", line)
	}
}

func (l *RealLink) replayOffline(c paho.Client) {
	l.mu.Lock()
	msgs := l.offline.drain()
	l.mu.Unlock()
	if len(msgs) == 0 {
		return
	}
	log.Printf("link: replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

// Commands returns the inbound command stream.
func (l *RealLink) Commands() <-chan string {
	return l.commands
}

// Reply sends a command reply at QoS 1.
func (l *RealLink) Reply(msg string) error {
	return l.publish(TopicReplies, 1, false, []byte(msg))
}

// PublishTelemetry sends a status payload at QoS 0; while disconnected the
// payload is buffered for replay.
func (l *RealLink) PublishTelemetry(payload []byte) error {
	return l.publish(TopicTelemetry, 0, false, payload)
}

// PublishSystem sends a lifecycle event at QoS 1.
func (l *RealLink) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return l.publish(TopicSystem, 1, event.Retained, payload)
}

func (l *RealLink) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !l.client.IsConnected() {
		l.mu.Lock()
		l.offline.push(outboundMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		l.mu.Unlock()
		return fmt.Errorf("link down, buffered for %s", topic)
	}

	token := l.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout on %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// IsConnected reports whether the MQTT connection is up.
func (l *RealLink) IsConnected() bool {
	return l.client.IsConnected()
}

// Close disconnects from the broker.
func (l *RealLink) Close() error {
	l.client.Disconnect(1000) // 1 second timeout
	return nil
}
