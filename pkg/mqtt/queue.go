// Package mqtt publishes the mapper's telemetry over MQTT and backs
// the monitor command.
package mqtt

import (
	"net/url"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// Queue wraps the MQTT client with a topic prefix and re-subscribes
// its handlers after a reconnect.
type Queue struct {
	Client      paho.Client
	TopicPrefix string

	subsLock sync.RWMutex
	subs     map[string]Handler
}

// MatchTopic matches a topic with a subscription pattern.
func MatchTopic(topic, pattern string) bool {
	tokensT, tokensP := strings.Split(topic, "/"), strings.Split(pattern, "/")
	if len(tokensP) > len(tokensT) {
		return false
	}
	for i, token := range tokensP {
		if token == "+" {
			continue
		}
		if token == "#" && i+1 == len(tokensP) {
			break
		}
		if token != tokensT[i] {
			return false
		}
	}
	return true
}

// ClientOptionsFromURL creates ClientOptions and a topic prefix from
// an URL like mqtt://host:port/prefix.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}
	return opts, topicPrefix, nil
}

// NewQueueFromURL creates a Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	q := &Queue{TopicPrefix: topicPrefix}
	opts.SetOnConnectHandler(q.onConnect)
	opts.SetConnectionLostHandler(q.onConnectionLost)
	q.Client = paho.NewClient(opts)
	return q, nil
}

// Connect connects the client.
func (q *Queue) Connect() error {
	token := q.Client.Connect()
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Pub publishes to a topic under the queue's prefix.
func (q *Queue) Pub(topic string, payload []byte) {
	q.Client.Publish(q.TopicPrefix+topic, 0, false, payload)
}

// Sub registers a handler for a topic pattern under the prefix.
func (q *Queue) Sub(pattern string, handler Handler) {
	q.subsLock.Lock()
	if q.subs == nil {
		q.subs = make(map[string]Handler)
	}
	q.subs[pattern] = handler
	q.subsLock.Unlock()
	glog.V(2).Infof("SUB %q", q.TopicPrefix+pattern)
	q.Client.Subscribe(q.TopicPrefix+pattern, 0, q.dispatch)
}

func (q *Queue) onConnect(paho.Client) {
	glog.Info("mqtt connected")
	q.subsLock.RLock()
	patterns := make([]string, 0, len(q.subs))
	for pattern := range q.subs {
		patterns = append(patterns, pattern)
	}
	q.subsLock.RUnlock()
	for _, pattern := range patterns {
		q.Client.Subscribe(q.TopicPrefix+pattern, 0, q.dispatch)
	}
}

func (q *Queue) onConnectionLost(c paho.Client, err error) {
	glog.Warningf("mqtt connection lost: %v", err)
}

func (q *Queue) dispatch(c paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(2).Infof("RCV %q", topic)
	var handlers []Handler
	q.subsLock.RLock()
	for pattern, h := range q.subs {
		if MatchTopic(topic, pattern) {
			handlers = append(handlers, h)
		}
	}
	q.subsLock.RUnlock()
	for _, h := range handlers {
		h(topic, msg.Payload())
	}
}
