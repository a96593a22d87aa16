// Package telemetry ingests odometer readings published by vehicles over
// MQTT and hands them to an applier. Topic shape:
//
//	fleet/vehicles/<plate>/odometer
//
// with a JSON payload {"odometer": <km>}.
package telemetry

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// OdometerTopic is the subscription filter for odometer readings.
const OdometerTopic = "fleet/vehicles/+/odometer"

// OdometerUpdate is one decoded reading.
type OdometerUpdate struct {
	Plate    string `json:"plate"`
	Odometer int    `json:"odometer"`
}

// Applier receives decoded readings. It reports whether the reading was
// applied; rejected readings (unknown plate, odometer rollback) are logged
// and dropped.
type Applier func(OdometerUpdate) bool

// Subscriber consumes odometer readings from the broker.
type Subscriber struct {
	client mqtt.Client
	apply  Applier
}

// NewSubscriber connects to the broker and returns a subscriber. brokerURL
// is e.g. "tcp://localhost:1883".
func NewSubscriber(brokerURL, clientID string, apply Applier) (*Subscriber, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Subscriber{client: client, apply: apply}, nil
}

// Start subscribes to the odometer topic.
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(OdometerTopic, 1, s.handle)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe: %w", token.Error())
	}
	log.WithField("topic", OdometerTopic).Info("Odometer telemetry subscription started")
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handle(_ mqtt.Client, msg mqtt.Message) {
	update, err := DecodeReading(msg.Topic(), msg.Payload())
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("Dropping malformed odometer reading")
		return
	}
	if !s.apply(update) {
		log.WithFields(log.Fields{
			"plate":    update.Plate,
			"odometer": update.Odometer,
		}).Warn("Odometer reading rejected")
		return
	}
	log.WithFields(log.Fields{
		"plate":    update.Plate,
		"odometer": update.Odometer,
	}).Info("Odometer updated")
}

// DecodeReading extracts the plate from the topic and the reading from the
// payload.
func DecodeReading(topic string, payload []byte) (OdometerUpdate, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "fleet" || parts[1] != "vehicles" || parts[3] != "odometer" || parts[2] == "" {
		return OdometerUpdate{}, fmt.Errorf("unexpected topic %q", topic)
	}
	var body struct {
		Odometer *int `json:"odometer"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return OdometerUpdate{}, fmt.Errorf("decode payload: %w", err)
	}
	if body.Odometer == nil || *body.Odometer < 0 {
		return OdometerUpdate{}, fmt.Errorf("missing or negative odometer in payload")
	}
	return OdometerUpdate{Plate: parts[2], Odometer: *body.Odometer}, nil
}
