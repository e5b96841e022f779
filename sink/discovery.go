package sink

import (
	"encoding/json"
	"fmt"
)

// haDevice is the device block of a Home Assistant discovery payload.
type haDevice struct {
	Identifiers  []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name"`
}

type haDiscovery struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	AvailabilityTopic string   `json:"availability_topic"`
	UnitOfMeasurement string   `json:"unit_of_measurement,omitempty"`
	DeviceClass       string   `json:"device_class,omitempty"`
	StateClass        string   `json:"state_class,omitempty"`
	Device            haDevice `json:"device"`
}

type discoveryMsg struct {
	Topic   string
	Payload []byte
}

func (m *MQTT) buildDiscovery() ([]discoveryMsg, error) {
	nodeID := m.prefix + "_" + m.device
	dev := haDevice{
		Identifiers:  []string{nodeID},
		Manufacturer: "Analog Microelectronics",
		Model:        m.model,
		Name:         m.device,
	}
	var msgs []discoveryMsg
	for _, q := range []Quantity{Pressure, Temperature} {
		payload, err := json.Marshal(haDiscovery{
			Name:              m.device + " " + string(q),
			UniqueID:          nodeID + "_" + string(q),
			StateTopic:        m.Topic(q),
			AvailabilityTopic: m.availabilityTopic(),
			UnitOfMeasurement: q.Unit(),
			DeviceClass:       string(q),
			StateClass:        "measurement",
			Device:            dev,
		})
		if err != nil {
			return nil, fmt.Errorf("could not encode discovery for %s: %w", q, err)
		}
		msgs = append(msgs, discoveryMsg{
			Topic:   fmt.Sprintf("homeassistant/sensor/%s/%s/config", nodeID, q),
			Payload: payload,
		})
	}
	return msgs, nil
}
