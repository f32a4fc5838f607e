package whatsapp

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// MessageType is the kind of content sent.
type MessageType int32

const (
	MessageTypeText MessageType = iota
	MessageTypeImage
	MessageTypeDocument
	MessageTypeAudio
)

var messageTypeNames = []string{"TEXT", "IMAGE", "DOCUMENT", "AUDIO"}

func (t MessageType) String() string { return enumName(messageTypeNames, int32(t)) }

func (t MessageType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// DeliveryStatus is the lifecycle of a sent message.
type DeliveryStatus int32

const (
	DeliveryPending DeliveryStatus = iota
	DeliverySent
	DeliveryDelivered
	DeliveryRead
	DeliveryFailed
)

var deliveryStatusNames = []string{"PENDING", "SENT", "DELIVERED", "READ", "FAILED"}

func (s DeliveryStatus) String() string { return enumName(deliveryStatusNames, int32(s)) }

func (s DeliveryStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ConnectionState is the messaging service's session with WhatsApp.
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

var connectionStateNames = []string{"DISCONNECTED", "CONNECTING", "CONNECTED"}

func (s ConnectionState) String() string { return enumName(connectionStateNames, int32(s)) }

func (s ConnectionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ServingStatus follows the standard gRPC health protocol.
type ServingStatus int32

const (
	ServingUnknown ServingStatus = iota
	Serving
	NotServing
	ServiceUnknown
)

var servingStatusNames = []string{"UNKNOWN", "SERVING", "NOT_SERVING", "SERVICE_UNKNOWN"}

func (s ServingStatus) String() string { return enumName(servingStatusNames, int32(s)) }

func (s ServingStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func enumName(names []string, v int32) string {
	if v >= 0 && int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("UNRECOGNIZED(%d)", v)
}

// ParseConnectionState maps a state name back to its value.
func ParseConnectionState(s string) (ConnectionState, bool) {
	for i, name := range connectionStateNames {
		if strings.EqualFold(name, s) {
			return ConnectionState(i), true
		}
	}
	return StateDisconnected, false
}

type SendMessageRequest struct {
	PhoneNumber string      `json:"phone_number"`
	CountryCode string      `json:"country_code"`
	Text        string      `json:"text"`
	MessageID   string      `json:"message_id"`
	Type        MessageType `json:"type"`
}

func (m *SendMessageRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.PhoneNumber)
	b = appendString(b, 2, m.CountryCode)
	b = appendString(b, 3, m.Text)
	b = appendString(b, 4, m.MessageID)
	return appendVarint(b, 5, uint64(m.Type))
}

func (m *SendMessageRequest) unmarshalWire(b []byte) error {
	*m = SendMessageRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.PhoneNumber)
		case 2:
			return consumeString(typ, b, &m.CountryCode)
		case 3:
			return consumeString(typ, b, &m.Text)
		case 4:
			return consumeString(typ, b, &m.MessageID)
		case 5:
			return consumeEnum(typ, b, (*int32)(&m.Type))
		}
		return skipField
	})
}

type SendMessageResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

func (m *SendMessageResponse) appendWire(b []byte) []byte {
	b = appendBool(b, 1, m.Success)
	b = appendString(b, 2, m.MessageID)
	return appendString(b, 3, m.Message)
}

func (m *SendMessageResponse) unmarshalWire(b []byte) error {
	*m = SendMessageResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeBool(typ, b, &m.Success)
		case 2:
			return consumeString(typ, b, &m.MessageID)
		case 3:
			return consumeString(typ, b, &m.Message)
		}
		return skipField
	})
}

type MessageStatusRequest struct {
	MessageID string `json:"message_id"`
}

func (m *MessageStatusRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.MessageID)
}

func (m *MessageStatusRequest) unmarshalWire(b []byte) error {
	*m = MessageStatusRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.MessageID)
		}
		return skipField
	})
}

type MessageStatusResponse struct {
	MessageID    string         `json:"message_id"`
	Status       DeliveryStatus `json:"status"`
	Timestamp    int64          `json:"timestamp"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

func (m *MessageStatusResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.MessageID)
	b = appendVarint(b, 2, uint64(m.Status))
	b = appendVarint(b, 3, uint64(m.Timestamp))
	return appendString(b, 4, m.ErrorMessage)
}

func (m *MessageStatusResponse) unmarshalWire(b []byte) error {
	*m = MessageStatusResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.MessageID)
		case 2:
			return consumeEnum(typ, b, (*int32)(&m.Status))
		case 3:
			return consumeInt64(typ, b, &m.Timestamp)
		case 4:
			return consumeString(typ, b, &m.ErrorMessage)
		}
		return skipField
	})
}

type ConnectionStatusRequest struct {
	Watch bool `json:"watch"`
}

func (m *ConnectionStatusRequest) appendWire(b []byte) []byte {
	return appendBool(b, 1, m.Watch)
}

func (m *ConnectionStatusRequest) unmarshalWire(b []byte) error {
	*m = ConnectionStatusRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeBool(typ, b, &m.Watch)
		}
		return skipField
	})
}

type ConnectionStatusResponse struct {
	State       ConnectionState `json:"state"`
	Message     string          `json:"message"`
	Timestamp   int64           `json:"timestamp"`
	PhoneNumber string          `json:"phone_number,omitempty"`
}

func (m *ConnectionStatusResponse) appendWire(b []byte) []byte {
	b = appendVarint(b, 1, uint64(m.State))
	b = appendString(b, 2, m.Message)
	b = appendVarint(b, 3, uint64(m.Timestamp))
	return appendString(b, 4, m.PhoneNumber)
}

func (m *ConnectionStatusResponse) unmarshalWire(b []byte) error {
	*m = ConnectionStatusResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeEnum(typ, b, (*int32)(&m.State))
		case 2:
			return consumeString(typ, b, &m.Message)
		case 3:
			return consumeInt64(typ, b, &m.Timestamp)
		case 4:
			return consumeString(typ, b, &m.PhoneNumber)
		}
		return skipField
	})
}

type RestartConnectionRequest struct {
	Force  bool   `json:"force"`
	Reason string `json:"reason"`
}

func (m *RestartConnectionRequest) appendWire(b []byte) []byte {
	b = appendBool(b, 1, m.Force)
	return appendString(b, 2, m.Reason)
}

func (m *RestartConnectionRequest) unmarshalWire(b []byte) error {
	*m = RestartConnectionRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeBool(typ, b, &m.Force)
		case 2:
			return consumeString(typ, b, &m.Reason)
		}
		return skipField
	})
}

type RestartConnectionResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	NewState ConnectionState `json:"new_state"`
}

func (m *RestartConnectionResponse) appendWire(b []byte) []byte {
	b = appendBool(b, 1, m.Success)
	b = appendString(b, 2, m.Message)
	return appendVarint(b, 3, uint64(m.NewState))
}

func (m *RestartConnectionResponse) unmarshalWire(b []byte) error {
	*m = RestartConnectionResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeBool(typ, b, &m.Success)
		case 2:
			return consumeString(typ, b, &m.Message)
		case 3:
			return consumeEnum(typ, b, (*int32)(&m.NewState))
		}
		return skipField
	})
}

type HealthCheckRequest struct {
	Service string `json:"service"`
}

func (m *HealthCheckRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Service)
}

func (m *HealthCheckRequest) unmarshalWire(b []byte) error {
	*m = HealthCheckRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.Service)
		}
		return skipField
	})
}

type HealthCheckResponse struct {
	Status ServingStatus `json:"status"`
}

func (m *HealthCheckResponse) appendWire(b []byte) []byte {
	return appendVarint(b, 1, uint64(m.Status))
}

func (m *HealthCheckResponse) unmarshalWire(b []byte) error {
	*m = HealthCheckResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeEnum(typ, b, (*int32)(&m.Status))
		}
		return skipField
	})
}
