package domain

// MessageType tags every payload sent to a client.
type MessageType string

const (
	MessageWelcome MessageType = "welcome"
	MessageEcho    MessageType = "echo"
)

// WelcomeText is the greeting sent once per connection.
const WelcomeText = "Connected to Music Box Realtime Service"

// WelcomeMessage is the first payload a client receives.
type WelcomeMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// EchoMessage wraps a decoded inbound payload.
type EchoMessage struct {
	Type MessageType `json:"type"`
	Data any         `json:"data"`
}

// NewWelcome builds the greeting payload.
func NewWelcome() WelcomeMessage {
	return WelcomeMessage{Type: MessageWelcome, Message: WelcomeText}
}

// NewEcho wraps data under the "echo" tag.
func NewEcho(data any) EchoMessage {
	return EchoMessage{Type: MessageEcho, Data: data}
}
