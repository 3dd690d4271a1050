package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eclipse/paho.mqtt.golang"
)

// CommandMessage is a control command received over MQTT.
type CommandMessage struct {
	Type string `json:"type"`
}

// HandleMessage is an mqtt.MessageHandler running pause, resume, stop and
// next commands. The payload is either JSON {"type": "pause"} or the bare
// command.
func (a *Api) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	a.logger.Printf("api: received msg %d on %s: %s", msg.MessageID(), msg.Topic(), msg.Payload())

	command, err := parseCommand(msg.Payload())
	if err != nil {
		a.logger.Printf("api: %v", err)
		return
	}
	var fn func()
	switch command {
	case "pause":
		fn = a.controller.Pause
	case "resume":
		fn = a.controller.Resume
	case "stop":
		fn = a.controller.Stop
	case "next":
		fn = a.controller.Next
	default:
		a.logger.Printf("api: unknown command %q", command)
		return
	}
	a.runner.Post(fn)
}

func parseCommand(payload []byte) (string, error) {
	text := strings.TrimSpace(string(payload))
	if !strings.HasPrefix(text, "{") {
		return strings.ToLower(text), nil
	}
	var message CommandMessage
	if err := json.Unmarshal([]byte(text), &message); err != nil {
		return "", fmt.Errorf("bad command payload: %w", err)
	}
	return strings.ToLower(message.Type), nil
}

// Subscribe routes commands published to topic into HandleMessage.
func (a *Api) Subscribe(client mqtt.Client, topic string, qos byte) error {
	token := client.Subscribe(topic, qos, a.HandleMessage)
	token.Wait()
	return token.Error()
}
