package api

import (
	"errors"
	"testing"

	"github.com/eclipse/paho.mqtt.golang"
)

type fakeMessage struct {
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return "home/tree/control" }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		payload string
		want    []string
	}{
		{`{"type": "pause"}`, []string{"pause"}},
		{`{"type":"NEXT"}`, []string{"next"}},
		{"resume\n", []string{"resume"}},
		{"stop", []string{"stop"}},
		{"explode", nil},
		{`{"type":`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			c := &fakeController{}
			newTestApi(c, inline).HandleMessage(nil, fakeMessage{[]byte(tt.payload)})
			if len(c.calls) != len(tt.want) || (len(tt.want) > 0 && c.calls[0] != tt.want[0]) {
				t.Errorf("calls = %v, want %v", c.calls, tt.want)
			}
		})
	}
}

type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool   { return true }
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	mqtt.Client
	topic   string
	handler mqtt.MessageHandler
	err     error
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.topic = topic
	c.handler = callback
	return &fakeToken{err: c.err}
}

func TestSubscribe(t *testing.T) {
	c := &fakeController{}
	a := newTestApi(c, inline)
	client := &fakeClient{}
	if err := a.Subscribe(client, "home/tree/control", 1); err != nil {
		t.Fatal(err)
	}
	if client.topic != "home/tree/control" {
		t.Errorf("subscribed to %q", client.topic)
	}
	client.handler(client, fakeMessage{[]byte("pause")})
	if len(c.calls) != 1 || c.calls[0] != "pause" {
		t.Errorf("calls = %v", c.calls)
	}

	boom := errors.New("not authorised")
	if err := a.Subscribe(&fakeClient{err: boom}, "x", 0); !errors.Is(err, boom) {
		t.Errorf("Subscribe error = %v", err)
	}
}
