package stream

import (
	"errors"
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a frame
// in time.
var ErrPublishTimeout = errors.New("stream: publish timed out")

// Publisher sends one payload to a topic.
type Publisher interface {
	Publish(topic string, qos byte, payload []byte) error
}

// MQTTPublisher publishes through a paho client, waiting at most Timeout for
// each token. A zero Timeout does not wait.
type MQTTPublisher struct {
	Client  mqtt.Client
	Timeout time.Duration
}

// Publish implements Publisher.
func (p MQTTPublisher) Publish(topic string, qos byte, payload []byte) error {
	token := p.Client.Publish(topic, qos, false, payload)
	if p.Timeout <= 0 {
		return nil
	}
	if !token.WaitTimeout(p.Timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

// StreamerOptions configures a Streamer.
type StreamerOptions struct {
	Topic  string
	QoS    byte
	Logger *log.Logger
}

// Streamer streams RGB data frames of a Strip to an ledrx device. It is the
// stage of the scheduler: every frame it renders the strip and publishes the
// result.
type Streamer struct {
	strip     *Strip
	publisher Publisher
	topic     string
	qos       byte
	logger    *log.Logger

	last       *Frame
	from       *Frame
	transition float64
	increment  float64

	failing bool
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(strip *Strip, publisher Publisher, opts StreamerOptions) *Streamer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Streamer{
		strip:     strip,
		publisher: publisher,
		topic:     opts.Topic,
		qos:       opts.QoS,
		logger:    logger,
	}
}

// Crossfade blends from the last published frame into the live strip over
// the next frames updates.
func (s *Streamer) Crossfade(frames int) {
	if frames <= 0 || s.last == nil {
		s.from = nil
		return
	}
	s.from = s.last
	s.transition = 0
	s.increment = 1.0 / float64(frames)
}

// Last returns the most recently published frame.
func (s *Streamer) Last() *Frame {
	return s.last
}

// Update renders and publishes one frame. Publish failures are logged once
// until the next success.
func (s *Streamer) Update() {
	f := s.strip.Render()
	if s.from != nil {
		s.transition += s.increment
		if s.transition >= 1.0 {
			s.from = nil
			s.transition = 0
		} else {
			f = s.from.InterpolateFrame(f, s.transition)
		}
	}
	s.last = f

	b, _ := f.MarshalBinary()
	if err := s.publisher.Publish(s.topic, s.qos, b); err != nil {
		if !s.failing {
			s.logger.Printf("stream: publish to %s: %v", s.topic, err)
		}
		s.failing = true
		return
	}
	if s.failing {
		s.logger.Printf("stream: publishing to %s again", s.topic)
	}
	s.failing = false
}
