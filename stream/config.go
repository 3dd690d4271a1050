package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matt-g-everett/ledtween/tween"
	"gopkg.in/yaml.v2"
)

var (
	// ErrInvalidConfig is wrapped by every configuration error.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidScene is wrapped by every scene error.
	ErrInvalidScene = errors.New("invalid scene")
)

// Defaults applied by LoadConfig.
const (
	DefaultClientID         = "ledtx"
	DefaultStreamTopic      = "home/xmastree/stream"
	DefaultControlAddr      = ":3000"
	DefaultPublishTimeoutMs = 100
)

// Config is the YAML configuration of the streamer.
type Config struct {
	Mqtt struct {
		URL              string `yaml:"url"`
		Username         string `yaml:"username"`
		Password         string `yaml:"password"`
		ClientID         string `yaml:"clientId"`
		QoS              byte   `yaml:"qos"`
		PublishTimeoutMs int    `yaml:"publishTimeoutMs"` // negative does not wait
		Topics           struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Pixels          int  `yaml:"pixels"`
	FrameIntervalMs int  `yaml:"frameIntervalMs"`
	CrossfadeMs     int  `yaml:"crossfadeMs"`
	Shuffle         bool `yaml:"shuffle"`
	Control         struct {
		Addr string `yaml:"addr"`
	} `yaml:"control"`
	Scenes []Scene `yaml:"scenes"`
}

// ReadConfig reads and validates the YAML config at path.
func ReadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// LoadConfig decodes a YAML config, fills in defaults and validates it.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	decoder := yaml.NewDecoder(r)
	decoder.SetStrict(true)
	if err := decoder.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) setDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = DefaultClientID
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = DefaultStreamTopic
	}
	if c.Mqtt.PublishTimeoutMs == 0 {
		c.Mqtt.PublishTimeoutMs = DefaultPublishTimeoutMs
	}
	if c.Pixels == 0 {
		c.Pixels = DefaultPixels
	}
	if c.FrameIntervalMs == 0 {
		c.FrameIntervalMs = int(tween.DefaultFrameInterval / time.Millisecond)
	}
	if c.Control.Addr == "" {
		c.Control.Addr = DefaultControlAddr
	}
}

// Validate checks the config and every scene in it.
func (c *Config) Validate() error {
	switch {
	case c.Mqtt.URL == "":
		return fmt.Errorf("%w: mqtt.url is required", ErrInvalidConfig)
	case c.Mqtt.QoS > 2:
		return fmt.Errorf("%w: mqtt.qos %d is not 0, 1 or 2", ErrInvalidConfig, c.Mqtt.QoS)
	case c.Pixels < 0 || c.Pixels > 0xffff:
		return fmt.Errorf("%w: pixels %d out of range", ErrInvalidConfig, c.Pixels)
	case c.FrameIntervalMs < 0:
		return fmt.Errorf("%w: negative frameIntervalMs", ErrInvalidConfig)
	case c.CrossfadeMs < 0:
		return fmt.Errorf("%w: negative crossfadeMs", ErrInvalidConfig)
	case len(c.Scenes) == 0:
		return fmt.Errorf("%w: no scenes", ErrInvalidConfig)
	}
	for i := range c.Scenes {
		if err := c.Scenes[i].Validate(); err != nil {
			return fmt.Errorf("scenes[%d]: %w", i, err)
		}
	}
	return nil
}

// FrameInterval returns the frame loop interval.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// PublishTimeout returns how long a frame publish may wait for the broker.
func (c *Config) PublishTimeout() time.Duration {
	return time.Duration(c.Mqtt.PublishTimeoutMs) * time.Millisecond
}

// CrossfadeFrames returns the scene crossfade length in frames.
func (c *Config) CrossfadeFrames() int {
	if c.FrameIntervalMs <= 0 {
		return 0
	}
	return c.CrossfadeMs / c.FrameIntervalMs
}
