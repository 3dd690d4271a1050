package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtween/api"
	"github.com/matt-g-everett/ledtween/stream"
	"github.com/matt-g-everett/ledtween/tween"
	"golang.org/x/sync/errgroup"
)

type app struct {
	Config    stream.Config
	Client    mqtt.Client
	Loop      *tween.FrameLoop
	Animation *tween.Animation
	Strip     *stream.Strip
	Streamer  *stream.Streamer
	Playlist  *stream.Playlist
	Api       *api.Api
}

func newApp(config stream.Config) *app {
	a := new(app)
	a.Config = config

	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("Connection lost: %v", err)
		})
	a.Client = mqtt.NewClient(options)

	a.Loop = tween.NewFrameLoop(config.FrameInterval())
	a.Strip = stream.NewStrip(config.Pixels)
	a.Streamer = stream.NewStreamer(a.Strip,
		stream.MQTTPublisher{Client: a.Client, Timeout: config.PublishTimeout()},
		stream.StreamerOptions{Topic: config.Mqtt.Topics.Stream, QoS: config.Mqtt.QoS})
	a.Animation = tween.NewAnimation(
		tween.WithFrames(a.Loop),
		tween.WithStage(a.Streamer))

	crossfade := config.CrossfadeFrames()
	a.Playlist = stream.NewPlaylist(a.Animation, a.Strip, config.Scenes, stream.PlaylistOptions{
		Shuffle: config.Shuffle,
		OnChange: func(stream.Scene) {
			a.Streamer.Crossfade(crossfade)
		},
	})
	a.Api = api.NewApi(config.Control.Addr, a.Playlist, a.Loop, nil)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	topic := a.Config.Mqtt.Topics.Control
	if topic == "" {
		return
	}
	if err := a.Api.Subscribe(client, topic, a.Config.Mqtt.QoS); err != nil {
		log.Printf("Subscribe to %s: %v", topic, err)
	}
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	a.Loop.Post(func() {
		a.Animation.Start()
		a.Playlist.Start()
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Loop.Run(ctx)
	})
	g.Go(a.Api.Serve)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.Api.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	config, err := stream.ReadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	log.Printf("Config: broker %s, %d pixels, %d scenes", config.Mqtt.URL, config.Pixels, len(config.Scenes))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(config).run(ctx); err != nil {
		log.Fatal(err)
	}
}
