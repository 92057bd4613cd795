package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/shimmeringbee/persistence/impl/memory"
	"github.com/shimmeringbee/stda"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/smartthings"
	"gopkg.in/yaml.v3"
)

type config struct {
	SmartThings struct {
		Token   string `yaml:"token"`
		BaseURL string `yaml:"baseUrl"`
	} `yaml:"smartthings"`

	MQTT struct {
		Broker      string `yaml:"broker"`
		ClientID    string `yaml:"clientId"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		TopicPrefix string `yaml:"topicPrefix"`
	} `yaml:"mqtt"`

	PollIntervalSeconds int `yaml:"pollIntervalSeconds"`
}

func defaultConfig() *config {
	cfg := &config{}
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "stda-bridge"
	cfg.MQTT.TopicPrefix = "stda"
	cfg.PollIntervalSeconds = 30
	return cfg
}

func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.SmartThings.Token == "" {
		return nil, fmt.Errorf("config: smartthings.token is required")
	}

	return cfg, nil
}

func connectMQTT(cfg *config) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return client, nil
}

// statePayload is the JSON shape published to <prefix>/<device>/state.
type statePayload struct {
	Mode   string   `json:"mode"`
	Modes  []string `json:"modes,omitempty"`
	Action string   `json:"action"`

	CurrentTemperature    *float64 `json:"currentTemperature,omitempty"`
	CurrentHumidity       *float64 `json:"currentHumidity,omitempty"`
	TargetTemperature     *float64 `json:"targetTemperature,omitempty"`
	TargetTemperatureLow  *float64 `json:"targetTemperatureLow,omitempty"`
	TargetTemperatureHigh *float64 `json:"targetTemperatureHigh,omitempty"`
	MinimumSetpoint       *float64 `json:"minimumSetpoint,omitempty"`
	MaximumSetpoint       *float64 `json:"maximumSetpoint,omitempty"`
	Unit                  string   `json:"unit,omitempty"`

	FanMode  string   `json:"fanMode,omitempty"`
	FanModes []string `json:"fanModes,omitempty"`

	SwingMode  string   `json:"swingMode,omitempty"`
	SwingModes []string `json:"swingModes,omitempty"`

	PresetMode  string   `json:"presetMode,omitempty"`
	PresetModes []string `json:"presetModes,omitempty"`
}

func payloadFromState(s capabilities.ClimateState) statePayload {
	p := statePayload{
		Mode:   s.Mode.String(),
		Action: s.Action.String(),

		CurrentTemperature:    s.CurrentTemperature,
		CurrentHumidity:       s.CurrentHumidity,
		TargetTemperature:     s.TargetTemperature,
		TargetTemperatureLow:  s.TargetTemperatureLow,
		TargetTemperatureHigh: s.TargetTemperatureHigh,
		MinimumSetpoint:       s.MinimumSetpoint,
		MaximumSetpoint:       s.MaximumSetpoint,

		FanMode:  s.FanMode,
		FanModes: s.FanModes,

		SwingMode:  s.SwingMode,
		SwingModes: s.SwingModes,

		PresetMode:  s.PresetMode,
		PresetModes: s.PresetModes,
	}

	if s.Unit != capabilities.UnitUnknown {
		p.Unit = s.Unit.String()
	}

	for _, m := range s.Modes {
		p.Modes = append(p.Modes, m.String())
	}

	return p
}

func main() {
	configPath := flag.String("config", "stda-bridge.yaml", "path to configuration file")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatalf("configuration: %v", err)
	}

	mqttClient, err := connectMQTT(cfg)
	if err != nil {
		logger.Fatalf("mqtt connect: %v", err)
	}
	defer mqttClient.Disconnect(1000)

	var clientOpts []smartthings.ClientOption
	if cfg.SmartThings.BaseURL != "" {
		clientOpts = append(clientOpts, smartthings.WithBaseURL(cfg.SmartThings.BaseURL))
	}
	provider := smartthings.NewClient(cfg.SmartThings.Token, clientOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := stda.New(ctx, memory.New(), provider)
	gw.WithGoLogger(logger)
	gw.WithPollingInterval(time.Duration(cfg.PollIntervalSeconds) * time.Second)

	if err := gw.Start(); err != nil {
		logger.Fatalf("gateway start: %v", err)
	}
	defer func() {
		if err := gw.Stop(); err != nil {
			logger.Printf("gateway stop: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	prefix := cfg.MQTT.TopicPrefix

	for {
		e, err := gw.ReadEvent(ctx)
		if err != nil {
			return
		}

		update, ok := e.(capabilities.ClimateUpdate)
		if !ok {
			continue
		}

		payload, err := json.Marshal(payloadFromState(update.State))
		if err != nil {
			logger.Printf("marshalling state for %s: %v", update.Device.Identifier(), err)
			continue
		}

		topic := fmt.Sprintf("%s/%s/state", prefix, update.Device.Identifier())
		if token := mqttClient.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
			logger.Printf("publishing to %s: %v", topic, token.Error())
		}
	}
}
