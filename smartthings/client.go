package smartthings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shimmeringbee/retry"
)

const DefaultBaseURL = "https://api.smartthings.com/v1"

const (
	DefaultNetworkTimeout = 10 * time.Second
	DefaultNetworkRetries = 3
)

// Client is a REST implementation of Provider against the SmartThings cloud
// API. Reads are retried; commands are issued exactly once.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	metrics    *Metrics
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = h
	}
}

func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultNetworkTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ Provider = (*Client)(nil)

type deviceListEnvelope struct {
	Items []struct {
		DeviceID   string `json:"deviceId"`
		Label      string `json:"label"`
		Components []struct {
			ID           string `json:"id"`
			Capabilities []struct {
				ID string `json:"id"`
			} `json:"capabilities"`
		} `json:"components"`
	} `json:"items"`
}

type statusEnvelope struct {
	Components map[string]map[string]map[string]struct {
		Value any    `json:"value"`
		Unit  string `json:"unit"`
	} `json:"components"`
}

type commandEnvelope struct {
	Commands []commandBody `json:"commands"`
}

type commandBody struct {
	Component  string `json:"component"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
	Arguments  []any  `json:"arguments"`
}

type commandResultEnvelope struct {
	Results []struct {
		Status string `json:"status"`
	} `json:"results"`
}

func (c *Client) Devices(pctx context.Context) ([]DeviceDescription, error) {
	var envelope deviceListEnvelope

	err := retry.Retry(pctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
		return c.get(ctx, "/devices", &envelope)
	})
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	var devices []DeviceDescription

	for _, item := range envelope.Items {
		d := DeviceDescription{
			DeviceID: item.DeviceID,
			Label:    item.Label,
		}

		seen := map[string]bool{}

		for _, component := range item.Components {
			for _, capability := range component.Capabilities {
				if !seen[capability.ID] {
					seen[capability.ID] = true
					d.Capabilities = append(d.Capabilities, capability.ID)
				}
			}
		}

		devices = append(devices, d)
	}

	return devices, nil
}

func (c *Client) Status(pctx context.Context, deviceID string) (Snapshot, error) {
	var envelope statusEnvelope

	err := retry.Retry(pctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
		return c.get(ctx, fmt.Sprintf("/devices/%s/status", deviceID), &envelope)
	})
	if err != nil {
		return nil, fmt.Errorf("device status: %w", err)
	}

	snapshot := Snapshot{}

	for _, capabilitySet := range envelope.Components["main"] {
		for name, attribute := range capabilitySet {
			snapshot[name] = Attribute{Value: attribute.Value, Unit: attribute.Unit}
		}
	}

	return snapshot, nil
}

func (c *Client) SetThermostatMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilityThermostatMode, "setThermostatMode", []any{mode})
}

func (c *Client) SetThermostatFanMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilityThermostatFanMode, "setThermostatFanMode", []any{mode})
}

func (c *Client) SetHeatingSetpoint(ctx context.Context, deviceID string, value float64) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilityThermostatHeatingSetpoint, "setHeatingSetpoint", []any{value})
}

func (c *Client) SetCoolingSetpoint(ctx context.Context, deviceID string, value float64) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilityThermostatCoolingSetpoint, "setCoolingSetpoint", []any{value})
}

func (c *Client) SetAirConditionerMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilityAirConditionerMode, "setAirConditionerMode", []any{mode})
}

func (c *Client) SetAirConditionerFanMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilityAirConditionerFanMode, "setFanMode", []any{mode})
}

func (c *Client) SwitchOn(ctx context.Context, deviceID string) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilitySwitch, "on", nil)
}

func (c *Client) SwitchOff(ctx context.Context, deviceID string) (bool, error) {
	return c.Command(ctx, deviceID, "main", CapabilitySwitch, "off", nil)
}

func (c *Client) Command(ctx context.Context, deviceID string, component string, capability string, command string, arguments []any) (bool, error) {
	if arguments == nil {
		arguments = []any{}
	}

	return c.postCommand(ctx, deviceID, commandBody{
		Component:  component,
		Capability: capability,
		Command:    command,
		Arguments:  arguments,
	})
}

func (c *Client) Execute(ctx context.Context, deviceID string, path string, arguments map[string]any) (bool, error) {
	return c.postCommand(ctx, deviceID, commandBody{
		Component:  "main",
		Capability: CapabilityExecute,
		Command:    "execute",
		Arguments:  []any{path, arguments},
	})
}

func (c *Client) postCommand(ctx context.Context, deviceID string, cmd commandBody) (bool, error) {
	start := time.Now()

	var envelope commandResultEnvelope
	err := c.post(ctx, fmt.Sprintf("/devices/%s/commands", deviceID), commandEnvelope{Commands: []commandBody{cmd}}, &envelope)

	c.metrics.observeCommand(cmd.Capability, cmd.Command, time.Since(start), err)

	if err != nil {
		return false, fmt.Errorf("command %s.%s: %w", cmd.Capability, cmd.Command, err)
	}

	for _, result := range envelope.Results {
		if result.Status != "ACCEPTED" && result.Status != "COMPLETED" {
			return false, nil
		}
	}

	return true, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
