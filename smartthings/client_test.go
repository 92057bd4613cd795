package smartthings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Devices(t *testing.T) {
	t.Run("flattens capability sets across components", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/devices", r.URL.Path)
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`{"items":[{"deviceId":"dev-1","label":"Bedroom AC","components":[{"id":"main","capabilities":[{"id":"switch"},{"id":"airConditionerMode"}]},{"id":"1","capabilities":[{"id":"switch"}]}]}]}`))
		}))
		defer server.Close()

		c := NewClient("token", WithBaseURL(server.URL))

		devices, err := c.Devices(context.Background())
		require.NoError(t, err)
		require.Len(t, devices, 1)

		assert.Equal(t, "dev-1", devices[0].DeviceID)
		assert.Equal(t, "Bedroom AC", devices[0].Label)
		assert.Equal(t, []string{"switch", "airConditionerMode"}, devices[0].Capabilities)
	})
}

func TestClient_Status(t *testing.T) {
	t.Run("flattens the main component into a snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/devices/dev-1/status", r.URL.Path)

			_, _ = w.Write([]byte(`{"components":{"main":{"temperatureMeasurement":{"temperature":{"value":21.5,"unit":"C"}},"switch":{"switch":{"value":"on"}}}}}`))
		}))
		defer server.Close()

		c := NewClient("token", WithBaseURL(server.URL))

		snapshot, err := c.Status(context.Background(), "dev-1")
		require.NoError(t, err)

		v, ok := snapshot.Float(AttributeTemperature)
		assert.True(t, ok)
		assert.Equal(t, 21.5, v)

		u, ok := snapshot.Unit(AttributeTemperature)
		assert.True(t, ok)
		assert.Equal(t, "C", u)

		s, ok := snapshot.String(AttributeSwitch)
		assert.True(t, ok)
		assert.Equal(t, SwitchOnValue, s)
	})
}

func TestClient_Command(t *testing.T) {
	t.Run("posts a single command envelope and reports acceptance", func(t *testing.T) {
		var received commandEnvelope

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/devices/dev-1/commands", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			_, _ = w.Write([]byte(`{"results":[{"status":"ACCEPTED"}]}`))
		}))
		defer server.Close()

		c := NewClient("token", WithBaseURL(server.URL))

		ok, err := c.SetAirConditionerMode(context.Background(), "dev-1", "cool")
		require.NoError(t, err)
		assert.True(t, ok)

		require.Len(t, received.Commands, 1)
		assert.Equal(t, "main", received.Commands[0].Component)
		assert.Equal(t, CapabilityAirConditionerMode, received.Commands[0].Capability)
		assert.Equal(t, "setAirConditionerMode", received.Commands[0].Command)
		assert.Equal(t, []any{"cool"}, received.Commands[0].Arguments)
	})

	t.Run("execute wraps the path and payload in the execute capability", func(t *testing.T) {
		var received commandEnvelope

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			_, _ = w.Write([]byte(`{"results":[{"status":"COMPLETED"}]}`))
		}))
		defer server.Close()

		c := NewClient("token", WithBaseURL(server.URL))

		ok, err := c.Execute(context.Background(), "dev-1", "mode/vs/0", map[string]any{"x.com.samsung.da.options": []string{"Comode_Quiet"}})
		require.NoError(t, err)
		assert.True(t, ok)

		require.Len(t, received.Commands, 1)
		assert.Equal(t, CapabilityExecute, received.Commands[0].Capability)
		assert.Equal(t, "execute", received.Commands[0].Command)
		assert.Equal(t, "mode/vs/0", received.Commands[0].Arguments[0])
	})

	t.Run("non accepted result reports failure without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":[{"status":"FAILED"}]}`))
		}))
		defer server.Close()

		c := NewClient("token", WithBaseURL(server.URL))

		ok, err := c.SwitchOn(context.Background(), "dev-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("absent attributes are reported as unset", func(t *testing.T) {
		s := Snapshot{}

		_, ok := s.Float(AttributeTemperature)
		assert.False(t, ok)

		_, ok = s.String(AttributeSwitch)
		assert.False(t, ok)

		_, ok = s.Strings(AttributeSupportedAcModes)
		assert.False(t, ok)
	})

	t.Run("value lists survive json decoding as []any", func(t *testing.T) {
		s := Snapshot{AttributeSupportedAcModes: {Value: []any{"cool", "dry"}}}

		v, ok := s.Strings(AttributeSupportedAcModes)
		assert.True(t, ok)
		assert.Equal(t, []string{"cool", "dry"}, v)
	})
}
