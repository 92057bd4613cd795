package climate

import (
	"testing"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/stda/quirks"
	"github.com/shimmeringbee/stda/smartthings"
	"github.com/stretchr/testify/require"
)

type testSTDAInterface struct {
	provider smartthings.Provider
	engine   *quirks.Engine
	logger   logwrap.Logger
	events   []any
}

func newTestInterface(provider smartthings.Provider) *testSTDAInterface {
	return &testSTDAInterface{
		provider: provider,
		logger:   logwrap.New(discard.Discard()),
	}
}

func (t *testSTDAInterface) Transport() smartthings.Provider {
	return t.provider
}

func (t *testSTDAInterface) Quirks() *quirks.Engine {
	return t.engine
}

func (t *testSTDAInterface) Logger() logwrap.Logger {
	return t.logger
}

func (t *testSTDAInterface) SendEvent(e any) {
	t.events = append(t.events, e)
}

func defaultQuirks(t *testing.T) *quirks.Engine {
	e, err := quirks.Default()
	require.NoError(t, err)
	return e
}

func f64(v float64) *float64 {
	return &v
}

func testSnapshot(values map[string]any) smartthings.Snapshot {
	s := smartthings.Snapshot{}
	for k, v := range values {
		s[k] = smartthings.Attribute{Value: v}
	}
	return s
}

func enumerationAttributes(deviceID string, caps []string, model string) map[string]any {
	return map[string]any{
		"DeviceID":     deviceID,
		"Capabilities": caps,
		"Model":        model,
	}
}
