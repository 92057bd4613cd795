package quirks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine_CompileRules(t *testing.T) {
	t.Run("returns an error if the filter compilation fails", func(t *testing.T) {
		e := New()
		e.RuleList = []Rule{
			{
				Description: "broken",
				Filter:      "INVALID UNPARSABLE FILTER",
			},
		}

		err := e.CompileRules()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "filter compilation:")
	})

	t.Run("compiles a valid rule and clears the pending list", func(t *testing.T) {
		e := New()
		e.RuleList = []Rule{
			{
				Description: "model match",
				Filter:      `Product.Model == "MODEL_A"`,
			},
		}

		err := e.CompileRules()
		assert.NoError(t, err)
		assert.Len(t, e.Rules, 1)
		assert.Nil(t, e.RuleList)
		assert.NotNil(t, e.Rules[0].Filter)
	})
}

func TestEngine_LoadReader(t *testing.T) {
	t.Run("returns an error on malformed json", func(t *testing.T) {
		e := New()

		err := e.LoadReader(strings.NewReader("{not json"))
		assert.Error(t, err)
	})

	t.Run("appends decoded rules to the pending list", func(t *testing.T) {
		e := New()

		err := e.LoadReader(strings.NewReader(`[{"Description":"one","Filter":"true"}]`))
		assert.NoError(t, err)
		assert.Len(t, e.RuleList, 1)
		assert.Equal(t, "one", e.RuleList[0].Description)
	})
}

func TestEngine_PresetCommand(t *testing.T) {
	newEngine := func(t *testing.T) *Engine {
		e := New()
		e.RuleList = []Rule{
			{
				Description: "model a overrides",
				Filter:      `Product.Model == "MODEL_A"`,
				Presets: map[string]ExecuteCommand{
					"boost": {
						Path:      "mode/vs/0",
						Arguments: map[string]any{"options": []string{"Boost"}},
					},
				},
				AdvertisedPresets: []string{"Boost", "Quiet"},
			},
		}

		assert.NoError(t, e.CompileRules())
		return e
	}

	t.Run("returns the command for a matching device and preset", func(t *testing.T) {
		e := newEngine(t)

		cmd, found := e.PresetCommand(Input{Product: InputProductData{Model: "MODEL_A"}}, "boost")
		assert.True(t, found)
		assert.Equal(t, "mode/vs/0", cmd.Path)
	})

	t.Run("matches preset names case insensitively", func(t *testing.T) {
		e := newEngine(t)

		_, found := e.PresetCommand(Input{Product: InputProductData{Model: "MODEL_A"}}, "Boost")
		assert.True(t, found)
	})

	t.Run("does not match a device with a different model", func(t *testing.T) {
		e := newEngine(t)

		_, found := e.PresetCommand(Input{Product: InputProductData{Model: "MODEL_B"}}, "boost")
		assert.False(t, found)
	})

	t.Run("does not match an unknown preset", func(t *testing.T) {
		e := newEngine(t)

		_, found := e.PresetCommand(Input{Product: InputProductData{Model: "MODEL_A"}}, "eco")
		assert.False(t, found)
	})

	t.Run("a nil engine never matches", func(t *testing.T) {
		var e *Engine

		_, found := e.PresetCommand(Input{}, "boost")
		assert.False(t, found)
	})
}

func TestEngine_AdvertisedPresets(t *testing.T) {
	t.Run("returns presets from all matching rules in order", func(t *testing.T) {
		e := New()
		e.RuleList = []Rule{
			{
				Description:       "all devices",
				Filter:            "true",
				AdvertisedPresets: []string{"Quiet"},
			},
			{
				Description:       "model a",
				Filter:            `Product.Model == "MODEL_A"`,
				AdvertisedPresets: []string{"Boost"},
			},
		}
		assert.NoError(t, e.CompileRules())

		presets := e.AdvertisedPresets(Input{Product: InputProductData{Model: "MODEL_A"}})
		assert.Equal(t, []string{"Quiet", "Boost"}, presets)
	})

	t.Run("returns nothing for a non matching device", func(t *testing.T) {
		e := New()
		e.RuleList = []Rule{
			{
				Description:       "model a",
				Filter:            `Product.Model == "MODEL_A"`,
				AdvertisedPresets: []string{"Boost"},
			},
		}
		assert.NoError(t, e.CompileRules())

		assert.Empty(t, e.AdvertisedPresets(Input{Product: InputProductData{Model: "MODEL_B"}}))
	})
}
