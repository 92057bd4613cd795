// Package quirks holds model specific command overrides. Devices are matched
// by compiled filter expressions over their product data; a matching rule may
// replace the standard preset command with a low level execute invocation,
// and may extend the advertised preset list beyond what the device reports.
package quirks

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
)

type InputProductData struct {
	Manufacturer string
	Model        string
	Label        string
}

type Input struct {
	Product InputProductData
}

// ExecuteCommand is a raw device invocation issued through the transport's
// execute surface instead of a capability command.
type ExecuteCommand struct {
	Path      string
	Arguments map[string]any
}

// Rule keys alternate preset commands by a filter expression. Preset names
// are matched case insensitively; keys must be lower case.
type Rule struct {
	Description       string
	Filter            string
	Presets           map[string]ExecuteCommand
	AdvertisedPresets []string
}

type CompiledRule struct {
	Description       string
	Filter            *vm.Program
	Presets           map[string]ExecuteCommand
	AdvertisedPresets []string
}

type Engine struct {
	RuleList []Rule
	Rules    []CompiledRule
}

func New() *Engine {
	return &Engine{}
}

// Default returns an engine preloaded and compiled with the embedded rule
// set.
func Default() (*Engine, error) {
	e := New()

	if err := e.LoadFS(Embedded); err != nil {
		return nil, err
	}

	if err := e.CompileRules(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Engine) LoadReader(r io.Reader) error {
	var rules []Rule

	if err := json.NewDecoder(r).Decode(&rules); err != nil {
		return fmt.Errorf("quirk rule decode: %w", err)
	}

	e.RuleList = append(e.RuleList, rules...)
	return nil
}

func (e *Engine) LoadFS(f fs.FS) error {
	return fs.WalkDir(f, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		file, err := f.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		if err := e.LoadReader(file); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		return nil
	})
}

func (e *Engine) CompileRules() error {
	for _, rule := range e.RuleList {
		cf, err := expr.Compile(rule.Filter, expr.Env(Input{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("filter compilation: %s: %w", rule.Description, err)
		}

		e.Rules = append(e.Rules, CompiledRule{
			Description:       rule.Description,
			Filter:            cf,
			Presets:           rule.Presets,
			AdvertisedPresets: rule.AdvertisedPresets,
		})
	}

	e.RuleList = nil
	return nil
}

// PresetCommand returns the override for a preset on a matching device. The
// first rule that matches and carries the preset wins.
func (e *Engine) PresetCommand(i Input, preset string) (ExecuteCommand, bool) {
	if e == nil {
		return ExecuteCommand{}, false
	}

	key := strings.ToLower(preset)

	for _, rule := range e.Rules {
		if !rule.matches(i) {
			continue
		}

		if cmd, found := rule.Presets[key]; found {
			return cmd, true
		}
	}

	return ExecuteCommand{}, false
}

// AdvertisedPresets returns extra preset names every matching rule declares
// for the device, in rule order.
func (e *Engine) AdvertisedPresets(i Input) []string {
	if e == nil {
		return nil
	}

	var presets []string

	for _, rule := range e.Rules {
		if rule.matches(i) {
			presets = append(presets, rule.AdvertisedPresets...)
		}
	}

	return presets
}

func (r CompiledRule) matches(i Input) bool {
	result, err := expr.Run(r.Filter, i)
	if err != nil {
		return false
	}

	matched, ok := result.(bool)
	return ok && matched
}
