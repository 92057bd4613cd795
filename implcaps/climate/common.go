// Package climate implements the ClimateControl capability for the two
// SmartThings device shapes, thermostats and room air conditioners. Each
// implementation owns a unified state cache recomputed from attribute
// snapshots, a pair of translation tables, and the command orchestration for
// its profile. Every accessor and mutator is gated on the device's declared
// capability set; an absent capability refuses the operation rather than
// issuing a command.
package climate

import (
	"strings"

	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/stda/quirks"
	"github.com/shimmeringbee/stda/smartthings"
)

const (
	capabilitiesSection = "VendorCapabilities"
	productSection      = "Product"
)

type capabilitySet map[string]struct{}

func newCapabilitySet(caps []string) capabilitySet {
	cs := make(capabilitySet, len(caps))
	for _, c := range caps {
		cs[c] = struct{}{}
	}
	return cs
}

func (c capabilitySet) Has(name string) bool {
	_, found := c[name]
	return found
}

func persistCapabilities(s persistence.Section, caps capabilitySet) {
	sec := s.Section(capabilitiesSection)

	for _, k := range sec.SectionKeys() {
		if !caps.Has(k) {
			sec.SectionDelete(k)
		}
	}

	for c := range caps {
		sec.Section(c).Set("Attached", true)
	}
}

func loadCapabilities(s persistence.Section) capabilitySet {
	return newCapabilitySet(s.Section(capabilitiesSection).SectionKeys())
}

func persistProduct(s persistence.Section, p quirks.InputProductData) {
	sec := s.Section(productSection)
	sec.Set("Manufacturer", p.Manufacturer)
	sec.Set("Model", p.Model)
	sec.Set("Label", p.Label)
}

func loadProduct(s persistence.Section) quirks.InputProductData {
	sec := s.Section(productSection)

	p := quirks.InputProductData{}
	p.Manufacturer, _ = sec.String("Manufacturer")
	p.Model, _ = sec.String("Model")
	p.Label, _ = sec.String("Label")

	return p
}

// modelFromSnapshot extracts the bare model identifier, the service reports
// it as "model|firmware|…".
func modelFromSnapshot(s smartthings.Snapshot) (string, bool) {
	raw, ok := s.String(smartthings.AttributeModel)
	if !ok || raw == "" {
		return "", false
	}

	return strings.SplitN(raw, "|", 2)[0], true
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}

	return false
}

func appendMissing(base []string, extra []string) []string {
	for _, e := range extra {
		if !containsFold(base, e) {
			base = append(base, e)
		}
	}

	return base
}
