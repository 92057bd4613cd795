package stda

import (
	"github.com/shimmeringbee/persistence"
)

func (z *STDA) sectionRemoveDevice(i DeviceIdentifier) bool {
	return z.section.Section("device").SectionDelete(i.String())
}

func (z *STDA) sectionForDevice(i DeviceIdentifier) persistence.Section {
	return z.section.Section("device", i.String())
}

func (z *STDA) deviceListFromPersistence() []DeviceIdentifier {
	var deviceList []DeviceIdentifier

	for _, k := range z.section.Section("device").SectionKeys() {
		deviceList = append(deviceList, DeviceIdentifier(k))
	}

	return deviceList
}
