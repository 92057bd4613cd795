package stda

import (
	"context"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/stda/implcaps/factory"
)

func (z *STDA) providerLoad() {
	ctx, end := z.logger.Segment(z.ctx, "Loading persistence.")
	defer end()

	for _, i := range z.deviceListFromPersistence() {
		z.providerLoadDevice(ctx, i)
	}
}

func (z *STDA) providerLoadDevice(pctx context.Context, i DeviceIdentifier) {
	ctx, end := z.logger.Segment(pctx, "Loading device data.", logwrap.Datum("device", i.String()))
	defer end()

	label, _ := z.sectionForDevice(i).String("Label")
	d, created := z.createDevice(i, label)

	capSection := z.sectionForDevice(i).Section("capability")

	for _, cName := range capSection.SectionKeys() {
		cctx, cend := z.logger.Segment(ctx, "Loading capability data.", logwrap.Datum("capability", cName))

		cSection := capSection.Section(cName)

		if capImpl, ok := cSection.String("implementation"); ok {
			if capI := factory.Create(capImpl, z.zi); capI == nil {
				z.logger.LogError(cctx, "Could not find capability implementation.", logwrap.Datum("implementation", capImpl))
			} else {
				capI.Init(d, cSection.Section("data"))
				attached, err := capI.Load(cctx)

				if err != nil {
					z.logger.LogError(cctx, "Error while loading from persistence.", logwrap.Err(err), logwrap.Datum("implementation", capImpl))
				}

				if attached {
					z.attachCapabilityToDevice(d, capI)
					z.logger.LogInfo(cctx, "Attached capability from persistence.", logwrap.Datum("implementation", capImpl))
				} else {
					z.logger.LogWarn(cctx, "Rejected capability attach from persistence.", logwrap.Datum("implementation", capImpl))
				}
			}
		}

		cend()
	}

	if created {
		z.poller.Add(i, z.pollingIntervalForDevice(i), z.refreshDevice)
	}
}
