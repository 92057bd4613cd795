package stda

import (
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/stda/implcaps"
	"github.com/shimmeringbee/stda/quirks"
	"github.com/shimmeringbee/stda/smartthings"
)

var _ implcaps.STDAInterface = (*stdaInterface)(nil)

type stdaInterface struct {
	gw *STDA
}

func (s stdaInterface) Transport() smartthings.Provider {
	return s.gw.provider
}

func (s stdaInterface) Quirks() *quirks.Engine {
	return s.gw.quirks
}

func (s stdaInterface) Logger() logwrap.Logger {
	return s.gw.logger
}

func (s stdaInterface) SendEvent(a any) {
	s.gw.sendEvent(a)
}
