package implcaps

import (
	"context"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/stda/quirks"
	"github.com/shimmeringbee/stda/smartthings"
	"github.com/stretchr/testify/mock"
)

type MockSTDAInterface struct {
	mock.Mock
}

func (m *MockSTDAInterface) Transport() smartthings.Provider {
	return m.Called().Get(0).(smartthings.Provider)
}

func (m *MockSTDAInterface) Quirks() *quirks.Engine {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*quirks.Engine)
}

func (m *MockSTDAInterface) Logger() logwrap.Logger {
	return m.Called().Get(0).(logwrap.Logger)
}

func (m *MockSTDAInterface) SendEvent(a any) {
	m.Called(a)
}

var _ STDAInterface = (*MockSTDAInterface)(nil)

type MockCapability struct {
	mock.Mock
}

func (m *MockCapability) Capability() da.Capability {
	return m.Called().Get(0).(da.Capability)
}

func (m *MockCapability) Name() string {
	return m.Called().String(0)
}

func (m *MockCapability) Init(d da.Device, s persistence.Section) {
	m.Called(d, s)
}

func (m *MockCapability) Load(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockCapability) Enumerate(ctx context.Context, a map[string]any) (bool, error) {
	args := m.Called(ctx, a)
	return args.Bool(0), args.Error(1)
}

func (m *MockCapability) Refresh(ctx context.Context, s smartthings.Snapshot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockCapability) Detach(ctx context.Context, detachType DetachType) error {
	return m.Called(ctx, detachType).Error(0)
}

func (m *MockCapability) ImplName() string {
	return m.Called().String(0)
}

var _ STDACapability = (*MockCapability)(nil)
