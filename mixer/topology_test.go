// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"testing"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockNode struct {
	mock.Mock
}

func (m *mockNode) Connect(dst engine.Node) error {
	return m.Called(dst).Error(0)
}

func (m *mockNode) Disconnect(dst engine.Node) error {
	return m.Called(dst).Error(0)
}

func (m *mockNode) DisconnectAll() {
	m.Called()
}

func TestWiring_Connect(t *testing.T) {
	a, b, c := new(mockNode), new(mockNode), new(mockNode)
	a.On("Connect", b).Return(nil).Once()
	b.On("Connect", c).Return(nil).Once()

	err := wiring{{a, b}, {b, c}}.connect()
	assert.NoError(t, err)
	a.AssertExpectations(t)
	b.AssertExpectations(t)
}

func TestWiring_ConnectRollsBack(t *testing.T) {
	a, b, c := new(mockNode), new(mockNode), new(mockNode)
	a.On("Connect", b).Return(nil).Once()
	b.On("Connect", c).Return(nil).Once()
	c.On("Connect", a).Return(engine.ErrForeignNode).Once()
	b.On("Disconnect", c).Return(nil).Once()
	a.On("Disconnect", b).Return(nil).Once()

	err := wiring{{a, b}, {b, c}, {c, a}}.connect()
	assert.ErrorIs(t, err, engine.ErrForeignNode)
	a.AssertExpectations(t)
	b.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestWiring_DisconnectReportsEveryFailure(t *testing.T) {
	a, b, c := new(mockNode), new(mockNode), new(mockNode)
	boom := errors.New("boom")
	b.On("Disconnect", c).Return(engine.ErrNotConnected).Once()
	a.On("Disconnect", b).Return(boom).Once()

	err := wiring{{a, b}, {b, c}}.disconnect()
	assert.ErrorIs(t, err, engine.ErrNotConnected)
	assert.ErrorIs(t, err, boom)
	a.AssertExpectations(t)
	b.AssertExpectations(t)
}
