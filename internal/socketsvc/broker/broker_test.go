package broker

import (
	"encoding/json"
	"testing"

	"github.com/avvvet/round-services/internal/comm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subj string, data []byte) error {
	args := m.Called(subj, data)
	return args.Error(0)
}

type recorder struct {
	direct    map[string][]string
	broadcast []string
}

func newTestBroker() (*Broker, *recorder) {
	rec := &recorder{direct: map[string][]string{}}
	b := NewBroker(nil,
		func(socketId string, m *comm.WSMessage) bool {
			if socketId == "gone" {
				return false
			}
			rec.direct[socketId] = append(rec.direct[socketId], m.Type)
			return true
		},
		func(m *comm.WSMessage) int {
			rec.broadcast = append(rec.broadcast, m.Type)
			return 1
		})
	return b, rec
}

func payload(t *testing.T, msgType, socketId string) []byte {
	t.Helper()
	data, err := json.Marshal(comm.WSMessage{Type: msgType, Data: json.RawMessage(`{}`), SocketId: socketId})
	require.NoError(t, err)
	return data
}

func TestDispatchRoutesBySocket(t *testing.T) {
	b, rec := newTestBroker()

	b.dispatch(payload(t, comm.TypeCrashBetResponse, "s1"))
	b.dispatch(payload(t, comm.TypeInitResponse, "s2"))
	b.dispatch(payload(t, comm.TypeCrashRound, ""))
	b.dispatch(payload(t, comm.TypeDoubleRound, ""))
	b.dispatch(payload(t, comm.TypeRoundResponse, "gone"))

	assert.Equal(t, []string{comm.TypeCrashBetResponse}, rec.direct["s1"])
	assert.Equal(t, []string{comm.TypeInitResponse}, rec.direct["s2"])
	assert.Equal(t, []string{comm.TypeCrashRound, comm.TypeDoubleRound}, rec.broadcast)
}

func TestDispatchDropsUnknown(t *testing.T) {
	b, rec := newTestBroker()

	b.dispatch(payload(t, comm.TypeCrashBet, "s1"))
	b.dispatch([]byte("{"))

	assert.Empty(t, rec.direct)
	assert.Empty(t, rec.broadcast)
}

func TestPublish(t *testing.T) {
	b, _ := newTestBroker()
	m := &MockPublisher{}
	m.On("Publish", comm.TopicSocketService, []byte("x")).Return(nil)
	b.WithPublisher(m)

	require.NoError(t, b.Publish(comm.TopicSocketService, []byte("x")))
	m.AssertExpectations(t)
}
