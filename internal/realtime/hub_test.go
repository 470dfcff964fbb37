package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodhub/internal/models"
)

type fakeConn struct {
	messages []Envelope
	writeErr error
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, v.(Envelope))
	return nil
}

func (f *fakeConn) Close() error { return nil }

func testOrder(userID, restaurantID uuid.UUID) *models.Order {
	order := &models.Order{UserID: userID, RestaurantID: restaurantID, Status: models.OrderStatusPending}
	order.ID = uuid.New()
	return order
}

func TestHubBroadcastToUserAndRestaurant(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	restaurantID := uuid.New()

	userConn := &fakeConn{}
	restaurantConn := &fakeConn{}
	bystanderConn := &fakeConn{}

	hub.Register(userConn, userID, models.RoleUser)
	hub.Register(restaurantConn, restaurantID, models.RoleRestaurant)
	hub.Register(bystanderConn, uuid.New(), models.RoleUser)

	order := testOrder(userID, restaurantID)
	hub.BroadcastOrderEvent(EventOrderCreated, order)

	require.Len(t, userConn.messages, 1)
	require.Len(t, restaurantConn.messages, 1)
	assert.Empty(t, bystanderConn.messages)

	envelope := userConn.messages[0]
	assert.Equal(t, EventOrderCreated, envelope.Event)
	assert.Equal(t, order.ID.String(), envelope.OrderID)
	assert.Equal(t, userID.String(), envelope.UserID)
	assert.Equal(t, restaurantID.String(), envelope.RestaurantID)
}

func TestHubRoomDelivery(t *testing.T) {
	hub := NewHub()
	order := testOrder(uuid.New(), uuid.New())

	watcher := &fakeConn{}
	hub.Register(watcher, uuid.New(), models.RoleUser)
	hub.JoinOrder(watcher, order.ID)

	hub.BroadcastOrderEvent(EventOrderUpdated, order)
	require.Len(t, watcher.messages, 1)
	assert.Equal(t, EventOrderUpdated, watcher.messages[0].Event)

	hub.LeaveOrder(watcher, order.ID)
	hub.BroadcastOrderEvent(EventOrderUpdated, order)
	assert.Len(t, watcher.messages, 1)
}

func TestHubDeliversOncePerConnection(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	order := testOrder(userID, uuid.New())

	// Placing user also joined the order's room; must still get one copy.
	conn := &fakeConn{}
	hub.Register(conn, userID, models.RoleUser)
	hub.JoinOrder(conn, order.ID)

	hub.BroadcastOrderEvent(EventDeliveryTracking, order)
	assert.Len(t, conn.messages, 1)
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	order := testOrder(userID, uuid.New())

	conn := &fakeConn{}
	hub.Register(conn, userID, models.RoleUser)
	hub.JoinOrder(conn, order.ID)
	hub.Unregister(conn)

	hub.BroadcastOrderEvent(EventOrderUpdated, order)
	assert.Empty(t, conn.messages)
}

func TestHubWriteFailureDoesNotStopOthers(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	restaurantID := uuid.New()
	order := testOrder(userID, restaurantID)

	broken := &fakeConn{writeErr: errors.New("connection reset")}
	healthy := &fakeConn{}
	hub.Register(broken, userID, models.RoleUser)
	hub.Register(healthy, restaurantID, models.RoleRestaurant)

	hub.BroadcastOrderEvent(EventOrderCreated, order)
	assert.Len(t, healthy.messages, 1)
}

type serialCheckConn struct {
	inFlight   int32
	overlapped int32
	writes     int32
}

func (c *serialCheckConn) WriteJSON(v interface{}) error {
	if atomic.AddInt32(&c.inFlight, 1) > 1 {
		atomic.StoreInt32(&c.overlapped, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.inFlight, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *serialCheckConn) Close() error { return nil }

func TestHubSerializesConnectionWrites(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	order := testOrder(userID, uuid.New())

	conn := &serialCheckConn{}
	hub.Register(conn, userID, models.RoleUser)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastOrderEvent(EventOrderUpdated, order)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 0, atomic.LoadInt32(&conn.overlapped),
		"writes to one connection must never overlap")
	assert.EqualValues(t, 50, atomic.LoadInt32(&conn.writes))
}

func TestHubJoinWithoutRegisterIsNoop(t *testing.T) {
	hub := NewHub()
	order := testOrder(uuid.New(), uuid.New())

	conn := &fakeConn{}
	hub.JoinOrder(conn, order.ID)

	hub.BroadcastOrderEvent(EventOrderCreated, order)
	assert.Empty(t, conn.messages)
}
