package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/connections/database/dbtest"
	"laundry-service/internal/domain"
	dirrepo "laundry-service/internal/microservices/directory/repository"
	dto "laundry-service/internal/microservices/order/domain/dto"
	"laundry-service/internal/microservices/order/repository"
	notifrepo "laundry-service/internal/microservices/notification/repository"
)

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

type staticStaff []int64

func (s staticStaff) ListStaffIDs(context.Context) ([]int64, error) { return s, nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, ev domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	db     *sqlx.DB
	svc    *OrderService
	notes  notifrepo.NotificationRepositoryInterface
	events *recordingPublisher
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, staff ...int64) *fixture {
	t.Helper()
	db := dbtest.New(t)
	pub := &recordingPublisher{}
	var logs bytes.Buffer
	svc := NewOrderService(repository.NewOrderRepository(db), staticStaff(staff), pub, logger.NewWithWriter("order-service", &logs))
	svc.Now = func() time.Time { return fixedNow }
	return &fixture{db: db, svc: svc, notes: notifrepo.NewNotificationRepository(db), events: pub, logs: &logs}
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *fixture) place(t *testing.T, customerID int64) domain.Order {
	t.Helper()
	o, err := f.svc.Place(context.Background(), dto.PlaceOrderRequest{
		CustomerID:   customerID,
		CustomerName: "Ann",
		Address:      "1 Main St",
		ServiceType:  "Dry Cleaning",
		SubTotal:     money("25.00"),
		Tax:          money("2.00"),
		Total:        money("1.00"),
	})
	require.NoError(t, err)
	return o
}

// force moves an order to status without going through the service.
func (f *fixture) force(t *testing.T, id int64, status domain.OrderStatus, staff *int64) {
	t.Helper()
	f.db.MustExec(f.db.Rebind(`UPDATE orders SET status = ?, staff_id = ? WHERE id = ?`), string(status), staff, id)
}

func (f *fixture) customerNotes(t *testing.T, customerID int64) []domain.Notification {
	t.Helper()
	list, err := f.notes.ListByRecipient(context.Background(), domain.RecipientCustomer, customerID)
	require.NoError(t, err)
	return list
}

func assertTotalInvariant(t *testing.T, f *fixture, id int64) {
	t.Helper()
	o, err := repository.NewOrderRepository(f.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(o.SubTotal.Add(o.Tax)), "total %s != %s + %s", o.Total, o.SubTotal, o.Tax)
}

func TestPlace_BroadcastsToEveryStaffMember(t *testing.T) {
	f := newFixture(t, 1, 2, 3)
	o := f.place(t, 9)

	assert.Equal(t, domain.StatusOrderPlaced, o.Status)
	assert.Equal(t, "27", o.Total.String())
	assert.Equal(t, fixedNow, o.PlacedAt)
	assertTotalInvariant(t, f, o.ID)

	for _, staffID := range []int64{1, 2, 3} {
		list, err := f.notes.ListByRecipient(context.Background(), domain.RecipientStaff, staffID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.NotificationNewOrder, list[0].Type)
		assert.Equal(t, o.ID, list[0].EntityID)
	}
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.EventOrderPlaced, f.events.events[0].Type)
	assert.NotEmpty(t, f.events.events[0].EventID)
}

func TestPlace_BroadcastsToDirectoryStaff(t *testing.T) {
	f := newFixture(t)
	f.db.MustExec(`INSERT INTO staff (name, role) VALUES ('Bo', 'staff'), ('Cy', 'manager'), ('Di', 'driver')`)
	directory := dirrepo.NewDirectoryRepository(f.db)
	f.svc = NewOrderService(repository.NewOrderRepository(f.db), directory, f.events, logger.NewWithWriter("order-service", f.logs))
	f.svc.Now = func() time.Time { return fixedNow }

	o := f.place(t, 9)

	staff, err := directory.CountStaff(context.Background())
	require.NoError(t, err)
	var n int64
	require.NoError(t, f.db.Get(&n, f.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE type = ? AND entity_id = ?`),
		string(domain.NotificationNewOrder), o.ID))
	assert.Equal(t, int64(3), staff)
	assert.Equal(t, staff, n)
}

func TestPlace_NoStaffIsNotAnError(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, 9)

	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM notifications`))
	assert.Zero(t, n)
	assert.NotZero(t, o.ID)
}

func TestPlace_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Place(context.Background(), dto.PlaceOrderRequest{CustomerID: 1, Tax: money("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.svc.Place(context.Background(), dto.PlaceOrderRequest{SubTotal: money("1"), Tax: money("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestClaim(t *testing.T) {
	tests := []struct {
		from domain.OrderStatus
		want domain.OrderStatus
	}{
		{domain.StatusProcessing, domain.StatusWashing},
		{domain.StatusPickupCompleted, domain.StatusWashing},
		{domain.StatusReadyForDelivery, domain.StatusReadyForDelivery},
		{domain.StatusOrderPlaced, domain.StatusPickupScheduled},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			f := newFixture(t)
			o := f.place(t, 9)
			f.force(t, o.ID, tt.from, nil)

			view, err := f.svc.Claim(context.Background(), o.ID, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.Status)
			require.NotNil(t, view.StaffID)
			assert.Equal(t, int64(5), *view.StaffID)
			assert.Equal(t, view.StaffID, view.DeliveryStaffID)
			assertTotalInvariant(t, f, o.ID)

			notes := f.customerNotes(t, 9)
			require.Len(t, notes, 1)
			assert.Equal(t, domain.NotificationOrderStatus, notes[0].Type)
			assert.Contains(t, notes[0].Message, string(tt.want))
		})
	}
}

func TestClaim_ConcurrentClaimsAreSerialized(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, 9)
	f.force(t, o.ID, domain.StatusPickupCompleted, nil)

	views := make([]dto.OrderView, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, staffID := range []int64{5, 6} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			views[i], errs[i] = f.svc.Claim(context.Background(), o.ID, staffID)
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// the first claim moves the order to Washing, the second sees Washing and schedules
	got := []domain.OrderStatus{views[0].Status, views[1].Status}
	assert.ElementsMatch(t, []domain.OrderStatus{domain.StatusWashing, domain.StatusPickupScheduled}, got)
	last := views[0]
	if views[1].Status == domain.StatusPickupScheduled {
		last = views[1]
	}

	stored, err := repository.NewOrderRepository(f.db).GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickupScheduled, stored.Status)
	require.NotNil(t, stored.StaffID)
	assert.Equal(t, *last.StaffID, *stored.StaffID)
	assertTotalInvariant(t, f, o.ID)

	notes := f.customerNotes(t, 9)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, domain.NotificationOrderStatus, n.Type)
	}
}

func TestClaim_RequiresStaffID(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, 9)
	_, err := f.svc.Claim(context.Background(), o.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestUpdateStatus_CheckpointsClearStaff(t *testing.T) {
	for _, target := range []domain.OrderStatus{domain.StatusPickupCompleted, domain.StatusReadyForDelivery} {
		t.Run(string(target), func(t *testing.T) {
			f := newFixture(t)
			o := f.place(t, 9)
			staff := int64(4)
			f.force(t, o.ID, domain.StatusWashing, &staff)

			view, err := f.svc.UpdateStatus(context.Background(), o.ID, " "+string(target)+" ")
			require.NoError(t, err)
			assert.Equal(t, target, view.Status)
			assert.Nil(t, view.StaffID)

			notes := f.customerNotes(t, 9)
			require.Len(t, notes, 1)
			assert.Contains(t, notes[0].Message, string(target))
		})
	}
}

func TestUpdateStatus_GenericKeepsStaffAndAlwaysNotifies(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, 9)
	staff := int64(4)
	f.force(t, o.ID, domain.StatusWashing, &staff)

	view, err := f.svc.UpdateStatus(context.Background(), o.ID, "washing")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWashing, view.Status)
	require.NotNil(t, view.StaffID)
	assert.Equal(t, int64(4), *view.StaffID)

	_, err = f.svc.MarkDelivered(context.Background(), o.ID)
	require.NoError(t, err)

	notes := f.customerNotes(t, 9)
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Message, "Delivered")
	assert.Contains(t, notes[1].Message, "Washing")
	assertTotalInvariant(t, f, o.ID)

	timeline, err := f.svc.Timeline(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 3)
}

func TestUpdateStatus_InvalidInput(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, 9)

	for _, s := range []string{"", "   ", "Teleported"} {
		_, err := f.svc.UpdateStatus(context.Background(), o.ID, s)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, s)
	}
	assert.Empty(t, f.customerNotes(t, 9))
}

func TestTransitions_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Claim(ctx, 77, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.UpdateStatus(ctx, 77, "Washing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.MarkDelivered(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Timeline(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM notifications`))
	assert.Zero(t, n)
	assert.Empty(t, f.events.events)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, 9)
	f.events.err = errors.New("broker down")

	view, err := f.svc.UpdateStatus(context.Background(), o.ID, "Processing")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, view.Status)
	assert.Contains(t, f.logs.String(), "event_publish_failed")

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, domain.EventOrderStatusChanged, last.Type)
	assert.Equal(t, domain.StatusOrderPlaced, last.OldStatus)
	assert.Equal(t, domain.StatusProcessing, last.NewStatus)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.place(t, 1)
	f.place(t, 2)

	all, err := f.svc.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.List(context.Background(), repository.ListFilter{CustomerID: 2})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "1 Main St", mine[0].CustomerAddress)
}
