package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hbs/src/models"
	"hbs/src/types"
)

var testNow = time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeCatalog struct {
	rooms map[uint]RoomInfo
}

func (f *fakeCatalog) GetRoomWithType(_ context.Context, roomID uint) (*RoomInfo, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

type fakeRepo struct {
	catalog   *fakeCatalog
	nextID    uint
	items     map[uint]*models.Reservation
	insertErr error
}

func newFakeRepo(catalog *fakeCatalog) *fakeRepo {
	return &fakeRepo{catalog: catalog, nextID: 1, items: map[uint]*models.Reservation{}}
}

func (f *fakeRepo) CountOverlapping(_ context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) (int64, error) {
	var count int64
	for _, r := range f.items {
		if r.RoomID != roomID || r.ID == excludeID {
			continue
		}
		if r.Status != types.RESERVATION_PENDING && r.Status != types.RESERVATION_CONFIRMED {
			continue
		}
		if r.CheckInDate.Before(checkOut) && r.CheckOutDate.After(checkIn) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) Insert(_ context.Context, r *models.Reservation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	r.ID = f.nextID
	f.nextID++
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, id uint, fields map[string]any) error {
	r, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "room_id":
			r.RoomID = v.(uint)
		case "check_in_date":
			r.CheckInDate = v.(time.Time)
		case "check_out_date":
			r.CheckOutDate = v.(time.Time)
		case "number_of_guests":
			r.NumberOfGuests = v.(uint)
		case "total_price":
			r.TotalPrice = v.(float64)
		case "status":
			r.Status = v.(types.ReservationStatus)
		}
	}
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uint) (*models.Reservation, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) FindByCustomer(_ context.Context, customerID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.items {
		if r.CustomerID == customerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByCustomerAndHotel(_ context.Context, customerID, hotelID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.items {
		if r.CustomerID != customerID {
			continue
		}
		if room, ok := f.catalog.rooms[r.RoomID]; ok && room.HotelID == hotelID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByRoom(_ context.Context, roomID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.items {
		if r.RoomID == roomID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByHotel(_ context.Context, hotelID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.items {
		if room, ok := f.catalog.rooms[r.RoomID]; ok && room.HotelID == hotelID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeCatalog, *fakeRepo) {
	catalog := &fakeCatalog{rooms: map[uint]RoomInfo{
		1: {RoomID: 1, HotelID: 10, RoomTypeID: 1, Capacity: 2, NightlyRate: 100},
		2: {RoomID: 2, HotelID: 10, RoomTypeID: 2, Capacity: 4, NightlyRate: 150.50},
		3: {RoomID: 3, HotelID: 20, RoomTypeID: 1, Capacity: 2, NightlyRate: 80},
	}}
	repo := newFakeRepo(catalog)
	svc := NewService(catalog, repo).WithClock(func() time.Time { return testNow })
	return svc, catalog, repo
}

var (
	customer      = Actor{ID: 100, Role: types.ROLE_CUSTOMER}
	otherCustomer = Actor{ID: 101, Role: types.ROLE_CUSTOMER}
	staff         = Actor{ID: 200, Role: types.ROLE_STAFF, HotelID: 10}
	otherStaff    = Actor{ID: 201, Role: types.ROLE_STAFF, HotelID: 20}
)

func TestCreateReservation(t *testing.T) {
	svc, _, _ := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID:         1,
		CheckIn:        date(2026, time.March, 10),
		CheckOut:       date(2026, time.March, 12),
		NumberOfGuests: 2,
	}, customer)
	assert.NoError(t, err)
	assert.Equal(t, uint(100), r.CustomerID)
	assert.Equal(t, types.RESERVATION_PENDING, r.Status)
	assert.Equal(t, 200.00, r.TotalPrice)
}

func TestCreateReservationOverlap(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 15), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 14), CheckOut: date(2026, time.March, 16), NumberOfGuests: 1,
	}, otherCustomer)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateReservationBackToBack(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	// Checkout day equals the next check-in day; intervals are half-open.
	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 12), CheckOut: date(2026, time.March, 14), NumberOfGuests: 1,
	}, otherCustomer)
	assert.NoError(t, err)
}

func TestCreateReservationCapacityExceeded(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 3,
	}, customer)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateReservationInvalidDates(t *testing.T) {
	svc, _, _ := newTestService()
	var ve *ValidationError

	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 12), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.ErrorAs(t, err, &ve)

	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.February, 20), CheckOut: date(2026, time.February, 22), NumberOfGuests: 1,
	}, customer)
	assert.ErrorAs(t, err, &ve)
}

func TestCreateReservationCheckInToday(t *testing.T) {
	svc, _, _ := newTestService()
	// Same-day check-in is allowed even when the clock is past midnight.
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 2), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)
}

func TestCreateReservationRoleAndRoom(t *testing.T) {
	svc, _, _ := newTestService()
	in := CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}
	_, err := svc.CreateReservation(context.Background(), in, staff)
	assert.ErrorIs(t, err, ErrForbidden)

	in.RoomID = 999
	_, err = svc.CreateReservation(context.Background(), in, customer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReservationConstraintRace(t *testing.T) {
	svc, _, repo := newTestService()
	repo.insertErr = ErrConflict
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetReservationScoping(t *testing.T) {
	svc, _, _ := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	got, err := svc.GetReservation(context.Background(), r.ID, customer)
	assert.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = svc.GetReservation(context.Background(), r.ID, otherCustomer)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetReservation(context.Background(), r.ID, staff)
	assert.NoError(t, err)

	_, err = svc.GetReservation(context.Background(), r.ID, otherStaff)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetReservation(context.Background(), 999, customer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReservations(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)
	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 3, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	list, err := svc.ListReservations(context.Background(), staff)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListReservations(context.Background(), customer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListReservationsForRoom(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	list, err := svc.ListReservationsForRoom(context.Background(), 1, staff)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListReservationsForRoom(context.Background(), 3, staff)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListReservationsForRoom(context.Background(), 999, staff)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListReservationsForRoom(context.Background(), 1, customer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListReservationsForCustomer(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)
	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 3, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	list, err := svc.ListReservationsForCustomer(context.Background(), customer.ID, customer)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListReservationsForCustomer(context.Background(), customer.ID, otherCustomer)
	assert.ErrorIs(t, err, ErrForbidden)

	// Staff only see the customer's stays within their own hotel.
	list, err = svc.ListReservationsForCustomer(context.Background(), customer.ID, staff)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateReservation(t *testing.T) {
	svc, _, _ := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	// Extending the stay over its own dates must not count as an overlap,
	// and the price follows the new length of stay.
	newOut := date(2026, time.March, 13)
	updated, err := svc.UpdateReservation(context.Background(), r.ID, UpdateReservationInput{CheckOut: &newOut}, customer)
	assert.NoError(t, err)
	assert.Equal(t, 300.00, updated.TotalPrice)
	assert.Equal(t, newOut, updated.CheckOutDate)
}

func TestUpdateReservationRoomChange(t *testing.T) {
	svc, _, _ := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	newRoom := uint(2)
	updated, err := svc.UpdateReservation(context.Background(), r.ID, UpdateReservationInput{RoomID: &newRoom}, customer)
	assert.NoError(t, err)
	assert.Equal(t, uint(2), updated.RoomID)
	assert.Equal(t, 301.00, updated.TotalPrice)
}

func TestUpdateReservationConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)
	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 15), CheckOut: date(2026, time.March, 17), NumberOfGuests: 1,
	}, otherCustomer)
	assert.NoError(t, err)

	newOut := date(2026, time.March, 16)
	_, err = svc.UpdateReservation(context.Background(), r.ID, UpdateReservationInput{CheckOut: &newOut}, customer)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateConfirmedReservation(t *testing.T) {
	svc, _, repo := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)
	repo.items[r.ID].Status = types.RESERVATION_CONFIRMED

	guests := uint(2)
	_, err = svc.UpdateReservation(context.Background(), r.ID, UpdateReservationInput{NumberOfGuests: &guests}, customer)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.CancelReservation(context.Background(), r.ID, customer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelReservation(t *testing.T) {
	svc, _, repo := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	err = svc.CancelReservation(context.Background(), r.ID, customer)
	assert.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CANCELLED, repo.items[r.ID].Status)

	// Cancelling again is a no-op.
	err = svc.CancelReservation(context.Background(), r.ID, customer)
	assert.NoError(t, err)

	err = svc.CancelReservation(context.Background(), 999, customer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelThenRebook(t *testing.T) {
	svc, _, _ := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)
	assert.NoError(t, svc.CancelReservation(context.Background(), r.ID, customer))

	// A cancelled stay no longer blocks the room.
	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, otherCustomer)
	assert.NoError(t, err)
}

func TestCancelOtherCustomersReservation(t *testing.T) {
	svc, _, _ := newTestService()
	r, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	assert.NoError(t, err)

	err = svc.CancelReservation(context.Background(), r.ID, otherCustomer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestStorageErrorWrapping(t *testing.T) {
	boom := errors.New("connection reset")
	catalog := &fakeCatalog{rooms: map[uint]RoomInfo{}}
	repo := newFakeRepo(catalog)
	repo.insertErr = boom
	catalog.rooms[1] = RoomInfo{RoomID: 1, HotelID: 10, Capacity: 2, NightlyRate: 100}
	svc := NewService(catalog, repo).WithClock(func() time.Time { return testNow })

	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		RoomID: 1, CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12), NumberOfGuests: 1,
	}, customer)
	var se *StorageError
	assert.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, boom)
}
