package main

import (
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/types"
)

type PaymentRoutesTestSuite struct {
	suite.Suite
	Mock sqlmock.Sqlmock
}

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

// requestAs stamps the caller identity the way AuthMiddleware does after
// verifying a token.
func requestAs(id uint, role types.UserRole, hotelId uint) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("id", id)
		ctx.Set("role", role)
		if hotelId > 0 {
			ctx.Set("hotel_id", hotelId)
		}
	}
}

func (s *PaymentRoutesTestSuite) SetupSuite() {
	gormDB, mock := newMockDB()
	db.NewDB(gormDB)
	s.Mock = mock
	bookingSvc = nil

	// Unreachable address: every cache lookup misses and falls through to
	// the database.
	lib.NewRedisClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:6390"}))
}

func (s *PaymentRoutesTestSuite) newRouter(id uint, role types.UserRole, hotelId uint) *gin.Engine {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(requestAs(id, role, hotelId))
	paymentHandlers(apiv1)
	reservationHandlers(apiv1)
	return router
}

func (s *PaymentRoutesTestSuite) expectPaymentWithReservation(customerId, roomId uint) {
	payments := sqlmock.NewRows([]string{"id", "reservation_id", "amount", "status"}).
		AddRow(1, 5, 200.00, "succeeded")
	s.Mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(payments)
	reservations := sqlmock.NewRows([]string{"id", "customer_id", "room_id"}).
		AddRow(5, customerId, roomId)
	s.Mock.ExpectQuery(`SELECT .* FROM "reservations"`).WillReturnRows(reservations)
}

func (s *PaymentRoutesTestSuite) TestGetPaymentOwnerAllowed() {
	s.expectPaymentWithReservation(100, 7)

	router := s.newRouter(100, types.ROLE_CUSTOMER, 0)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/payments/1", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(1), gjson.Get(w.Body.String(), "data.id").Int())
}

func (s *PaymentRoutesTestSuite) TestGetPaymentOtherCustomerForbidden() {
	s.expectPaymentWithReservation(100, 7)

	router := s.newRouter(101, types.ROLE_CUSTOMER, 0)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/payments/1", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *PaymentRoutesTestSuite) TestGetPaymentWithoutReservationForbidden() {
	payments := sqlmock.NewRows([]string{"id", "reservation_id", "amount", "status"}).
		AddRow(1, 5, 200.00, "succeeded")
	s.Mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(payments)
	s.Mock.ExpectQuery(`SELECT .* FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "room_id"}))

	router := s.newRouter(100, types.ROLE_CUSTOMER, 0)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/payments/1", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *PaymentRoutesTestSuite) TestGetPaymentStaffOwnHotelAllowed() {
	s.expectPaymentWithReservation(100, 7)
	rooms := sqlmock.NewRows([]string{"hotel_id"}).AddRow(10)
	s.Mock.ExpectQuery(`FROM "rooms"`).WillReturnRows(rooms)

	router := s.newRouter(42, types.ROLE_STAFF, 10)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/payments/1", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
}

func (s *PaymentRoutesTestSuite) TestGetPaymentStaffOtherHotelForbidden() {
	s.expectPaymentWithReservation(100, 7)
	rooms := sqlmock.NewRows([]string{"hotel_id"}).AddRow(20)
	s.Mock.ExpectQuery(`FROM "rooms"`).WillReturnRows(rooms)

	router := s.newRouter(42, types.ROLE_STAFF, 10)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/payments/1", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *PaymentRoutesTestSuite) TestListPaymentsCustomerScoped() {
	rows := sqlmock.NewRows([]string{"id", "reservation_id", "amount", "status"}).
		AddRow(1, 5, 200.00, "succeeded").
		AddRow(2, 6, 301.00, "pending")
	s.Mock.ExpectQuery(`FROM "payments" JOIN reservations`).
		WithArgs(100).
		WillReturnRows(rows)

	router := s.newRouter(100, types.ROLE_CUSTOMER, 0)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/payments", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(2), gjson.Get(w.Body.String(), "count").Int())
}

func (s *PaymentRoutesTestSuite) TestListPaymentsStaffScopedToHotel() {
	rows := sqlmock.NewRows([]string{"id", "reservation_id", "amount", "status"}).
		AddRow(1, 5, 200.00, "succeeded")
	s.Mock.ExpectQuery(`JOIN rooms ON rooms\.id = reservations\.room_id`).
		WithArgs(10).
		WillReturnRows(rows)

	router := s.newRouter(42, types.ROLE_STAFF, 10)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/payments", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(1), gjson.Get(w.Body.String(), "count").Int())
}

func (s *PaymentRoutesTestSuite) TestListReservationsCustomerCacheMiss() {
	rows := sqlmock.NewRows([]string{"id", "customer_id", "room_id", "status"}).
		AddRow(1, 100, 7, "pending").
		AddRow(2, 100, 7, "confirmed")
	s.Mock.ExpectQuery(`SELECT \* FROM "reservations"`).WillReturnRows(rows)
	s.Mock.ExpectQuery(`FROM "rooms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id"}).AddRow(7, 10))

	router := s.newRouter(100, types.ROLE_CUSTOMER, 0)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/reservations", nil)
	router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(2), gjson.Get(w.Body.String(), "count").Int())
}

func TestPaymentRoutesSuite(t *testing.T) {
	suite.Run(t, new(PaymentRoutesTestSuite))
}
