package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"hbs/src/middlewares"
	"hbs/src/types"
)

type RouterTestSuite struct {
	suite.Suite
}

func (s *RouterTestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("staydate", staydate)
		v.RegisterValidation("gtdate", gtdate)
	}
}

func (s *RouterTestSuite) TestHealthcheck() {
	router := setupRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("\"ok\"", w.Body.String())
}

func (s *RouterTestSuite) TestAuthRequired() {
	router := setupRouter()
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	reservationHandlers(authorized)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/reservations", nil)
	router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterTestSuite) TestAuthBareBearerHeader() {
	router := setupRouter()
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	reservationHandlers(authorized)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/reservations", nil)
	req.Header.Set("Authorization", "Bearer")
	router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterTestSuite) TestRegisterValidation() {
	router := setupRouter()
	guestAuthRoutes(router)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"not-an-email","password":"short","first_name":"A","last_name":"B"}`)
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
}

// Request bodies carry their rules in binding tags, the way gin reads them.
func newBindingValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterValidation("staydate", staydate)
	v.RegisterValidation("gtdate", gtdate)
	return v
}

func (s *RouterTestSuite) TestCreateReservationBindings() {
	v := newBindingValidator()

	valid := types.CreateReservationRequestBody{
		RoomID:         1,
		CheckInDate:    "2026-03-10",
		CheckOutDate:   "2026-03-12",
		NumberOfGuests: 2,
	}
	s.NoError(v.Struct(&valid))

	inverted := valid
	inverted.CheckInDate = "2026-03-12"
	inverted.CheckOutDate = "2026-03-10"
	s.Error(v.Struct(&inverted))

	sameDay := valid
	sameDay.CheckOutDate = sameDay.CheckInDate
	s.Error(v.Struct(&sameDay))

	malformed := valid
	malformed.CheckInDate = "03/10/2026"
	s.Error(v.Struct(&malformed))
}

func (s *RouterTestSuite) TestUpdateReservationBindings() {
	v := newBindingValidator()

	checkOut := "2026-03-12"
	partial := types.UpdateReservationRequestBody{CheckOutDate: &checkOut}
	s.NoError(v.Struct(&partial))

	bad := "next tuesday"
	malformed := types.UpdateReservationRequestBody{CheckOutDate: &bad}
	s.Error(v.Struct(&malformed))
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestGtDateValidator(t *testing.T) {
	v := validator.New()
	v.RegisterValidation("staydate", staydate)
	v.RegisterValidation("gtdate", gtdate)

	type stay struct {
		In  string `validate:"required,staydate"`
		Out string `validate:"required,staydate,gtdate=In"`
	}
	assert.NoError(t, v.Struct(&stay{In: "2026-03-01", Out: "2026-03-02"}))
	assert.Error(t, v.Struct(&stay{In: "2026-03-02", Out: "2026-03-01"}))
	assert.Error(t, v.Struct(&stay{In: "2026-03-01", Out: "2026-03-01"}))
}
