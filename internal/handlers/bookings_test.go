package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/database"
	"github.com/bikehub/bikehub-backend/internal/models"
	"github.com/bikehub/bikehub-backend/internal/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// authAs replaces the JWT middleware in tests, injecting the identity the
// real middleware would extract from the token.
func authAs(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", user.ID)
		c.Set("userRole", user.Role)
		c.Set("userEmail", user.Email)
	}
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, db.Create(user).Error)
	return user
}

func createBike(t *testing.T, db *gorm.DB, name, brand string, price float64) *models.Bike {
	bike := &models.Bike{
		Name:        name,
		Brand:       brand,
		Category:    "Sports",
		Price:       price,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(bike).Error)
	return bike
}

func createDealer(t *testing.T, db *gorm.DB, name, email string) *models.Dealer {
	dealer := &models.Dealer{
		Name:     name,
		Type:     string(models.DealerTypeShowroom),
		Email:    email,
		Phone:    "9876543210",
		IsActive: true,
	}
	require.NoError(t, db.Create(dealer).Error)
	return dealer
}

func createBooking(t *testing.T, db *gorm.DB, userID, bikeID, dealerID uint, status models.BookingStatus) *models.Booking {
	booking := &models.Booking{
		UserID:        userID,
		BikeID:        bikeID,
		DealerID:      dealerID,
		BookingDate:   time.Now().AddDate(0, 0, 7),
		PreferredTime: "10:00",
		Status:        status,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func bookingRouter(db *gorm.DB, user *models.User) *gin.Engine {
	hub := services.NewHub()
	r := gin.New()
	r.Use(authAs(user))
	r.POST("/bookings", CreateBooking(db, hub))
	r.GET("/bookings", GetBookings(db))
	r.GET("/bookings/:id", GetBooking(db))
	r.PUT("/bookings/:id/approve", ApproveBooking(db, hub))
	r.PUT("/bookings/:id/reject", RejectBooking(db, hub))
	r.PUT("/bookings/:id/reschedule", RescheduleBooking(db, hub))
	return r
}

func TestCreateBooking(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")

	r := bookingRouter(db, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/bookings", gin.H{
		"bikeId":        bike.ID,
		"dealerId":      dealer.ID,
		"bookingDate":   time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		"preferredTime": "10:30",
		"message":       "First test ride",
	}))

	require.Equal(t, 201, w.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, user.ID, booking.UserID)
	assert.Equal(t, "Yamaha R15", booking.Bike.Name)
}

func TestCreateBookingValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")

	r := bookingRouter(db, user)
	future := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{"past date", gin.H{"bikeId": bike.ID, "dealerId": dealer.ID, "bookingDate": "2020-01-01", "preferredTime": "10:00"}, 400},
		{"bad slot", gin.H{"bikeId": bike.ID, "dealerId": dealer.ID, "bookingDate": future, "preferredTime": "10:15"}, 400},
		{"bad date format", gin.H{"bikeId": bike.ID, "dealerId": dealer.ID, "bookingDate": "03/09/2026", "preferredTime": "10:00"}, 400},
		{"unknown bike", gin.H{"bikeId": 9999, "dealerId": dealer.ID, "bookingDate": future, "preferredTime": "10:00"}, 404},
		{"unknown dealer", gin.H{"bikeId": bike.ID, "dealerId": 9999, "bookingDate": future, "preferredTime": "10:00"}, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, jsonRequest("POST", "/bookings", tt.body))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestGetBookingsUserScope(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	other := createUser(t, db, "Ravi", "ravi@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")

	createBooking(t, db, user.ID, bike.ID, dealer.ID, models.BookingStatusPending)
	createBooking(t, db, other.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	r := bookingRouter(db, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("GET", "/bookings", nil))

	require.Equal(t, 200, w.Code)
	var bookings []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, user.ID, bookings[0].UserID)
}

func TestGetBookingsDealerScopeByLink(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	otherDealer := createDealer(t, db, "Metro Wheels", "metro@example.com")

	dealerUser := createUser(t, db, "City Motors", "owner@example.com", string(models.RoleDealer))
	require.NoError(t, db.Model(dealerUser).Update("dealer_id", dealer.ID).Error)
	dealerUser.DealerID = &dealer.ID

	createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusPending)
	createBooking(t, db, customer.ID, bike.ID, otherDealer.ID, models.BookingStatusPending)

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("GET", "/bookings", nil))

	require.Equal(t, 200, w.Code)
	var bookings []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, dealer.ID, bookings[0].DealerID)
}

func TestGetBookingsDealerScopeByEmail(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")

	// Dealer account without the DealerID link, matched by email.
	dealerUser := createUser(t, db, "City Motors", "city@example.com", string(models.RoleDealer))

	createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("GET", "/bookings", nil))

	require.Equal(t, 200, w.Code)
	var bookings []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
	assert.Len(t, bookings, 1)
}

func TestGetBookingsUnresolvableDealer(t *testing.T) {
	db := setupTestDB(t)
	dealerUser := createUser(t, db, "Orphan Dealer", "orphan@example.com", string(models.RoleDealer))

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("GET", "/bookings", nil))

	require.Equal(t, 200, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetBookingAuthorization(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	stranger := createUser(t, db, "Ravi", "ravi@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	booking := createBooking(t, db, owner.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	w := httptest.NewRecorder()
	bookingRouter(db, owner).ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/bookings/%d", booking.ID), nil))
	assert.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	bookingRouter(db, stranger).ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/bookings/%d", booking.ID), nil))
	assert.Equal(t, 403, w.Code)

	w = httptest.NewRecorder()
	bookingRouter(db, owner).ServeHTTP(w, jsonRequest("GET", "/bookings/9999", nil))
	assert.Equal(t, 404, w.Code)
}

func TestApproveBooking(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	dealerUser := createUser(t, db, "City Motors", "city@example.com", string(models.RoleDealer))
	booking := createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/bookings/%d/approve", booking.ID), gin.H{"message": "See you then"}))

	require.Equal(t, 200, w.Code)

	var updated models.Booking
	require.NoError(t, db.First(&updated, booking.ID).Error)
	assert.Equal(t, models.BookingStatusApproved, updated.Status)
	assert.Equal(t, "See you then", updated.DealerResponse)
}

func TestApproveBookingWithoutBody(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	dealerUser := createUser(t, db, "City Motors", "city@example.com", string(models.RoleDealer))
	booking := createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", fmt.Sprintf("/bookings/%d/approve", booking.ID), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
}

func TestApproveBookingIdempotent(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	dealerUser := createUser(t, db, "City Motors", "city@example.com", string(models.RoleDealer))
	booking := createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusApproved)

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/bookings/%d/approve", booking.ID), nil))

	assert.Equal(t, 200, w.Code)
}

func TestApproveRejectedBookingConflicts(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	dealerUser := createUser(t, db, "City Motors", "city@example.com", string(models.RoleDealer))
	booking := createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusRejected)

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/bookings/%d/approve", booking.ID), nil))

	require.Equal(t, 409, w.Code)

	var unchanged models.Booking
	require.NoError(t, db.First(&unchanged, booking.ID).Error)
	assert.Equal(t, models.BookingStatusRejected, unchanged.Status)
}

func TestApproveBookingRequiresDealerRole(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	booking := createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	r := bookingRouter(db, customer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/bookings/%d/approve", booking.ID), nil))

	require.Equal(t, 403, w.Code)
	assert.Contains(t, w.Body.String(), "Dealer or Admin access required")
}

func TestRescheduleBooking(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	dealerUser := createUser(t, db, "City Motors", "city@example.com", string(models.RoleDealer))
	booking := createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	newDate := time.Now().AddDate(0, 0, 10).Format("2006-01-02")

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/bookings/%d/reschedule", booking.ID), gin.H{
		"rescheduledDate": newDate,
		"rescheduledTime": "15:30",
		"message":         "Slot unavailable, proposing a new one",
	}))

	require.Equal(t, 200, w.Code)

	var updated models.Booking
	require.NoError(t, db.First(&updated, booking.ID).Error)
	assert.Equal(t, models.BookingStatusRescheduled, updated.Status)
	require.NotNil(t, updated.RescheduledDate)
	assert.Equal(t, newDate, updated.RescheduledDate.Format("2006-01-02"))
	assert.Equal(t, "15:30", updated.RescheduledTime)

	// Approving afterwards clears the reschedule proposal. Reload into a
	// fresh value; scanning a NULL column does not reset a non-nil pointer
	// field on a reused one.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/bookings/%d/approve", booking.ID), nil))
	require.Equal(t, 200, w.Code)

	var approved models.Booking
	require.NoError(t, db.First(&approved, booking.ID).Error)
	assert.Equal(t, models.BookingStatusApproved, approved.Status)
	assert.Nil(t, approved.RescheduledDate)
	assert.Empty(t, approved.RescheduledTime)
}

func TestRescheduleBookingInvalidSlot(t *testing.T) {
	db := setupTestDB(t)
	customer := createUser(t, db, "Asha", "asha@example.com", string(models.RoleUser))
	bike := createBike(t, db, "Yamaha R15", "Yamaha", 185000)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	dealerUser := createUser(t, db, "City Motors", "city@example.com", string(models.RoleDealer))
	booking := createBooking(t, db, customer.ID, bike.ID, dealer.ID, models.BookingStatusPending)

	r := bookingRouter(db, dealerUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/bookings/%d/reschedule", booking.ID), gin.H{
		"rescheduledDate": time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
		"rescheduledTime": "18:00",
	}))

	assert.Equal(t, 400, w.Code)
}
