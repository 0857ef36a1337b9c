package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/models"
)

func publicDealerRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/dealers", GetDealers(db))
	r.GET("/dealers/nearby", GetNearbyDealers(db))
	r.GET("/dealers/:id/bikes", GetDealerBikes(db))
	return r
}

func dealerDashboardRouter(db *gorm.DB, user *models.User) *gin.Engine {
	r := gin.New()
	r.Use(authAs(user))
	r.GET("/dealers/bikes", GetBikeCatalog(db))
	r.GET("/dealers/my-listings", GetMyListings(db))
	r.POST("/dealers/list-bike", ListBike(db))
	r.PUT("/dealers/listings/:id", UpdateListing(db))
	r.DELETE("/dealers/listings/:id", DeleteListing(db))
	r.GET("/dealers/bookings", GetDealerBookings(db))
	return r
}

func linkedDealerUser(t *testing.T, db *gorm.DB, dealer *models.Dealer, email string) *models.User {
	user := createUser(t, db, dealer.Name, email, string(models.RoleDealer))
	require.NoError(t, db.Model(user).Update("dealer_id", dealer.ID).Error)
	user.DealerID = &dealer.ID
	return user
}

func TestGetDealersFilters(t *testing.T) {
	db := setupTestDB(t)
	dealers := []models.Dealer{
		{Name: "City Motors", Type: "showroom", Email: "city@example.com", Phone: "1", IsActive: true,
			Address: models.Address{City: "Pune", State: "Maharashtra"}},
		{Name: "Metro Service", Type: "service_center", Email: "metro@example.com", Phone: "2", IsActive: true,
			Address: models.Address{City: "Mumbai", State: "Maharashtra"}},
		{Name: "Closed Wheels", Type: "showroom", Email: "closed@example.com", Phone: "3", IsActive: false,
			Address: models.Address{City: "Pune", State: "Maharashtra"}},
	}
	for i := range dealers {
		require.NoError(t, db.Create(&dealers[i]).Error)
	}

	r := publicDealerRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers", nil))
	require.Equal(t, 200, w.Code)
	var got []models.Dealer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers?type=service_center", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Metro Service", got[0].Name)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers?city=pune", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "City Motors", got[0].Name)
}

func TestGetNearbyDealers(t *testing.T) {
	db := setupTestDB(t)
	// Distances from Bangalore city center (12.9716, 77.5946).
	dealers := []models.Dealer{
		{Name: "Close By", Type: "showroom", Email: "close@example.com", Phone: "1", IsActive: true,
			Latitude: 12.9800, Longitude: 77.6000},
		{Name: "Edge Of Town", Type: "showroom", Email: "edge@example.com", Phone: "2", IsActive: true,
			Latitude: 13.1000, Longitude: 77.6000},
		{Name: "Another City", Type: "showroom", Email: "far@example.com", Phone: "3", IsActive: true,
			Latitude: 13.0827, Longitude: 80.2707},
		{Name: "No Location", Type: "showroom", Email: "noloc@example.com", Phone: "4", IsActive: true},
	}
	for i := range dealers {
		require.NoError(t, db.Create(&dealers[i]).Error)
	}

	r := publicDealerRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers/nearby?lat=12.9716&lng=77.5946&radius=25", nil))
	require.Equal(t, 200, w.Code)

	var nearby []struct {
		Name       string  `json:"name"`
		DistanceKm float64 `json:"distanceKm"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nearby))
	require.Len(t, nearby, 2)
	assert.Equal(t, "Close By", nearby[0].Name)
	assert.Equal(t, "Edge Of Town", nearby[1].Name)
	assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)
}

func TestGetNearbyDealersRequiresCoordinates(t *testing.T) {
	db := setupTestDB(t)
	r := publicDealerRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers/nearby?lng=77.5946", nil))
	assert.Equal(t, 400, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers/nearby?lat=12.9716&lng=77.5946", nil))
	require.Equal(t, 200, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetDealerBikes(t *testing.T) {
	db := setupTestDB(t)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	listed := createBike(t, db, "Pulsar 150", "Bajaj", 110000)
	unavailable := createBike(t, db, "Discontinued 200", "Bajaj", 90000)
	require.NoError(t, db.Model(unavailable).Update("is_available", false).Error)
	inactive := createBike(t, db, "Apache RTR 160", "TVS", 125000)

	listings := []models.DealerBikeListing{
		{DealerID: dealer.ID, BikeID: listed.ID, AvailableForTestRide: true, AvailableForPurchase: true, OnRoadPrice: 128000, Stock: 3, IsActive: true},
		{DealerID: dealer.ID, BikeID: unavailable.ID, AvailableForTestRide: true, AvailableForPurchase: true, IsActive: true},
		{DealerID: dealer.ID, BikeID: inactive.ID, AvailableForTestRide: true, AvailableForPurchase: true, IsActive: false},
	}
	for i := range listings {
		require.NoError(t, db.Create(&listings[i]).Error)
	}

	r := publicDealerRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprintf("/dealers/%d/bikes", dealer.ID), nil))
	require.Equal(t, 200, w.Code)

	var resp struct {
		Dealer struct {
			Name string `json:"name"`
		} `json:"dealer"`
		Bikes []struct {
			ListingID   uint        `json:"listingId"`
			Bike        models.Bike `json:"bike"`
			OnRoadPrice float64     `json:"onRoadPrice"`
			Stock       int         `json:"stock"`
		} `json:"bikes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "City Motors", resp.Dealer.Name)
	require.Len(t, resp.Bikes, 1)
	assert.Equal(t, "Pulsar 150", resp.Bikes[0].Bike.Name)
	assert.Equal(t, float64(128000), resp.Bikes[0].OnRoadPrice)
	assert.Equal(t, 3, resp.Bikes[0].Stock)
}

func TestGetDealerBikesNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := publicDealerRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers/9999/bikes", nil))
	assert.Equal(t, 404, w.Code)
}

func TestGetBikeCatalogPagination(t *testing.T) {
	db := setupTestDB(t)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	user := linkedDealerUser(t, db, dealer, "owner@example.com")
	for i := 0; i < 5; i++ {
		createBike(t, db, fmt.Sprintf("Bike %d", i), "Bajaj", float64(100000+i*10000))
	}

	r := dealerDashboardRouter(db, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers/bikes?page=2&limit=2&sortBy=priceLow", nil))
	require.Equal(t, 200, w.Code)

	var resp struct {
		Bikes      []models.Bike `json:"bikes"`
		Pagination struct {
			CurrentPage int   `json:"currentPage"`
			TotalPages  int   `json:"totalPages"`
			TotalItems  int64 `json:"totalItems"`
			HasNextPage bool  `json:"hasNextPage"`
			HasPrevPage bool  `json:"hasPrevPage"`
		} `json:"pagination"`
		Filters struct {
			Brands []string `json:"brands"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bikes, 2)
	assert.Equal(t, "Bike 2", resp.Bikes[0].Name)
	assert.Equal(t, "Bike 3", resp.Bikes[1].Name)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, int64(5), resp.Pagination.TotalItems)
	assert.True(t, resp.Pagination.HasNextPage)
	assert.True(t, resp.Pagination.HasPrevPage)
	assert.Equal(t, []string{"Bajaj"}, resp.Filters.Brands)
}

func TestListBikeAndReactivate(t *testing.T) {
	db := setupTestDB(t)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	user := linkedDealerUser(t, db, dealer, "owner@example.com")
	bike := createBike(t, db, "Pulsar 150", "Bajaj", 110000)

	r := dealerDashboardRouter(db, user)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/dealers/list-bike", gin.H{"bikeId": bike.ID, "onRoadPrice": 128000}))
	require.Equal(t, 201, w.Code)
	assert.Contains(t, w.Body.String(), "Bike listed successfully")

	var listing models.DealerBikeListing
	require.NoError(t, db.Where("dealer_id = ? AND bike_id = ?", dealer.ID, bike.ID).First(&listing).Error)
	assert.True(t, listing.AvailableForTestRide)
	assert.True(t, listing.AvailableForPurchase)
	assert.Equal(t, float64(128000), listing.OnRoadPrice)

	// Remove, then list again: the same row is updated and reactivated.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("DELETE", fmt.Sprintf("/dealers/listings/%d", listing.ID), nil))
	require.Equal(t, 200, w.Code)

	require.NoError(t, db.First(&listing, listing.ID).Error)
	assert.False(t, listing.IsActive)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/dealers/list-bike", gin.H{"bikeId": bike.ID, "stock": 5}))
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Bike listing updated")

	var count int64
	db.Model(&models.DealerBikeListing{}).Where("dealer_id = ? AND bike_id = ?", dealer.ID, bike.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, db.First(&listing, listing.ID).Error)
	assert.True(t, listing.IsActive)
	assert.Equal(t, 5, listing.Stock)
	assert.Equal(t, float64(128000), listing.OnRoadPrice)
}

func TestListBikeUnknownBike(t *testing.T) {
	db := setupTestDB(t)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	user := linkedDealerUser(t, db, dealer, "owner@example.com")

	r := dealerDashboardRouter(db, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/dealers/list-bike", gin.H{"bikeId": 9999}))
	assert.Equal(t, 404, w.Code)
}

func TestUpdateListingOwnership(t *testing.T) {
	db := setupTestDB(t)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	owner := linkedDealerUser(t, db, dealer, "owner@example.com")
	otherDealer := createDealer(t, db, "Metro Wheels", "metro@example.com")
	other := linkedDealerUser(t, db, otherDealer, "metro-owner@example.com")
	admin := createUser(t, db, "Admin", "admin@example.com", string(models.RoleAdmin))
	bike := createBike(t, db, "Pulsar 150", "Bajaj", 110000)

	listing := models.DealerBikeListing{DealerID: dealer.ID, BikeID: bike.ID, AvailableForTestRide: true, AvailableForPurchase: true, IsActive: true}
	require.NoError(t, db.Create(&listing).Error)

	path := fmt.Sprintf("/dealers/listings/%d", listing.ID)
	body := gin.H{"stock": 7}

	w := httptest.NewRecorder()
	dealerDashboardRouter(db, other).ServeHTTP(w, jsonRequest("PUT", path, body))
	assert.Equal(t, 403, w.Code)

	w = httptest.NewRecorder()
	dealerDashboardRouter(db, owner).ServeHTTP(w, jsonRequest("PUT", path, body))
	require.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	dealerDashboardRouter(db, admin).ServeHTTP(w, jsonRequest("PUT", path, gin.H{"isActive": false}))
	require.Equal(t, 200, w.Code)

	var updated models.DealerBikeListing
	require.NoError(t, db.First(&updated, listing.ID).Error)
	assert.Equal(t, 7, updated.Stock)
	assert.False(t, updated.IsActive)
}

func TestGetMyListings(t *testing.T) {
	db := setupTestDB(t)
	dealer := createDealer(t, db, "City Motors", "city@example.com")
	user := linkedDealerUser(t, db, dealer, "owner@example.com")
	otherDealer := createDealer(t, db, "Metro Wheels", "metro@example.com")
	bike := createBike(t, db, "Pulsar 150", "Bajaj", 110000)

	require.NoError(t, db.Create(&models.DealerBikeListing{DealerID: dealer.ID, BikeID: bike.ID, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.DealerBikeListing{DealerID: otherDealer.ID, BikeID: bike.ID, IsActive: true}).Error)

	r := dealerDashboardRouter(db, user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers/my-listings", nil))
	require.Equal(t, 200, w.Code)

	var listings []models.DealerBikeListing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, dealer.ID, listings[0].DealerID)
}

func TestGetDealerBookingsRequiresDealer(t *testing.T) {
	db := setupTestDB(t)
	orphan := createUser(t, db, "Orphan", "orphan@example.com", string(models.RoleDealer))

	r := dealerDashboardRouter(db, orphan)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dealers/bookings", nil))
	assert.Equal(t, 404, w.Code)
}
