package types

import "fmt"

// Cache key layout: resource:qualifier:id.

func UserCacheKey(id uint) string {
	return fmt.Sprintf("users:id:%d", id)
}

func HotelsListCacheKey() string {
	return "hotels:list:all"
}

func HotelCacheKey(id uint) string {
	return fmt.Sprintf("hotels:id:%d", id)
}

func RoomsByHotelCacheKey(hotelID uint) string {
	return fmt.Sprintf("rooms:hotel:%d", hotelID)
}

func ReservationsByHotelCacheKey(hotelID uint) string {
	return fmt.Sprintf("reservations:hotel:%d", hotelID)
}

func ReservationsByCustomerCacheKey(customerID uint) string {
	return fmt.Sprintf("reservations:customer:%d", customerID)
}

func ReviewsByHotelCacheKey(hotelID uint) string {
	return fmt.Sprintf("reviews:hotel:%d", hotelID)
}
