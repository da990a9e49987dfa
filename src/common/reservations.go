package common

import (
	"context"
	"fmt"
	"hbs/src/lib"
	"log"

	"github.com/tidwall/gjson"
)

const reservationEventsLog = "reservations:events"

// ReservationEventsConsumer follows the reservation topics and keeps a
// bounded audit trail of recent events in redis.
func ReservationEventsConsumer() {
	topics := []string{
		"reservations-created",
		"reservations-confirmed",
		"reservations-cancelled",
	}
	lib.KafkaConsume("reservation-events", topics, func(topic string, value []byte) {
		id := gjson.GetBytes(value, "id").Uint()
		log.Printf("[%s] reservation %d\n", topic, id)
		rd := lib.GetRedisClient()
		if rd == nil {
			return
		}
		entry := fmt.Sprintf("%s:%d", topic, id)
		rd.LPush(context.Background(), reservationEventsLog, entry)
		rd.LTrim(context.Background(), reservationEventsLog, 0, 999)
	})
}
