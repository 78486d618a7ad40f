package main

import (
	"encoding/json"
	"log"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-store/pkg/checkout"
	"github.com/matst80/slask-store/pkg/messaging"
)

// Tails the order_created topic, useful while testing the checkout flow
// and as a starting point for a fulfillment worker.
func main() {
	rabbitUrl := os.Getenv("RABBIT_URL")
	if rabbitUrl == "" {
		log.Fatalf("No rabbit url provided")
	}

	conn, err := amqp.Dial(rabbitUrl)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open channel: %v", err)
	}

	err = messaging.ListenToTopic(ch, "global", messaging.OrderCreated, func(d amqp.Delivery) error {
		var order checkout.Order
		if err := json.Unmarshal(d.Body, &order); err != nil {
			return err
		}
		log.Printf("order %s: user %s, %d items, total %d (%s)",
			order.Id, order.UserId, len(order.Items), order.TotalPrice, order.PaymentMethod)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to listen for orders: %v", err)
	}

	log.Println("Listening for orders")
	select {}
}
