package messaging

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareBindAndConsume starts consuming the durable topic queue. The topic
// is declared first so a listener can come up before any publisher exists.
// Consuming the named queue rather than an exclusive one means messages
// published while no worker was running are still delivered.
func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	if err := DefineTopic(ch, prefix, topic); err != nil {
		return nil, err
	}
	return ch.Consume(
		topicName(prefix, topic),
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

// ListenToTopic consumes the topic in a goroutine, acking each message the
// handler processed. A handler error stops the listener and leaves the
// message unacked for redelivery.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	deliveries, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			if err := handler(d); err != nil {
				log.Printf("Error processing message: %v", err)
				return
			}
			d.Ack(false)
		}
	}(deliveries)
	return nil
}
