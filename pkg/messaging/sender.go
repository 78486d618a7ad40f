package messaging

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

func topicName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

// DefineTopic declares the exchange for a topic together with a durable
// queue bound to it, so published messages are retained until a worker
// picks them up. Declarations are idempotent, callers do not need to
// coordinate who goes first.
func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := topicName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return err
	}
	return ch.QueueBind(name, name, name, false, nil)
}

// SendChange publishes one JSON message to the topic. The topic is declared
// on the same channel before the publish: a publish to a missing exchange
// closes the channel asynchronously and the message is lost without an
// error surfacing here.
func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err := DefineTopic(ch, prefix, topic); err != nil {
		return err
	}
	name := topicName(prefix, topic)
	return ch.Publish(
		name,
		name,
		true, // mandatory
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
