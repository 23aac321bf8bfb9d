// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/dhammaseva/center-console/internal/queue"
)

// PublishSeatingAssigned publishes a SeatingAssignedEvent to the
// "seating.assigned" queue. The function attempts to be robust and
// to never panic; any error is logged and returned so the caller can
// choose to ignore it. Messages are marked as persistent.
func PublishSeatingAssigned(ctx context.Context, event q.SeatingAssignedEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal seating event failed: %v", err)
        return err
    }
    return publish(ctx, "seating.assigned", body)
}

// PublishGateCheckIn publishes a GateCheckInEvent to the "gate.checkin"
// queue. Same contract as PublishSeatingAssigned: log, return, never panic.
func PublishGateCheckIn(ctx context.Context, event q.GateCheckInEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal check-in event failed: %v", err)
        return err
    }
    return publish(ctx, "gate.checkin", body)
}

// publish dials the broker, declares the durable queue (idempotent) and sends
// one persistent JSON message. Connections are short-lived on purpose: events
// are rare relative to HTTP traffic and a cached channel would need its own
// reconnect machinery.
func publish(ctx context.Context, queueName string, body []byte) error {
    conn, err := amqp.Dial(q.BrokerURL())
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queueName, // name
        true,      // durable
        false,     // autoDelete
        false,     // exclusive
        false,     // noWait
        nil,       // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",        // default exchange
        queueName, // routing key = queue name
        false,     // mandatory
        false,     // immediate
        pub,
    ); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }

    return nil
}
