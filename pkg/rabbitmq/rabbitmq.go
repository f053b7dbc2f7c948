package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// DefaultQueue carries media cleanup requests.
const DefaultQueue = "media_cleanup"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// FileDeletion is the message published when a stored image should go away.
type FileDeletion struct {
	Path        string    `json:"path"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the cleanup queue.
func NewClient(cfg Config) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declare(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared.", queue)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
	}, nil
}

func declare(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// EncodeFileDeletion builds the message body for a deletion request.
func EncodeFileDeletion(path string, at time.Time) ([]byte, error) {
	body, err := json.Marshal(FileDeletion{Path: path, RequestedAt: at})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file deletion: %w", err)
	}
	return body, nil
}

// DecodeFileDeletion parses a message body produced by EncodeFileDeletion.
func DecodeFileDeletion(body []byte) (FileDeletion, error) {
	var msg FileDeletion
	if err := json.Unmarshal(body, &msg); err != nil {
		return FileDeletion{}, fmt.Errorf("failed to unmarshal file deletion: %w", err)
	}
	if msg.Path == "" {
		return FileDeletion{}, fmt.Errorf("file deletion message has no path")
	}
	return msg, nil
}

// PublishFileDeletion queues the removal of a stored image.
func (c *Client) PublishFileDeletion(path string) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	now := time.Now()
	body, err := EncodeFileDeletion(path, now)
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Queued file deletion: %s", path)
	return nil
}

// ConsumeFileDeletions starts a goroutine that hands every deletion request
// to handler. Messages are acked on success; failures and undecodable
// messages are dropped (nack without requeue) so one bad file cannot loop.
func (c *Client) ConsumeFileDeletions(handler func(FileDeletion) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declare(c.channel, c.queue)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for file deletions on %s", queue.Name)

	go func() {
		for msg := range msgs {
			if err := handleDelivery(msg.Body, handler); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, false); nackErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}

func handleDelivery(body []byte, handler func(FileDeletion) error) error {
	msg, err := DecodeFileDeletion(body)
	if err != nil {
		return err
	}
	return handler(msg)
}
