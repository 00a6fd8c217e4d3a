// Package kafka publishes data point batches to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Shopify/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/grafana/cloudmetrics/schema"
)

// Message is the JSON payload of one Kafka message: one published batch.
type Message struct {
	Namespace string         `json:"namespace"`
	Points    []schema.Point `json:"points"`
}

type Client struct {
	topic    string
	producer sarama.SyncProducer
}

// New connects a synchronous producer to the given brokers.
// Messages are keyed by namespace, so one namespace's batches stay ordered
// within a partition.
func New(topic string, brokers []string) (*Client, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 10
	config.Producer.Return.Successes = true
	if err := config.Validate(); err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &Client{
		topic:    topic,
		producer: producer,
	}, nil
}

// NewWithProducer wraps an existing producer. Used in tests.
func NewWithProducer(topic string, producer sarama.SyncProducer) *Client {
	return &Client{
		topic:    topic,
		producer: producer,
	}
}

func (c *Client) PutMetricData(_ context.Context, namespace string, points []schema.Point) error {
	if len(points) == 0 {
		return nil
	}
	data, err := json.Marshal(Message{
		Namespace: namespace,
		Points:    points,
	})
	if err != nil {
		return err
	}

	pre := time.Now()
	partition, offset, err := c.producer.SendMessage(&sarama.ProducerMessage{
		Topic: c.topic,
		Key:   sarama.StringEncoder(namespace),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return err
	}
	log.Debugf("kafka: published %d points for %s to partition %d offset %d in %s",
		len(points), namespace, partition, offset, time.Since(pre))
	return nil
}

func (c *Client) Close() error {
	return c.producer.Close()
}
