// Package events publishes and consumes company change notifications on Kafka.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	queueSize       = 1000
	topicPartitions = 3
	flushTimeout    = 5 * time.Second
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated EventType = "company_created"
	CompanyDeleted EventType = "company_deleted"
)

type Event struct {
	Type    EventType       `json:"type"`
	Company *models.Company `json:"company"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events from a bounded queue so that a request never
// waits on the broker. Events still queued at Close are flushed first.
type Producer struct {
	writer KafkaWriter
	queue  chan Event
	stop   chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	if err := ensureTopic(brokers[0], topic, logger); err != nil {
		return nil, err
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)
	p.start()
	return p, nil
}

// ensureTopic creates topic when the broker allows it. An existing topic is
// not an error.
func ensureTopic(broker, topic string, logger *zap.Logger) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     topicPartitions,
		ReplicationFactor: 1,
	}); err != nil {
		logger.Warn("Topic not created", zap.String("topic", topic), zap.Error(err))
	}
	return nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer: writer,
		queue:  make(chan Event, queueSize),
		stop:   make(chan struct{}),
		logger: logger.Named("kafka_producer"),
	}
}

// Produce enqueues an event, dropping it when the queue is full.
func (p *Producer) Produce(eventType EventType, company *models.Company) {
	select {
	case p.queue <- Event{Type: eventType, Company: company}:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("company_id", company.ID),
		)
	}
}

func (p *Producer) start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.publishLoop()
	}()
}

func (p *Producer) publishLoop() {
	for {
		select {
		case event := <-p.queue:
			p.sendEvent(context.Background(), event)
		case <-p.stop:
			return
		}
	}
}

// flush sends whatever is left in the queue without waiting for more.
func (p *Producer) flush(ctx context.Context) {
	for {
		select {
		case event := <-p.queue:
			p.sendEvent(ctx, event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("company_id", event.Company.ID),
		)
		return
	}

	msg := kafka.Message{Key: []byte(event.Company.ID), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("company_id", event.Company.ID),
		)
	}
}

// Close stops the publish loop, flushes queued events and closes the writer.
func (p *Producer) Close() {
	close(p.stop)
	p.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	p.flush(ctx)

	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards every event. It is used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Produce(EventType, *models.Company) {}
