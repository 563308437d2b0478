package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"backend/internal/models"
)

const (
	subjectOrderCreated  = "orders.created"
	subjectStatusChanged = "orders.status_changed"
)

// Publisher emits order lifecycle events over NATS. A nil *Publisher is
// valid and publishes nothing, so the service runs without a broker.
type Publisher struct {
	nc *nats.Conn
}

func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("storefront-backend"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Println("[EVENTS] [ERROR] NATS disconnected:", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Println("[EVENTS] [INFO] NATS reconnected:", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}

	log.Println("[EVENTS] [INFO] connected to NATS:", url)
	return &Publisher{nc: nc}, nil
}

func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}

type orderCreatedEvent struct {
	EventID        string    `json:"eventId"`
	OrderID        string    `json:"orderId"`
	UserID         string    `json:"userId"`
	TrackingNumber string    `json:"trackingNumber"`
	TotalAmount    float64   `json:"totalAmount"`
	CreatedAt      time.Time `json:"createdAt"`
}

type statusChangedEvent struct {
	EventID   string    `json:"eventId"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
}

// OrderCreated publishes fire-and-forget; delivery is best effort and
// failures only log.
func (p *Publisher) OrderCreated(order models.Order, trackingNumber string) {
	if p == nil || p.nc == nil {
		return
	}

	p.publish(subjectOrderCreated, orderCreatedEvent{
		EventID:        uuid.NewString(),
		OrderID:        order.ID.Hex(),
		UserID:         order.UserID.Hex(),
		TrackingNumber: trackingNumber,
		TotalAmount:    order.TotalAmount,
		CreatedAt:      order.CreatedAt,
	})
}

// StatusChanged publishes a tracking transition, same best-effort contract
// as OrderCreated.
func (p *Publisher) StatusChanged(orderID, status string) {
	if p == nil || p.nc == nil {
		return
	}

	p.publish(subjectStatusChanged, statusChangedEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		Status:    status,
		ChangedAt: time.Now(),
	})
}

func (p *Publisher) publish(subject string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("[EVENTS] [ERROR] marshal event failed:", err)
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		log.Printf("[EVENTS] [ERROR] publish %s failed: %v", subject, err)
	}
}
