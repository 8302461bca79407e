package rabbitmq

import (
	"os"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogProductEvent(t *testing.T) {
	err := LogProductEvent(amqp.Delivery{
		Type: "product.created",
		Body: []byte(`{"type":"product.created","productId":"p1","occurredAt":"2024-01-01T00:00:00.000Z"}`),
	})
	assert.NoError(t, err)

	err = LogProductEvent(amqp.Delivery{Body: []byte("not json")})
	assert.Error(t, err)
}

// TestClient_PublishAndConsume needs a broker; set RABBITMQ_TEST_URL to run it.
func TestClient_PublishAndConsume(t *testing.T) {
	url := os.Getenv("RABBITMQ_TEST_URL")
	if url == "" {
		t.Skip("RABBITMQ_TEST_URL not set")
	}

	client, err := NewClient(Config{URL: url})
	require.NoError(t, err)
	defer client.Close()

	received := make(chan amqp.Delivery, 1)
	require.NoError(t, client.ConsumeProductEvents(func(msg amqp.Delivery) error {
		select {
		case received <- msg:
		default:
		}
		return nil
	}))

	require.NoError(t, client.PublishEvent("product.deleted", []byte(`{"type":"product.deleted","productId":"p9"}`)))

	select {
	case msg := <-received:
		assert.Equal(t, "product.deleted", msg.Type)
		assert.Equal(t, "application/json", msg.ContentType)
	case <-time.After(5 * time.Second):
		t.Fatal("no product event received")
	}
}
