package events

import (
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/exceptions"
	"context"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

type eventPublisher struct {
	Channel *amqp091.Channel
	Queue   string
}

func NewEventPublisher(rabbitMQConnection *amqp091.Connection) (contracts.EventPublisher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(constvars.QueueClaimEvents, true, false, false, false, nil)
	if err != nil {
		return nil, err
	}

	return &eventPublisher{
		Channel: channel,
		Queue:   constvars.QueueClaimEvents,
	}, nil
}

func (p *eventPublisher) PublishClaimEvent(ctx context.Context, event contracts.ClaimEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
	}

	err = p.Channel.PublishWithContext(ctx, "", p.Queue, false, false, message)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.Queue)
	}
	return nil
}
