// Package handlerwrapper adapts typed event handlers to watermill handler
// functions.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MetadataTopic names the subject an outgoing message is routed to.
	MetadataTopic = "topic"
	// MetadataCorrelationID carries the correlation id across handlers.
	MetadataCorrelationID = "correlation_id"
)

// Result is an outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the incoming JSON payload into T, runs the
// handler and encodes its results as outgoing messages. Malformed payloads
// are logged and acked; handler errors are returned so the router nacks.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := msg.Metadata.Get(MetadataCorrelationID)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		ctx := attr.WithCorrelationID(msg.Context(), correlationID)

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Dropping malformed message",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			m, err := NewMessage(r, correlationID)
			if err != nil {
				span.RecordError(err)
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, m)
		}
		return out, nil
	}
}

// NewMessage encodes a result as a watermill message routed by its topic.
func NewMessage(r Result, correlationID string) (*message.Message, error) {
	if r.Topic == "" {
		return nil, fmt.Errorf("result has no topic")
	}
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", r.Topic, err)
	}

	m := message.NewMessage(watermill.NewUUID(), body)
	for k, v := range r.Metadata {
		m.Metadata.Set(k, v)
	}
	m.Metadata.Set(MetadataTopic, r.Topic)
	if correlationID != "" {
		m.Metadata.Set(MetadataCorrelationID, correlationID)
	}
	return m, nil
}
