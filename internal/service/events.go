package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/bodega/internal/mykafka"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

const publishTimeout = 5 * time.Second

// publish is best effort: a failed publish is logged and never fails the
// caller.
func publish(ctx context.Context, p mykafka.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if _, ok := event["at"]; !ok {
		event["at"] = time.Now().UTC()
	}
	if err := p.PublishEvent(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}
