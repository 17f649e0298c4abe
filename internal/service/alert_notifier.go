package service

import (
	"context"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"

	"go.uber.org/zap"
)

// AlertNotifier publishes the alerts a write made fire. A nil publisher
// turns publishing off; failures are logged and never fail the write.
type AlertNotifier struct {
	publisher port.AlertPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func NewAlertNotifier(publisher port.AlertPublisher, metrics *observability.Metrics, logger *zap.Logger) *AlertNotifier {
	return &AlertNotifier{publisher: publisher, metrics: metrics, logger: logger}
}

func (n *AlertNotifier) enabled() bool {
	return n != nil && n.publisher != nil
}

func (n *AlertNotifier) Publish(ctx context.Context, owner string, alerts []domain.Alert) {
	if !n.enabled() || len(alerts) == 0 {
		return
	}
	now := time.Now()
	for _, a := range alerts {
		err := n.publisher.PublishAlert(ctx, domain.AlertEvent{Owner: owner, Alert: a, OccurredAt: now})
		if err != nil {
			n.logger.Error("failed to publish alert",
				zap.String("user_id", owner),
				zap.String("code", string(a.Code)),
				zap.Error(err),
			)
			continue
		}
		n.metrics.IncrAlertPublished(a.Code)
	}
}
