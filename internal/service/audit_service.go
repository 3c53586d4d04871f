package service

import (
	"context"
	"fmt"
	"strings"

	"file-concierge-be/internal/pkg/logger"
	"file-concierge-be/pkg/events"
	pktNats "file-concierge-be/pkg/nats"
)

// IAuditService drains the session-lifecycle event stream and writes an
// audit trail through the system logger.
type IAuditService interface {
	Start()
}

type auditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(sub *pktNats.Subscriber, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *auditService) Start() {
	err := s.subscriber.Subscribe("concierge.>", "audit-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("AuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("AuditService", "Audit service started, listening to concierge.>", nil)
}

func (s *auditService) handleEvent(ctx context.Context, event events.Event) error {
	// Subscriber events arrive with the subject as type, e.g. "concierge.USER_LOGIN"
	typeCode := strings.TrimPrefix(event.EventType(), "concierge.")

	s.logger.Info("AuditService", fmt.Sprintf("Event: %s", typeCode), event.Payload())
	return nil
}
