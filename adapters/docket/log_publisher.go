package docket

import (
	"context"
	"log"

	"github.com/evolvus/dateformats/domain"
)

// LogPublisher writes audit events to the process log. Default sink when no
// docket endpoint is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.AuditEvent) error {
	log.Printf("docket event application=%s source=%s name=%s status=%s details=%s", event.Application, event.Source, event.Name, event.Status, event.Details)
	return nil
}
