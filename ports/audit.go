package ports

import (
	"context"

	"github.com/evolvus/dateformats/domain"
)

// AuditPublisher delivers audit events to the docket sink. Publish failures
// must never affect the outcome of the operation being audited.
type AuditPublisher interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
}
