package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Audit event statuses.
const (
	AuditStatusSuccess = "SUCCESS"
	AuditStatusFailure = "FAILURE"
)

// AuditEvent is a single fire-and-forget notification to the docket service.
// A fresh value is built per call; events are never shared or mutated after
// construction.
type AuditEvent struct {
	Application   string    `json:"application"`
	Source        string    `json:"source"`
	Name          string    `json:"name"`
	CreatedBy     string    `json:"createdBy"`
	IPAddress     string    `json:"ipAddress"`
	Status        string    `json:"status"`
	EventDateTime time.Time `json:"eventDateTime"`
	KeyDataAsJSON string    `json:"keyDataAsJSON"`
	Details       string    `json:"details"`
	Level         string    `json:"level"`
}

// NewAuditEvent builds an event with the key data serialized to JSON. Key data
// that cannot be marshalled is recorded as a quoted placeholder rather than
// failing the caller.
func NewAuditEvent(application, source, name, actor, ipAddress, status string, keyData any, details string) AuditEvent {
	var keyJSON string
	switch v := keyData.(type) {
	case string:
		keyJSON = v
	default:
		b, err := json.Marshal(keyData)
		if err != nil {
			keyJSON = fmt.Sprintf("%q", fmt.Sprint(keyData))
		} else {
			keyJSON = string(b)
		}
	}
	return AuditEvent{
		Application:   application,
		Source:        source,
		Name:          name,
		CreatedBy:     actor,
		IPAddress:     ipAddress,
		Status:        status,
		EventDateTime: time.Now().UTC(),
		KeyDataAsJSON: keyJSON,
		Details:       details,
	}
}
