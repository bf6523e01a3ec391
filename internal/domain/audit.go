package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one audit trail row for compliance and debugging.
type AuditLog struct {
	ID           string
	ActorID      string
	ActorName    string
	ActorRole    ActorRole
	Action       string
	ResourceType string
	ResourceID   string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionMutationApply   AuditAction = "mutation.apply"
	AuditActionMutationReverse AuditAction = "mutation.reverse"
	AuditActionExchangeExecute AuditAction = "exchange.execute"
	AuditActionHawalaSend      AuditAction = "hawala.send"
	AuditActionHawalaReceive   AuditAction = "hawala.receive"
	AuditActionSubTransaction  AuditAction = "subaccount.transaction"
	AuditActionCodeClaim       AuditAction = "code.claim"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
