package domain

import "time"

// AuditOutcome records how a gated action ended.
type AuditOutcome string

const (
	OutcomeAllowed AuditOutcome = "allowed"
	OutcomeDenied  AuditOutcome = "denied"
	OutcomeFailed  AuditOutcome = "failed"
)

// AuditEntry is one administrative action attempted through the console.
type AuditEntry struct {
	Actor     string       `json:"actor" bson:"actor"`
	Role      Role         `json:"role" bson:"role"`
	Resource  string       `json:"resource" bson:"resource"`
	Operation string       `json:"operation" bson:"operation"`
	TargetID  string       `json:"target_id,omitempty" bson:"target_id,omitempty"`
	Outcome   AuditOutcome `json:"outcome" bson:"outcome"`
	Detail    string       `json:"detail,omitempty" bson:"detail,omitempty"`
	At        time.Time    `json:"at" bson:"at"`
}
