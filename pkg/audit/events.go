package audit

import "fmt"

// Recorder records audit events. The package-level Log function is the
// default implementation; tests substitute their own.
type Recorder interface {
	Record(event Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(event Event)

func (f RecorderFunc) Record(event Event) {
	f(event)
}

// DefaultRecorder forwards events to the package-level Log function.
var DefaultRecorder Recorder = RecorderFunc(Log)

// IdentityEvent represents an object-identity lifecycle audit event
type IdentityEvent struct {
	Class    string
	ObjectID int64
	Created  bool
}

func (e IdentityEvent) MessageID() string {
	if e.Created {
		return "identity-create"
	}
	return "identity-remove"
}

func (e IdentityEvent) Message() string {
	if e.Created {
		return fmt.Sprintf("object identity %s:%d created", e.Class, e.ObjectID)
	}
	return fmt.Sprintf("object identity %s:%d removed", e.Class, e.ObjectID)
}

func (e IdentityEvent) Severity() Severity {
	return SeverityInfo
}

func (e IdentityEvent) Facility() int {
	return FacilityAuthPriv
}

func (e IdentityEvent) StructuredData() map[string]map[string]string {
	operation := "create"
	if !e.Created {
		operation = "remove"
	}
	return map[string]map[string]string{
		SDIDSubject: {
			"class":  e.Class,
			"object": fmt.Sprintf("%d", e.ObjectID),
		},
		SDIDAction: {
			"operation": operation,
		},
	}
}

// GrantEvent represents a responsibility grant audit event
type GrantEvent struct {
	PartyID  int64
	Group    string
	Class    string
	ObjectID int64
}

func (e GrantEvent) MessageID() string {
	return "grant"
}

func (e GrantEvent) Message() string {
	return fmt.Sprintf("party %d granted %s on %s:%d", e.PartyID, e.Group, e.Class, e.ObjectID)
}

func (e GrantEvent) Severity() Severity {
	return SeverityNotice
}

func (e GrantEvent) Facility() int {
	return FacilityAuthPriv
}

func (e GrantEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"party": fmt.Sprintf("%d", e.PartyID),
		},
		SDIDGroups: {
			"group": e.Group,
		},
		SDIDSubject: {
			"class":  e.Class,
			"object": fmt.Sprintf("%d", e.ObjectID),
		},
		SDIDAction: {
			"operation": "grant",
		},
	}
}

// RevokeEvent represents a responsibility revocation audit event. Scope
// names what the revocation covered: "pair", "party" or "identity".
type RevokeEvent struct {
	Scope    string
	PartyID  int64
	Class    string
	ObjectID int64
}

func (e RevokeEvent) MessageID() string {
	return "revoke"
}

func (e RevokeEvent) Message() string {
	switch e.Scope {
	case "party":
		return fmt.Sprintf("all responsibilities of party %d revoked", e.PartyID)
	case "identity":
		return fmt.Sprintf("all responsibilities on %s:%d revoked", e.Class, e.ObjectID)
	default:
		return fmt.Sprintf("responsibility of party %d on %s:%d revoked", e.PartyID, e.Class, e.ObjectID)
	}
}

func (e RevokeEvent) Severity() Severity {
	return SeverityNotice
}

func (e RevokeEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RevokeEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAction: {
			"operation": "revoke",
			"scope":     e.Scope,
		},
	}
	if e.Scope != "identity" {
		sd[SDIDAuth] = map[string]string{"party": fmt.Sprintf("%d", e.PartyID)}
	}
	if e.Scope != "party" {
		sd[SDIDSubject] = map[string]string{
			"class":  e.Class,
			"object": fmt.Sprintf("%d", e.ObjectID),
		}
	}
	return sd
}

// CheckEvent represents a permission check audit event
type CheckEvent struct {
	PartyID  int64
	Class    string
	ObjectID int64
	Mask     string
	Allowed  bool
}

func (e CheckEvent) MessageID() string {
	return "check"
}

func (e CheckEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("party %d checked %s on %s:%d: allowed", e.PartyID, e.Mask, e.Class, e.ObjectID)
	}
	return fmt.Sprintf("party %d checked %s on %s:%d: denied", e.PartyID, e.Mask, e.Class, e.ObjectID)
}

func (e CheckEvent) Severity() Severity {
	return SeverityInfo
}

func (e CheckEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CheckEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Allowed {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"party": fmt.Sprintf("%d", e.PartyID),
		},
		SDIDSubject: {
			"class":  e.Class,
			"object": fmt.Sprintf("%d", e.ObjectID),
			"mask":   e.Mask,
		},
		SDIDAction: {
			"operation": "check",
			"result":    result,
		},
	}
}

// RefreshEvent represents an administrative cache refresh
type RefreshEvent struct{}

func (e RefreshEvent) MessageID() string {
	return "refresh"
}

func (e RefreshEvent) Message() string {
	return "acl cache cleared"
}

func (e RefreshEvent) Severity() Severity {
	return SeverityNotice
}

func (e RefreshEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RefreshEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAction: {
			"operation": "refresh",
		},
	}
}
