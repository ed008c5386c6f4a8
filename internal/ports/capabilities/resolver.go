package capabilities

import "context"

type Capability string

const (
	DashboardRead  Capability = "dashboard:read"
	DogsWrite      Capability = "dogs:write"
	RequestsTriage Capability = "requests:triage"
	FilesUpload    Capability = "files:upload"
)

// CapabilityCheck es la pregunta que se le hace al resolver.
type CapabilityCheck struct {
	Subject    string
	Role       string
	Capability Capability
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
