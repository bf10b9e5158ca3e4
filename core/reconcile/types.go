package reconcile

import (
	"time"
)

// Group names of the two fixed endpoint groups.
const (
	GroupTotal       = "Total"
	GroupOccupations = "Occupations"
)

// OccupationPrefix prefixes the endpoint name of every stall.
const OccupationPrefix = "Occupation-"

// RoleKind tells which source mapping feeds an endpoint group.
type RoleKind int

const (
	// RoleUnknown marks a group whose role could not be resolved.
	RoleUnknown RoleKind = iota
	// RoleTotal groups are fed by the car park summary counts.
	RoleTotal
	// RoleOccupations groups are fed by the joined stall states.
	RoleOccupations
	// RoleLevel groups are fed by the counts of the level of the same name.
	RoleLevel
)

// Persisted role attribute values.
const (
	roleTotal       = "total"
	roleOccupations = "occupations"
	roleLevel       = "level"
)

// Role is the resolved role of an endpoint group. Level is only set for RoleLevel.
type Role struct {
	Kind  RoleKind
	Level string
}

// TotalRole returns the role of the Total group.
func TotalRole() Role { return Role{Kind: RoleTotal} }

// OccupationsRole returns the role of the Occupations group.
func OccupationsRole() Role { return Role{Kind: RoleOccupations} }

// LevelRole returns the role of the group of a level.
func LevelRole(name string) Role { return Role{Kind: RoleLevel, Level: name} }

// String returns the value persisted on the group node.
func (r Role) String() string {
	switch r.Kind {
	case RoleTotal:
		return roleTotal
	case RoleOccupations:
		return roleOccupations
	case RoleLevel:
		return roleLevel
	default:
		return ""
	}
}

// GroupName returns the name of the group node carrying this role.
func (r Role) GroupName() string {
	switch r.Kind {
	case RoleTotal:
		return GroupTotal
	case RoleOccupations:
		return GroupOccupations
	default:
		return r.Level
	}
}

// ResolveRole rebuilds the role of a group node from its persisted role
// attribute. Groups created before roles were persisted fall back to their name.
func ResolveRole(stored, name string) Role {
	switch stored {
	case roleTotal:
		return TotalRole()
	case roleOccupations:
		return OccupationsRole()
	case roleLevel:
		return LevelRole(name)
	}

	switch name {
	case GroupTotal:
		return TotalRole()
	case GroupOccupations:
		return OccupationsRole()
	case "":
		return Role{}
	default:
		return LevelRole(name)
	}
}

// Target locates the part of the store the engine works on.
type Target struct {
	// ContextID is the context whose subtree is reconciled.
	ContextID string `json:"context_id"`
	// NetworkID is the network new devices are attached to.
	NetworkID string `json:"network_id"`
}

// TreeReport is the outcome of one EnsureTree pass.
type TreeReport struct {
	// Created lists the facilities whose device was created.
	Created []string `json:"created"`
	// Existing lists the facilities that already had a device.
	Existing []string `json:"existing"`
}

// RefreshReport is the outcome of one Refresh pass.
type RefreshReport struct {
	// StartedAt is when the pass started.
	StartedAt time.Time `json:"started_at"`
	// Duration is how long the pass took.
	Duration time.Duration `json:"duration"`
	// Devices is the number of devices visited.
	Devices int `json:"devices"`
	// Updated is the number of endpoint values written.
	Updated int `json:"updated"`
	// SkippedDevices lists devices without a facility in the latest fetch.
	SkippedDevices []string `json:"skipped_devices"`
	// UnmatchedGroups lists level groups ("device/group") whose level is gone from the source.
	UnmatchedGroups []string `json:"unmatched_groups"`
	// MissingEndpoints lists endpoints ("device/group/endpoint") absent from their source mapping.
	MissingEndpoints []string `json:"missing_endpoints"`
	// SkippedNodes lists ids of children that are not groups or endpoints.
	SkippedNodes []string `json:"skipped_nodes"`

	// Facilities holds the joined records the pass was computed from.
	Facilities []Facility `json:"-"`
}
