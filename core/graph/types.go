package graph

import (
	"errors"
	"time"

	"parking-sync/core/utils"
)

// Node type discriminators persisted in the type column.
const (
	TypeContext       = "BmsContext"
	TypeNetwork       = "BmsNetwork"
	TypeDevice        = "BmsDevice"
	TypeEndpointGroup = "BmsEndpointGroup"
	TypeEndpoint      = "BmsEndpoint"
)

// DataType tags how an endpoint value is encoded.
type DataType string

const (
	DataTypeInteger DataType = "Integer"
	DataTypeBoolean DataType = "Boolean"
	DataTypeFloat   DataType = "Float"
	DataTypeString  DataType = "String"
)

// EndpointTypeOccupation is the semantic tag of occupancy measurements.
const EndpointTypeOccupation = "Occupation"

var (
	// ErrContextNotFound is returned when no context carries the requested name.
	ErrContextNotFound = errors.New("context not found")
	// ErrNetworkNotFound is returned when a network is missing or has the wrong type.
	ErrNetworkNotFound = errors.New("network not found")
	// ErrNodeNotFound is returned when a node id does not resolve.
	ErrNodeNotFound = errors.New("node not found")
)

// Node is a single row of the hierarchical model.
// Every node records the id of the context it belongs to so that a whole
// subtree can be queried without walking parent pointers.
type Node struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	ContextID    string    `gorm:"column:context_id;size:36;index"`
	ParentID     *string   `gorm:"column:parent_id;size:36;index"`
	Name         string    `gorm:"column:name;size:255;index"`
	Type         string    `gorm:"column:type;size:64;index"`
	Role         string    `gorm:"column:role;size:32"`
	DataType     DataType  `gorm:"column:data_type;size:16"`
	EndpointType string    `gorm:"column:endpoint_type;size:64"`
	Unit         string    `gorm:"column:unit;size:32"`
	Value        string    `gorm:"column:value;type:text"`
	Position     int       `gorm:"column:position"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Node) TableName() string {
	return "graph_nodes"
}

// NodeColumns lists the columns the store relies on.
var NodeColumns = []string{
	"id", "context_id", "parent_id", "name", "type", "role",
	"data_type", "endpoint_type", "unit", "value", "position",
}

// TypedValue returns the stored value converted to its declared data type.
func (n Node) TypedValue() any {
	return DecodeValue(n.DataType, n.Value)
}

// NodeInfo is the light view of a node returned by GetInfo.
type NodeInfo struct {
	ID          string
	Name        string
	Type        string
	Role        string
	DataType    DataType
	Value       any
	ChildrenIDs []string
}

// DeviceSpec describes a device subtree to persist in one UpdateData call.
type DeviceSpec struct {
	Name   string
	Groups []GroupSpec
}

// GroupSpec describes an endpoint group and its endpoints.
type GroupSpec struct {
	Name      string
	Role      string
	Endpoints []EndpointSpec
}

// EndpointSpec describes a leaf endpoint.
type EndpointSpec struct {
	Name     string
	Value    any
	Unit     string
	DataType DataType
	Type     string
}

// EncodeValue renders a value for the value column.
func EncodeValue(v any) string {
	return utils.ToString(v)
}

// DecodeValue converts a stored value back to its declared data type.
func DecodeValue(dt DataType, raw string) any {
	switch dt {
	case DataTypeInteger:
		return utils.ToInt(raw)
	case DataTypeBoolean:
		return utils.ToBool(raw)
	case DataTypeFloat:
		return utils.ToFloat(raw)
	default:
		return raw
	}
}
