package graph

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// EndpointView is a read model of an endpoint and its current value.
type EndpointView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DataType  DataType  `json:"data_type"`
	Value     any       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupView is a read model of an endpoint group.
type GroupView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Role      string         `json:"role"`
	Endpoints []EndpointView `json:"endpoints"`
}

// DeviceView is a read model of a device subtree.
type DeviceView struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Network string      `json:"network"`
	Groups  []GroupView `json:"groups"`
}

// Devices loads every device subtree of a context in a single query.
func (s *GormStore) Devices(ctx context.Context, contextID string) ([]DeviceView, error) {
	var nodes []Node
	err := s.db.WithContext(ctx).
		Where("context_id = ?", contextID).
		Order("position, name").
		Find(&nodes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load context %s: %w", contextID, err)
	}
	return buildDeviceViews(nodes), nil
}

func buildDeviceViews(nodes []Node) []DeviceView {
	byParent := make(map[string][]Node)
	names := make(map[string]string)
	for _, n := range nodes {
		names[n.ID] = n.Name
		if n.ParentID != nil {
			byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
		}
	}

	devices := []DeviceView{}
	for _, n := range nodes {
		if n.Type != TypeDevice {
			continue
		}
		dv := DeviceView{ID: n.ID, Name: n.Name, Groups: []GroupView{}}
		if n.ParentID != nil {
			dv.Network = names[*n.ParentID]
		}
		for _, g := range byParent[n.ID] {
			if g.Type != TypeEndpointGroup {
				continue
			}
			gv := GroupView{ID: g.ID, Name: g.Name, Role: g.Role, Endpoints: []EndpointView{}}
			for _, e := range byParent[g.ID] {
				if e.Type != TypeEndpoint {
					continue
				}
				gv.Endpoints = append(gv.Endpoints, EndpointView{
					ID:        e.ID,
					Name:      e.Name,
					DataType:  e.DataType,
					Value:     e.TypedValue(),
					UpdatedAt: e.UpdatedAt,
				})
			}
			dv.Groups = append(dv.Groups, gv)
		}
		devices = append(devices, dv)
	}

	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].Network != devices[j].Network {
			return devices[i].Network < devices[j].Network
		}
		return devices[i].Name < devices[j].Name
	})
	return devices
}
