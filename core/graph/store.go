package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking-sync/core/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the model store consumed by the synchronization engine.
type Store interface {
	// GetContext returns the context node with the given name.
	GetContext(ctx context.Context, name string) (*Node, error)
	// GetNetworks returns the networks attached to a context.
	GetNetworks(ctx context.Context, contextID string) ([]Node, error)
	// GetDevices returns the devices attached to a network.
	GetDevices(ctx context.Context, networkID string) ([]Node, error)
	// GetInfo returns name, type and children of a node.
	GetInfo(ctx context.Context, id string) (*NodeInfo, error)
	// DeviceNames returns the names of every device in a context subtree.
	DeviceNames(ctx context.Context, contextID string) (map[string]struct{}, error)
	// SetEndpointValue overwrites the value of an endpoint.
	SetEndpointValue(ctx context.Context, id string, value any) error
	// UpdateData persists a whole device subtree under a network.
	UpdateData(ctx context.Context, networkID string, device DeviceSpec) (*Node, error)
}

// GormStore implements Store on top of a single GORM table.
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new store.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the node table.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&Node{}); err != nil {
		return fmt.Errorf("failed to migrate node table: %w", err)
	}
	return nil
}

// CheckSchema returns the node columns missing from the database.
func (s *GormStore) CheckSchema() ([]string, error) {
	return database.MissingColumns(s.db, Node{}.TableName(), NodeColumns)
}

// GetContext returns the context node with the given name.
func (s *GormStore) GetContext(ctx context.Context, name string) (*Node, error) {
	var node Node
	err := s.db.WithContext(ctx).
		Where("type = ? AND name = ?", TypeContext, name).
		Order("created_at").
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrContextNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query context %s: %w", name, err)
	}
	return &node, nil
}

// GetNetworks returns the networks attached to a context.
func (s *GormStore) GetNetworks(ctx context.Context, contextID string) ([]Node, error) {
	return s.children(ctx, contextID, TypeNetwork)
}

// GetDevices returns the devices attached to a network.
func (s *GormStore) GetDevices(ctx context.Context, networkID string) ([]Node, error) {
	return s.children(ctx, networkID, TypeDevice)
}

func (s *GormStore) children(ctx context.Context, parentID, nodeType string) ([]Node, error) {
	var nodes []Node
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND type = ?", parentID, nodeType).
		Order("position, name").
		Find(&nodes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s children of %s: %w", nodeType, parentID, err)
	}
	return nodes, nil
}

// GetInfo returns name, type and children of a node.
func (s *GormStore) GetInfo(ctx context.Context, id string) (*NodeInfo, error) {
	var node Node
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node %s: %w", id, err)
	}

	var childIDs []string
	err = s.db.WithContext(ctx).
		Model(&Node{}).
		Where("parent_id = ?", id).
		Order("position, name").
		Pluck("id", &childIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", id, err)
	}

	return &NodeInfo{
		ID:          node.ID,
		Name:        node.Name,
		Type:        node.Type,
		Role:        node.Role,
		DataType:    node.DataType,
		Value:       node.TypedValue(),
		ChildrenIDs: childIDs,
	}, nil
}

// DeviceNames returns the names of every device in a context subtree.
func (s *GormStore) DeviceNames(ctx context.Context, contextID string) (map[string]struct{}, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&Node{}).
		Where("context_id = ? AND type = ?", contextID, TypeDevice).
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list devices of context %s: %w", contextID, err)
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}

// SetEndpointValue overwrites the value of an endpoint.
func (s *GormStore) SetEndpointValue(ctx context.Context, id string, value any) error {
	result := s.db.WithContext(ctx).
		Model(&Node{}).
		Where("id = ? AND type = ?", id, TypeEndpoint).
		Updates(map[string]any{
			"value":      EncodeValue(value),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set value of endpoint %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: endpoint %s", ErrNodeNotFound, id)
	}
	return nil
}

// UpdateData persists a whole device subtree under a network in one transaction.
func (s *GormStore) UpdateData(ctx context.Context, networkID string, device DeviceSpec) (*Node, error) {
	var created *Node

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var network Node
		err := tx.Where("id = ? AND type = ?", networkID, TypeNetwork).First(&network).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrNetworkNotFound, networkID)
		}
		if err != nil {
			return err
		}

		var position int64
		if err := tx.Model(&Node{}).Where("parent_id = ?", networkID).Count(&position).Error; err != nil {
			return err
		}

		dev := newNode(network.ContextID, network.ID, device.Name, TypeDevice, int(position))
		nodes := []*Node{dev}

		for gi, group := range device.Groups {
			g := newNode(network.ContextID, dev.ID, group.Name, TypeEndpointGroup, gi)
			g.Role = group.Role
			nodes = append(nodes, g)

			for ei, ep := range group.Endpoints {
				e := newNode(network.ContextID, g.ID, ep.Name, TypeEndpoint, ei)
				e.DataType = ep.DataType
				e.EndpointType = ep.Type
				e.Unit = ep.Unit
				e.Value = EncodeValue(ep.Value)
				nodes = append(nodes, e)
			}
		}

		if err := tx.CreateInBatches(nodes, 200).Error; err != nil {
			return err
		}
		created = dev
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create device %s: %w", device.Name, err)
	}
	return created, nil
}

// EnsureContext returns the named context, creating it when missing.
func (s *GormStore) EnsureContext(ctx context.Context, name string) (*Node, bool, error) {
	existing, err := s.GetContext(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrContextNotFound) {
		return nil, false, err
	}

	node := newNode("", "", name, TypeContext, 0)
	node.ContextID = node.ID
	node.ParentID = nil
	if err := s.db.WithContext(ctx).Create(node).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create context %s: %w", name, err)
	}
	return node, true, nil
}

// EnsureNetwork returns the named network of a context, creating it when missing.
func (s *GormStore) EnsureNetwork(ctx context.Context, contextID, name string) (*Node, bool, error) {
	networks, err := s.GetNetworks(ctx, contextID)
	if err != nil {
		return nil, false, err
	}
	for i := range networks {
		if networks[i].Name == name {
			return &networks[i], false, nil
		}
	}

	node := newNode(contextID, contextID, name, TypeNetwork, len(networks))
	if err := s.db.WithContext(ctx).Create(node).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create network %s: %w", name, err)
	}
	return node, true, nil
}

func newNode(contextID, parentID, name, nodeType string, position int) *Node {
	n := &Node{
		ID:        uuid.NewString(),
		ContextID: contextID,
		Name:      name,
		Type:      nodeType,
		Position:  position,
	}
	if parentID != "" {
		pid := parentID
		n.ParentID = &pid
	}
	return n
}
