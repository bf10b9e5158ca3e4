package reconcile

import (
	"context"
	"fmt"

	"parking-sync/core/graph"
	"parking-sync/core/metrics"
	"parking-sync/core/source"

	"go.uber.org/zap"
)

// Reconciler maps the upstream car park payloads onto the model store.
type Reconciler struct {
	store  graph.Store
	source source.Client
	logger *zap.Logger
}

// New creates a new reconciler.
func New(store graph.Store, src source.Client, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:  store,
		source: src,
		logger: logger,
	}
}

// Discover resolves the context by name and the network devices are attached to.
// A missing context or network is fatal to startup and wrapped around
// graph.ErrContextNotFound or graph.ErrNetworkNotFound.
func (r *Reconciler) Discover(ctx context.Context, contextName string) (Target, error) {
	c, err := r.store.GetContext(ctx, contextName)
	if err != nil {
		return Target{}, err
	}

	networks, err := r.store.GetNetworks(ctx, c.ID)
	if err != nil {
		return Target{}, err
	}
	if len(networks) == 0 {
		return Target{}, fmt.Errorf("%w: context %s has no network", graph.ErrNetworkNotFound, contextName)
	}

	return Target{ContextID: c.ID, NetworkID: networks[0].ID}, nil
}

// Fetch retrieves both upstream payloads. Errors propagate untouched.
func (r *Reconciler) Fetch(ctx context.Context) (*source.Summary, *source.DetailedState, error) {
	summary, err := r.source.FetchSummary(ctx)
	if err != nil {
		return nil, nil, err
	}
	detail, err := r.source.FetchDetailedState(ctx)
	if err != nil {
		return nil, nil, err
	}
	return summary, detail, nil
}

// Sync fetches the payloads and creates the devices missing from the target context.
func (r *Reconciler) Sync(ctx context.Context, target Target) (*TreeReport, error) {
	summary, detail, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := r.store.DeviceNames(ctx, target.ContextID)
	if err != nil {
		return nil, err
	}

	return r.EnsureTree(ctx, target, existing, summary, detail)
}

// EnsureTree creates a device subtree for every facility of the summary whose
// name is not in existing. Existing devices are left as they are. Each device
// is written with a single UpdateData call; the first failing write aborts the
// remaining facilities and devices already created are kept.
func (r *Reconciler) EnsureTree(
	ctx context.Context,
	target Target,
	existing map[string]struct{},
	summary *source.Summary,
	detail *source.DetailedState,
) (*TreeReport, error) {
	report := &TreeReport{Created: []string{}, Existing: []string{}}

	seen := make(map[string]struct{}, len(existing))
	for name := range existing {
		seen[name] = struct{}{}
	}

	for _, f := range BuildFacilities(summary, detail) {
		if _, ok := seen[f.Name]; ok {
			r.logger.Debug("Device already exists", zap.String("facility", f.Name))
			report.Existing = append(report.Existing, f.Name)
			continue
		}

		spec := BuildDevice(f)
		if _, err := r.store.UpdateData(ctx, target.NetworkID, spec); err != nil {
			return report, fmt.Errorf("failed to create facility %s: %w", f.Name, err)
		}

		seen[f.Name] = struct{}{}
		report.Created = append(report.Created, f.Name)
		metrics.DevicesCreated.Inc()
		r.logger.Info("Created device",
			zap.String("facility", f.Name),
			zap.Int("groups", len(spec.Groups)),
		)
	}

	return report, nil
}

// BuildDevice describes the device subtree of a facility: the Total group,
// the Occupations group, then one group per level.
func BuildDevice(f Facility) graph.DeviceSpec {
	device := graph.DeviceSpec{Name: f.Name}

	total := graph.GroupSpec{Name: GroupTotal, Role: TotalRole().String()}
	for _, key := range sortedKeys(f.Summary) {
		total.Endpoints = append(total.Endpoints, intEndpoint(key, f.Summary[key]))
	}
	device.Groups = append(device.Groups, total)

	occupations := graph.GroupSpec{Name: GroupOccupations, Role: OccupationsRole().String()}
	for _, stall := range f.Stalls {
		occupations.Endpoints = append(occupations.Endpoints, graph.EndpointSpec{
			Name:     stall.Name,
			Value:    f.Occupations[stall.Name],
			DataType: graph.DataTypeBoolean,
			Type:     graph.EndpointTypeOccupation,
		})
	}
	device.Groups = append(device.Groups, occupations)

	for _, lvl := range f.Levels {
		role := LevelRole(lvl.Name)
		group := graph.GroupSpec{Name: role.GroupName(), Role: role.String()}
		for _, key := range sortedKeys(lvl.Counts) {
			group.Endpoints = append(group.Endpoints, intEndpoint(key, lvl.Counts[key]))
		}
		device.Groups = append(device.Groups, group)
	}

	return device
}

func intEndpoint(name string, value int) graph.EndpointSpec {
	return graph.EndpointSpec{
		Name:     name,
		Value:    value,
		DataType: graph.DataTypeInteger,
		Type:     graph.EndpointTypeOccupation,
	}
}
