package reconcile

import (
	"context"
	"errors"
	"path"
	"time"

	"parking-sync/core/graph"
	"parking-sync/core/metrics"

	"go.uber.org/zap"
)

// Refresh overwrites the endpoint values of every device of the target context
// from freshly fetched payloads. Structure is never modified.
//
// Devices without a facility, level groups whose level disappeared, endpoints
// absent from their mapping and children of an unexpected type are skipped and
// listed in the report. Any store error aborts the pass.
func (r *Reconciler) Refresh(ctx context.Context, target Target) (*RefreshReport, error) {
	report := &RefreshReport{
		StartedAt:        time.Now(),
		SkippedDevices:   []string{},
		UnmatchedGroups:  []string{},
		MissingEndpoints: []string{},
		SkippedNodes:     []string{},
	}

	summary, detail, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	report.Facilities = BuildFacilities(summary, detail)
	facilities := indexFacilities(report.Facilities)

	networks, err := r.store.GetNetworks(ctx, target.ContextID)
	if err != nil {
		return nil, err
	}

	for _, network := range networks {
		devices, err := r.store.GetDevices(ctx, network.ID)
		if err != nil {
			return nil, err
		}
		for _, device := range devices {
			if err := r.refreshDevice(ctx, device, facilities, report); err != nil {
				return nil, err
			}
		}
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

func (r *Reconciler) refreshDevice(ctx context.Context, device graph.Node, facilities map[string]*Facility, report *RefreshReport) error {
	report.Devices++

	facility, ok := facilities[device.Name]
	if !ok {
		r.logger.Debug("No facility for device", zap.String("device", device.Name))
		report.SkippedDevices = append(report.SkippedDevices, device.Name)
		metrics.Skipped.WithLabelValues("unmatched_device").Inc()
		return nil
	}

	info, err := r.store.GetInfo(ctx, device.ID)
	if err != nil {
		return err
	}

	groups, skipped, err := r.partition(ctx, info.ChildrenIDs, graph.TypeEndpointGroup)
	if err != nil {
		return err
	}
	report.skip(skipped)

	for _, group := range groups {
		role := ResolveRole(group.Role, group.Name)
		mapping, ok := facility.Mapping(role)
		if !ok {
			r.logger.Warn("No source data for endpoint group",
				zap.String("device", device.Name),
				zap.String("group", group.Name),
			)
			report.UnmatchedGroups = append(report.UnmatchedGroups, path.Join(device.Name, group.Name))
			metrics.Skipped.WithLabelValues("unmatched_group").Inc()
			continue
		}

		endpoints, skipped, err := r.partition(ctx, group.ChildrenIDs, graph.TypeEndpoint)
		if err != nil {
			return err
		}
		report.skip(skipped)

		for _, endpoint := range endpoints {
			value, ok := mapping[endpoint.Name]
			if !ok {
				report.MissingEndpoints = append(report.MissingEndpoints, path.Join(device.Name, group.Name, endpoint.Name))
				metrics.Skipped.WithLabelValues("missing_endpoint").Inc()
				continue
			}

			if err := r.store.SetEndpointValue(ctx, endpoint.ID, value); err != nil {
				return err
			}
			report.Updated++
			metrics.EndpointUpdates.Inc()
			r.logger.Debug("Endpoint updated",
				zap.String("device", device.Name),
				zap.String("group", group.Name),
				zap.String("endpoint", endpoint.Name),
				zap.Any("value", value),
			)
		}
	}

	return nil
}

// partition splits child ids into the nodes of the wanted type and the ids of
// everything else. Ids that no longer resolve are treated as skipped.
func (r *Reconciler) partition(ctx context.Context, ids []string, wantType string) ([]graph.NodeInfo, []string, error) {
	valid := make([]graph.NodeInfo, 0, len(ids))
	var skipped []string

	for _, id := range ids {
		info, err := r.store.GetInfo(ctx, id)
		if errors.Is(err, graph.ErrNodeNotFound) {
			skipped = append(skipped, id)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if info.Type != wantType {
			skipped = append(skipped, id)
			continue
		}
		valid = append(valid, *info)
	}

	return valid, skipped, nil
}

func (rep *RefreshReport) skip(ids []string) {
	if len(ids) == 0 {
		return
	}
	rep.SkippedNodes = append(rep.SkippedNodes, ids...)
	metrics.Skipped.WithLabelValues("foreign_node").Add(float64(len(ids)))
}
