package checks

import (
	"context"
	"fmt"
	"sort"

	"parking-sync/core/source"
)

// DeviceNamer lists the device names of a context.
type DeviceNamer interface {
	DeviceNames(ctx context.Context, contextID string) (map[string]struct{}, error)
}

// DriftReport compares the car parks of the source with the persisted devices.
type DriftReport struct {
	Matched    bool `json:"matched"`
	Facilities int  `json:"facilities"`
	Devices    int  `json:"devices"`
	// MissingDevices are car parks without a device; the next reconciliation creates them.
	MissingDevices []string `json:"missing_devices"`
	// OrphanDevices are devices without a car park; refreshes skip them.
	OrphanDevices []string `json:"orphan_devices"`
}

// CheckDrift fetches the summary payload and diffs its car park names against the devices.
func CheckDrift(ctx context.Context, src source.Client, devices DeviceNamer, contextID string) (*DriftReport, error) {
	summary, err := src.FetchSummary(ctx)
	if err != nil {
		return nil, err
	}
	names, err := devices.DeviceNames(ctx, contextID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	report := &DriftReport{
		Facilities:     len(summary.Carparks),
		Devices:        len(names),
		MissingDevices: []string{},
		OrphanDevices:  []string{},
	}

	seen := make(map[string]struct{}, len(summary.Carparks))
	for _, cp := range summary.Carparks {
		seen[cp.Name] = struct{}{}
		if _, ok := names[cp.Name]; !ok {
			report.MissingDevices = append(report.MissingDevices, cp.Name)
		}
	}
	for name := range names {
		if _, ok := seen[name]; !ok {
			report.OrphanDevices = append(report.OrphanDevices, name)
		}
	}
	sort.Strings(report.OrphanDevices)

	report.Matched = len(report.MissingDevices) == 0 && len(report.OrphanDevices) == 0
	return report, nil
}
