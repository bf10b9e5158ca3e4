// Package reconcile synchronizes the car park model with the upstream API.
//
// Two passes share the same join of the upstream payloads (see BuildFacilities):
//
//  1. EnsureTree creates a device subtree for every car park that has no device
//     yet. Existing devices are never merged or modified, so running it again
//     against an unchanged source creates nothing.
//
//  2. Refresh walks the devices already in the store and overwrites endpoint
//     values. It never creates or removes nodes.
//
// # Group roles
//
// Every endpoint group is created with a persisted role:
//
//	total        Total group, fed by the car park summary
//	occupations  Occupations group, fed by the joined stall states
//	level        one group per level, fed by the counts of the level of the same name
//
// A level group whose level is missing from the latest fetch is reported in
// RefreshReport.UnmatchedGroups and left untouched, as are devices whose car
// park is missing (RefreshReport.SkippedDevices).
package reconcile
