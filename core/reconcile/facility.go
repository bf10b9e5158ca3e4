package reconcile

import (
	"sort"

	"parking-sync/core/source"
)

// Facility is one car park joined across the two upstream payloads.
type Facility struct {
	Name        string          `json:"name"`
	Summary     map[string]int  `json:"summary"`
	Levels      []Level         `json:"levels"`
	Occupations map[string]bool `json:"occupations"`
	// Stalls keeps the occupancy entries in payload order.
	Stalls []Occupancy `json:"-"`
}

// Level holds the counts of one level.
type Level struct {
	Name   string         `json:"name"`
	Counts map[string]int `json:"counts"`
}

// Occupancy is the state of one stall endpoint.
type Occupancy struct {
	Name     string
	Occupied bool
}

// Mapping is the source of values of one endpoint group, keyed by endpoint name.
type Mapping map[string]any

// OccupationName returns the endpoint name of a stall.
func OccupationName(id source.StallID) string {
	return OccupationPrefix + string(id)
}

// BuildFacilities joins the summary and detail payloads on car park name.
// Facilities follow the order of the summary payload.
func BuildFacilities(summary *source.Summary, detail *source.DetailedState) []Facility {
	if summary == nil {
		return nil
	}

	facilities := make([]Facility, 0, len(summary.Carparks))
	for _, cp := range summary.Carparks {
		f := Facility{
			Name:        cp.Name,
			Summary:     cp.Summary,
			Levels:      make([]Level, 0, len(cp.Levels)),
			Occupations: make(map[string]bool),
		}
		if f.Summary == nil {
			f.Summary = map[string]int{}
		}
		for _, lvl := range cp.Levels {
			counts := lvl.Counts
			if counts == nil {
				counts = map[string]int{}
			}
			f.Levels = append(f.Levels, Level{Name: lvl.Name, Counts: counts})
		}
		f.Stalls = joinStalls(cp.Name, detail)
		for _, s := range f.Stalls {
			f.Occupations[s.Name] = s.Occupied
		}
		facilities = append(facilities, f)
	}
	return facilities
}

// joinStalls flattens every stall of every level of the car parks named name.
// A stall listed twice keeps its first position and its last state.
func joinStalls(name string, detail *source.DetailedState) []Occupancy {
	if detail == nil {
		return nil
	}

	var stalls []Occupancy
	index := make(map[string]int)
	for _, cp := range detail.Carparks {
		if cp.Name != name {
			continue
		}
		for _, lvl := range cp.Levels {
			for _, stall := range lvl.Stalls {
				occ := Occupancy{Name: OccupationName(stall.ID), Occupied: stall.Occupied()}
				if i, ok := index[occ.Name]; ok {
					stalls[i].Occupied = occ.Occupied
					continue
				}
				index[occ.Name] = len(stalls)
				stalls = append(stalls, occ)
			}
		}
	}
	return stalls
}

// Level returns the level with the given name.
func (f *Facility) Level(name string) (*Level, bool) {
	for i := range f.Levels {
		if f.Levels[i].Name == name {
			return &f.Levels[i], true
		}
	}
	return nil, false
}

// Mapping returns the value source of a group role. The boolean is false
// when the role names a level the facility no longer reports.
func (f *Facility) Mapping(role Role) (Mapping, bool) {
	switch role.Kind {
	case RoleTotal:
		return intMapping(f.Summary), true
	case RoleOccupations:
		m := make(Mapping, len(f.Occupations))
		for k, v := range f.Occupations {
			m[k] = v
		}
		return m, true
	case RoleLevel:
		lvl, ok := f.Level(role.Level)
		if !ok {
			return nil, false
		}
		return intMapping(lvl.Counts), true
	default:
		return nil, false
	}
}

func intMapping(in map[string]int) Mapping {
	m := make(Mapping, len(in))
	for k, v := range in {
		m[k] = v
	}
	return m
}

func indexFacilities(facilities []Facility) map[string]*Facility {
	index := make(map[string]*Facility, len(facilities))
	for i := range facilities {
		// First record wins, as a lookup by name would.
		if _, ok := index[facilities[i].Name]; !ok {
			index[facilities[i].Name] = &facilities[i]
		}
	}
	return index
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
