package source

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// StateOccupied is the stall state reported for a taken stall.
const StateOccupied = "Occupied"

// Summary is the stall count payload.
type Summary struct {
	Carparks []CarparkSummary `json:"Carparks"`
}

// CarparkSummary holds the aggregate counts of one car park.
type CarparkSummary struct {
	Name    string         `json:"CarparkName"`
	Summary map[string]int `json:"CarparkSummary"`
	Levels  []LevelCount   `json:"Levels"`
}

// LevelCount holds the counts of one level.
type LevelCount struct {
	Name   string         `json:"LevelName"`
	Counts map[string]int `json:"LevelCount"`
}

// DetailedState is the per stall payload.
type DetailedState struct {
	Carparks []CarparkState `json:"Carparks"`
}

// CarparkState lists the stalls of one car park by level.
type CarparkState struct {
	Name   string       `json:"CarparkName"`
	Levels []LevelState `json:"Levels"`
}

// LevelState lists the stalls of one level.
type LevelState struct {
	Name   string  `json:"LevelName"`
	Stalls []Stall `json:"Stalls"`
}

// Stall is a single parking spot.
type Stall struct {
	ID    StallID `json:"StallId"`
	State string  `json:"State"`
}

// Occupied reports whether the stall is taken.
func (s Stall) Occupied() bool {
	return s.State == StateOccupied
}

// StallID accepts both JSON strings and numbers.
type StallID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *StallID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StallID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("invalid stall id %s", data)
	}
	*id = StallID(data)
	return nil
}
