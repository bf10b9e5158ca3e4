package reconcile

import (
	"context"
	"errors"
	"testing"

	"parking-sync/core/database"
	"parking-sync/core/graph"
	graphmocks "parking-sync/core/graph/mocks"
	"parking-sync/core/source"
	sourcemocks "parking-sync/core/source/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// payloads returns the P1 example: one level L1 and one stall S1.
func payloads(occupied int, s1State string) (*source.Summary, *source.DetailedState) {
	summary := &source.Summary{Carparks: []source.CarparkSummary{
		{
			Name:    "P1",
			Summary: map[string]int{"Free": 10, "Occupied": occupied},
			Levels: []source.LevelCount{
				{Name: "L1", Counts: map[string]int{"Free": 10, "Occupied": occupied}},
			},
		},
	}}
	detail := &source.DetailedState{Carparks: []source.CarparkState{
		{Name: "P1", Levels: []source.LevelState{
			{Name: "L1", Stalls: []source.Stall{{ID: "S1", State: s1State}}},
		}},
	}}
	return summary, detail
}

func setupStore(t *testing.T) (*graph.GormStore, Target) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	store := graph.NewStore(db)
	require.NoError(t, store.Migrate())

	ctx := context.Background()
	c, _, err := store.EnsureContext(ctx, "NetworkInnvia")
	require.NoError(t, err)
	n, _, err := store.EnsureNetwork(ctx, c.ID, "Innvia")
	require.NoError(t, err)

	return store, Target{ContextID: c.ID, NetworkID: n.ID}
}

func expectFetch(src *sourcemocks.Client, summary *source.Summary, detail *source.DetailedState) {
	src.On("FetchSummary", mock.Anything).Return(summary, nil).Once()
	src.On("FetchDetailedState", mock.Anything).Return(detail, nil).Once()
}

func expectExample(src *sourcemocks.Client, occupied int, state string) {
	summary, detail := payloads(occupied, state)
	expectFetch(src, summary, detail)
}

// values flattens a context into "device/group/endpoint" -> value.
func values(t *testing.T, store *graph.GormStore, target Target) map[string]any {
	t.Helper()

	devices, err := store.Devices(context.Background(), target.ContextID)
	require.NoError(t, err)

	out := make(map[string]any)
	for _, d := range devices {
		for _, g := range d.Groups {
			for _, e := range g.Endpoints {
				out[d.Name+"/"+g.Name+"/"+e.Name] = e.Value
			}
		}
	}
	return out
}

func TestDiscover(t *testing.T) {
	store, target := setupStore(t)
	r := New(store, nil, nil)

	got, err := r.Discover(context.Background(), "NetworkInnvia")
	require.NoError(t, err)
	assert.Equal(t, target, got)

	_, err = r.Discover(context.Background(), "Missing")
	assert.ErrorIs(t, err, graph.ErrContextNotFound)
}

func TestDiscover_NoNetwork(t *testing.T) {
	store := new(graphmocks.Store)
	store.On("GetContext", mock.Anything, "NetworkInnvia").Return(&graph.Node{ID: "ctx"}, nil)
	store.On("GetNetworks", mock.Anything, "ctx").Return([]graph.Node{}, nil)

	_, err := New(store, nil, nil).Discover(context.Background(), "NetworkInnvia")
	assert.ErrorIs(t, err, graph.ErrNetworkNotFound)
}

func TestSync_CreatesExampleTree(t *testing.T) {
	store, target := setupStore(t)
	src := new(sourcemocks.Client)
	expectExample(src, 5, "Occupied")
	r := New(store, src, nil)

	report, err := r.Sync(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, report.Created)
	assert.Empty(t, report.Existing)

	devices, err := store.Devices(context.Background(), target.ContextID)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	var groups []string
	for _, g := range devices[0].Groups {
		groups = append(groups, g.Name+":"+g.Role)
	}
	assert.Equal(t, []string{"Total:total", "Occupations:occupations", "L1:level"}, groups)

	assert.Equal(t, map[string]any{
		"P1/Total/Free":                10,
		"P1/Total/Occupied":            5,
		"P1/Occupations/Occupation-S1": true,
		"P1/L1/Free":                   10,
		"P1/L1/Occupied":               5,
	}, values(t, store, target))

	assert.Equal(t, graph.DataTypeBoolean, devices[0].Groups[1].Endpoints[0].DataType)
	assert.Equal(t, graph.DataTypeInteger, devices[0].Groups[0].Endpoints[0].DataType)
}

func TestSync_Idempotent(t *testing.T) {
	store, target := setupStore(t)
	src := new(sourcemocks.Client)
	expectExample(src, 5, "Occupied")
	expectExample(src, 5, "Occupied")
	r := New(store, src, nil)

	_, err := r.Sync(context.Background(), target)
	require.NoError(t, err)

	report, err := r.Sync(context.Background(), target)
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	assert.Equal(t, []string{"P1"}, report.Existing)

	names, err := store.DeviceNames(context.Background(), target.ContextID)
	require.NoError(t, err)
	assert.Len(t, names, 1)

	devices, err := store.GetDevices(context.Background(), target.NetworkID)
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestEnsureTree_DuplicateFacilityInPayload(t *testing.T) {
	store, target := setupStore(t)
	summary := &source.Summary{Carparks: []source.CarparkSummary{{Name: "P1"}, {Name: "P1"}}}

	report, err := New(store, nil, nil).EnsureTree(context.Background(), target, map[string]struct{}{}, summary, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, report.Created)
	assert.Equal(t, []string{"P1"}, report.Existing)
}

func TestEnsureTree_SkipsExistingWithoutMerge(t *testing.T) {
	store := new(graphmocks.Store)
	summary, detail := payloads(5, "Occupied")

	report, err := New(store, nil, nil).EnsureTree(context.Background(), Target{NetworkID: "net"},
		map[string]struct{}{"P1": {}}, summary, detail)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, report.Existing)
	store.AssertNotCalled(t, "UpdateData", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureTree_AbortsOnWriteError(t *testing.T) {
	store := new(graphmocks.Store)
	summary := &source.Summary{Carparks: []source.CarparkSummary{{Name: "A"}, {Name: "B"}, {Name: "C"}}}

	isDevice := func(name string) interface{} {
		return mock.MatchedBy(func(d graph.DeviceSpec) bool { return d.Name == name })
	}
	store.On("UpdateData", mock.Anything, "net", isDevice("A")).Return(&graph.Node{ID: "a"}, nil)
	store.On("UpdateData", mock.Anything, "net", isDevice("B")).Return(nil, errors.New("disk full"))

	report, err := New(store, nil, nil).EnsureTree(context.Background(), Target{NetworkID: "net"},
		map[string]struct{}{}, summary, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create facility B")
	assert.Equal(t, []string{"A"}, report.Created)
	store.AssertNotCalled(t, "UpdateData", mock.Anything, "net", isDevice("C"))
}

func TestBuildDevice_AllGroupKinds(t *testing.T) {
	facilities := BuildFacilities(payloads(5, "Free"))
	device := BuildDevice(facilities[0])

	require.Len(t, device.Groups, 3)
	assert.Equal(t, "Total", device.Groups[0].Name)
	assert.Equal(t, []string{"Free", "Occupied"}, endpointNames(device.Groups[0]))
	assert.Equal(t, "Occupations", device.Groups[1].Name)
	assert.Equal(t, []string{"Occupation-S1"}, endpointNames(device.Groups[1]))
	assert.Equal(t, false, device.Groups[1].Endpoints[0].Value)
	assert.Equal(t, "L1", device.Groups[2].Name)
	assert.Equal(t, "level", device.Groups[2].Role)
}

func endpointNames(g graph.GroupSpec) []string {
	var names []string
	for _, e := range g.Endpoints {
		names = append(names, e.Name)
	}
	return names
}

func TestSync_FetchErrorPropagates(t *testing.T) {
	store := new(graphmocks.Store)
	src := new(sourcemocks.Client)
	src.On("FetchSummary", mock.Anything).Return(nil, errors.New("dial tcp: refused"))

	_, err := New(store, src, nil).Sync(context.Background(), Target{})
	assert.EqualError(t, err, "dial tcp: refused")
	src.AssertNotCalled(t, "FetchDetailedState", mock.Anything)
}
