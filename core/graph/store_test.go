package graph

import (
	"context"
	"errors"
	"testing"

	"parking-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*GormStore, *Node, *Node) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, store.Migrate())

	ctx := context.Background()
	c, created, err := store.EnsureContext(ctx, "NetworkInnvia")
	require.NoError(t, err)
	require.True(t, created)

	n, created, err := store.EnsureNetwork(ctx, c.ID, "Innvia")
	require.NoError(t, err)
	require.True(t, created)

	return store, c, n
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func sampleDevice(name string) DeviceSpec {
	return DeviceSpec{
		Name: name,
		Groups: []GroupSpec{
			{
				Name: "Total",
				Role: "total",
				Endpoints: []EndpointSpec{
					{Name: "Free", Value: 10, DataType: DataTypeInteger, Type: EndpointTypeOccupation},
					{Name: "Occupied", Value: 5, DataType: DataTypeInteger, Type: EndpointTypeOccupation},
				},
			},
			{
				Name: "Occupations",
				Role: "occupations",
				Endpoints: []EndpointSpec{
					{Name: "Occupation-S1", Value: true, DataType: DataTypeBoolean, Type: EndpointTypeOccupation},
				},
			},
		},
	}
}

func TestEnsureContextAndNetwork_Idempotent(t *testing.T) {
	store, c, n := setupStore(t)
	ctx := context.Background()

	again, created, err := store.EnsureContext(ctx, "NetworkInnvia")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, c.ID, again.ContextID)

	net, created, err := store.EnsureNetwork(ctx, c.ID, "Innvia")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, n.ID, net.ID)

	networks, err := store.GetNetworks(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, networks, 1)
}

func TestGetContext_NotFound(t *testing.T) {
	store, _, _ := setupStore(t)

	_, err := store.GetContext(context.Background(), "Unknown")
	assert.ErrorIs(t, err, ErrContextNotFound)
}

func TestUpdateData_CreatesSubtree(t *testing.T) {
	store, c, n := setupStore(t)
	ctx := context.Background()

	dev, err := store.UpdateData(ctx, n.ID, sampleDevice("P1"))
	require.NoError(t, err)
	assert.Equal(t, "P1", dev.Name)
	assert.Equal(t, c.ID, dev.ContextID)

	devices, err := store.GetDevices(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	info, err := store.GetInfo(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, TypeDevice, info.Type)
	require.Len(t, info.ChildrenIDs, 2)

	total, err := store.GetInfo(ctx, info.ChildrenIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Total", total.Name)
	assert.Equal(t, "total", total.Role)
	assert.Equal(t, TypeEndpointGroup, total.Type)
	require.Len(t, total.ChildrenIDs, 2)

	free, err := store.GetInfo(ctx, total.ChildrenIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Free", free.Name)
	assert.Equal(t, TypeEndpoint, free.Type)
	assert.Equal(t, 10, free.Value)

	names, err := store.DeviceNames(ctx, c.ID)
	require.NoError(t, err)
	assert.Contains(t, names, "P1")
}

func TestUpdateData_UnknownNetwork(t *testing.T) {
	store, _, _ := setupStore(t)

	_, err := store.UpdateData(context.Background(), "missing", sampleDevice("P1"))
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestSetEndpointValue(t *testing.T) {
	store, _, n := setupStore(t)
	ctx := context.Background()

	dev, err := store.UpdateData(ctx, n.ID, sampleDevice("P1"))
	require.NoError(t, err)
	info, err := store.GetInfo(ctx, dev.ID)
	require.NoError(t, err)
	occ, err := store.GetInfo(ctx, info.ChildrenIDs[1])
	require.NoError(t, err)
	endpointID := occ.ChildrenIDs[0]

	require.NoError(t, store.SetEndpointValue(ctx, endpointID, false))

	ep, err := store.GetInfo(ctx, endpointID)
	require.NoError(t, err)
	assert.Equal(t, false, ep.Value)

	// Only endpoints accept values
	err = store.SetEndpointValue(ctx, occ.ID, true)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	err = store.SetEndpointValue(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGetInfo_NotFound(t *testing.T) {
	store, _, _ := setupStore(t)

	_, err := store.GetInfo(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestDevices_View(t *testing.T) {
	store, c, n := setupStore(t)
	ctx := context.Background()

	_, err := store.UpdateData(ctx, n.ID, sampleDevice("P2"))
	require.NoError(t, err)
	_, err = store.UpdateData(ctx, n.ID, sampleDevice("P1"))
	require.NoError(t, err)

	views, err := store.Devices(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "P1", views[0].Name)
	assert.Equal(t, "Innvia", views[0].Network)
	require.Len(t, views[0].Groups, 2)
	assert.Equal(t, "Occupations", views[0].Groups[1].Name)
	assert.Equal(t, true, views[0].Groups[1].Endpoints[0].Value)
}

func TestDevices_EmptyContext(t *testing.T) {
	store, c, _ := setupStore(t)

	views, err := store.Devices(context.Background(), c.ID)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)

	out, err := json.Marshal(views)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestCheckSchema(t *testing.T) {
	store, _, _ := setupStore(t)

	missing, err := store.CheckSchema()
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestUpdateData_RollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `graph_nodes`").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := store.UpdateData(context.Background(), "net-1", sampleDevice("P1"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetEndpointValue_DBError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `graph_nodes`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := store.SetEndpointValue(context.Background(), "ep-1", 3)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lock wait timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
