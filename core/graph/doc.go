// Package graph implements the hierarchical model store.
//
// The store keeps a tree of typed nodes in a single GORM table:
//
//	context (BmsContext)
//	└── network (BmsNetwork)
//	    └── device (BmsDevice)
//	        └── endpoint group (BmsEndpointGroup)
//	            └── endpoint (BmsEndpoint)
//
// Devices are created in one transaction per subtree with UpdateData. After
// creation only endpoint values change, through SetEndpointValue. Values are
// persisted as text and decoded according to the endpoint data type.
//
// The Store interface is what the reconcile engine consumes; GormStore adds
// the bootstrap helpers (EnsureContext, EnsureNetwork) and read models used by
// the CLI and the HTTP feature.
package graph
