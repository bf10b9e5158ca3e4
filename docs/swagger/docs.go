// Package swagger registers the OpenAPI description of the HTTP API with swag.
// Keep it in line with the @Router annotations of the feature handlers.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Liveness probe with the controller state.",
                "produces": ["application/json"],
                "tags": ["parking"],
                "summary": "Health",
                "responses": {
                    "200": {
                        "description": "Status",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/integrity": {
            "get": {
                "description": "Performs the schema, storage and drift checks.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Run All Integrity Checks",
                "responses": {
                    "200": {
                        "description": "Report",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/integrity/drift": {
            "get": {
                "description": "Lists car parks without a device and devices without a car park.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Drift",
                "responses": {
                    "200": {
                        "description": "Report",
                        "schema": {"$ref": "#/definitions/checks.DriftReport"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/integrity/schema": {
            "get": {
                "description": "Checks that the node table has every column the store uses.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Graph Schema",
                "responses": {
                    "200": {
                        "description": "Report",
                        "schema": {"$ref": "#/definitions/checks.SchemaReport"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/integrity/storage": {
            "get": {
                "description": "Checks the snapshot bucket and its content. Optionally creates a missing bucket.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Snapshot Storage",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Create the bucket when missing",
                        "name": "fix",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Report",
                        "schema": {"$ref": "#/definitions/checks.StorageReport"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/parking/devices": {
            "get": {
                "description": "Returns every device of the synchronized context with its groups and endpoint values.",
                "produces": ["application/json"],
                "tags": ["parking"],
                "summary": "List Devices",
                "responses": {
                    "200": {
                        "description": "Devices",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/graph.DeviceView"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "503": {
                        "description": "Not initialized",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/parking/interval": {
            "put": {
                "description": "Changes the pull interval. Applies from the next wait of the polling loop.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["parking"],
                "summary": "Set Pull Interval",
                "parameters": [
                    {
                        "description": "New interval",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/parking.IntervalRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Previous and current interval",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "400": {
                        "description": "Invalid interval",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/parking/refresh": {
            "post": {
                "description": "Runs a refresh cycle immediately. Joins the running cycle if one is in progress.",
                "produces": ["application/json"],
                "tags": ["parking"],
                "summary": "Refresh Now",
                "responses": {
                    "200": {
                        "description": "Refresh Report",
                        "schema": {"$ref": "#/definitions/reconcile.RefreshReport"}
                    },
                    "502": {
                        "description": "Refresh failed",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "503": {
                        "description": "Not initialized",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/parking/snapshot": {
            "get": {
                "description": "Returns the facility records archived after the last successful refresh.",
                "produces": ["application/json"],
                "tags": ["parking"],
                "summary": "Latest Snapshot",
                "responses": {
                    "200": {
                        "description": "Snapshot",
                        "schema": {"$ref": "#/definitions/snapshot.Document"}
                    },
                    "404": {
                        "description": "No snapshot",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/parking/status": {
            "get": {
                "description": "Returns the controller state, last sync time, counters and the last refresh report.",
                "produces": ["application/json"],
                "tags": ["parking"],
                "summary": "Synchronization Status",
                "responses": {
                    "200": {
                        "description": "Status",
                        "schema": {"$ref": "#/definitions/syncer.Status"}
                    }
                }
            }
        }
    },
    "definitions": {
        "checks.DriftReport": {
            "type": "object",
            "properties": {
                "devices": {"type": "integer"},
                "facilities": {"type": "integer"},
                "matched": {"type": "boolean"},
                "missing_devices": {"type": "array", "items": {"type": "string"}},
                "orphan_devices": {"type": "array", "items": {"type": "string"}}
            }
        },
        "checks.SchemaReport": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}},
                "matched": {"type": "boolean"},
                "missing_columns": {"type": "array", "items": {"type": "string"}},
                "table": {"type": "string"}
            }
        },
        "checks.StorageReport": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "bucket_exists": {"type": "boolean"},
                "enabled": {"type": "boolean"},
                "history": {"type": "integer"},
                "latest_snapshot": {"type": "boolean"}
            }
        },
        "graph.DeviceView": {
            "type": "object",
            "properties": {
                "groups": {"type": "array", "items": {"$ref": "#/definitions/graph.GroupView"}},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "network": {"type": "string"}
            }
        },
        "graph.EndpointView": {
            "type": "object",
            "properties": {
                "data_type": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "updated_at": {"type": "string"},
                "value": {}
            }
        },
        "graph.GroupView": {
            "type": "object",
            "properties": {
                "endpoints": {"type": "array", "items": {"$ref": "#/definitions/graph.EndpointView"}},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "parking.IntervalRequest": {
            "type": "object",
            "required": ["interval_ms"],
            "properties": {
                "interval_ms": {"type": "integer", "maximum": 86400000, "minimum": 1000}
            }
        },
        "reconcile.Facility": {
            "type": "object",
            "properties": {
                "levels": {"type": "array", "items": {"$ref": "#/definitions/reconcile.Level"}},
                "name": {"type": "string"},
                "occupations": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "summary": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "reconcile.Level": {
            "type": "object",
            "properties": {
                "counts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "name": {"type": "string"}
            }
        },
        "reconcile.RefreshReport": {
            "type": "object",
            "properties": {
                "devices": {"type": "integer"},
                "duration": {"type": "integer"},
                "missing_endpoints": {"type": "array", "items": {"type": "string"}},
                "skipped_devices": {"type": "array", "items": {"type": "string"}},
                "skipped_nodes": {"type": "array", "items": {"type": "string"}},
                "started_at": {"type": "string"},
                "unmatched_groups": {"type": "array", "items": {"type": "string"}},
                "updated": {"type": "integer"}
            }
        },
        "reconcile.Target": {
            "type": "object",
            "properties": {
                "context_id": {"type": "string"},
                "network_id": {"type": "string"}
            }
        },
        "reconcile.TreeReport": {
            "type": "object",
            "properties": {
                "created": {"type": "array", "items": {"type": "string"}},
                "existing": {"type": "array", "items": {"type": "string"}}
            }
        },
        "snapshot.Document": {
            "type": "object",
            "properties": {
                "facilities": {"type": "array", "items": {"$ref": "#/definitions/reconcile.Facility"}},
                "report": {"$ref": "#/definitions/reconcile.RefreshReport"},
                "taken_at": {"type": "string"}
            }
        },
        "syncer.Status": {
            "type": "object",
            "properties": {
                "cycles": {"type": "integer"},
                "failures": {"type": "integer"},
                "last_error": {"type": "string"},
                "last_report": {"$ref": "#/definitions/reconcile.RefreshReport"},
                "last_sync": {"type": "string"},
                "pull_interval": {"type": "string"},
                "state": {"type": "string", "enum": ["idle", "initializing", "polling", "stopped"]},
                "target": {"$ref": "#/definitions/reconcile.Target"},
                "tree": {"$ref": "#/definitions/reconcile.TreeReport"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Parking Sync API",
	Description:      "Occupancy synchronization state and controls.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
