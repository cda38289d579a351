// Package docs holds the swagger spec registered with swaggo/swag for
// the admin HTTP surface. In a normal build this file is produced by
// running `swag init` against internal/adminapi's annotation comments;
// it is checked in here so the binary doesn't need the swag CLI on the
// build path.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": [],
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "description": "Reports the instance id and uptime",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/adminapi.HealthResponse"}
                    }
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Runtime statistics",
                "description": "Query counters, correlation-table occupancy, and system resource usage",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/adminapi.StatsResponse"}
                    }
                }
            }
        },
        "/hosts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Loaded local hosts table",
                "description": "Returns every domain the relay answers locally, with its A-record IPs",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/adminapi.HostsResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "adminapi.HealthResponse": {
            "type": "object",
            "properties": {
                "instance_id": {"type": "string"},
                "start_time": {"type": "string"},
                "status": {"type": "string"},
                "uptime": {"type": "string"}
            }
        },
        "adminapi.CPUStats": {
            "type": "object",
            "properties": {
                "num_cpu": {"type": "integer"},
                "used_percent": {"type": "number"}
            }
        },
        "adminapi.MemoryStats": {
            "type": "object",
            "properties": {
                "total_mb": {"type": "number"},
                "used_mb": {"type": "number"},
                "used_percent": {"type": "number"}
            }
        },
        "adminapi.QueryStats": {
            "type": "object",
            "properties": {
                "queries_udp": {"type": "integer"},
                "queries_tcp": {"type": "integer"},
                "local_answered": {"type": "integer"},
                "forwarded": {"type": "integer"},
                "replies_dropped": {"type": "integer"}
            }
        },
        "adminapi.StatsResponse": {
            "type": "object",
            "properties": {
                "uptime": {"type": "string"},
                "cpu": {"$ref": "#/definitions/adminapi.CPUStats"},
                "memory": {"$ref": "#/definitions/adminapi.MemoryStats"},
                "queries": {"$ref": "#/definitions/adminapi.QueryStats"},
                "correlation_entries": {"type": "integer"}
            }
        },
        "adminapi.HostsResponse": {
            "type": "object",
            "properties": {
                "entries": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds the exported swagger spec metadata, keyed to the
// admin surface's @title/@version/@BasePath annotations.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "HydraRelay Admin API",
	Description:      "Read-only observability surface for the DNS relay.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
