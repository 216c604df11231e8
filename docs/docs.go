// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

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
        "/account": {
            "get": {
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.accountResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorReport"}}
                }
            }
        },
        "/account/alerts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "List alerts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.alertListResponse"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "Create alert",
                "parameters": [
                    {"description": "Alert", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createAlertRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Alert"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorReport"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/domain.ErrorReport"}}
                }
            }
        },
        "/account/alerts/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "Refresh alert expiries",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.refreshResponse"}}}
            }
        },
        "/account/api-key": {
            "post": {
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Rotate API key",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.apiKeyResponse"}}}
            }
        },
        "/account/benefits/sync": {
            "post": {
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Sync patron benefits",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tierSyncResponse"}}}
            }
        },
        "/account/login": {
            "get": {
                "tags": ["account"],
                "summary": "Start SSO login",
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/account/login/discord/success": {
            "get": {
                "tags": ["account"],
                "summary": "Complete Discord login",
                "parameters": [
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query", "required": true},
                    {"type": "string", "description": "Signed state", "name": "state", "in": "query", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorReport"}}
                }
            }
        },
        "/account/logout": {
            "get": {
                "tags": ["account"],
                "summary": "Log out",
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/api/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "API key owner",
                "parameters": [
                    {"type": "string", "description": "Public API key", "name": "private_key", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.accountResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorReport"}}
                }
            }
        },
        "/maintenance": {
            "get": {
                "produces": ["application/json"],
                "tags": ["maintenance"],
                "summary": "Maintenance flags",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.maintenanceResponse"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["maintenance"],
                "summary": "Update maintenance flags",
                "parameters": [
                    {"description": "Flags", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.maintenanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.maintenanceResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.ErrorReport"}}
                }
            }
        },
        "/patrons": {
            "get": {
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Patrons by tier",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.patronGroupResponse"}}}}
            }
        }
    },
    "definitions": {
        "domain.Alert": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "item_id": {"type": "integer"},
                "expiry": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.ErrorReport": {
            "type": "object",
            "properties": {
                "Error": {"type": "boolean"},
                "Subject": {"type": "string"},
                "Message": {"type": "string"},
                "Hash": {"type": "string"},
                "Ex": {"type": "string"},
                "Url": {"type": "string"},
                "Debug": {"$ref": "#/definitions/domain.ReportDebug"}
            }
        },
        "domain.ReportDebug": {
            "type": "object",
            "properties": {
                "ID": {"type": "string"},
                "File": {"type": "string"},
                "Method": {"type": "string"},
                "Path": {"type": "string"},
                "Action": {"type": "string"},
                "Code": {"type": "integer"},
                "Date": {"type": "string"},
                "Env": {"type": "string"}
            }
        },
        "handler.accountResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "sso": {"type": "string"},
                "patron": {"type": "integer"},
                "permissions": {"type": "array", "items": {"type": "string"}},
                "api_public_key": {"type": "string"},
                "avatar": {"type": "string"}
            }
        },
        "handler.alertListResponse": {
            "type": "object",
            "properties": {
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/domain.Alert"}},
                "max": {"type": "integer"}
            }
        },
        "handler.apiKeyResponse": {
            "type": "object",
            "properties": {"api_public_key": {"type": "string"}}
        },
        "handler.createAlertRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "item_id": {"type": "integer"}
            }
        },
        "handler.maintenanceRequest": {
            "type": "object",
            "properties": {
                "game": {"type": "integer", "minimum": 0},
                "lodestone": {"type": "integer", "minimum": 0},
                "companion": {"type": "integer", "minimum": 0}
            }
        },
        "handler.maintenanceResponse": {
            "type": "object",
            "properties": {
                "game": {"type": "boolean"},
                "lodestone": {"type": "boolean"},
                "companion": {"type": "boolean"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.patronGroupResponse": {
            "type": "object",
            "properties": {
                "tier": {"type": "integer"},
                "name": {"type": "string"},
                "users": {"type": "array", "items": {"type": "object"}}
            }
        },
        "handler.refreshResponse": {
            "type": "object",
            "properties": {"refreshed": {"type": "integer"}}
        },
        "handler.tierSyncResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "tier": {"type": "integer"},
                "name": {"type": "string"},
                "reason": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Common Backend API",
	Description:      "Accounts, SSO sessions, patron benefits and maintenance flags.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
