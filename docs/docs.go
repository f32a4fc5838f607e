// Package docs registers the gateway's OpenAPI document with swag.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Gateway health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/health/check": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Messaging service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/whatsapp.HealthCheckResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/webhook/twilio/test": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["twilio"],
                "summary": "Signed webhook test",
                "parameters": [
                    {"type": "string", "description": "Twilio request signature", "name": "X-Twilio-Signature", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TwilioResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/webhook/twilio/estado/test": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["twilio"],
                "summary": "Webhook status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TwilioResponse"}}
                }
            }
        },
        "/webhook/twilio/save/order": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["twilio"],
                "summary": "Save order",
                "parameters": [
                    {"type": "string", "description": "Twilio request signature", "name": "X-Twilio-Signature", "in": "header"},
                    {"description": "Order", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/orders.OrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TwilioResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.TwilioResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/whatsapp/message-status/{messageId}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["whatsapp"],
                "summary": "Message status",
                "parameters": [
                    {"type": "string", "description": "Message id", "name": "messageId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/whatsapp.MessageStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/whatsapp/connection-status": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["whatsapp"],
                "summary": "Connection status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/whatsapp.ConnectionStatusResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/whatsapp/is-connected": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["whatsapp"],
                "summary": "Is connected",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.IsConnectedResponse"}}
                }
            }
        },
        "/whatsapp/restart-connection": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["whatsapp"],
                "summary": "Restart connection",
                "parameters": [
                    {"description": "Restart options", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/handlers.RestartRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/whatsapp.RestartConnectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/whatsapp/test/message": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["whatsapp"],
                "summary": "Send test message",
                "parameters": [
                    {"description": "Message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.TestMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List orders",
                "parameters": [
                    {"type": "integer", "default": 50, "description": "Page size (max 200)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.OrderList"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get order",
                "parameters": [
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storage.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/settings": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Effective settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.TwilioResponse": {
            "type": "object",
            "properties": {"status": {"type": "boolean"}, "msj": {"type": "string"}}
        },
        "handlers.IsConnectedResponse": {
            "type": "object",
            "properties": {"connected": {"type": "boolean"}, "message": {"type": "string"}, "timestamp": {"type": "integer"}}
        },
        "handlers.RestartRequest": {
            "type": "object",
            "properties": {"force": {"type": "boolean"}, "reason": {"type": "string"}}
        },
        "handlers.TestMessageRequest": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "uptime": {"type": "string"},
                "storage": {"type": "string"},
                "circuit_breaker": {"type": "object"},
                "whatsapp": {"type": "object"}
            }
        },
        "handlers.OrderList": {
            "type": "object",
            "properties": {
                "orders": {"type": "array", "items": {"$ref": "#/definitions/storage.Order"}},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        },
        "orders.OrderRequest": {
            "type": "object",
            "properties": {
                "client_information": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "orderType": {"type": "string"}
            }
        },
        "storage.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "message_id": {"type": "string"},
                "client_information": {"type": "string"},
                "phone_number": {"type": "string"},
                "order_type": {"type": "string"},
                "suggested_price": {"type": "integer"},
                "status": {"type": "string"},
                "error": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "whatsapp.HealthCheckResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}}
        },
        "whatsapp.MessageStatusResponse": {
            "type": "object",
            "properties": {
                "message_id": {"type": "string"},
                "status": {"type": "string"},
                "timestamp": {"type": "integer"},
                "error_message": {"type": "string"}
            }
        },
        "whatsapp.ConnectionStatusResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string"},
                "message": {"type": "string"},
                "timestamp": {"type": "integer"},
                "phone_number": {"type": "string"}
            }
        },
        "whatsapp.RestartConnectionResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "new_state": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-KEY", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Twilio Gateway API",
	Description:      "Authenticates Twilio webhooks and relays orders to WhatsApp over RPC.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
