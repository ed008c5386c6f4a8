// Package docs registra la especificación OpenAPI servida en /swagger.
// Se regenera con: swag init -g cmd/api/main.go -o docs
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
        "/api/catalog/dogs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Catálogo público de perros",
                "parameters": [
                    {"type": "string", "description": "MALE | FEMALE | UNKNOWN", "name": "gender", "in": "query"},
                    {"type": "string", "description": "SMALL | MEDIUM | LARGE | EXTRA_LARGE", "name": "size", "in": "query"},
                    {"type": "string", "description": "puppy | young | adult | senior", "name": "ageRange", "in": "query"},
                    {"type": "integer", "description": "página (0..)", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dogs.CatalogPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}},
                    "502": {"description": "Failed to fetch dogs", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}}
                }
            }
        },
        "/api/catalog/dogs/{dogID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Detalle público de un perro",
                "parameters": [{"type": "string", "description": "ID del perro", "name": "dogID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dogs.CatalogDog"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}}
                }
            }
        },
        "/api/catalog/dogs/{dogID}/adoption-forms": {
            "post": {
                "produces": ["application/json"],
                "tags": ["adoption"],
                "summary": "Abrir formulario de adopción",
                "parameters": [{"type": "string", "description": "ID del perro", "name": "dogID", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/adoptions.FormView"}},
                    "409": {"description": "dog is not available for adoption", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}}
                }
            }
        },
        "/api/adoption-forms/{formID}/submit": {
            "post": {
                "produces": ["application/json"],
                "tags": ["adoption"],
                "summary": "Enviar la solicitud de adopción",
                "parameters": [{"type": "string", "description": "ID del formulario", "name": "formID", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apierror.ValidationResponse"}},
                    "429": {"description": "rate limited", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}}
                }
            }
        },
        "/api/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin-session"],
                "summary": "Login de administrador",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}}
                }
            }
        },
        "/api/admin/adoption-requests/{requestID}/transitions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin-dashboard"],
                "summary": "Pedir confirmación para cambiar el estado de una solicitud",
                "parameters": [{"type": "string", "description": "ID de la solicitud", "name": "requestID", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dashboard.Confirmation"}},
                    "409": {"description": "invalid transition", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}}
                }
            }
        },
        "/api/admin/confirmations/{confirmationID}/confirm": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin-dashboard"],
                "summary": "Confirmar una acción",
                "parameters": [{"type": "string", "description": "ID de la confirmación", "name": "confirmationID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "confirmation not found", "schema": {"$ref": "#/definitions/apierror.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apierror.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "redirect": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "apierror.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/apierror.APIError"}}
        },
        "apierror.ValidationResponse": {
            "type": "object",
            "properties": {"errors": {"type": "object", "additionalProperties": {"type": "string"}}}
        },
        "dogs.CatalogDog": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "gender": {"type": "string"},
                "age": {"type": "integer"},
                "size": {"type": "string"},
                "status": {"type": "string"},
                "ageRange": {"type": "string"},
                "photoSrc": {"type": "string"},
                "canAdopt": {"type": "boolean"}
            }
        },
        "dogs.CatalogPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dogs.CatalogDog"}},
                "page": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "totalElements": {"type": "integer"}
            }
        },
        "adoptions.FormView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "dogId": {"type": "string"},
                "dogName": {"type": "string"},
                "values": {"type": "object"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}},
                "submitting": {"type": "boolean"},
                "submitted": {"type": "boolean"}
            }
        },
        "dashboard.Confirmation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "action": {"type": "string"},
                "targetId": {"type": "string"},
                "label": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "createdAt": {"type": "string"}
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
	Title:            "Shire of Paws BFF",
	Description:      "Catálogo, formulario de adopción y dashboard admin sobre la API del refugio.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
