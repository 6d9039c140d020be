// Package docs registers the Swagger document served under /swagger. Keep it in step with the handler annotations.
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
		"/auth/login": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Exchange credentials for a token",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.TokenResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/auth/signup": {
			"post": {
				"tags": [
					"Auth"
				],
				"summary": "Register a new account",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.SignupRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/types.TokenResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/counties": {
			"get": {
				"tags": [
					"County"
				],
				"summary": "List counties",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/types.County"
							}
						}
					}
				}
			},
			"post": {
				"tags": [
					"County"
				],
				"summary": "Create a county",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.CountyRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/types.County"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/counties/code/{code}": {
			"get": {
				"tags": [
					"County"
				],
				"summary": "Get county by code",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "code",
						"in": "path",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.County"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/counties/name/{name}": {
			"get": {
				"tags": [
					"County"
				],
				"summary": "Get county by name",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "name",
						"in": "path",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.County"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/counties/{id}": {
			"get": {
				"tags": [
					"County"
				],
				"summary": "Get county by ID",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"type": "integer"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.County"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"put": {
				"tags": [
					"County"
				],
				"summary": "Update a county",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"type": "integer"
					},
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.CountyRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.County"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"County"
				],
				"summary": "Delete a county",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"type": "integer"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/persons": {
			"get": {
				"tags": [
					"Person"
				],
				"summary": "List persons",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/types.Person"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"post": {
				"tags": [
					"Person"
				],
				"summary": "Create a person",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.PersonRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/types.Person"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/persons/county/{name}": {
			"get": {
				"tags": [
					"Person"
				],
				"summary": "Persons living in a county",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "name",
						"in": "path",
						"required": true,
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/types.Person"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/persons/email/{email}": {
			"get": {
				"tags": [
					"Person"
				],
				"summary": "Get person by email",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "email",
						"in": "path",
						"required": true,
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Person"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/persons/five-recent": {
			"get": {
				"tags": [
					"Person"
				],
				"summary": "Five most recently created persons",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/types.Person"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/persons/gender-stats": {
			"get": {
				"tags": [
					"Person"
				],
				"summary": "Person counts by gender",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.GenderStats"
						}
					}
				}
			}
		},
		"/persons/phone/{phone}": {
			"get": {
				"tags": [
					"Person"
				],
				"summary": "Get person by phone",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "phone",
						"in": "path",
						"required": true,
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Person"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/persons/{id}": {
			"get": {
				"tags": [
					"Person"
				],
				"summary": "Get person by ID",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"type": "integer"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Person"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"put": {
				"tags": [
					"Person"
				],
				"summary": "Update a person",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"type": "integer"
					},
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.PersonRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Person"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"Person"
				],
				"summary": "Delete a person",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"type": "integer"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/users": {
			"get": {
				"tags": [
					"User"
				],
				"summary": "List users",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/types.Credential"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"post": {
				"tags": [
					"User"
				],
				"summary": "Create user",
				"description": "Creates an account with the given role. Requires ROLE_ADMIN.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "User",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.UserRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/types.Credential"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/users/me": {
			"get": {
				"tags": [
					"User"
				],
				"summary": "Current identity",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Identity"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/users/username/{username}": {
			"get": {
				"tags": [
					"User"
				],
				"summary": "Get user by username",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Username",
						"name": "username",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Credential"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		},
		"/users/{id}": {
			"get": {
				"tags": [
					"User"
				],
				"summary": "Get user by ID",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "User ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Credential"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"put": {
				"tags": [
					"User"
				],
				"summary": "Update user",
				"description": "Replaces username, password and role. Requires ROLE_ADMIN.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "User ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "User",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/types.UserRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/types.Credential"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"User"
				],
				"summary": "Delete user",
				"description": "Requires ROLE_ADMIN.",
				"parameters": [
					{
						"type": "string",
						"description": "User ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/types.Response"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"types.County": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"code": {
					"type": "integer"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"types.CountyRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"code": {
					"type": "integer"
				}
			}
		},
		"types.Credential": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"id": {
					"type": "string",
					"example": "d290f1ee-6c54-4b01-90e6-d701748f0851"
				},
				"role": {
					"type": "string",
					"example": "admin"
				},
				"updated_at": {
					"type": "string"
				},
				"username": {
					"type": "string",
					"example": "johndoe"
				}
			}
		},
		"types.GenderStats": {
			"type": "object",
			"properties": {
				"male_count": {
					"type": "integer"
				},
				"female_count": {
					"type": "integer"
				},
				"not_specified_count": {
					"type": "integer"
				}
			}
		},
		"types.Identity": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"authorities": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"types.LoginRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"types.Person": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"full_name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"date_of_birth": {
					"type": "string"
				},
				"county_id": {
					"type": "integer"
				},
				"county_name": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"types.PersonRequest": {
			"type": "object",
			"properties": {
				"full_name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"date_of_birth": {
					"type": "string"
				},
				"county_name": {
					"type": "string"
				}
			}
		},
		"types.Response": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"types.SignupRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"types.TokenResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				}
			}
		},
		"types.UserRequest": {
			"type": "object",
			"properties": {
				"password": {
					"type": "string",
					"example": "Str0ngP@ss!"
				},
				"role": {
					"type": "string",
					"example": "admin"
				},
				"username": {
					"type": "string",
					"example": "janedoe"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and the JWT.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Contact Registry API",
	Description:      "Counties and persons behind stateless JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
