package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NBX Exchange API",
        "description": "Assignment exchange backend for notebook classrooms",
        "version": "0.1.0"
    },
    "basePath": "/services/nbexchange",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Users", "description": "Caller identity and memberships"},
        {"name": "Assignments", "description": "Releasing and fetching assignments"},
        {"name": "Submissions", "description": "Student submissions"},
        {"name": "Collections", "description": "Instructor collection of submitted work"}
    ],
    "paths": {
        "/user": {
            "get": {
                "tags": ["Users"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments visible to the caller",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Not subscribed", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/assignment": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Fetch the current release",
                "security": [{"BearerAuth": []}],
                "produces": ["application/gzip"],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Archive bytes"},
                    "404": {"description": "No release", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Release an assignment",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment", "in": "formData", "type": "file", "required": true},
                    {"name": "notebooks", "in": "formData", "type": "array", "items": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "Released", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Not an instructor", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Unrelease an assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Removed", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/submission": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit completed work",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Submitted", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Not subscribed", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/submissions": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List submissions for one assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Not an instructor", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/collections": {
            "get": {
                "tags": ["Collections"],
                "summary": "List submitted work across a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true},
                    {"name": "assignment_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Not an instructor", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/collection": {
            "get": {
                "tags": ["Collections"],
                "summary": "Download one submitted artifact",
                "security": [{"BearerAuth": []}],
                "produces": ["application/gzip"],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string", "required": true},
                    {"name": "path", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Archive bytes"},
                    "404": {"description": "Not a submission", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "note": {"type": "string"},
                "value": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
