package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Funding API",
        "description": "Campus funding-request tracker: registration, urgency-ordered review, and donations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Users", "description": "Student, admin, and donor registration"},
        {"name": "Requests", "description": "Funding request submission and lookup"},
        {"name": "Reviews", "description": "Urgency-ordered admin review"},
        {"name": "Donations", "description": "Full funding of approved requests"},
        {"name": "State", "description": "Display-oriented state overview"},
        {"name": "Exports", "description": "CSV/PDF funding reports"}
    ],
    "paths": {
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Register user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Duplicate user id"}
                }
            }
        },
        "/requests": {
            "post": {
                "tags": ["Requests"],
                "summary": "Submit funding request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequestPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Not a student"}
                }
            }
        },
        "/requests/pending": {
            "get": {
                "tags": ["Requests"],
                "summary": "List pending requests by urgency",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/{id}": {
            "get": {
                "tags": ["Requests"],
                "summary": "Get request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown request id"}
                }
            }
        },
        "/requests/{id}/decision": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Approve or reject a submitted request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown request id"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/reviews/next": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Pop the most urgent pending request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not an admin"},
                    "404": {"description": "Queue empty"}
                }
            }
        },
        "/donations": {
            "post": {
                "tags": ["Donations"],
                "summary": "Fund an approved request in full",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DonationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Funded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not a donor"},
                    "409": {"description": "Request not approved"},
                    "412": {"description": "Donation below requested amount"}
                }
            }
        },
        "/state": {
            "get": {
                "tags": ["State"],
                "summary": "Current state overview",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a funding report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/exports/{filename}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a generated report",
                "parameters": [
                    {"name": "filename", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file"},
                    "404": {"description": "Report not found"}
                }
            }
        }
    },
    "definitions": {
        "RegisterUserRequest": {
            "type": "object",
            "required": ["id", "name", "role"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "admin", "donor"]}
            }
        },
        "SubmitRequestPayload": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "string"},
                "amount": {"type": "number"},
                "urgency": {"type": "integer"}
            }
        },
        "ReviewRequest": {
            "type": "object",
            "required": ["admin_id"],
            "properties": {
                "admin_id": {"type": "string"}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "required": ["approve"],
            "properties": {
                "approve": {"type": "boolean"}
            }
        },
        "DonationRequest": {
            "type": "object",
            "required": ["donor_id", "request_id"],
            "properties": {
                "donor_id": {"type": "string"},
                "request_id": {"type": "string"},
                "amount": {"type": "number"}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
