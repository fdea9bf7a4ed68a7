package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clinic Scheduling API",
        "description": "Appointment scheduling and availability engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Open slot computation"},
        {"name": "Scheduling", "description": "Conflict checks"},
        {"name": "Appointments", "description": "Booking and lifecycle"},
        {"name": "WorkingHours", "description": "Recurring weekly schedule"},
        {"name": "TimeOff", "description": "Calendar blocks"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/api/v1/providers/{providerId}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List open slots for a provider",
                "parameters": [
                    {"name": "providerId", "in": "path", "required": true, "type": "string"},
                    {"name": "locationId", "in": "query", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"},
                    {"name": "duration", "in": "query", "required": true, "type": "string"},
                    {"name": "granularity", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid range or parameters"},
                    "404": {"description": "Provider or location not found"}
                }
            }
        },
        "/api/v1/providers/{providerId}/availability/export": {
            "get": {
                "tags": ["Availability"],
                "summary": "Export open slots as CSV or PDF",
                "parameters": [
                    {"name": "providerId", "in": "path", "required": true, "type": "string"},
                    {"name": "locationId", "in": "query", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"},
                    {"name": "duration", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/api/v1/scheduling/check-conflict": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Check a proposed interval for conflicts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckConflictRequest"}}
                ],
                "responses": {
                    "200": {"description": "Conflict classification", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List appointments",
                "parameters": [
                    {"name": "providerId", "in": "query", "type": "string"},
                    {"name": "locationId", "in": "query", "type": "string"},
                    {"name": "patientId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Book an appointment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Booked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Booking conflict"}
                }
            }
        },
        "/api/v1/appointments/{id}": {
            "get": {
                "tags": ["Appointments"],
                "summary": "Get an appointment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/appointments/{id}/status": {
            "patch": {
                "tags": ["Appointments"],
                "summary": "Update appointment status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAppointmentStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Illegal status transition"}
                }
            }
        },
        "/api/v1/appointments/{id}/reschedule-suggestions": {
            "get": {
                "tags": ["Appointments"],
                "summary": "Suggest alternative slots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "max", "in": "query", "type": "integer"},
                    {"name": "horizonDays", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Appointment not found"}
                }
            }
        },
        "/api/v1/providers/{providerId}/locations/{locationId}/working-hours": {
            "get": {
                "tags": ["WorkingHours"],
                "summary": "List working hours rules",
                "parameters": [
                    {"name": "providerId", "in": "path", "required": true, "type": "string"},
                    {"name": "locationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["WorkingHours"],
                "summary": "Replace working hours rules",
                "parameters": [
                    {"name": "providerId", "in": "path", "required": true, "type": "string"},
                    {"name": "locationId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceWorkingHoursRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/providers/{providerId}/time-off": {
            "get": {
                "tags": ["TimeOff"],
                "summary": "List blocked periods",
                "parameters": [
                    {"name": "providerId", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["TimeOff"],
                "summary": "Block a period",
                "parameters": [
                    {"name": "providerId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimeOffRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/time-off/{id}": {
            "delete": {
                "tags": ["TimeOff"],
                "summary": "Remove a blocked period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "CheckConflictRequest": {
            "type": "object",
            "required": ["providerId", "locationId", "start", "end"],
            "properties": {
                "providerId": {"type": "string"},
                "locationId": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "excludeAppointmentId": {"type": "string"}
            }
        },
        "CreateAppointmentRequest": {
            "type": "object",
            "required": ["providerId", "locationId", "patientId", "start", "end"],
            "properties": {
                "providerId": {"type": "string"},
                "locationId": {"type": "string"},
                "patientId": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "notes": {"type": "string"}
            }
        },
        "UpdateAppointmentStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["scheduled", "confirmed", "in_progress", "completed", "cancelled", "no_show"]}
            }
        },
        "ReplaceWorkingHoursRequest": {
            "type": "object",
            "required": ["rules"],
            "properties": {
                "rules": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "dayOfWeek": {"type": "integer", "minimum": 0, "maximum": 6},
                            "startTime": {"type": "string", "example": "09:00"},
                            "endTime": {"type": "string", "example": "17:00"},
                            "room": {"type": "string"},
                            "active": {"type": "boolean"}
                        }
                    }
                }
            }
        },
        "CreateTimeOffRequest": {
            "type": "object",
            "required": ["start", "end"],
            "properties": {
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "allDay": {"type": "boolean"},
                "reason": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
