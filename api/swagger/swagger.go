package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Exam Observer API",
        "description": "Examination observer roster and committee assignment engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Observers", "description": "Invigilator roster management"},
        {"name": "Committees", "description": "Examination room management"},
        {"name": "ExamSessions", "description": "Exam schedule feed"},
        {"name": "Assignments", "description": "Per-term assignment snapshot"},
        {"name": "Distributions", "description": "Auto-distribution planner"},
        {"name": "SwapSessions", "description": "Interactive two-step swap flow"},
        {"name": "Configuration", "description": "Global assignment settings"}
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/observers": {
            "get": {
                "tags": ["Observers"],
                "summary": "List observers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Observers"],
                "summary": "Create observer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateObserverRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/observers/{id}": {
            "get": {
                "tags": ["Observers"],
                "summary": "Get observer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Observers"],
                "summary": "Update observer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateObserverRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Observers"],
                "summary": "Delete observer and clear their slots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/committees": {
            "get": {
                "tags": ["Committees"],
                "summary": "List committees",
                "parameters": [
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Committees"],
                "summary": "Create committee",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCommitteeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/committees/{id}": {
            "get": {
                "tags": ["Committees"],
                "summary": "Get committee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Committees"],
                "summary": "Delete committee and drop its assignments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/exam-sessions": {
            "get": {
                "tags": ["ExamSessions"],
                "summary": "List exam sessions for a term",
                "parameters": [
                    {"name": "term", "in": "query", "required": true, "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["ExamSessions"],
                "summary": "Create exam session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExamSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exam-sessions/{id}": {
            "get": {
                "tags": ["ExamSessions"],
                "summary": "Get exam session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["ExamSessions"],
                "summary": "Delete exam session and its assignments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/terms/{term}/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get the assignment snapshot",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/calendar-index": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get the cross-grade session calendar",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/assignments/slot": {
            "put": {
                "tags": ["Assignments"],
                "summary": "Write one observer slot",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Hard exclusion or time conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/assignments/swap": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Atomically exchange the observers held by two slots",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SwapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Hard exclusion or time conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/assignments/conflict-check": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Preview whether a placement would be rejected",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlacementCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/distributions": {
            "post": {
                "tags": ["Distributions"],
                "summary": "Rebuild one grade's assignments with the planner",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RunDistributionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Missing observers, sessions or committees", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/swap-session": {
            "get": {
                "tags": ["SwapSessions"],
                "summary": "Get the swap session state",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/swap-session/toggle": {
            "post": {
                "tags": ["SwapSessions"],
                "summary": "Switch swap mode on or off",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleSwapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/swap-session/select": {
            "post": {
                "tags": ["SwapSessions"],
                "summary": "Register one slot click in the two-step flow",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Swap rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{term}/swap-session/cancel": {
            "post": {
                "tags": ["SwapSessions"],
                "summary": "Clear any pending source selection",
                "parameters": [
                    {"name": "term", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/configuration/observers": {
            "get": {
                "tags": ["Configuration"],
                "summary": "Get observer configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Configuration"],
                "summary": "Update observer configuration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateObserverConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Observer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "full_name": {"type": "string"},
                "expertise": {"type": "string"},
                "excluded_committees": {"type": "array", "items": {"type": "string"}},
                "excluded_grades": {"type": "array", "items": {"type": "string"}},
                "active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "Committee": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "location": {"type": "string"},
                "capacity": {"type": "integer"},
                "grade_level": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "ExamSession": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "grade_level": {"type": "string"},
                "term": {"type": "string"},
                "subject": {"type": "string"},
                "exam_date": {"type": "string"},
                "weekday_label": {"type": "string"},
                "start_label": {"type": "string"},
                "end_label": {"type": "string"},
                "duration_label": {"type": "string"}
            }
        },
        "Assignment": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "committee_id": {"type": "string"},
                "observers": {"type": "array", "items": {"type": "string"}},
                "reserve": {"type": "string"}
            }
        },
        "SlotRef": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "committee_id": {"type": "string"},
                "slot": {"type": "integer"},
                "reserve": {"type": "boolean"}
            }
        },
        "CreateObserverRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "expertise": {"type": "string"},
                "excluded_committees": {"type": "array", "items": {"type": "string"}},
                "excluded_grades": {"type": "array", "items": {"type": "string"}},
                "active": {"type": "boolean"}
            },
            "required": ["full_name"]
        },
        "UpdateObserverRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "expertise": {"type": "string"},
                "excluded_committees": {"type": "array", "items": {"type": "string"}},
                "excluded_grades": {"type": "array", "items": {"type": "string"}},
                "active": {"type": "boolean"}
            },
            "required": ["full_name"]
        },
        "CreateCommitteeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "location": {"type": "string"},
                "capacity": {"type": "integer"},
                "grade_level": {"type": "string"}
            },
            "required": ["name", "grade_level"]
        },
        "CreateExamSessionRequest": {
            "type": "object",
            "properties": {
                "grade_level": {"type": "string"},
                "term": {"type": "string"},
                "subject": {"type": "string"},
                "exam_date": {"type": "string"},
                "weekday_label": {"type": "string"},
                "start_label": {"type": "string"},
                "end_label": {"type": "string"},
                "duration_label": {"type": "string"}
            },
            "required": ["grade_level", "term", "subject", "exam_date", "start_label", "end_label"]
        },
        "SetSlotRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "committee_id": {"type": "string"},
                "slot": {"type": "integer"},
                "reserve": {"type": "boolean"},
                "observer_id": {"type": "string"}
            },
            "required": ["session_id", "committee_id"]
        },
        "SwapRequest": {
            "type": "object",
            "properties": {
                "source": {"$ref": "#/definitions/SlotRef"},
                "target": {"$ref": "#/definitions/SlotRef"}
            },
            "required": ["source", "target"]
        },
        "PlacementCheckRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "committee_id": {"type": "string"},
                "observer_id": {"type": "string"}
            },
            "required": ["session_id", "committee_id", "observer_id"]
        },
        "RunDistributionRequest": {
            "type": "object",
            "properties": {
                "grade_level": {"type": "string"}
            },
            "required": ["grade_level"]
        },
        "ToggleSwapRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"}
            }
        },
        "SelectSlotRequest": {
            "type": "object",
            "properties": {
                "slot": {"$ref": "#/definitions/SlotRef"}
            },
            "required": ["slot"]
        },
        "UpdateObserverConfigRequest": {
            "type": "object",
            "properties": {
                "observers_per_committee": {"type": "integer"},
                "members_per_correction": {"type": "integer"}
            },
            "required": ["observers_per_committee", "members_per_correction"]
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
