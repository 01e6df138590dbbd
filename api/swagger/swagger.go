package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Frequencia e Conteudo API",
        "description": "Attendance dashboard backend: grid edits, offline sync and reports",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Attendance grid edits and the pending queue"},
        {"name": "Lessons", "description": "Per-day lesson configuration"},
        {"name": "Roster", "description": "Students and classes"},
        {"name": "Reports", "description": "Attendance statistics and exports"},
        {"name": "Sync", "description": "Remote store synchronisation"},
        {"name": "Config", "description": "Managed configuration lists"}
    ],
    "paths": {
        "/bootstrap": {
            "get": {
                "tags": ["Sync"],
                "summary": "Load the dataset and return the full view model",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sync/load": {
            "post": {
                "tags": ["Sync"],
                "summary": "Reload from the remote store, falling back to the offline snapshot",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sync/flush": {
            "post": {
                "tags": ["Sync"],
                "summary": "Push the pending attendance queue",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "A flush is already running"},
                    "412": {"description": "Remote store not configured"}
                }
            }
        },
        "/sync/status": {
            "get": {
                "tags": ["Sync"],
                "summary": "Sync coordinator introspection",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sync/online": {
            "put": {
                "tags": ["Sync"],
                "summary": "Flip the connectivity flag",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attendance/toggle": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Toggle one attendance cell",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Date is holiday-locked"}
                }
            }
        },
        "/attendance/bulk": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark a lesson slot for every untouched active student",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attendance/pending": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List queued attendance edits",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/lessons/day-config": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Resolved lesson configuration for one class day",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Lessons"],
                "summary": "Replace the lesson configuration of one class day",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Roster"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Roster"],
                "summary": "Create or update a student",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Delete a student and their attendance",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/classes": {
            "get": {
                "tags": ["Roster"],
                "summary": "List classes",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Roster"],
                "summary": "Create or update a class",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/classes/{id}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Delete a class, its students and their attendance",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/classes/selected": {
            "put": {
                "tags": ["Roster"],
                "summary": "Change the selected class scope",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/bimesters": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-student bimester attendance report",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/class-month": {
            "get": {
                "tags": ["Reports"],
                "summary": "Class month attendance grid summary",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/subjects": {
            "get": {
                "tags": ["Reports"],
                "summary": "Attendance grouped by resolved subject",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/at-risk": {
            "get": {
                "tags": ["Reports"],
                "summary": "Active students below the critical attendance threshold",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/top": {
            "get": {
                "tags": ["Reports"],
                "summary": "Highest attendance percentages among active students",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Schedule a report export",
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/reports/export/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export status; serves the file once READY",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/config/{key}": {
            "get": {
                "tags": ["Config"],
                "summary": "Read a managed configuration list",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Config"],
                "summary": "Replace a managed configuration list",
                "responses": {"200": {"description": "OK"}}
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
