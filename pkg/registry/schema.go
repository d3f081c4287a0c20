// pkg/registry/schema.go
package registry

// overrideSchema validates agent registry override files. Malformed static
// registry data is a hard failure; the service refuses to start on it.
const overrideSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["overrides"],
  "additionalProperties": false,
  "properties": {
    "overrides": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["agent"],
        "additionalProperties": false,
        "properties": {
          "agent": {
            "type": "string",
            "minLength": 1
          },
          "maxConcurrency": {
            "type": "integer",
            "minimum": 1
          },
          "averageLatencyMs": {
            "type": "integer",
            "minimum": 1
          },
          "successRate": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        }
      }
    }
  }
}`
