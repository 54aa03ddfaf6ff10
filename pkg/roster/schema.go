// pkg/roster/schema.go
package roster

// rosterSchema is the JSON schema the reviewer roster file must satisfy.
const rosterSchema = `{
	"type": "object",
	"properties": {
		"reviewers": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"id":   {"type": "integer"},
					"name": {"type": "string", "minLength": 1}
				},
				"required": ["id", "name"],
				"additionalProperties": false
			}
		}
	},
	"required": ["reviewers"],
	"additionalProperties": false
}`
