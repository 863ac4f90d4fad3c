package api

import (
	_ "embed"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed task_collection.schema.json
var taskCollectionSchema string

const taskCollectionSchemaURL = "task_collection.schema.json"

var collectionSchema = jsonschema.MustCompileString(taskCollectionSchemaURL, taskCollectionSchema)

// validateCollection checks a decoded list body before it is bound to
// model.TaskCollection, so a malformed row fails the whole load instead of
// rendering as a zero-valued task.
func validateCollection(v any) error {
	if err := collectionSchema.Validate(v); err != nil {
		return fmt.Errorf("invalid task collection: %w", err)
	}
	return nil
}
