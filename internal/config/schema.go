package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "editcore://config.schema.json"

// configSchema describes the on-disk document. It catches misspelled keys
// and wrong types, which decoding into Config silently drops; value ranges
// are left to ValidateConfig.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "logging": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"type": "string"},
        "format": {"type": "string"},
        "output": {"type": "string"},
        "file_path": {"type": "string"},
        "max_size_mb": {"type": "integer"},
        "max_backups": {"type": "integer"},
        "max_age_days": {"type": "integer"}
      }
    },
    "input": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "bridge": {"type": "string"},
        "use_window_focus": {"type": "boolean"},
        "ibus_address": {"type": "string"}
      }
    },
    "pointer": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "long_press_timeout_ms": {"type": "integer"},
        "touch_slop": {"type": "number"}
      }
    },
    "editing": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "undo_snapshot_interval_ms": {"type": "integer"},
        "undo_max_stored_chars": {"type": "integer"},
        "password_mask": {"type": "string", "maxLength": 1}
      }
    },
    "store": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "path": {"type": "string"}
      }
    }
  }
}`

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// validateDocument checks a decoded document against the schema. doc is
// whatever the TOML, JSON or YAML decoder produced for a generic target.
func validateDocument(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through JSON so every decoder's number and map types look
	// the same to the validator.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	err = schema.Validate(instance)
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return schemaErrors(ve)
	}
	return err
}

// schemaErrors flattens the leaves of a schema failure into
// ValidationErrors keyed by dotted field path.
func schemaErrors(ve *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.ReplaceAll(strings.TrimPrefix(e.InstanceLocation, "/"), "/", ".")
			if field == "" {
				field = "(root)"
			}
			errs = append(errs, ValidationError{Field: field, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return errs
}
