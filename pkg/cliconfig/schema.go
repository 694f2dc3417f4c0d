package cliconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "xmlbridge-config.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add config schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidationError is the first schema violation found in a config
// document. Pointer is the JSON pointer of the offending value.
type ValidationError struct {
	Pointer string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Pointer == "" {
		return e.Message
	}
	return strings.TrimPrefix(e.Pointer, "/") + ": " + e.Message
}

func validateDocument(root *yaml.Node) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := root.Decode(&raw); err != nil {
		return err
	}
	// Convert to JSON and back so the validator sees JSON types only.
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	err = s.Validate(doc)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		leaf := firstLeaf(verr)
		return &ValidationError{Pointer: leaf.InstanceLocation, Message: leaf.Message}
	}
	return err
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// nodePosition returns the line and column of the YAML node at pointer,
// falling back to the deepest node found.
func nodePosition(root *yaml.Node, pointer string) (int, int) {
	node := root
	for _, seg := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if seg == "" {
			continue
		}
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		next := childNode(node, seg)
		if next == nil {
			break
		}
		node = next
	}
	return node.Line, node.Column
}

func childNode(node *yaml.Node, seg string) *yaml.Node {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == seg {
				return node.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 && idx < len(node.Content) {
			return node.Content[idx]
		}
	}
	return nil
}
