// Command schemagen writes the JSON Schema for the /update response
// content types (dto.AskContent, dto.ExitContent) to stdout, so a host
// can publish it alongside its OpenAPI document without hand-maintaining
// a duplicate schema (spec §6).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/oes-interview/engine/internal/http/dto"
)

func main() {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: true,
	}

	out := struct {
		AskContent        *jsonschema.Schema `json:"ask_content"`
		ExitContent       *jsonschema.Schema `json:"exit_content"`
		IncompleteResponse *jsonschema.Schema `json:"incomplete_response"`
		CompleteResponse  *jsonschema.Schema `json:"complete_response"`
	}{
		AskContent:         reflector.Reflect(&dto.AskContent{}),
		ExitContent:        reflector.Reflect(&dto.ExitContent{}),
		IncompleteResponse: reflector.Reflect(&dto.IncompleteResponse{}),
		CompleteResponse:   reflector.Reflect(&dto.CompleteResponse{}),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "schemagen:", err)
		os.Exit(1)
	}
}
