package inline

import (
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/vodhub/vodhub/aggregate"
	"github.com/vodhub/vodhub/dispatch"
	"github.com/vodhub/vodhub/source"
)

// Output is the JSON document written by a search.
type Output struct {
	Query    string              `json:"query"`
	Dispatch string              `json:"dispatch"`
	Progress aggregate.Progress  `json:"progress"`
	Failures []aggregate.Failure `json:"failures"`
	Results  []*source.Result    `json:"results,omitempty"`
	Groups   []*aggregate.Group  `json:"groups,omitempty"`
}

func writeJson(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// SchemaKind selects the document a schema describes.
type SchemaKind string

const (
	SchemaOutput SchemaKind = "output"
	SchemaEvent  SchemaKind = "event"
	SchemaDetail SchemaKind = "detail"
)

// Schema reflects the JSON schema of a document kind.
func Schema(kind SchemaKind) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "result", "detail", "group", "output", "event":
			return filepath.Base(t.PkgPath()) + "." + name
		}
		return name
	}

	switch kind {
	case SchemaEvent:
		return reflector.Reflect(&dispatch.Event{})
	case SchemaDetail:
		return reflector.Reflect(&source.Detail{})
	default:
		return reflector.Reflect(&Output{})
	}
}
