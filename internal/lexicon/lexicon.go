// Package lexicon loads AT Protocol lexicon documents from disk and
// validates record payloads against them.
package lexicon

// Document is a parsed lexicon file. Loaded once at startup, never
// mutated afterwards.
type Document struct {
	Lexicon     int            `json:"lexicon"`
	ID          string         `json:"id"`
	Description string         `json:"description,omitempty"`
	Defs        map[string]Def `json:"defs"`
}

type Def struct {
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Key         string  `json:"key,omitempty"`
	Record      *Object `json:"record,omitempty"`
	Parameters  *Object `json:"parameters,omitempty"`
	Input       *Body   `json:"input,omitempty"`
	Output      *Body   `json:"output,omitempty"`
}

type Body struct {
	Encoding string  `json:"encoding,omitempty"`
	Schema   *Object `json:"schema,omitempty"`
}

type Object struct {
	Type       string              `json:"type"`
	Required   []string            `json:"required,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

type Property struct {
	Type        string `json:"type"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
}

// Registry maps lexicon ids to their documents.
type Registry map[string]*Document

func (r Registry) Get(id string) (*Document, bool) {
	doc, ok := r[id]
	return doc, ok
}

// RecordSchema returns the object schema of the main record def, if the
// document declares one.
func (d *Document) RecordSchema() *Object {
	main, ok := d.Defs["main"]
	if !ok || main.Type != "record" {
		return nil
	}
	return main.Record
}
