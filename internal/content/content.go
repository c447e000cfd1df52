// Package content resolves the generated learning sections inside an upload result.
//
// The server nests every section at content_generation.content.<key>.content and any link of
// that chain may be missing. [Lookup] never fails; it returns an absent [Optional] instead.
package content

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/surf/internal/models"
	"github.com/tidwall/gjson"
)

// Section identifies one generated learning format.
type Section string

const (
	Explanation   Section = "explanation"
	Animation     Section = "animation"
	Code          Section = "code"
	Visualization Section = "visualization"
	Application   Section = "application"
	Summary       Section = "summary"
	Quiz          Section = "quiz"
)

// sectionKeys maps a [Section] to its key under content_generation.content.
var sectionKeys = map[Section]string{
	Explanation:   "explanation",
	Animation:     "animation_config",
	Code:          "code_equation",
	Visualization: "visualization",
	Application:   "application",
	Summary:       "summary",
	Quiz:          "quiz_generation",
}

// Sections lists every section in display order.
var Sections = []Section{Explanation, Animation, Code, Visualization, Application, Summary, Quiz}

// ParseSection resolves a section id.
func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if _, ok := sectionKeys[sec]; !ok {
		return "", fmt.Errorf("unknown section %q", s)
	}
	return sec, nil
}

// Path returns the gjson path of the section payload.
func (s Section) Path() string {
	key, ok := sectionKeys[s]
	if !ok {
		return ""
	}
	return "content_generation.content." + key + ".content"
}

// Optional is either an absent value or a present raw JSON payload.
type Optional struct {
	raw     string
	present bool
}

// Absent is the empty [Optional].
var Absent = Optional{}

// Present reports whether a value was found.
func (o Optional) Present() bool { return o.present }

// Raw returns the JSON text of the value, or "" when absent.
func (o Optional) Raw() string { return o.raw }

// Lookup resolves section inside raw. Missing links, null values and unparsable input are absent.
func Lookup(raw []byte, section Section) Optional {
	path := section.Path()
	if path == "" || len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Absent
	}

	res := gjson.GetBytes(raw, path)
	if !res.Exists() || res.Type == gjson.Null {
		return Absent
	}
	return Optional{raw: res.Raw, present: true}
}

// LookupPath resolves an arbitrary gjson path with the same rules as [Lookup].
func LookupPath(raw []byte, path string) Optional {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Absent
	}
	res := gjson.GetBytes(raw, path)
	if !res.Exists() || res.Type == gjson.Null {
		return Absent
	}
	return Optional{raw: res.Raw, present: true}
}

// Decode unmarshals a present value into T. It reports false for absent or mistyped values.
func Decode[T any](o Optional) (*T, bool) {
	if !o.present {
		return nil, false
	}
	var v T
	if err := json.Unmarshal([]byte(o.raw), &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Content holds every typed section of one result. A nil field means the section is absent.
type Content struct {
	Explanation   *models.Explanation
	Animation     *models.Animation
	Code          *models.CodeEquations
	Visualization *models.Diagrams
	Application   *models.Applications
	Summary       *models.Summary
	Quiz          *models.Quiz
}

// Extract decodes every section of raw.
func Extract(raw []byte) Content {
	var c Content
	c.Explanation, _ = Decode[models.Explanation](Lookup(raw, Explanation))
	c.Animation, _ = Decode[models.Animation](Lookup(raw, Animation))
	c.Code, _ = Decode[models.CodeEquations](Lookup(raw, Code))
	c.Visualization, _ = Decode[models.Diagrams](Lookup(raw, Visualization))
	c.Application, _ = Decode[models.Applications](Lookup(raw, Application))
	c.Summary, _ = Decode[models.Summary](Lookup(raw, Summary))
	c.Quiz, _ = Decode[models.Quiz](Lookup(raw, Quiz))
	return c
}

// Available lists the sections present in raw, in display order.
func Available(raw []byte) []Section {
	var out []Section
	for _, s := range Sections {
		if Lookup(raw, s).Present() {
			out = append(out, s)
		}
	}
	return out
}
