// package formatter renders generated learning sections as Markdown and exports them to files
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/desertthunder/surf/internal/content"
	"github.com/desertthunder/surf/internal/models"
)

// Empty states shown when a section is missing from a result.
const (
	EmptyExplanation   = "No explanation available."
	EmptyAnimation     = "No animation available."
	EmptyCode          = "No equations or code examples available."
	EmptyVisualization = "No diagram data available."
	EmptyApplications  = "No application data available."
	EmptySummary       = "No summary data available."
	EmptyQuiz          = "No quiz questions available."
)

// Tab titles in display order.
const (
	TitleExplanation   = "Explanation"
	TitleAnimation     = "Animation"
	TitleCode          = "Code & Equations"
	TitleVisualization = "Diagrams"
	TitleApplications  = "Applications"
	TitleSummary       = "Summary"
	TitleQuiz          = "Quiz"
)

// NewRegistry returns a [content.Registry] with a renderer for every section.
func NewRegistry() *content.Registry {
	r := content.NewRegistry()
	r.Register(content.Explanation, sectionRenderer(TitleExplanation, RenderExplanation))
	r.Register(content.Animation, sectionRenderer(TitleAnimation, RenderAnimation))
	r.Register(content.Code, sectionRenderer(TitleCode, RenderCodeEquations))
	r.Register(content.Visualization, sectionRenderer(TitleVisualization, RenderDiagrams))
	r.Register(content.Application, sectionRenderer(TitleApplications, RenderApplications))
	r.Register(content.Summary, sectionRenderer(TitleSummary, RenderSummary))
	r.Register(content.Quiz, sectionRenderer(TitleQuiz, RenderQuiz))
	return r
}

// sectionRenderer decodes the section payload and falls back to the empty state when it is
// absent or malformed.
func sectionRenderer[T any](title string, render func(*T) []byte) content.Renderer {
	return content.RendererFunc{
		Name: title,
		Fn: func(w io.Writer, v content.Optional) error {
			data, _ := content.Decode[T](v)
			_, err := w.Write(render(data))
			return err
		},
	}
}

// RenderExplanation renders the personalized explanation.
func RenderExplanation(e *models.Explanation) []byte {
	var buf bytes.Buffer
	heading(&buf, TitleExplanation)

	if e == nil || (e.MainExplanation == "" && len(e.KeyConcepts) == 0) {
		buf.WriteString(EmptyExplanation + "\n")
		return buf.Bytes()
	}

	paragraph(&buf, "Overview", e.MainExplanation)

	if len(e.KeyConcepts) > 0 {
		buf.WriteString("### Key Concepts\n\n")
		for _, kc := range e.KeyConcepts {
			buf.WriteString(fmt.Sprintf("- **%s**", kc.Concept))
			if kc.Explanation != "" {
				buf.WriteString(": " + kc.Explanation)
			}
			buf.WriteString("\n")
			if kc.Analogy != "" {
				buf.WriteString(fmt.Sprintf("  - Analogy: %s\n", kc.Analogy))
			}
			if kc.Example != "" {
				buf.WriteString(fmt.Sprintf("  - Example: %s\n", kc.Example))
			}
		}
		buf.WriteString("\n")
	}

	paragraph(&buf, "Relevance to Your Field", e.ConnectionsToUserField)
	bullets(&buf, "Common Misconceptions", e.CommonMisconceptions)
	bullets(&buf, "Practical Applications", e.PracticalApplications)
	paragraph(&buf, "Difficulty Progression", e.DifficultyProgression)
	paragraph(&buf, "Next Steps", e.NextSteps)
	return buf.Bytes()
}

// RenderAnimation renders the animation description. The generated script is summarized, not printed.
func RenderAnimation(a *models.Animation) []byte {
	var buf bytes.Buffer
	heading(&buf, TitleAnimation)

	if a == nil || (a.AnimationDescription == "" && len(a.Scenes) == 0 && a.JavascriptCode == "") {
		buf.WriteString(EmptyAnimation + "\n")
		return buf.Bytes()
	}

	paragraph(&buf, "Description", a.AnimationDescription)
	paragraph(&buf, "Educational Purpose", a.EducationalPurpose)
	bullets(&buf, "Focus Equations", a.FocusEquations)
	bullets(&buf, "Interaction Hints", a.InteractionHints)

	var details []string
	if len(a.Scenes) > 0 {
		details = append(details, fmt.Sprintf("Scenes: %d", len(a.Scenes)))
	}
	if a.DurationSeconds > 0 {
		details = append(details, fmt.Sprintf("Duration: %.0fs", a.DurationSeconds))
	}
	if a.ComplexityLevel != "" {
		details = append(details, "Complexity: "+a.ComplexityLevel)
	}
	if a.JavascriptCode != "" {
		details = append(details, fmt.Sprintf("Script: %d lines", strings.Count(a.JavascriptCode, "\n")+1))
	}
	if len(details) > 0 {
		buf.WriteString(strings.Join(details, " | ") + "\n")
	}
	return buf.Bytes()
}

// RenderCodeEquations renders formulas and code examples.
func RenderCodeEquations(c *models.CodeEquations) []byte {
	var buf bytes.Buffer
	heading(&buf, TitleCode)

	if c == nil || (len(c.Equations) == 0 && len(c.CodeExamples) == 0) {
		buf.WriteString(EmptyCode + "\n")
		return buf.Bytes()
	}

	if len(c.Equations) > 0 {
		buf.WriteString("### Equations\n\n")
		for i, eq := range c.Equations {
			buf.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, eq.Formula))
			if eq.Explanation != "" {
				buf.WriteString("   " + eq.Explanation + "\n")
			}
			if len(eq.Variables) > 0 {
				keys := make([]string, 0, len(eq.Variables))
				for k := range eq.Variables {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				vars := make([]string, 0, len(keys))
				for _, k := range keys {
					vars = append(vars, fmt.Sprintf("%s = %v", k, eq.Variables[k]))
				}
				buf.WriteString("   Variables: " + strings.Join(vars, "; ") + "\n")
			}
			if eq.ExampleCalculation != "" {
				buf.WriteString("   Example: " + eq.ExampleCalculation + "\n")
			}
		}
		buf.WriteString("\n")
	}

	for _, ex := range c.CodeExamples {
		title := ex.Title
		if title == "" {
			title = "Code Example"
		}
		if ex.Language != "" {
			title = fmt.Sprintf("%s (%s)", title, ex.Language)
		}
		buf.WriteString("### " + title + "\n\n")
		buf.WriteString("```" + ex.Language + "\n" + strings.TrimRight(ex.Code, "\n") + "\n```\n\n")
		if ex.Explanation != "" {
			buf.WriteString(ex.Explanation + "\n\n")
		}
		if ex.Output != "" {
			buf.WriteString("Output: `" + ex.Output + "`\n\n")
		}
	}

	bullets(&buf, "Practical Applications", c.PracticalApplications)
	return buf.Bytes()
}

// RenderDiagrams renders diagrams, chart configurations and visual metaphors.
func RenderDiagrams(d *models.Diagrams) []byte {
	var buf bytes.Buffer
	heading(&buf, TitleVisualization)

	if d == nil || (len(d.Diagrams) == 0 && len(d.ChartConfigs) == 0 && len(d.VisualMetaphors) == 0) {
		buf.WriteString(EmptyVisualization + "\n")
		return buf.Bytes()
	}

	for _, dg := range d.Diagrams {
		title := dg.Title
		if title == "" {
			title = "Diagram"
		}
		buf.WriteString("### " + title + "\n\n")
		if dg.Type != "" {
			buf.WriteString(fmt.Sprintf("Type: %s | Elements: %d | Connections: %d\n\n", dg.Type, len(dg.Elements), len(dg.Connections)))
		}
		if dg.Description != "" {
			buf.WriteString(dg.Description + "\n\n")
		}
	}

	for _, ch := range d.ChartConfigs {
		title := ch.Title
		if title == "" {
			title = ch.ChartID
		}
		buf.WriteString(fmt.Sprintf("### Chart: %s\n\n", title))
		if ch.ChartType != "" {
			buf.WriteString("Type: " + ch.ChartType + "\n")
		}
		if ch.Axes.XAxis != "" || ch.Axes.YAxis != "" {
			buf.WriteString(fmt.Sprintf("Axes: %s / %s\n", axisLabel(ch.Axes.XAxis, ch.Axes.XUnit), axisLabel(ch.Axes.YAxis, ch.Axes.YUnit)))
		}
		if n := len(ch.Data.Points) + len(ch.Data.Values); n > 0 {
			buf.WriteString(fmt.Sprintf("Data points: %d\n", n))
		} else {
			buf.WriteString("No chart data available\n")
		}
		if ch.Description != "" {
			buf.WriteString("\n" + ch.Description + "\n")
		}
		buf.WriteString("\n")
	}

	bullets(&buf, "Visual Metaphors", d.VisualMetaphors)
	return buf.Bytes()
}

// RenderApplications renders real-world applications and case studies.
func RenderApplications(a *models.Applications) []byte {
	var buf bytes.Buffer
	heading(&buf, TitleApplications)

	if a == nil || (len(a.RealWorldApplications) == 0 && len(a.CaseStudies) == 0 &&
		len(a.CareerConnections) == 0 && len(a.EverydayExamples) == 0) {
		buf.WriteString(EmptyApplications + "\n")
		return buf.Bytes()
	}

	if len(a.RealWorldApplications) > 0 {
		buf.WriteString("### Real-World Applications\n\n")
		for _, app := range a.RealWorldApplications {
			line := "- **" + app.Application + "**"
			if app.Industry != "" {
				line += " (" + app.Industry + ")"
			}
			if app.Description != "" {
				line += ": " + app.Description
			}
			buf.WriteString(line + "\n")
			if app.ExampleScenario != "" {
				buf.WriteString("  - Scenario: " + app.ExampleScenario + "\n")
			}
			if app.ConnectionToConcept != "" {
				buf.WriteString("  - Connection: " + app.ConnectionToConcept + "\n")
			}
		}
		buf.WriteString("\n")
	}

	if len(a.CaseStudies) > 0 {
		buf.WriteString("### Case Studies\n\n")
		for _, cs := range a.CaseStudies {
			buf.WriteString("#### " + cs.Title + "\n\n")
			if cs.Description != "" {
				buf.WriteString(cs.Description + "\n\n")
			}
			if cs.Outcome != "" {
				buf.WriteString("Outcome: " + cs.Outcome + "\n\n")
			}
			if cs.Lesson != "" {
				buf.WriteString("Lesson: " + cs.Lesson + "\n\n")
			}
		}
	}

	bullets(&buf, "Career Connections", a.CareerConnections)
	bullets(&buf, "Everyday Examples", a.EverydayExamples)
	paragraph(&buf, "Future Implications", a.FutureImplications)
	return buf.Bytes()
}

// RenderSummary renders the executive summary, takeaways and flashcards.
func RenderSummary(s *models.Summary) []byte {
	var buf bytes.Buffer
	heading(&buf, TitleSummary)

	if s == nil || (s.ExecutiveSummary == "" && len(s.KeyTakeaways) == 0 && len(s.LearningCards) == 0) {
		buf.WriteString(EmptySummary + "\n")
		return buf.Bytes()
	}

	paragraph(&buf, "Overview", s.ExecutiveSummary)

	if len(s.LearningCards) > 0 {
		buf.WriteString("### Study Flashcards\n\n")
		for i, card := range s.LearningCards {
			buf.WriteString(fmt.Sprintf("%d. **Q:** %s\n   **A:** %s\n", i+1, card.Front, card.Back))
		}
		buf.WriteString("\n")
	}

	if len(s.KeyTakeaways) > 0 {
		buf.WriteString("### Key Takeaways\n\n")
		for _, kt := range s.KeyTakeaways {
			buf.WriteString(fmt.Sprintf("- **%s**: %s\n", kt.Concept, kt.Summary))
			if kt.MemoryAid != "" {
				buf.WriteString("  - Memory aid: " + kt.MemoryAid + "\n")
			}
		}
		buf.WriteString("\n")
	}

	if len(s.ReviewChecklist) > 0 {
		buf.WriteString("### Self-Check Review\n\n")
		for _, item := range s.ReviewChecklist {
			buf.WriteString("- [ ] " + item + "\n")
		}
		buf.WriteString("\n")
	}

	paragraph(&buf, "What's Next?", s.NextLearningSteps)
	return buf.Bytes()
}

// RenderQuiz renders the questions followed by the answer key.
func RenderQuiz(q *models.Quiz) []byte {
	var buf bytes.Buffer
	heading(&buf, TitleQuiz)

	if q == nil || len(q.Questions) == 0 {
		buf.WriteString(EmptyQuiz + "\n")
		return buf.Bytes()
	}

	if q.Metadata.Title != "" {
		buf.WriteString("**" + q.Metadata.Title + "**\n\n")
	}
	if q.Metadata.Description != "" {
		buf.WriteString(q.Metadata.Description + "\n\n")
	}

	for i, qq := range q.Questions {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, qq.Question))
		switch qq.Type {
		case models.QuestionTrueFalse:
			buf.WriteString("   - True\n   - False\n")
		case models.QuestionShortAnswer:
			buf.WriteString("   - _short answer_\n")
		default:
			for _, opt := range qq.Options {
				buf.WriteString("   - " + opt + "\n")
			}
		}
	}

	buf.WriteString("\n### Answer Key\n\n")
	for i, qq := range q.Questions {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, AnswerString(qq.CorrectAnswer)))
		if qq.Explanation != "" {
			buf.WriteString(" - " + qq.Explanation)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

func heading(buf *bytes.Buffer, title string) {
	buf.WriteString("## " + title + "\n\n")
}

func paragraph(buf *bytes.Buffer, title, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	buf.WriteString("### " + title + "\n\n" + text + "\n\n")
}

func bullets(buf *bytes.Buffer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	buf.WriteString("### " + title + "\n\n")
	for _, item := range items {
		buf.WriteString("- " + item + "\n")
	}
	buf.WriteString("\n")
}

func axisLabel(name, unit string) string {
	if unit == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, unit)
}
