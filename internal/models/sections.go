package models

import (
	"encoding/json"
	"fmt"
)

// Explanation is the personalized explanation of the video's concepts.
type Explanation struct {
	MainExplanation        string       `json:"main_explanation"`
	KeyConcepts            []KeyConcept `json:"key_concepts"`
	ConnectionsToUserField string       `json:"connections_to_user_field"`
	CommonMisconceptions   []string     `json:"common_misconceptions"`
	PracticalApplications  []string     `json:"practical_applications"`
	DifficultyProgression  string       `json:"difficulty_progression"`
	NextSteps              string       `json:"next_steps"`
}

// KeyConcept is one concept within an [Explanation].
type KeyConcept struct {
	Concept     string `json:"concept"`
	Explanation string `json:"explanation"`
	Analogy     string `json:"analogy"`
	Example     string `json:"example"`
}

// Summary condenses the video into takeaways and flashcards.
type Summary struct {
	ExecutiveSummary  string         `json:"executive_summary"`
	KeyTakeaways      []KeyTakeaway  `json:"key_takeaways"`
	LearningCards     []LearningCard `json:"learning_cards"`
	ReviewChecklist   []string       `json:"review_checklist"`
	NextLearningSteps string         `json:"next_learning_steps"`
}

type KeyTakeaway struct {
	Concept    string `json:"concept"`
	Summary    string `json:"summary"`
	Importance string `json:"importance"`
	MemoryAid  string `json:"memory_aid"`
}

type LearningCard struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Quiz is a generated set of questions with a server-declared answer key.
type Quiz struct {
	Metadata     QuizMetadata   `json:"quiz_metadata"`
	Questions    []QuizQuestion `json:"questions"`
	ScoringGuide any            `json:"scoring_guide"`
}

type QuizMetadata struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedTime   string `json:"estimated_time"`
	DifficultyLevel string `json:"difficulty_level"`
}

// Question types emitted by the content generator.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

type QuizQuestion struct {
	ID            any      `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer any      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	ConceptTested string   `json:"concept_tested"`
}

// Applications links the concepts to real-world use.
type Applications struct {
	RealWorldApplications []RealWorldApplication `json:"real_world_applications"`
	CareerConnections     []string               `json:"career_connections"`
	EverydayExamples      []string               `json:"everyday_examples"`
	CaseStudies           []CaseStudy            `json:"case_studies"`
	FutureImplications    string                 `json:"future_implications"`
}

type RealWorldApplication struct {
	Application         string `json:"application"`
	Description         string `json:"description"`
	Industry            string `json:"industry"`
	ExampleScenario     string `json:"example_scenario"`
	ConnectionToConcept string `json:"connection_to_concept"`
}

type CaseStudy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Outcome     string `json:"outcome"`
	Lesson      string `json:"lesson"`
}

// CodeEquations holds formulas and runnable code samples.
type CodeEquations struct {
	Equations             []Equation    `json:"equations"`
	CodeExamples          []CodeExample `json:"code_examples"`
	PracticalApplications StringList    `json:"practical_applications"`
}

type Equation struct {
	Formula            string         `json:"formula"`
	Explanation        string         `json:"explanation"`
	Variables          map[string]any `json:"variables"`
	ExampleCalculation string         `json:"example_calculation"`
}

type CodeExample struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
	Output      string `json:"output"`
}

// Animation describes a generated interactive animation.
type Animation struct {
	Scenes               []any      `json:"scenes"`
	FocusEquations       StringList `json:"focus_equations"`
	JavascriptCode       string     `json:"javascript_code"`
	AnimationDescription string     `json:"animation_description"`
	EducationalPurpose   string     `json:"educational_purpose"`
	InteractionHints     StringList `json:"interaction_hints"`
	DurationSeconds      float64    `json:"duration_seconds"`
	ComplexityLevel      string     `json:"complexity_level"`
}

// Diagrams holds generated diagrams, chart configurations and visual metaphors.
type Diagrams struct {
	Diagrams        []Diagram     `json:"diagrams"`
	ChartConfigs    []ChartConfig `json:"chart_configs"`
	VisualMetaphors StringList    `json:"visual_metaphors"`
	Agent           string        `json:"agent"`
	SchemaVersion   string        `json:"schema_version"`
}

type Diagram struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Elements    []any  `json:"elements"`
	Connections []any  `json:"connections"`
	SVGCode     string `json:"svg_code"`
}

type ChartConfig struct {
	ChartID     string    `json:"chart_id"`
	ChartType   string    `json:"chart_type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Data        ChartData `json:"data"`
	Axes        ChartAxes `json:"axes"`
	Annotations any       `json:"annotations"`
	Styling     any       `json:"styling"`
}

type ChartData struct {
	Points []ChartPoint `json:"points"`
	Labels []string     `json:"labels"`
	Values []float64    `json:"values"`
}

type ChartPoint struct {
	X     any    `json:"x"`
	Y     any    `json:"y"`
	Label string `json:"label"`
}

type ChartAxes struct {
	XAxis string `json:"x_axis"`
	YAxis string `json:"y_axis"`
	XUnit string `json:"x_unit"`
	YUnit string `json:"y_unit"`
}

// StringList decodes either a JSON string or an array of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}

	var many []any
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array: %w", err)
	}

	out := make(StringList, 0, len(many))
	for _, v := range many {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	*l = out
	return nil
}
