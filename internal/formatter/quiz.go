package formatter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/desertthunder/surf/internal/models"
)

var optionLetter = regexp.MustCompile(`^[A-Da-d](\)|$)`)

// QuestionResult is the outcome of one answered question.
type QuestionResult struct {
	Index    int
	Answer   string
	Expected string
	Correct  bool
}

// QuizScore is the result of [ScoreQuiz].
type QuizScore struct {
	Correct  int
	Answered int
	Total    int
	Results  []QuestionResult
}

// Percent returns the rounded share of correct answers over all questions.
func (s QuizScore) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// Message returns the encouragement line for the score.
func (s QuizScore) Message() string {
	switch p := s.Percent(); {
	case p >= 80:
		return "Excellent work!"
	case p >= 60:
		return "Good job!"
	case p >= 40:
		return "Keep practicing!"
	default:
		return "Review the material and try again."
	}
}

// NormalizeAnswer converts raw input into the form the server uses for correct_answer.
//
// Multiple-choice answers like "B) Force" or "b" become "B"; true/false answers become "True" or "False".
func NormalizeAnswer(q models.QuizQuestion, answer string) string {
	answer = strings.TrimSpace(answer)
	switch q.Type {
	case models.QuestionMultipleChoice:
		if optionLetter.MatchString(answer) {
			return strings.ToUpper(answer[:1])
		}
	case models.QuestionTrueFalse:
		switch strings.ToLower(answer) {
		case "t", "true", "y", "yes":
			return "True"
		case "f", "false", "n", "no":
			return "False"
		}
	}
	return answer
}

// AnswerString formats a server correct_answer value.
func AnswerString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case bool:
		if a {
			return "True"
		}
		return "False"
	case float64:
		if a == math.Trunc(a) {
			return strconv.FormatInt(int64(a), 10)
		}
		return strconv.FormatFloat(a, 'f', -1, 64)
	default:
		return fmt.Sprint(a)
	}
}

// ScoreQuiz compares answers with each question's correct_answer. answers is indexed like
// questions; an empty entry is unanswered. Extra answers are ignored.
func ScoreQuiz(questions []models.QuizQuestion, answers []string) QuizScore {
	score := QuizScore{Total: len(questions)}
	for i, q := range questions {
		if i >= len(answers) || strings.TrimSpace(answers[i]) == "" {
			continue
		}
		got := NormalizeAnswer(q, answers[i])
		want := AnswerString(q.CorrectAnswer)
		res := QuestionResult{Index: i, Answer: got, Expected: want, Correct: got == want}

		score.Answered++
		if res.Correct {
			score.Correct++
		}
		score.Results = append(score.Results, res)
	}
	return score
}
