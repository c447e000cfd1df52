package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/surf/internal/models"
	"github.com/dustin/go-humanize"
)

// LoadingPlaceholder is shown while the profile has not been fetched.
const LoadingPlaceholder = "Loading..."

// RenderProfile renders the profile card. A nil profile renders [LoadingPlaceholder].
func RenderProfile(p *models.UserProfile) []byte {
	var buf bytes.Buffer
	if p == nil {
		buf.WriteString(LoadingPlaceholder + "\n")
		return buf.Bytes()
	}

	name := p.Name
	if name == "" {
		name = p.Username
	}
	buf.WriteString(fmt.Sprintf("%s (@%s)\n", name, p.Username))

	rows := [][2]string{
		{"Academic level", p.AcademicLevel},
		{"Major", p.Major},
		{"Language", p.LanguagePreference},
		{"Learning styles", learningStyleLabels(p.LearningStyles)},
	}
	if p.Age > 0 {
		rows = append(rows, [2]string{"Age", fmt.Sprint(p.Age)})
	}
	if p.DyslexiaSupport {
		rows = append(rows, [2]string{"Dyslexia support", "enabled"})
	}
	if since := memberSince(p.CreatedAt); since != "" {
		rows = append(rows, [2]string{"Member since", since})
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("  %-17s %s\n", row[0]+":", row[1]))
	}
	return buf.Bytes()
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"}

// memberSince humanizes the server created_at timestamp and returns it unchanged when unparsable.
func memberSince(createdAt string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, createdAt); err == nil {
			return humanize.Time(t)
		}
	}
	return createdAt
}

func learningStyleLabels(ids []string) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		label := id
		for _, s := range models.LearningStyles {
			if s.ID == id {
				label = s.Label
				break
			}
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}

// RenderOverview renders the transcript and processing summary of a result.
func RenderOverview(r *models.UploadResult) []byte {
	var buf bytes.Buffer
	buf.WriteString("## Overview\n\n")

	if r == nil {
		buf.WriteString("Upload a video to generate interactive learning materials.\n")
		return buf.Bytes()
	}

	if r.UserContext.Filename != "" {
		buf.WriteString("File: " + r.UserContext.Filename + "\n")
	}
	if r.Status != "" {
		buf.WriteString("Status: " + r.Status + "\n")
	}
	if r.UserContext.Background != "" {
		buf.WriteString("Personalized for: " + r.UserContext.Background + "\n")
	}
	if r.Concepts.WordCount > 0 {
		buf.WriteString("Words: " + humanize.Comma(int64(r.Concepts.WordCount)) + "\n")
	}
	if r.Concepts.EstimatedDuration != nil {
		buf.WriteString(fmt.Sprintf("Estimated duration: %v\n", r.Concepts.EstimatedDuration))
	}
	if ps := r.ProcessingSummary; ps.TotalSteps > 0 {
		buf.WriteString(fmt.Sprintf("Pipeline: %d steps, %d agents, %d learning formats\n",
			ps.TotalSteps, ps.AgentsExecuted, ps.LearningFormatsGenerated))
	}
	buf.WriteString("\n")

	if text := strings.TrimSpace(r.Transcript.Text); text != "" {
		title := "Transcript"
		if r.Transcript.Language != "" {
			title = fmt.Sprintf("Transcript (%s)", r.Transcript.Language)
		}
		paragraph(&buf, title, excerpt(text, 600))
	}
	paragraph(&buf, "Concept Analysis", r.Concepts.Analysis)
	return buf.Bytes()
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
