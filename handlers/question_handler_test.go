package handlers

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestQuestionRequestToModel(t *testing.T) {
	req := QuestionRequest{
		Category:     "air_brakes",
		Jurisdiction: "CA",
		Text:         "At what PSI does the low air pressure warning activate?",
		Explanation:  "The warning must activate before pressure drops below 60 PSI.",
		Options: []OptionRequest{
			{Text: "30 PSI"},
			{Text: "60 PSI", IsCorrect: true},
		},
		Tags:       []string{"brakes", "safety"},
		References: []string{"Section 5.1", "Page 112"},
	}

	q, err := req.toModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.TimeLimitSeconds != 90 {
		t.Errorf("TimeLimitSeconds = %d, want default 90", q.TimeLimitSeconds)
	}
	if q.PointsValue != 1 {
		t.Errorf("PointsValue = %d, want default 1", q.PointsValue)
	}
	if len(q.Options) != 2 || !q.Options[1].IsCorrect {
		t.Errorf("options not carried over: %+v", q.Options)
	}

	var tags []string
	if err := json.Unmarshal(q.Tags, &tags); err != nil {
		t.Fatalf("tags column is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(tags, req.Tags) {
		t.Errorf("tags = %v, want %v", tags, req.Tags)
	}

	var refs []string
	if err := json.Unmarshal(q.References, &refs); err != nil {
		t.Fatalf("references column is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(refs, req.References) {
		t.Errorf("references = %v, want %v", refs, req.References)
	}
}

func TestQuestionRequestToModelKeepsExplicitLimits(t *testing.T) {
	req := QuestionRequest{
		Category:         "hazmat",
		Jurisdiction:     "TX",
		Text:             "Placards are required for how many pounds of hazardous material?",
		Explanation:      "Placards are required at 1,001 pounds or more.",
		Options:          []OptionRequest{{Text: "500"}, {Text: "1,001", IsCorrect: true}},
		TimeLimitSeconds: 120,
		PointsValue:      2,
	}

	q, err := req.toModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.TimeLimitSeconds != 120 {
		t.Errorf("TimeLimitSeconds = %d, want 120", q.TimeLimitSeconds)
	}
	if q.PointsValue != 2 {
		t.Errorf("PointsValue = %d, want 2", q.PointsValue)
	}
	if len(q.Tags) != 0 || len(q.References) != 0 {
		t.Errorf("empty tags/references must stay empty, got %s / %s", q.Tags, q.References)
	}
}
