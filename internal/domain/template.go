package domain

import (
	"encoding/json"
	"strconv"
)

// TemplateKind identifies which of the three authored document shapes a
// template uses.
type TemplateKind string

const (
	TemplatePhaseStructured TemplateKind = "phase_structured"
	TemplateExerciseList    TemplateKind = "exercise_list"
	TemplateWeeklySchedule  TemplateKind = "weekly_schedule"
	TemplateUnrecognized    TemplateKind = "unrecognized"
)

// TemplateExercise is one prescribed movement inside an authored template
// document. Reps may be authored as a number or a string ("8-10", "AMRAP",
// "failure"); it is normalized to a string on decode.
type TemplateExercise struct {
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	Reps         RepsValue `json:"reps"`
	RestSeconds  int       `json:"rest_seconds"`
	Tempo        string    `json:"tempo,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

// RepsValue accepts both numeric and string reps notation.
type RepsValue string

func (r *RepsValue) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RepsValue(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RepsValue(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// TemplatePhaseDef is one phase block in a phase-structured document.
type TemplatePhaseDef struct {
	PhaseNumber     int               `json:"phase_number"`
	Name            string            `json:"name"`
	StartWeek       int               `json:"start_week"`
	EndWeek         int               `json:"end_week"`
	TargetIntensity string            `json:"target_intensity,omitempty"`
	TargetVolume    string            `json:"target_volume,omitempty"`
	RepRange        string            `json:"rep_range,omitempty"`
	Sets            int               `json:"sets,omitempty"`
	RestRange       string            `json:"rest_range,omitempty"`
	Weeks           []TemplateWeekDef `json:"weeks,omitempty"`
}

// TemplateWeekDef is one microcycle inside a phase definition.
type TemplateWeekDef struct {
	WeekNumber        int              `json:"week_number"`
	VolumeModifier    float64          `json:"volume_modifier,omitempty"`
	IntensityModifier float64          `json:"intensity_modifier,omitempty"`
	Days              []TemplateDayDef `json:"days,omitempty"`
}

// TemplateDayDef is one training day inside a week definition.
type TemplateDayDef struct {
	DayNumber   int                `json:"day_number"`
	Label       string             `json:"label,omitempty"`
	WorkoutType string             `json:"workout_type,omitempty"`
	Exercises   []TemplateExercise `json:"exercises,omitempty"`
}

// TemplateScheduleDay is one named day in a weekly-schedule document.
type TemplateScheduleDay struct {
	Day       string             `json:"day"`
	Focus     string             `json:"focus,omitempty"`
	Exercises []TemplateExercise `json:"exercises,omitempty"`
}

// TemplateDocument is the decoded form of an authored program document.
// Exactly one of the variant fields is populated, per Kind. Authored
// documents are a three-way union discriminated by which top-level key is
// present: phase_structure, exercises, or weekly_schedule.
type TemplateDocument struct {
	Kind TemplateKind

	Name        string
	Description string

	PhaseStructure []TemplatePhaseDef    // Kind == TemplatePhaseStructured
	Exercises      []TemplateExercise    // Kind == TemplateExerciseList
	WeeklySchedule []TemplateScheduleDay // Kind == TemplateWeeklySchedule

	// Raw keeps the original document bytes for storage in TemplateData.
	Raw []byte
}

// rawTemplateDoc mirrors the authored JSON shape for decoding.
type rawTemplateDoc struct {
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	PhaseStructure []TemplatePhaseDef    `json:"phase_structure"`
	Exercises      []TemplateExercise    `json:"exercises"`
	WeeklySchedule []TemplateScheduleDay `json:"weekly_schedule"`
}

// ParseTemplateDocument decodes an authored template document and classifies
// it into one of the three recognized shapes. Documents with none of the
// recognized top-level keys decode as TemplateUnrecognized; that is not an
// error, callers decide how to handle it.
func ParseTemplateDocument(data []byte) (*TemplateDocument, error) {
	var raw rawTemplateDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := &TemplateDocument{
		Name:        raw.Name,
		Description: raw.Description,
		Raw:         data,
	}

	switch {
	case raw.PhaseStructure != nil:
		doc.Kind = TemplatePhaseStructured
		doc.PhaseStructure = raw.PhaseStructure
	case raw.Exercises != nil:
		doc.Kind = TemplateExerciseList
		doc.Exercises = raw.Exercises
	case raw.WeeklySchedule != nil:
		doc.Kind = TemplateWeeklySchedule
		doc.WeeklySchedule = raw.WeeklySchedule
	default:
		doc.Kind = TemplateUnrecognized
	}

	return doc, nil
}
