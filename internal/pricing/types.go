package pricing

import "time"

// Question is one stage of the quote calculator: a prompt with a fixed
// set of selectable options and, for some stages, a complexity
// multiplier that must be chosen before the answer can be committed.
type Question struct {
	ID                 string       `json:"id"`
	Stage              string       `json:"stage"`
	Title              string       `json:"title"`
	Subtitle           string       `json:"subtitle,omitempty"`
	Options            []Option     `json:"options"`
	Multipliers        []Multiplier `json:"multipliers,omitempty"`
	RequiresMultiplier bool         `json:"requiresMultiplier"`
}

// Option is one selectable answer for a Question.
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	BasePrice   int    `json:"basePrice"`
	Hours       int    `json:"hours"`
	Description string `json:"description,omitempty"`
}

// Multiplier adjusts an option's base price for solution complexity.
type Multiplier struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Factor      float64 `json:"multiplier"`
	Description string  `json:"description,omitempty"`
}

// StepDetails is a denormalized snapshot of the question, option and
// multiplier text at answer time, so stored records stay meaningful if
// the static catalog later changes.
type StepDetails struct {
	Stage            string  `json:"stage"`
	QuestionTitle    string  `json:"questionTitle"`
	OptionLabel      string  `json:"optionLabel"`
	OptionDesc       string  `json:"optionDescription,omitempty"`
	MultiplierLabel  string  `json:"multiplierLabel,omitempty"`
	MultiplierFactor float64 `json:"multiplierFactor,omitempty"`
}

// Answer is a user's resolved choice for one Question.
type Answer struct {
	QuestionID   string      `json:"questionId"`
	OptionID     string      `json:"optionId"`
	MultiplierID string      `json:"multiplierId,omitempty"`
	BasePrice    int         `json:"basePrice"`
	FinalPrice   int         `json:"finalPrice"`
	Hours        int         `json:"hours"`
	StepDetails  StepDetails `json:"stepDetails"`
}

// Summary is derived from an answer sequence; it is never stored on its
// own.
type Summary struct {
	TotalPrice          int       `json:"totalPrice"`
	TotalHours          int       `json:"totalHours"`
	EstimatedWeeks      int       `json:"estimatedWeeks"`
	EstimatedCompletion time.Time `json:"estimatedCompletion"`
}
