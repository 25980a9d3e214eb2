package pricing

import (
	"fmt"
	"math"
	"time"
)

// hoursPerWeek is the planning capacity used to convert estimated hours
// into delivery weeks.
const hoursPerWeek = 40

// FinalPrice applies a multiplier to a base price, rounding half-up to
// the nearest whole currency unit. A nil multiplier leaves the base
// price untouched.
func FinalPrice(basePrice int, m *Multiplier) int {
	if m == nil {
		return basePrice
	}
	return int(math.Floor(float64(basePrice)*m.Factor + 0.5))
}

// NewAnswer commits a user's selection for one question. It validates
// that the option belongs to the question and that a multiplier was
// chosen when the question requires one; these are precondition checks,
// the calculator itself never fails on committed answers.
func NewAnswer(questionID, optionID, multiplierID string) (Answer, error) {
	q, ok := QuestionByID(questionID)
	if !ok {
		return Answer{}, fmt.Errorf("pricing: %w: %s", ErrUnknownQuestion, questionID)
	}

	opt, ok := q.option(optionID)
	if !ok {
		return Answer{}, fmt.Errorf("pricing: %w: %s/%s", ErrUnknownOption, questionID, optionID)
	}

	var mult *Multiplier
	if multiplierID != "" {
		m, ok := q.multiplier(multiplierID)
		if !ok {
			return Answer{}, fmt.Errorf("pricing: %w: %s/%s", ErrUnknownMultiplier, questionID, multiplierID)
		}
		mult = &m
	} else if q.RequiresMultiplier {
		return Answer{}, fmt.Errorf("pricing: %w: %s", ErrMultiplierRequired, questionID)
	}

	answer := Answer{
		QuestionID: q.ID,
		OptionID:   opt.ID,
		BasePrice:  opt.BasePrice,
		FinalPrice: FinalPrice(opt.BasePrice, mult),
		Hours:      opt.Hours,
		StepDetails: StepDetails{
			Stage:         q.Stage,
			QuestionTitle: q.Title,
			OptionLabel:   opt.Label,
			OptionDesc:    opt.Description,
		},
	}
	if mult != nil {
		answer.MultiplierID = mult.ID
		answer.StepDetails.MultiplierLabel = mult.Label
		answer.StepDetails.MultiplierFactor = mult.Factor
	}
	return answer, nil
}

// Totals sums final prices and hours over an answer sequence. Both sums
// are order-independent; the sequence order is only preserved for
// display and audit.
func Totals(answers []Answer) (totalPrice, totalHours int) {
	for _, a := range answers {
		totalPrice += a.FinalPrice
		totalHours += a.Hours
	}
	return totalPrice, totalHours
}

// EstimatedWeeks converts total effort into delivery weeks, always
// rounding up.
func EstimatedWeeks(totalHours int) int {
	if totalHours <= 0 {
		return 0
	}
	return (totalHours + hoursPerWeek - 1) / hoursPerWeek
}

// Summarize derives the quote summary from a committed answer sequence.
func Summarize(answers []Answer, now time.Time) Summary {
	price, hours := Totals(answers)
	weeks := EstimatedWeeks(hours)
	return Summary{
		TotalPrice:          price,
		TotalHours:          hours,
		EstimatedWeeks:      weeks,
		EstimatedCompletion: now.Add(time.Duration(weeks) * 7 * 24 * time.Hour),
	}
}
