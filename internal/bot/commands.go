package bot

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"wateryy/internal/model"
)

var errUnknownCommand = errors.New("unknown command")

// ValidationError carries the text shown to the user when a command is malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	msgSetInvalid    = "❌ Timer and amount must be positive numbers!"
	msgSetBMIInvalid = "❌ Please enter valid weight and height!"
	msgAddInvalid    = "❌ Amount must be positive!"
	msgSetTooLarge   = "❌ Timer can be at most 10080 minutes and amount at most 5000ml!"
	msgAddTooLarge   = "❌ Amount can be at most 5000ml!"

	maxTimerMinutes = 7 * 24 * 60
	maxAmountML     = 5000

	usageSet     = "Usage: `/set <timer_minutes> <amount_ml>`\nExample: `/set 30 250`"
	usageSetBMI  = "Usage: `/setbmi <weight_kg> <height_cm>`\nExample: `/setbmi 70 175`"
	usageAdd     = "Usage: `/add <amount_ml>`\nExample: `/add 250`"
	usageStats   = "Usage: `/stats [today|week|month|year]`"
	usageSuggest = "Usage: `/suggest <suggestion|issue> <text>`\nExample: `/suggest suggestion add weekly goals`"
)

// request is a parsed command.
type request interface {
	Command() string
}

type StartRequest struct{}

type StopRequest struct{}

type SetRequest struct {
	Timer  int
	Amount int
}

type SetBMIRequest struct {
	Weight float64
	Height float64
}

type AddRequest struct {
	Amount int
}

type StatsRequest struct {
	Period model.Period
}

type WaterIntakeInfoRequest struct{}

type DonateRequest struct{}

type SuggestRequest struct {
	Type    model.SuggestionType
	Content string
}

type HelpRequest struct{}

func (StartRequest) Command() string           { return "start" }
func (StopRequest) Command() string            { return "stop" }
func (SetRequest) Command() string             { return "set" }
func (SetBMIRequest) Command() string          { return "setbmi" }
func (AddRequest) Command() string             { return "add" }
func (StatsRequest) Command() string           { return "stats" }
func (WaterIntakeInfoRequest) Command() string { return "waterintakeinfo" }
func (DonateRequest) Command() string          { return "donate" }
func (SuggestRequest) Command() string         { return "suggest" }
func (HelpRequest) Command() string            { return "help" }

// parseCommand turns a command name and its raw arguments into a typed request.
// Malformed input yields a *ValidationError.
func parseCommand(name, args string) (request, error) {
	fields := strings.Fields(args)

	switch strings.ToLower(name) {
	case "start":
		return StartRequest{}, nil
	case "stop":
		return StopRequest{}, nil
	case "help":
		return HelpRequest{}, nil
	case "donate":
		return DonateRequest{}, nil
	case "waterintakeinfo":
		return WaterIntakeInfoRequest{}, nil

	case "set":
		if len(fields) != 2 {
			return nil, invalid(usageSet)
		}
		timer, err1 := strconv.Atoi(fields[0])
		amount, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return nil, invalid(usageSet)
		}
		if timer < 1 || amount < 1 {
			return nil, invalid(msgSetInvalid)
		}
		if timer > maxTimerMinutes || amount > maxAmountML {
			return nil, invalid(msgSetTooLarge)
		}
		return SetRequest{Timer: timer, Amount: amount}, nil

	case "setbmi":
		if len(fields) != 2 {
			return nil, invalid(usageSetBMI)
		}
		weight, err1 := parsePositiveFloat(fields[0])
		height, err2 := parsePositiveFloat(fields[1])
		if err1 != nil || err2 != nil {
			return nil, invalid(msgSetBMIInvalid)
		}
		return SetBMIRequest{Weight: weight, Height: height}, nil

	case "add":
		if len(fields) != 1 {
			return nil, invalid(usageAdd)
		}
		amount, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, invalid(usageAdd)
		}
		if amount <= 0 {
			return nil, invalid(msgAddInvalid)
		}
		if amount > maxAmountML {
			return nil, invalid(msgAddTooLarge)
		}
		return AddRequest{Amount: amount}, nil

	case "stats":
		if len(fields) > 1 {
			return nil, invalid(usageStats)
		}
		raw := ""
		if len(fields) == 1 {
			raw = strings.ToLower(fields[0])
		}
		period, ok := model.ParsePeriod(raw)
		if !ok {
			return nil, invalid(usageStats)
		}
		return StatsRequest{Period: period}, nil

	case "suggest":
		if len(fields) < 2 {
			return nil, invalid(usageSuggest)
		}
		typ, ok := model.ParseSuggestionType(strings.ToLower(fields[0]))
		if !ok {
			return nil, invalid(usageSuggest)
		}
		content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(args), fields[0]))
		return SuggestRequest{Type: typ, Content: content}, nil
	}

	return nil, errUnknownCommand
}

func parsePositiveFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a positive number")
	}
	return v, nil
}
