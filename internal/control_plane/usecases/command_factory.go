package usecases

import (
	"fmt"
	"nami-server/internal/shared_kernel/domain"
	"regexp"
	"slices"
	"strings"
	"time"
)

// CommandRequest is a raw command as submitted by staff tooling or the voice
// agent. Details fields are read according to the intent.
type CommandRequest struct {
	Intent      string
	Action      string
	Target      string
	Coordinates *domain.Coordinates
	Details     RequestDetails
	// Date accepts "today", "tomorrow" or YYYY-MM-DD
	Date string
	// Time accepts "11am", "11:30am", "14:00"
	Time string
}

type RequestDetails struct {
	Item     string
	From     string
	To       string
	Medicine string
	Patient  string
	Dosage   string
	Room     string
}

type FactoryConfig struct {
	Location             *time.Location
	ConfirmationRequired []domain.Intent
}

var _defaultActions = map[domain.Intent]string{
	domain.IntentNavigation:       domain.ActionNavigate,
	domain.IntentDelivery:         domain.ActionDeliver,
	domain.IntentMedicineDelivery: domain.ActionDeliver,
}

var _controlActions = []string{domain.ActionStop, domain.ActionResume, domain.ActionReturnHome}

const _controlTarget = "robot"

var _roomNumber = regexp.MustCompile(`^\d+[A-Za-z]?$`)

func NewCommandFactory(config FactoryConfig, clock Clock) *CommandFactory {
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	return &CommandFactory{
		location:             location,
		confirmationRequired: config.ConfirmationRequired,
		clock:                clock,
	}
}

// CommandFactory turns raw requests into valid pending commands. It never
// touches the store.
type CommandFactory struct {
	location             *time.Location
	confirmationRequired []domain.Intent
	clock                Clock
}

func (f *CommandFactory) Create(req CommandRequest) (domain.Command, error) {
	if strings.TrimSpace(req.Intent) == "" {
		return domain.Command{}, fmt.Errorf("%w: intent is required", domain.ErrValidation)
	}
	intent, err := domain.ParseIntent(req.Intent)
	if err != nil {
		return domain.Command{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	action, err := f.action(intent, req.Action)
	if err != nil {
		return domain.Command{}, err
	}

	details, target := f.details(intent, req)
	if strings.TrimSpace(target) == "" {
		return domain.Command{}, fmt.Errorf("%w: target is required for %s", domain.ErrValidation, intent)
	}

	now := f.clock()
	dispatchAfter, err := f.dispatchAfter(now, req.Date, req.Time)
	if err != nil {
		return domain.Command{}, err
	}

	return domain.NewCommandBuilder().
		WithIntent(intent).
		WithAction(action).
		WithTarget(target).
		WithCoordinates(req.Coordinates).
		WithDetails(details).
		WithDispatchAfter(dispatchAfter).
		WithConfirmationRequired(slices.Contains(f.confirmationRequired, intent)).
		WithCreatedAt(now).
		Build()
}

func (f *CommandFactory) action(intent domain.Intent, requested string) (string, error) {
	action := strings.ToLower(strings.TrimSpace(requested))

	if intent == domain.IntentRobotControl {
		if !slices.Contains(_controlActions, action) {
			return "", fmt.Errorf("%w: robot control action must be one of %s, got %q",
				domain.ErrValidation, strings.Join(_controlActions, ", "), requested)
		}
		return action, nil
	}

	if action == "" {
		return _defaultActions[intent], nil
	}
	return action, nil
}

func (f *CommandFactory) details(intent domain.Intent, req CommandRequest) (domain.Details, string) {
	d := req.Details
	target := strings.TrimSpace(req.Target)

	switch intent {
	case domain.IntentDelivery:
		to := NormalizeLocation(d.To)
		if to == "" {
			to = NormalizeLocation(target)
		}
		return domain.DeliveryDetails{
			Item: strings.TrimSpace(d.Item),
			From: NormalizeLocation(d.From),
			To:   to,
		}, to
	case domain.IntentMedicineDelivery:
		room := NormalizeLocation(d.Room)
		if room == "" {
			room = NormalizeLocation(target)
		}
		return domain.MedicineDeliveryDetails{
			Medicine: strings.TrimSpace(d.Medicine),
			Patient:  strings.TrimSpace(d.Patient),
			Dosage:   strings.TrimSpace(d.Dosage),
			Room:     room,
		}, room
	case domain.IntentRobotControl:
		if target == "" {
			target = _controlTarget
		}
		return domain.RobotControlDetails{}, target
	default:
		return domain.NavigationDetails{}, NormalizeLocation(target)
	}
}

// NormalizeLocation turns a bare room number such as "302" into "Room 302".
func NormalizeLocation(value string) string {
	value = strings.TrimSpace(value)
	if _roomNumber.MatchString(value) {
		return "Room " + strings.ToUpper(value)
	}
	return value
}

func (f *CommandFactory) dispatchAfter(now time.Time, date, clock string) (time.Time, error) {
	date = strings.ToLower(strings.TrimSpace(date))
	clock = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(clock), " ", ""))
	if date == "" && clock == "" {
		return now, nil
	}

	local := now.In(f.location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, f.location)

	switch date {
	case "", "today":
	case "tomorrow":
		day = day.AddDate(0, 0, 1)
	default:
		parsed, err := time.ParseInLocation(time.DateOnly, date, f.location)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: unrecognized date %q", domain.ErrValidation, date)
		}
		day = parsed
	}

	if clock == "" {
		return day.UTC(), nil
	}

	hour, minute, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, f.location).UTC(), nil
}

var _clockLayouts = []string{"3pm", "3:04pm", "15:04", "15"}

func parseClock(value string) (int, int, error) {
	for _, layout := range _clockLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.Hour(), parsed.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: unrecognized time %q", domain.ErrValidation, value)
}
