package models

// ActivityKind is a closed set of booking activity types. Display
// color and recurrence eligibility are attributes of the kind, not a
// runtime lookup table.
type ActivityKind string

const (
	ActivityOneTime          ActivityKind = "one_time"
	ActivityGroup            ActivityKind = "group"
	ActivityRegular          ActivityKind = "regular"
	ActivityTournament       ActivityKind = "tournament"
	ActivityPersonalTraining ActivityKind = "personal_training"
)

type activityInfo struct {
	label       string
	color       string
	recurring   bool
	allowsCoach bool
}

var activities = map[ActivityKind]activityInfo{
	ActivityOneTime:          {label: "Разовая бронь корта", color: "#7dd3fc"},
	ActivityGroup:            {label: "Группа", color: "#3b82f6", recurring: true, allowsCoach: true},
	ActivityRegular:          {label: "Регулярная бронь корта", color: "#10b981", recurring: true},
	ActivityTournament:       {label: "Турнир", color: "#fca5a5"},
	ActivityPersonalTraining: {label: "Персональная тренировка", color: "#c4b5fd", allowsCoach: true},
}

// Valid reports whether the kind is one of the known activity types.
func (k ActivityKind) Valid() bool {
	_, ok := activities[k]
	return ok
}

// Label returns the operator-facing display name.
func (k ActivityKind) Label() string {
	return activities[k].label
}

// Color returns the calendar display color for the kind.
func (k ActivityKind) Color() string {
	if info, ok := activities[k]; ok {
		return info.color
	}
	return activities[ActivityOneTime].color
}

// Recurring reports whether the kind may form a weekly series.
func (k ActivityKind) Recurring() bool {
	return activities[k].recurring
}

// AllowsCoach reports whether a coach name may be attached.
func (k ActivityKind) AllowsCoach() bool {
	return activities[k].allowsCoach
}
