package domain

import (
	"strings"
)

// Weekday is one of the canonical Spanish day keys used in Routine.RoutineByDay.
type Weekday string

const (
	Lunes     Weekday = "Lunes"
	Martes    Weekday = "Martes"
	Miercoles Weekday = "Miércoles"
	Jueves    Weekday = "Jueves"
	Viernes   Weekday = "Viernes"
	Sabado    Weekday = "Sábado"
	Domingo   Weekday = "Domingo"
)

// Weekdays is the fixed display order, Monday first. Never sort it.
var Weekdays = []Weekday{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado, Domingo}

// legacy spellings written by older screens
var weekdayAliases = map[string]Weekday{
	"miercoles": Miercoles,
	"sabado":    Sabado,
}

// ParseWeekday returns the canonical key for s. Matching ignores case and
// accepts the unaccented spellings found in older records.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(string(d), s) {
			return d, true
		}
	}
	if d, ok := weekdayAliases[strings.ToLower(s)]; ok {
		return d, true
	}
	return "", false
}

// Index returns the 0-based position of d in the week, or -1 if d is not canonical.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

func (d Weekday) String() string {
	return string(d)
}
