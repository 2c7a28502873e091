package timescale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

type calendarNames struct {
	months   [12]string
	weekdays [7]string // Sunday first, short form
	week     string
}

var supported = []language.Tag{
	language.English,
	language.Russian,
	language.German,
	language.French,
	language.Spanish,
}

var names = []calendarNames{
	{
		months:   [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		week:     "W",
	},
	{
		months:   [12]string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"},
		weekdays: [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
		week:     "Н",
	},
	{
		months:   [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		weekdays: [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
		week:     "KW",
	},
	{
		months:   [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		weekdays: [7]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."},
		week:     "S",
	},
	{
		months:   [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		weekdays: [7]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
		week:     "S",
	},
}

var matcher = language.NewMatcher(supported)

// Labeler formats header labels for one locale.
type Labeler struct {
	tag   language.Tag
	names calendarNames
}

// NewLabeler picks the closest supported locale for tag. Unparseable or
// unsupported tags fall back to English.
func NewLabeler(tag string) Labeler {
	parsed, err := language.Parse(tag)
	if err != nil {
		return Labeler{tag: language.English, names: names[0]}
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		idx = 0
	}
	return Labeler{tag: supported[idx], names: names[idx]}
}

// Tag is the matched locale.
func (l Labeler) Tag() language.Tag { return l.tag }

// MonthName returns the localized full month name.
func (l Labeler) MonthName(m time.Month) string {
	return l.names.months[m-1]
}

// Bottom is the per-column label.
func (l Labeler) Bottom(t time.Time, g Granularity) string {
	switch g {
	case Hour:
		return fmt.Sprintf("%02d", t.Hour())
	case Week:
		_, w := t.ISOWeek()
		return fmt.Sprintf("%s%02d", l.names.week, w)
	case Month:
		return l.MonthName(t.Month())
	case Year:
		return fmt.Sprintf("%d", t.Year())
	default:
		return fmt.Sprintf("%s %d", l.names.weekdays[t.Weekday()], t.Day())
	}
}

// Top is the group label spanning several columns. Year has none.
func (l Labeler) Top(t time.Time, g Granularity) string {
	switch g {
	case Hour:
		return fmt.Sprintf("%s %d %s", l.names.weekdays[t.Weekday()], t.Day(), l.MonthName(t.Month()))
	case Month:
		return fmt.Sprintf("%d", t.Year())
	case Year:
		return ""
	default:
		return fmt.Sprintf("%s %d", l.MonthName(t.Month()), t.Year())
	}
}

// HeaderCell is one column of the two-row header.
type HeaderCell struct {
	Bottom string
	Top    string
	// GroupStart is set on the first column of each top label run.
	GroupStart bool
}

// Header labels every tick of s.
func (l Labeler) Header(s Scale) []HeaderCell {
	cells := make([]HeaderCell, len(s.Ticks))
	prev := ""
	for i, t := range s.Ticks {
		top := l.Top(t, s.Granularity)
		cells[i] = HeaderCell{
			Bottom:     l.Bottom(t, s.Granularity),
			Top:        top,
			GroupStart: i == 0 || top != prev,
		}
		prev = top
	}
	return cells
}
