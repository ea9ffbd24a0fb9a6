package hijri

import "fmt"

// Kind groups special days by observance type.
type Kind string

const (
	KindEid     Kind = "eid"
	KindRamadan Kind = "ramadan"
	KindSpecial Kind = "special"
)

// SpecialDay is an Islamic observance derived from a Hijri date.
type SpecialDay struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
}

// SpecialDayFor classifies a Hijri date against the fixed observance table,
// evaluated top to bottom with first match winning. Returns nil when no
// rule matches.
func SpecialDayFor(h HijriDate) *SpecialDay {
	switch {
	case h.MonthNumber == 9 && h.Day == 1:
		return &SpecialDay{
			Name:        "First Day of Ramadan",
			Description: "The fasting month begins",
			Kind:        KindRamadan,
		}
	case h.MonthNumber == 9 && h.Day >= 21 && h.Day%2 == 1:
		return &SpecialDay{
			Name:        "Laylatul Qadr (Possible)",
			Description: "One of the odd nights of the last ten days of Ramadan",
			Kind:        KindRamadan,
		}
	case h.MonthNumber == 9:
		return &SpecialDay{
			Name:        fmt.Sprintf("Ramadan Day %d", h.Day),
			Description: "A day of fasting in Ramadan",
			Kind:        KindRamadan,
		}
	case h.MonthNumber == 10 && h.Day == 1:
		return &SpecialDay{
			Name:        "Eid al-Fitr",
			Description: "Festival of breaking the fast",
			Kind:        KindEid,
		}
	case h.MonthNumber == 12 && h.Day == 9:
		return &SpecialDay{
			Name:        "Day of Arafah",
			Description: "The day of standing at Arafat during Hajj",
			Kind:        KindSpecial,
		}
	case h.MonthNumber == 12 && h.Day == 10:
		return &SpecialDay{
			Name:        "Eid al-Adha",
			Description: "Festival of sacrifice",
			Kind:        KindEid,
		}
	case h.MonthNumber == 1 && h.Day == 10:
		return &SpecialDay{
			Name:        "Day of Ashura",
			Description: "The tenth of Muharram",
			Kind:        KindSpecial,
		}
	case h.MonthNumber == 3 && h.Day == 12:
		return &SpecialDay{
			Name:        "Mawlid al-Nabi",
			Description: "Birth of the Prophet",
			Kind:        KindSpecial,
		}
	case h.MonthNumber == 7 && h.Day == 27:
		return &SpecialDay{
			Name:        "Lailat al-Miraj",
			Description: "The night journey and ascension",
			Kind:        KindSpecial,
		}
	case h.MonthNumber == 8 && h.Day == 15:
		return &SpecialDay{
			Name:        "Lailat al-Bara'ah",
			Description: "The night of forgiveness",
			Kind:        KindSpecial,
		}
	}
	return nil
}
