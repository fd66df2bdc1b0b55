package game

import "fmt"

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

var seasonCycle = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

const (
	MinutesPerHour = 60
	HoursPerDay    = 24
	MinutesPerDay  = MinutesPerHour * HoursPerDay
	DaysPerSeason  = 90
	DaysPerYear    = 365
)

// next returns the season n steps further along the cycle. Unknown seasons
// are treated as spring.
func (s Season) next(n int) Season {
	idx := 0
	for i, c := range seasonCycle {
		if c == s {
			idx = i
			break
		}
	}
	return seasonCycle[(idx+n)%len(seasonCycle)]
}

// GameTime is the in-world calendar. Day counts up from 1 and never resets;
// Year increments every DaysPerYear days.
type GameTime struct {
	Day    int    `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Season Season `json:"season"`
	Year   int    `json:"year"`
}

// StartTime is the calendar at the beginning of a new game.
func StartTime() GameTime {
	return GameTime{Day: 1, Hour: 8, Minute: 0, Season: SeasonSpring, Year: 1}
}

// Advance returns the time m minutes later. Crossing a day divisible by
// DaysPerSeason rotates the season; crossing one divisible by DaysPerYear
// increments the year.
func (t GameTime) Advance(m int) GameTime {
	if m <= 0 {
		return t
	}

	total := t.Minute + m
	t.Minute = total % MinutesPerHour

	hours := t.Hour + total/MinutesPerHour
	t.Hour = hours % HoursPerDay

	days := hours / HoursPerDay
	if days == 0 {
		return t
	}

	from, to := t.Day, t.Day+days
	t.Season = t.Season.next(to/DaysPerSeason - from/DaysPerSeason)
	t.Year += to/DaysPerYear - from/DaysPerYear
	t.Day = to

	return t
}

// Elapsed returns minutes since day 1 00:00.
func (t GameTime) Elapsed() int {
	return (t.Day-1)*MinutesPerDay + t.Hour*MinutesPerHour + t.Minute
}

// IsNight reports whether the hour falls in [18,24) or [0,6).
func (t GameTime) IsNight() bool {
	return t.Hour >= 18 || t.Hour < 6
}

func (t GameTime) String() string {
	return fmt.Sprintf("year %d, %s, day %d %02d:%02d", t.Year, t.Season, t.Day, t.Hour, t.Minute)
}
