package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Sex is the VK sex code of a member.
type Sex int

const (
	// SexUnknown means the member did not specify a sex.
	SexUnknown Sex = 0
	// SexFemale is VK code 1.
	SexFemale Sex = 1
	// SexMale is VK code 2.
	SexMale Sex = 2
)

// Known reports whether the code is one of the recognized values.
func (s Sex) Known() bool {
	return s == SexFemale || s == SexMale
}

// UnmarshalJSON accepts the numeric VK codes as numbers or strings and the
// words "female" and "male". Anything else decodes to SexUnknown.
func (s *Sex) UnmarshalJSON(data []byte) error {
	*s = SexUnknown

	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		if Sex(code).Known() {
			*s = Sex(code)
		}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "female", "f":
		*s = SexFemale
	case "2", "male", "m":
		*s = SexMale
	}
	return nil
}

// Place is a VK city or country reference.
type Place struct {
	Title string `json:"title"`
	ID    int64  `json:"id"`
}

// LastSeen holds the last time a member was online.
type LastSeen struct {
	Time     int64 `json:"time"` // Unix seconds
	Platform int   `json:"platform,omitempty"`
}

// At returns the last-seen moment as a time.Time.
func (l *LastSeen) At() time.Time {
	return time.Unix(l.Time, 0)
}

// MemberProfile is one group member as returned by groups.getMembers.
// Every field except ID is optional and may be zero.
type MemberProfile struct {
	City       *Place    `json:"city,omitempty"`
	Country    *Place    `json:"country,omitempty"`
	LastSeen   *LastSeen `json:"last_seen,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	BirthDate  string    `json:"bdate,omitempty"` // "D.M" or "D.M.YYYY"
	Interests  string    `json:"interests,omitempty"`
	Activities string    `json:"activities,omitempty"`
	ID         int64     `json:"id"`
	Sex        Sex       `json:"sex,omitempty"`
}

// UnmarshalJSON decodes a profile field by field. A field of the wrong type
// is treated as absent so one odd record never fails a whole page.
// Only a value that is not a JSON object is an error.
func (p *MemberProfile) UnmarshalJSON(data []byte) error {
	var raw struct {
		City       json.RawMessage `json:"city"`
		Country    json.RawMessage `json:"country"`
		LastSeen   json.RawMessage `json:"last_seen"`
		FirstName  json.RawMessage `json:"first_name"`
		LastName   json.RawMessage `json:"last_name"`
		BirthDate  json.RawMessage `json:"bdate"`
		Interests  json.RawMessage `json:"interests"`
		Activities json.RawMessage `json:"activities"`
		ID         json.RawMessage `json:"id"`
		Sex        Sex             `json:"sex"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = MemberProfile{
		City:       lenientObject[Place](raw.City),
		Country:    lenientObject[Place](raw.Country),
		LastSeen:   lenientObject[LastSeen](raw.LastSeen),
		FirstName:  lenientString(raw.FirstName),
		LastName:   lenientString(raw.LastName),
		BirthDate:  lenientString(raw.BirthDate),
		Interests:  lenientString(raw.Interests),
		Activities: lenientString(raw.Activities),
		ID:         lenientID(raw.ID),
		Sex:        raw.Sex,
	}
	return nil
}

func lenientString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func lenientObject[T any](raw json.RawMessage) *T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil
	}
	return v
}

func lenientID(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return id
		}
	}
	return 0
}

// CityName returns the city title or an empty string.
func (p *MemberProfile) CityName() string {
	if p.City == nil {
		return ""
	}
	return strings.TrimSpace(p.City.Title)
}

// CountryName returns the country title or an empty string.
func (p *MemberProfile) CountryName() string {
	if p.Country == nil {
		return ""
	}
	return strings.TrimSpace(p.Country.Title)
}

// HasLastSeen reports whether the profile carries a last-seen timestamp.
func (p *MemberProfile) HasLastSeen() bool {
	return p.LastSeen != nil && p.LastSeen.Time > 0
}

// BirthDate is a possibly partial date of birth. Year is zero when hidden.
type BirthDate struct {
	Day   int
	Month int
	Year  int
}

// HasYear reports whether the year is known.
func (b BirthDate) HasYear() bool {
	return b.Year > 0
}

// AgeAt returns the age in full years on the given day, never negative.
// The second result is false when the year is unknown.
func (b BirthDate) AgeAt(now time.Time) (int, bool) {
	if !b.HasYear() {
		return 0, false
	}
	age := now.Year() - b.Year
	if int(now.Month()) < b.Month || (int(now.Month()) == b.Month && now.Day() < b.Day) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, true
}

// ParseBirthDate parses a VK bdate string. Malformed input yields ok=false.
// A date without a 4-digit year parses successfully with Year 0.
func ParseBirthDate(s string) (BirthDate, bool) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return BirthDate{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return BirthDate{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return BirthDate{}, false
	}

	bd := BirthDate{Day: day, Month: month}
	if len(parts) == 3 {
		if len(parts[2]) != 4 {
			return BirthDate{}, false
		}
		year, err := strconv.Atoi(parts[2])
		if err != nil || year <= 0 {
			return BirthDate{}, false
		}
		bd.Year = year
	}
	return bd, true
}
