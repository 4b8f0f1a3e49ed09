// Package profiles provides a fluent builder for member profiles used in tests.
//
// Example usage:
//
//	batch := profiles.New().
//		Male().
//		Born("15.6.1990").
//		InCity("Москва").
//		Repeat(7)
package profiles

import (
	"time"

	"github.com/Veraticus/audience-scope/internal/model"
)

// Builder assembles a single MemberProfile.
type Builder struct {
	p model.MemberProfile
}

// New starts an empty profile.
func New() *Builder {
	return &Builder{}
}

// ID sets the member id.
func (b *Builder) ID(id int64) *Builder {
	b.p.ID = id
	return b
}

// Male marks the profile as male.
func (b *Builder) Male() *Builder {
	b.p.Sex = model.SexMale
	return b
}

// Female marks the profile as female.
func (b *Builder) Female() *Builder {
	b.p.Sex = model.SexFemale
	return b
}

// Born sets the raw VK birth date string.
func (b *Builder) Born(bdate string) *Builder {
	b.p.BirthDate = bdate
	return b
}

// InCity sets the city title.
func (b *Builder) InCity(title string) *Builder {
	b.p.City = &model.Place{Title: title}
	return b
}

// InCountry sets the country title.
func (b *Builder) InCountry(title string) *Builder {
	b.p.Country = &model.Place{Title: title}
	return b
}

// Interests sets the interests free text.
func (b *Builder) Interests(text string) *Builder {
	b.p.Interests = text
	return b
}

// Activities sets the activities free text.
func (b *Builder) Activities(text string) *Builder {
	b.p.Activities = text
	return b
}

// SeenAt sets the last-seen timestamp.
func (b *Builder) SeenAt(t time.Time) *Builder {
	b.p.LastSeen = &model.LastSeen{Time: t.Unix()}
	return b
}

// Build returns a copy of the profile.
func (b *Builder) Build() model.MemberProfile {
	p := b.p
	if b.p.City != nil {
		c := *b.p.City
		p.City = &c
	}
	if b.p.Country != nil {
		c := *b.p.Country
		p.Country = &c
	}
	if b.p.LastSeen != nil {
		l := *b.p.LastSeen
		p.LastSeen = &l
	}
	return p
}

// Repeat returns n copies of the profile.
func (b *Builder) Repeat(n int) []model.MemberProfile {
	out := make([]model.MemberProfile, n)
	for i := range out {
		out[i] = b.Build()
		out[i].ID = b.p.ID + int64(i)
	}
	return out
}

// Concat joins batches into one.
func Concat(batches ...[]model.MemberProfile) []model.MemberProfile {
	var out []model.MemberProfile
	for _, batch := range batches {
		out = append(out, batch...)
	}
	return out
}
