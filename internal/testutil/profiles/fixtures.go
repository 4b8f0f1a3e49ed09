package profiles

import (
	"time"

	"github.com/Veraticus/audience-scope/internal/model"
)

// ReferenceTime is the fixed "now" used by fixtures.
var ReferenceTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Complete returns a profile with every checklist field filled in, seen an hour
// before ReferenceTime.
func Complete() *Builder {
	return New().
		Male().
		Born("15.6.1990").
		InCity("Москва").
		InCountry("Россия").
		Interests("программирование").
		Activities("футбол").
		SeenAt(ReferenceTime.Add(-time.Hour))
}

// Mixed returns a varied batch of twenty profiles that exercises every section.
func Mixed() []model.MemberProfile {
	return Concat(
		Complete().ID(1).Repeat(6),
		New().ID(100).Female().Born("1.3.2001").InCity("Казань").InCountry("Россия").
			Interests("мода и косметика").SeenAt(ReferenceTime.Add(-3*24*time.Hour)).Repeat(5),
		New().ID(200).Female().Born("20.12").InCity("Минск").InCountry("Беларусь").
			Activities("йога, книги").SeenAt(ReferenceTime.Add(-45*24*time.Hour)).Repeat(4),
		New().ID(300).Born("bad-date").Interests("игры и кино").Repeat(3),
		New().ID(400).Male().Born("2.2.1960").InCity("Тверь").
			SeenAt(ReferenceTime.Add(-200*24*time.Hour)).Repeat(2),
	)
}
