package audience

import (
	"context"
	"time"

	"github.com/Veraticus/audience-scope/internal/model"
)

// Last-seen bucket names.
const (
	SeenLessThanDay = "less_than_day"
	Seen1To7Days    = "1-7_days"
	Seen1To4Weeks   = "1-4_weeks"
	Seen1To3Months  = "1-3_months"
	SeenOver3Months = "over_3_months"
	SeenNever       = "never"
)

// LastSeenBuckets lists the buckets from most to least recent.
var LastSeenBuckets = []string{
	SeenLessThanDay, Seen1To7Days, Seen1To4Weeks, Seen1To3Months, SeenOver3Months, SeenNever,
}

const day = 24 * time.Hour

// Activity buckets profiles by time since last seen.
func Activity(ctx context.Context, profiles []model.MemberProfile, now time.Time) (*model.SocialActivity, error) {
	counts := make(map[string]int, len(LastSeenBuckets))

	for i := range profiles {
		if err := checkCanceled(ctx, i); err != nil {
			return nil, err
		}
		counts[lastSeenBucket(&profiles[i], now)]++
	}

	total := len(profiles)
	distribution := make(map[string]float64, len(LastSeenBuckets))
	for _, b := range LastSeenBuckets {
		distribution[b] = model.Percent(counts[b], total)
	}

	return &model.SocialActivity{
		LastSeenDistribution:  distribution,
		ActiveUsersPercentage: model.Percent(counts[SeenLessThanDay]+counts[Seen1To7Days], total),
	}, nil
}

func lastSeenBucket(p *model.MemberProfile, now time.Time) string {
	if !p.HasLastSeen() {
		return SeenNever
	}
	elapsed := now.Sub(p.LastSeen.At())
	switch {
	case elapsed < day:
		return SeenLessThanDay
	case elapsed < 7*day:
		return Seen1To7Days
	case elapsed < 30*day:
		return Seen1To4Weeks
	case elapsed < 90*day:
		return Seen1To3Months
	default:
		return SeenOver3Months
	}
}
