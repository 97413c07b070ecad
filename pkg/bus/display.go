package bus

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"

	"github.com/Komeii/courseweb/pkg/config"
)

// Bucket is how far away an arrival is, for display.
type Bucket int

const (
	BucketAbsolute Bucket = iota
	BucketRelative
	BucketArriving
)

const (
	// AbsoluteFrom is the lead time from which a clock time is shown.
	AbsoluteFrom = 30 * time.Minute
	// ArrivingWithin is the lead time under which the arriving sentinel is shown.
	ArrivingWithin = time.Minute
)

func (b Bucket) String() string {
	switch b {
	case BucketAbsolute:
		return "absolute"
	case BucketRelative:
		return "relative"
	case BucketArriving:
		return "arriving"
	default:
		return "unknown"
	}
}

// Classify buckets the lead time arrival - now. Exactly 30 minutes is shown
// as a clock time and exactly one minute as a relative duration.
func Classify(arrival, now time.Time) Bucket {
	lead := arrival.Sub(now)
	switch {
	case lead >= AbsoluteFrom:
		return BucketAbsolute
	case lead < ArrivingWithin:
		return BucketArriving
	default:
		return BucketRelative
	}
}

// DisplayTime renders an arrival for people standing at the stop: "HH:mm",
// an arriving sentinel, or a rounded relative duration in the given language.
func DisplayTime(arrival, now time.Time, lang language.Tag) string {
	zh := config.IsChinese(lang)

	switch Classify(arrival, now) {
	case BucketAbsolute:
		return arrival.Format("15:04")
	case BucketArriving:
		if zh {
			return "即將到站"
		}
		return "Arriving"
	}

	minutes := int(math.Round(arrival.Sub(now).Minutes()))
	if zh {
		return fmt.Sprintf("%d 分鐘", minutes)
	}
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// RouteTitle picks the route title for the language.
func RouteTitle(r Route, lang language.Tag) string {
	if config.IsChinese(lang) {
		return r.TitleZH
	}
	return r.TitleEN
}
