package youtube

import (
	"time"

	"github.com/sosodev/duration"
)

// ShortVideoLimit is the length below which a video counts as short
const ShortVideoLimit = 60 * time.Second

// IsShortDuration reports whether an ISO-8601 duration such as "PT45S" is
// under a minute. Empty, unparsable and zero durations (live streams report
// "P0D") are not short.
func IsShortDuration(iso string) bool {
	if iso == "" {
		return false
	}
	d, err := duration.Parse(iso)
	if err != nil {
		return false
	}
	length := d.ToTimeDuration()
	return length > 0 && length < ShortVideoLimit
}
