package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Stockholm")
	if err != nil {
		panic(err)
	}
}

// the site renders every timestamp in swedish local time, so dates derived
// from <time.Time>.Year()/Month()/Day()/Hour()/... must be computed there too.
func Now() time.Time {
	return time.Now().In(Location)
}

// UnixMillis is the cache-busting value the site expects in the `_` query
// parameter.
func UnixMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}
