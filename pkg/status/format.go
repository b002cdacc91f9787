package status

import (
	"fmt"
	"time"
)

// FormatTimestamp renders t in loc the way zh-TW locales print a date and
// time: "2026/10/18 下午3:04:05". Month, day and hour are unpadded and the
// hour is on a 12-hour clock where midnight and noon read 12.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	marker := "上午"
	if t.Hour() >= 12 {
		marker = "下午"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%d/%d/%d %s%d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), marker, hour, t.Minute(), t.Second())
}
