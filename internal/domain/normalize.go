package domain

import (
	"fmt"
	"strings"
	"time"
)

// feedTimeLayouts are tried in order. The API omits the zone suffix on most
// timestamps, which are UTC.
var feedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeFeed maps every item of a feed response to a FloodRecord,
// keeping the upstream order. The result is never nil.
func NormalizeFeed(resp FeedResponse) []FloodRecord {
	records := make([]FloodRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, NormalizeItem(item))
	}
	return records
}

// NormalizeItem renames the feed fields and fills missing flood area values
// with UnknownValue.
func NormalizeItem(item FeedItem) FloodRecord {
	area := FloodArea{County: UnknownValue, RiverOrSea: UnknownValue}
	if item.FloodArea != nil {
		area.County = valueOrUnknown(item.FloodArea.County)
		area.RiverOrSea = valueOrUnknown(item.FloodArea.RiverOrSea)
	}

	return FloodRecord{
		ID:                 item.ID,
		Description:        item.Description,
		EAAreaName:         item.EAAreaName,
		FloodArea:          area,
		Message:            item.Message,
		Severity:           item.Severity,
		SeverityLevel:      item.SeverityLevel,
		TimeMessageChanged: item.TimeMessageChanged,
	}
}

func valueOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return UnknownValue
	}
	return *s
}

// ParseFeedTime parses a timeMessageChanged value. Values without a zone
// are read as UTC.
func ParseFeedTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse feed time %q: unrecognized format", s)
}

// SeverityClass returns the CSS class used to style a severity label.
func SeverityClass(level int) string {
	return fmt.Sprintf("severity-level-%d", level)
}
