package http

import (
	"time"

	"github.com/couchcryptid/flood-monitor/internal/domain"
	"golang.org/x/text/language"
)

// invalidDate mirrors what browsers print for an unparseable date.
const invalidDate = "Invalid Date"

// displayLocales lists the supported locales; the first is the fallback.
var displayLocales = []language.Tag{
	language.BritishEnglish,
	language.AmericanEnglish,
}

var localeMatcher = language.NewMatcher(displayLocales)

var dateTimeLayouts = map[language.Tag]string{
	language.BritishEnglish:  "02/01/2006, 15:04:05",
	language.AmericanEnglish: "1/2/2006, 3:04:05 PM",
}

// negotiateLocale picks a display locale from an Accept-Language header.
func negotiateLocale(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return displayLocales[0]
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return displayLocales[0]
	}
	return displayLocales[idx]
}

// timeFormatter renders feed timestamps for one locale and zone.
type timeFormatter struct {
	layout string
	zone   *time.Location
}

func newTimeFormatter(tag language.Tag, zone *time.Location) timeFormatter {
	layout, ok := dateTimeLayouts[tag]
	if !ok {
		layout = dateTimeLayouts[displayLocales[0]]
	}
	if zone == nil {
		zone = time.UTC
	}
	return timeFormatter{layout: layout, zone: zone}
}

func (f timeFormatter) format(s string) string {
	t, err := domain.ParseFeedTime(s)
	if err != nil {
		return invalidDate
	}
	return t.In(f.zone).Format(f.layout)
}
