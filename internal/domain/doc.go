// Package domain models Environment Agency flood-warning data.
//
// # Data Source
//
// Warnings come from the Environment Agency real-time flood-monitoring API,
// https://environment.data.gov.uk/flood-monitoring/id/floods. The endpoint
// returns every warning currently in force as a JSON document of the form
//
//	{ "items": [ { "@id": ..., "floodArea": { "county": ..., "riverOrSea": ... }, ... } ] }
//
// # Feed Conventions
//
// Identifiers:
//
//	"@id" is a URI such as
//	"http://environment.data.gov.uk/flood-monitoring/id/floods/112WAFTUBA".
//	It is opaque here and used only as a stable row key.
//
// Flood area:
//
//	The nested "floodArea" object is optional, and so are its "county" and
//	"riverOrSea" fields. Missing or empty values normalize to "Unknown".
//
// Severity:
//
//	"severityLevel" is the feed's own integer rank and "severity" its label:
//
//	  1  Severe Flood Warning
//	  2  Flood Warning
//	  3  Flood Alert
//	  4  Warning no longer in force
//
//	The level only drives styling (see [SeverityClass]).
//
// Timestamps:
//
//	"timeMessageChanged" is ISO-8601 in UTC, e.g. "2024-01-03T09:24:00".
//	It is kept as a string and parsed only when rendered (see [ParseFeedTime]).
package domain
