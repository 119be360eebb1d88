package domain

// UnknownValue replaces flood area fields that are missing from the feed.
const UnknownValue = "Unknown"

// FeedResponse is the top-level document returned by the flood-monitoring API.
type FeedResponse struct {
	Items []FeedItem `json:"items"`
}

// FeedItem is one upstream warning as published by the API.
type FeedItem struct {
	ID                 string         `json:"@id"`
	Description        string         `json:"description"`
	EAAreaName         string         `json:"eaAreaName"`
	FloodArea          *FeedFloodArea `json:"floodArea,omitempty"`
	Message            string         `json:"message"`
	Severity           string         `json:"severity"`
	SeverityLevel      int            `json:"severityLevel"`
	TimeMessageChanged string         `json:"timeMessageChanged"`
}

// FeedFloodArea is the optional nested area object. A nil field was absent
// from the payload.
type FeedFloodArea struct {
	County     *string `json:"county,omitempty"`
	RiverOrSea *string `json:"riverOrSea,omitempty"`
}

// FloodArea locates a warning by county and watercourse.
type FloodArea struct {
	County     string `json:"county"`
	RiverOrSea string `json:"riverOrSea"`
}

// FloodRecord is the flattened view of a FeedItem that gets cached and rendered.
type FloodRecord struct {
	ID                 string    `json:"id"`
	Description        string    `json:"description"`
	EAAreaName         string    `json:"eaAreaName"`
	FloodArea          FloodArea `json:"floodArea"`
	Message            string    `json:"message"`
	Severity           string    `json:"severity"`
	SeverityLevel      int       `json:"severityLevel"`
	TimeMessageChanged string    `json:"timeMessageChanged"`
}
