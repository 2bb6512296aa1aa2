package record

import "strings"

// Source channel tags. Each candidate record carries the channel that
// produced it so provenance survives the merge.
const (
	ChannelScreenshot     = "screenshot"
	ChannelURLScrape      = "url_scrape"
	ChannelFileImport     = "file_import"
	ChannelExportDump     = "export_dump"
	ChannelScraperAPI     = "scraper_api"
	ChannelManualText     = "manual_text"
	ChannelBrowserCapture = "browser_capture"
)

// ContactInfo is one contact identifier (e.g. type "email", value "a@x.com").
type ContactInfo struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SocialLink is a profile URL with the platform inferred from the URL.
type SocialLink struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// CandidateRecord is one source's description of a person, pre-fusion.
// It is owned by the fusion pass that created it and discarded after merge.
type CandidateRecord struct {
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Location   string   `json:"location,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Text       string   `json:"text,omitempty"`
	ProfileURL string   `json:"profile_url,omitempty"`
	Channel    string   `json:"channel"`

	// Engagement counters reported by the source. Clamped to >= 0 during
	// normalization; zero means no evidence.
	Followers         int `json:"followers,omitempty"`
	Engagement        int `json:"engagement,omitempty"`
	MutualConnections int `json:"mutual_connections,omitempty"`
	PastInteractions  int `json:"past_interactions,omitempty"`
}

// HasName reports whether the record carries a usable display name.
func (r CandidateRecord) HasName() bool {
	return strings.TrimSpace(r.Name) != ""
}
