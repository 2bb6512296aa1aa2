package record

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRecord is the loose key/value shape produced by the ingestion channels.
// Upstream extractors emit whatever fields they managed to capture; keys vary
// by channel and values are untyped JSON.
type RawRecord map[string]any

// Normalize flattens a raw per-channel record into a CandidateRecord tagged
// with its originating channel. Missing or malformed fields degrade to their
// zero values; nothing here returns an error because the data comes from
// noisy external sources.
func Normalize(raw RawRecord, channel string) CandidateRecord {
	rec := CandidateRecord{
		Name:       cleanString(raw, "name", "display_name", "full_name"),
		Email:      cleanString(raw, "email", "email_address"),
		Phone:      cleanString(raw, "phone", "phone_number", "mobile"),
		Location:   cleanString(raw, "location", "city", "address"),
		Occupation: cleanString(raw, "occupation", "job_title", "work"),
		Text:       cleanString(raw, "text", "bio", "content", "notes"),
		ProfileURL: cleanString(raw, "profile_url", "url", "link"),
		Channel:    channel,

		Followers:         clampCount(raw, "followers", "follower_count"),
		Engagement:        clampCount(raw, "engagement", "engagement_count"),
		MutualConnections: clampCount(raw, "mutual_connections", "mutuals"),
		PastInteractions:  clampCount(raw, "past_interactions", "interactions"),
	}
	rec.Interests = stringList(raw, "interests", "keywords", "tags")
	rec.Skills = stringList(raw, "skills")
	return rec
}

// NormalizeAll flattens a slice of raw records for one channel, dropping
// entries that carry no information at all.
func NormalizeAll(raws []RawRecord, channel string) []CandidateRecord {
	records := make([]CandidateRecord, 0, len(raws))
	for _, raw := range raws {
		rec := Normalize(raw, channel)
		if rec.Name == "" && rec.Email == "" && rec.Phone == "" && rec.Text == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// cleanString returns the first present key coerced to a trimmed string.
func cleanString(raw RawRecord, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		case float64:
			// Numeric name/phone fields show up in spreadsheet exports.
			return strconv.FormatFloat(s, 'f', -1, 64)
		case fmt.Stringer:
			if trimmed := strings.TrimSpace(s.String()); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// clampCount coerces the first present key to a non-negative int.
func clampCount(raw RawRecord, keys ...string) int {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		var n int
		switch c := v.(type) {
		case float64:
			n = int(c)
		case int:
			n = c
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(c))
			if err != nil {
				continue
			}
			n = parsed
		default:
			continue
		}
		if n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// stringList coerces the first present key to a slice of trimmed strings.
// Accepts both JSON arrays and comma-separated strings.
func stringList(raw RawRecord, keys ...string) []string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch list := v.(type) {
		case []any:
			var out []string
			for _, item := range list {
				if s, ok := item.(string); ok {
					if trimmed := strings.TrimSpace(s); trimmed != "" {
						out = append(out, trimmed)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		case []string:
			var out []string
			for _, s := range list {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			var out []string
			for _, part := range strings.Split(list, ",") {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
