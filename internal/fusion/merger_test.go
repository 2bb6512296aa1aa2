package fusion

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kastilyo/leadscout/internal/record"
)

// fixedIDs hands out predictable IDs for deterministic assertions.
type fixedIDs struct {
	next int
}

func (f *fixedIDs) NewID() string {
	f.next++
	return string(rune('a' + f.next - 1))
}

func newTestMerger() *Merger {
	return NewMerger(NewSignalExtractor(DefaultSignalLexicon), &fixedIDs{})
}

func TestMergeCluster(t *testing.T) {
	m := newTestMerger()

	cluster := Cluster{
		Records: []record.CandidateRecord{
			{
				Name:    "Maria Santos",
				Email:   "maria@example.com",
				Channel: record.ChannelScreenshot,
				Text:    "Looking for extra income, pagod sa trabaho",
			},
			{
				Name:       "maria santos",
				Email:      "MARIA@example.com",
				Channel:    record.ChannelURLScrape,
				Occupation: "Branch Manager",
				Location:   "Quezon City",
				ProfileURL: "https://www.facebook.com/mariasantos",
				Followers:  8000,
				Interests:  []string{"investment"},
			},
			{
				Name:      "MARIA SANTOS",
				Phone:     "0917 555 0142",
				Channel:   record.ChannelExportDump,
				Followers: 12000,
				Interests: []string{"investment", "travel"},
			},
		},
	}

	entity := m.Merge(cluster)

	if entity.Name != "Maria Santos" {
		t.Errorf("canonical name = %q, want first member's name", entity.Name)
	}
	if entity.MergedCount != 3 {
		t.Errorf("merged count = %d, want 3", entity.MergedCount)
	}
	if entity.Confidence != ConfidenceManySources {
		t.Errorf("confidence = %v, want %v", entity.Confidence, ConfidenceManySources)
	}

	wantChannels := []string{record.ChannelScreenshot, record.ChannelURLScrape, record.ChannelExportDump}
	if diff := cmp.Diff(wantChannels, entity.Channels); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}

	// Duplicate emails differing only in case collapse to one contact entry.
	wantContacts := []record.ContactInfo{
		{Type: "email", Value: "maria@example.com"},
		{Type: "phone", Value: "0917 555 0142"},
	}
	if diff := cmp.Diff(wantContacts, entity.ContactInfo); diff != "" {
		t.Errorf("contact info mismatch (-want +got):\n%s", diff)
	}

	// Interests union keeps insertion order.
	if diff := cmp.Diff([]string{"investment", "travel"}, entity.Interests); diff != "" {
		t.Errorf("interests mismatch (-want +got):\n%s", diff)
	}

	// Numeric counters merge via max.
	if entity.Followers != 12000 {
		t.Errorf("followers = %d, want 12000", entity.Followers)
	}

	// Free text ran through the signal extractor.
	if diff := cmp.Diff([]string{"extra income", "investment"}, entity.Signals); diff != "" {
		t.Errorf("signals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"pagod sa trabaho"}, entity.Sentiments); diff != "" {
		t.Errorf("sentiments mismatch (-want +got):\n%s", diff)
	}

	if len(entity.SocialLinks) != 1 || entity.SocialLinks[0].Platform != "facebook" {
		t.Errorf("social links = %+v, want one facebook link", entity.SocialLinks)
	}

	if entity.RelationshipStrength != 0 {
		t.Errorf("relationship strength = %d, want 0 out of the fusion pass", entity.RelationshipStrength)
	}
}

func TestConvertSingleton(t *testing.T) {
	m := newTestMerger()

	entity := m.Convert(record.CandidateRecord{
		Name:    "Ben Reyes",
		Channel: record.ChannelManualText,
	})

	if entity.MergedCount != 1 {
		t.Errorf("merged count = %d, want 1", entity.MergedCount)
	}
	if entity.Confidence != ConfidenceSingle {
		t.Errorf("confidence = %v, want %v", entity.Confidence, ConfidenceSingle)
	}
	if len(entity.Channels) != 1 || entity.Channels[0] != record.ChannelManualText {
		t.Errorf("channels = %v, want [%s]", entity.Channels, record.ChannelManualText)
	}
}

func TestMergeConfidenceTwoSources(t *testing.T) {
	m := newTestMerger()

	entity := m.Merge(Cluster{Records: []record.CandidateRecord{
		{Name: "Ana Lim", Channel: record.ChannelScreenshot},
		{Name: "ana lim", Channel: record.ChannelBrowserCapture},
	}})

	if entity.Confidence != ConfidenceTwoSources {
		t.Errorf("confidence = %v, want %v", entity.Confidence, ConfidenceTwoSources)
	}
}

func TestInferPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.facebook.com/someone", "facebook"},
		{"https://instagram.com/someone", "instagram"},
		{"https://twitter.com/someone", "twitter-x"},
		{"https://x.com/someone", "twitter-x"},
		{"https://www.linkedin.com/in/someone", "linkedin"},
		{"https://www.tiktok.com/@someone", "tiktok"},
		{"https://example.com/someone", "unknown"},
	}

	for _, test := range tests {
		if got := InferPlatform(test.url); got != test.want {
			t.Errorf("InferPlatform(%q) = %q, want %q", test.url, got, test.want)
		}
	}
}
