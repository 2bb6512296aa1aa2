package fusion

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract(t *testing.T) {
	e := NewSignalExtractor(DefaultSignalLexicon)

	sig := e.Extract(
		"OFW here, pagod sa trabaho at may utang pa. Looking for a SIDELINE or negosyo. PM me!",
		[]string{"Real Estate"},
	)

	if diff := cmp.Diff([]string{"sideline", "negosyo"}, sig.Intent); diff != "" {
		t.Errorf("intent mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"pagod sa trabaho", "utang"}, sig.Pain); diff != "" {
		t.Errorf("pain mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ofw", "real estate"}, sig.Topics); diff != "" {
		t.Errorf("topics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"pm me"}, sig.Activities); diff != "" {
		t.Errorf("activities mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractEmpty(t *testing.T) {
	e := NewSignalExtractor(DefaultSignalLexicon)

	sig := e.Extract("", nil)
	if len(sig.Intent)+len(sig.Pain)+len(sig.Topics)+len(sig.Activities) != 0 {
		t.Errorf("empty input produced matches: %+v", sig)
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	e := NewSignalExtractor(DefaultSignalLexicon)

	sig := e.Extract("EXTRA INCOME opportunity", nil)
	if diff := cmp.Diff([]string{"extra income"}, sig.Intent); diff != "" {
		t.Errorf("intent mismatch (-want +got):\n%s", diff)
	}
}
