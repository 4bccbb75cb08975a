package scoring

import (
	"testing"

	"github.com/leadhive/superapp/api/internal/entity"
)

func TestScoreLead_FullCoverage(t *testing.T) {
	placeID := "place-123"
	lead := entity.Lead{
		ExternalID:   &placeID,
		BusinessName: "Cafe Aroma",
		Phone:        "050-1234567",
		Email:        "info@aroma.co.il",
		Address:      "Dizengoff 99, Tel Aviv",
		Website:      "https://aroma.co.il",
		Category:     "cafe",
	}

	score := ScoreLead(lead)

	if score.Total != 100 {
		t.Fatalf("expected full score 100, got %d (%+v)", score.Total, score.Breakdown)
	}
	if score.Breakdown[categoryContact] != 45 {
		t.Fatalf("expected contact 45, got %d", score.Breakdown[categoryContact])
	}
	if score.Breakdown[categoryProfile] != 30 {
		t.Fatalf("expected profile 30, got %d", score.Breakdown[categoryProfile])
	}
	if score.Breakdown[categoryProvenance] != 25 {
		t.Fatalf("expected provenance 25, got %d", score.Breakdown[categoryProvenance])
	}
}

func TestScoreLead_Empty(t *testing.T) {
	score := ScoreLead(entity.Lead{})
	if score.Total != 0 {
		t.Fatalf("expected zero score for empty lead, got %d", score.Total)
	}
}

func TestScoreLead_InvalidPhoneGetsPartialCredit(t *testing.T) {
	valid := ScoreLead(entity.Lead{Phone: "0501234567"})
	invalid := ScoreLead(entity.Lead{Phone: "123"})
	none := ScoreLead(entity.Lead{})

	if valid.Breakdown[categoryContact] != 20 {
		t.Fatalf("expected 20 for valid phone, got %d", valid.Breakdown[categoryContact])
	}
	if invalid.Breakdown[categoryContact] != 5 {
		t.Fatalf("expected 5 for invalid phone, got %d", invalid.Breakdown[categoryContact])
	}
	if none.Breakdown[categoryContact] != 0 {
		t.Fatalf("expected 0 for missing phone, got %d", none.Breakdown[categoryContact])
	}
}

func TestScoreLead_FreeHostingDomainNotRewarded(t *testing.T) {
	free := ScoreLead(entity.Lead{Website: "https://mybusiness.wixsite.com/home"})
	owned := ScoreLead(entity.Lead{Website: "https://mybusiness.co.il"})

	if free.Breakdown[categoryProvenance] != 0 {
		t.Fatalf("expected no provenance credit for free hosting, got %d", free.Breakdown[categoryProvenance])
	}
	if owned.Breakdown[categoryProvenance] != 10 {
		t.Fatalf("expected 10 for owned domain, got %d", owned.Breakdown[categoryProvenance])
	}
}

func TestScoreLead_AddressCompleteness(t *testing.T) {
	complete := ScoreLead(entity.Lead{Address: "Herzl 12, Haifa"})
	partial := ScoreLead(entity.Lead{Address: "Haifa"})

	if complete.Breakdown[categoryProfile] != 15 {
		t.Fatalf("expected 15 for complete address, got %d", complete.Breakdown[categoryProfile])
	}
	if partial.Breakdown[categoryProfile] != 0 {
		t.Fatalf("expected 0 for vague address, got %d", partial.Breakdown[categoryProfile])
	}
}
