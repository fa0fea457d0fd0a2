package service

import (
	"testing"

	"slotify/pkg/model"
)

func TestComputePrice_FullBreakdown(t *testing.T) {
	menu := testMenu()
	resource := testResource()

	breakdown := ComputePrice(menu, []string{"opt-1"}, resource)

	if breakdown.BasePrice != 3000 {
		t.Errorf("base price: expected 3000, got %d", breakdown.BasePrice)
	}
	if breakdown.OptionsTotal != 500 {
		t.Errorf("options total: expected 500, got %d", breakdown.OptionsTotal)
	}
	if breakdown.ResourceFee != 1000 {
		t.Errorf("resource fee: expected 1000 (60min at 1000/h), got %d", breakdown.ResourceFee)
	}
	if breakdown.NominationFee != 300 {
		t.Errorf("nomination fee: expected 300, got %d", breakdown.NominationFee)
	}
	if breakdown.Total != 4800 {
		t.Errorf("total: expected 4800, got %d", breakdown.Total)
	}
}

func TestComputePrice_Deterministic(t *testing.T) {
	menu := testMenu()
	resource := testResource()

	first := ComputePrice(menu, []string{"opt-1"}, resource)
	for i := 0; i < 100; i++ {
		if got := ComputePrice(menu, []string{"opt-1"}, resource); got != first {
			t.Fatalf("iteration %d: result changed from %+v to %+v", i, first, got)
		}
	}
}

func TestComputePrice_NoResource(t *testing.T) {
	breakdown := ComputePrice(testMenu(), nil, nil)

	if breakdown.ResourceFee != 0 || breakdown.NominationFee != 0 {
		t.Errorf("expected zero resource fees without a resource, got %+v", breakdown)
	}
	if breakdown.Total != 3000 {
		t.Errorf("total: expected 3000, got %d", breakdown.Total)
	}
}

func TestComputePrice_ForeignOptionsIgnored(t *testing.T) {
	breakdown := ComputePrice(testMenu(), []string{"opt-1", "someone-elses-option"}, nil)

	if breakdown.OptionsTotal != 500 {
		t.Errorf("foreign option must be skipped silently, got options total %d", breakdown.OptionsTotal)
	}
}

func TestComputePrice_FeeTruncatesTowardZero(t *testing.T) {
	menu := testMenu()
	menu.BaseDurationMin = 50

	breakdown := ComputePrice(menu, nil, testResource())

	// 50 * 1000 / 60 = 833.33, truncated.
	if breakdown.ResourceFee != 833 {
		t.Errorf("resource fee: expected 833, got %d", breakdown.ResourceFee)
	}
}

func TestComputePrice_ClampsOnlyAtFinalStage(t *testing.T) {
	menu := testMenu()
	menu.BasePrice = 100
	menu.Options = []model.MenuOption{
		{ID: "discount", Name: "Campaign discount", Price: -5000},
	}
	resource := testResource()
	resource.HourlyRateDiff = -1000
	resource.NominationFee = 0

	breakdown := ComputePrice(menu, []string{"discount"}, resource)

	// Intermediate stages keep their negative values for auditability.
	if breakdown.OptionsTotal != -5000 {
		t.Errorf("options total must stay negative, got %d", breakdown.OptionsTotal)
	}
	if breakdown.ResourceFee != -1000 {
		t.Errorf("resource fee must stay negative, got %d", breakdown.ResourceFee)
	}
	if breakdown.Total != 0 {
		t.Errorf("total must clamp at zero, got %d", breakdown.Total)
	}
}
