package doa

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

func TestResolveMatrixMatch(t *testing.T) {
	matrix := []entity.DOARule{
		{ID: 1, Entity: entity.EntityAll, MinCost: 0, MaxCost: 20000, Priority: 1, Chain: []string{"Line Manager"}},
		{ID: 2, Entity: entity.EntityAll, MinCost: 20000, MaxCost: 100000, Priority: 1, Chain: []string{"Line Manager", "CFO"}},
		{ID: 3, Entity: entity.EntityAll, MinCost: 100000, MaxCost: -1, Priority: 1, Chain: []string{"Line Manager", "CFO", "CEO"}},
	}
	requester := entity.TravelerAttributes{Entity: "TH01"}

	res, err := Resolve(requester, 45000, matrix)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Source != entity.ChainSourceMatrix {
		t.Errorf("Source = %v, want matrix", res.Source)
	}
	if res.RuleID != 2 {
		t.Errorf("RuleID = %d, want 2", res.RuleID)
	}
	if want := []string{"Line Manager", "CFO"}; !reflect.DeepEqual(res.Chain, want) {
		t.Errorf("Chain = %v, want %v", res.Chain, want)
	}
}

func TestResolveUnboundedMaxCost(t *testing.T) {
	matrix := []entity.DOARule{
		{ID: 1, Entity: entity.EntityAll, MinCost: 100000, MaxCost: -1, Priority: 1, Chain: []string{"CEO"}},
	}

	res, err := Resolve(entity.TravelerAttributes{Entity: "TH01"}, 5000000, matrix)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Source != entity.ChainSourceMatrix || res.RuleID != 1 {
		t.Errorf("unbounded rule should match any cost above MinCost: %+v", res)
	}
}

func TestResolveEntityFilter(t *testing.T) {
	matrix := []entity.DOARule{
		{ID: 1, Entity: "SG02", MinCost: 0, MaxCost: -1, Priority: 1, Chain: []string{"SG Manager"}},
		{ID: 2, Entity: "TH01", MinCost: 0, MaxCost: -1, Priority: 2, Chain: []string{"TH Manager"}},
	}

	res, err := Resolve(entity.TravelerAttributes{Entity: "TH01"}, 1000, matrix)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.RuleID != 2 {
		t.Errorf("RuleID = %d, want 2 (other entity's rule must be filtered)", res.RuleID)
	}
}

func TestResolvePriorityOrdering(t *testing.T) {
	matrix := []entity.DOARule{
		{ID: 1, Entity: entity.EntityAll, MinCost: 0, MaxCost: -1, Priority: 5, Chain: []string{"Backup"}},
		{ID: 2, Entity: entity.EntityAll, MinCost: 0, MaxCost: -1, Priority: 1, Chain: []string{"Primary"}},
	}

	res, err := Resolve(entity.TravelerAttributes{Entity: "TH01"}, 1000, matrix)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.RuleID != 2 {
		t.Errorf("RuleID = %d, want 2 (lowest priority value wins)", res.RuleID)
	}
}

func TestResolvePriorityTieKeepsMatrixOrder(t *testing.T) {
	matrix := []entity.DOARule{
		{ID: 7, Entity: entity.EntityAll, MinCost: 0, MaxCost: -1, Priority: 1, Chain: []string{"First"}},
		{ID: 8, Entity: entity.EntityAll, MinCost: 0, MaxCost: -1, Priority: 1, Chain: []string{"Second"}},
	}

	res, err := Resolve(entity.TravelerAttributes{Entity: "TH01"}, 1000, matrix)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.RuleID != 7 {
		t.Errorf("RuleID = %d, want 7 (stable sort keeps matrix order on ties)", res.RuleID)
	}
}

func TestResolveFallback(t *testing.T) {
	tests := []struct {
		name   string
		matrix []entity.DOARule
	}{
		{"empty matrix", nil},
		{
			"no cost band matches",
			[]entity.DOARule{
				{ID: 1, Entity: entity.EntityAll, MinCost: 100000, MaxCost: -1, Priority: 1, Chain: []string{"CEO"}},
			},
		},
		{
			"only malformed rules",
			[]entity.DOARule{
				{ID: 1, Entity: entity.EntityAll, MinCost: 0, MaxCost: -1, Priority: 1, Chain: nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(entity.TravelerAttributes{Entity: "TH01"}, 500, tt.matrix)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if res.Source != entity.ChainSourceFallback {
				t.Errorf("Source = %v, want fallback", res.Source)
			}
			if !reflect.DeepEqual(res.Chain, FallbackChain) {
				t.Errorf("Chain = %v, want %v", res.Chain, FallbackChain)
			}
			if res.RuleID != 0 {
				t.Errorf("RuleID = %d, want 0 for fallback", res.RuleID)
			}
		})
	}
}

func TestResolveNegativeCost(t *testing.T) {
	_, err := Resolve(entity.TravelerAttributes{Entity: "TH01"}, -1, nil)
	if !errors.Is(err, ErrNegativeCost) {
		t.Errorf("Resolve(-1) error = %v, want ErrNegativeCost", err)
	}
}

func TestResolveCostBoundaries(t *testing.T) {
	matrix := []entity.DOARule{
		{ID: 1, Entity: entity.EntityAll, MinCost: 1000, MaxCost: 2000, Priority: 1, Chain: []string{"Manager"}},
	}
	requester := entity.TravelerAttributes{Entity: "TH01"}

	// Both bounds are inclusive
	for _, cost := range []float64{1000, 2000} {
		res, err := Resolve(requester, cost, matrix)
		if err != nil {
			t.Fatalf("Resolve(%v) error: %v", cost, err)
		}
		if res.Source != entity.ChainSourceMatrix {
			t.Errorf("Resolve(%v) Source = %v, want matrix", cost, res.Source)
		}
	}

	for _, cost := range []float64{999.99, 2000.01} {
		res, err := Resolve(requester, cost, matrix)
		if err != nil {
			t.Fatalf("Resolve(%v) error: %v", cost, err)
		}
		if res.Source != entity.ChainSourceFallback {
			t.Errorf("Resolve(%v) Source = %v, want fallback", cost, res.Source)
		}
	}
}

func TestResolveDoesNotMutateMatrix(t *testing.T) {
	matrix := []entity.DOARule{
		{ID: 2, Entity: entity.EntityAll, MinCost: 0, MaxCost: -1, Priority: 2, Chain: []string{"B"}},
		{ID: 1, Entity: entity.EntityAll, MinCost: 0, MaxCost: -1, Priority: 1, Chain: []string{"A"}},
	}

	if _, err := Resolve(entity.TravelerAttributes{Entity: "TH01"}, 100, matrix); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if matrix[0].ID != 2 || matrix[1].ID != 1 {
		t.Error("Resolve() reordered the caller's matrix")
	}
}
