package pharmacy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSearch_EmptyTermReturnsAll(t *testing.T) {
	for _, term := range []string{"", "   "} {
		got := Default().Search(term)
		if len(got) != 2 {
			t.Fatalf("Search(%q): expected 2 pharmacies, got %d", term, len(got))
		}
		if len(got[0].Medicines) != 3 {
			t.Errorf("Search(%q): expected full medicine list", term)
		}
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	got := Default().Search("  PARACET ")
	if len(got) != 2 {
		t.Fatalf("expected 2 pharmacies, got %d", len(got))
	}
	for _, p := range got {
		if len(p.Medicines) != 1 || p.Medicines[0].Name != "Paracetamol 500mg" {
			t.Errorf("%s: unexpected medicines %+v", p.Name, p.Medicines)
		}
	}
	if got[0].Medicines[0].Price != 25 || got[1].Medicines[0].Price != 28 {
		t.Errorf("unexpected prices %d/%d", got[0].Medicines[0].Price, got[1].Medicines[0].Price)
	}
}

func TestSearch_DropsPharmaciesWithoutMatch(t *testing.T) {
	inv := NewInventory([]Pharmacy{
		{Name: "A", Medicines: []Medicine{{Name: "Ibuprofen 400mg", Availability: Available, Price: 30}}},
		{Name: "B", Medicines: []Medicine{{Name: "Cetirizine 10mg", Availability: LowStock, Price: 15}}},
	})
	got := inv.Search("ibu")
	if len(got) != 1 || got[0].Name != "A" {
		t.Errorf("unexpected result %+v", got)
	}
	if len(inv.Search("aspirin")) != 0 {
		t.Error("expected no results for aspirin")
	}
}

func TestSearch_DoesNotMutateInventory(t *testing.T) {
	inv := Default()
	got := inv.Search("")
	got[0].Medicines[0].Name = "Changed"
	if inv.Search("")[0].Medicines[0].Name != "Paracetamol 500mg" {
		t.Error("caller mutation leaked into the inventory")
	}
}

func TestHandler_Search(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/pharmacies?q=metformin", nil)
	rec := httptest.NewRecorder()

	if err := NewHandler(Default()).Search(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Pharmacies []Pharmacy `json:"pharmacies"`
		Total      int        `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 {
		t.Fatalf("expected 2 pharmacies, got %d", body.Total)
	}
	if body.Pharmacies[0].Medicines[0].Availability != OutOfStock {
		t.Errorf("expected out-of-stock at Nabha Medical Store, got %s", body.Pharmacies[0].Medicines[0].Availability)
	}
}
