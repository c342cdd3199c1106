// Package pharmacy answers medicine availability searches over a static
// inventory of nearby pharmacies.
package pharmacy

import "strings"

type Availability string

const (
	Available  Availability = "available"
	LowStock   Availability = "low-stock"
	OutOfStock Availability = "out-of-stock"
)

type Medicine struct {
	Name         string       `json:"name"`
	Availability Availability `json:"availability"`
	Price        int          `json:"price"`
}

type Pharmacy struct {
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Distance  string     `json:"distance"`
	Phone     string     `json:"phone"`
	Medicines []Medicine `json:"medicines"`
}

var defaultPharmacies = []Pharmacy{
	{
		Name:     "Nabha Medical Store",
		Address:  "Main Market, Nabha",
		Distance: "2.5 km",
		Phone:    "+91 9876543210",
		Medicines: []Medicine{
			{Name: "Paracetamol 500mg", Availability: Available, Price: 25},
			{Name: "Amoxicillin 250mg", Availability: LowStock, Price: 85},
			{Name: "Metformin 500mg", Availability: OutOfStock, Price: 45},
		},
	},
	{
		Name:     "Village Health Pharmacy",
		Address:  "Ghanaur Road, Nabha",
		Distance: "4.2 km",
		Phone:    "+91 9876543211",
		Medicines: []Medicine{
			{Name: "Paracetamol 500mg", Availability: Available, Price: 28},
			{Name: "Amoxicillin 250mg", Availability: Available, Price: 82},
			{Name: "Metformin 500mg", Availability: Available, Price: 48},
		},
	},
}

// Inventory is an immutable pharmacy catalogue.
type Inventory struct {
	pharmacies []Pharmacy
}

func NewInventory(pharmacies []Pharmacy) *Inventory {
	return &Inventory{pharmacies: clonePharmacies(pharmacies)}
}

func Default() *Inventory {
	return NewInventory(defaultPharmacies)
}

// Search returns the pharmacies stocking a medicine whose name contains term,
// ignoring case and surrounding space. Each result keeps only the matching
// medicines. An empty term returns the whole inventory.
func (inv *Inventory) Search(term string) []Pharmacy {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return clonePharmacies(inv.pharmacies)
	}

	out := make([]Pharmacy, 0, len(inv.pharmacies))
	for _, p := range inv.pharmacies {
		var matched []Medicine
		for _, m := range p.Medicines {
			if strings.Contains(strings.ToLower(m.Name), term) {
				matched = append(matched, m)
			}
		}
		if len(matched) == 0 {
			continue
		}
		p.Medicines = matched
		out = append(out, p)
	}
	return out
}

func clonePharmacies(in []Pharmacy) []Pharmacy {
	out := make([]Pharmacy, len(in))
	for i, p := range in {
		p.Medicines = append([]Medicine(nil), p.Medicines...)
		out[i] = p
	}
	return out
}
