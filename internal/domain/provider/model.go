package provider

// Record is one synthetic healthcare provider listing. Records are created
// fresh per Generate call and never mutated afterwards.
type Record struct {
	ID              int      `json:"id"`
	DisplayName     string   `json:"display_name"`
	Specialty       string   `json:"specialty"`
	YearsExperience int      `json:"years_experience"`
	Languages       []string `json:"languages"`
	ScheduleWindow  string   `json:"schedule_window"`
	Rating          float64  `json:"rating"`
	ConsultationFee int      `json:"consultation_fee"`
	Region          string   `json:"region"`
	SubRegion       string   `json:"sub_region"`
}

// Specialties is indexed by slot position modulo its length.
var Specialties = []string{
	"General Medicine",
	"Pediatrics",
	"Cardiology",
	"Dermatology",
	"Orthopaedics",
	"Neurology",
	"Gastroenterology",
	"Ophthalmology",
	"Urology",
	"Gynecology",
	"Pulmonology",
	"Endocrinology",
	"ENT",
	"Psychiatry",
	"Oncology",
}

var namePrefixes = []string{
	"Dr. Anjali", "Dr. Rohan", "Dr. Priya", "Dr. Vivek", "Dr. Meena",
	"Dr. Harish", "Dr. Zoya", "Dr. Karan", "Dr. Lata", "Dr. Deepa",
	"Dr. Chetan", "Dr. Revathi", "Dr. Leela", "Dr. Naveen", "Dr. Shanti",
}

var nameSuffixes = []string{
	"Sharma", "Kumar", "Singh", "Rao", "Joshi",
	"Verma", "Mirza", "Gowda", "Hegde", "Reddy",
	"Menon", "Bhat", "Patil", "Harihar", "Kulkarni",
	"Biradar", "Shetty", "Adalli", "Dage", "Naik",
	"Chavan", "More", "Gadekar", "Jadhav", "Deshmukh",
}

const (
	minExperience = 5
	maxExperience = 24
	minRating     = 4.2
	maxRating     = 4.8
	maxLanguages  = 3
	idModulus     = 10000
)
