package services

import "strings"

// ClinicIdentity is the practice footer printed under every label.
type ClinicIdentity struct {
	Name      string   `json:"name"`
	Subtitle  string   `json:"subtitle,omitempty"`
	Doctor    string   `json:"doctor,omitempty"`
	Degree    string   `json:"degree,omitempty"`
	Specialty string   `json:"specialty,omitempty"`
	Location  string   `json:"location,omitempty"`
	Phones    []string `json:"phones,omitempty"`
}

func DefaultClinicIdentity() ClinicIdentity {
	return ClinicIdentity{
		Name:      "ত্রিফুল আরোগ্য নিকেতন",
		Subtitle:  "(আদর্শ হোমিওপ্যাথিক চিকিৎসালয়)",
		Doctor:    "ডাঃ নীহার রঞ্জন রায়",
		Degree:    "(বি.এস.সি, ডি.এইচ.এম.এস)",
		Specialty: "(শুধুমাত্র জটিল ও পুরাতন রোগী চিকিৎসক)",
		Location:  "কোটালীপাড়া, গোপালগঞ্জ",
		Phones:    []string{"01716-954699", "01922-788466", "01714-719422"},
	}
}

// Normalized trims every field and drops blank phone numbers.
func (clinic ClinicIdentity) Normalized() ClinicIdentity {
	phones := make([]string, 0, len(clinic.Phones))
	for _, phone := range clinic.Phones {
		if phone = strings.TrimSpace(phone); phone != "" {
			phones = append(phones, phone)
		}
	}
	return ClinicIdentity{
		Name:      strings.TrimSpace(clinic.Name),
		Subtitle:  strings.TrimSpace(clinic.Subtitle),
		Doctor:    strings.TrimSpace(clinic.Doctor),
		Degree:    strings.TrimSpace(clinic.Degree),
		Specialty: strings.TrimSpace(clinic.Specialty),
		Location:  strings.TrimSpace(clinic.Location),
		Phones:    phones,
	}
}

func (clinic ClinicIdentity) IsZero() bool {
	return clinic.Name == "" && clinic.Doctor == "" && clinic.Location == "" && len(clinic.Phones) == 0
}
