package models

import (
	"encoding/json"
	"time"
)

// Weekdays lists the keys accepted in BusinessRecord.BusinessHours.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

type DayHours struct {
	Open  string `json:"open,omitempty" validate:"omitempty,datetime=15:04"`
	Close string `json:"close,omitempty" validate:"omitempty,datetime=15:04"`
	Is24h bool   `json:"is24h"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty" validate:"omitempty,url"`
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url"`
	Twitter   string `json:"twitter,omitempty" validate:"omitempty,url"`
	TikTok    string `json:"tiktok,omitempty" validate:"omitempty,url"`
	Yelp      string `json:"yelp,omitempty" validate:"omitempty,url"`
}

type Branding struct {
	Logo           string `json:"logo,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color,omitempty" validate:"omitempty,hexcolor"`
	Font           string `json:"font,omitempty"`
}

type BusinessSettings struct {
	Currency       string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	TaxRate        float64   `json:"tax_rate" validate:"gte=0,lte=100"`
	ServiceCharge  float64   `json:"service_charge" validate:"gte=0,lte=100"`
	TipSuggestions []float64 `json:"tip_suggestions,omitempty" validate:"dive,gte=0,lte=100"`
	PaymentTypes   []string  `json:"payment_types,omitempty"`
}

// BusinessRecord is the per-tenant business profile persisted as a single JSON document.
type BusinessRecord struct {
	BusinessName  string              `json:"business_name,omitempty"`
	BusinessType  string              `json:"business_type,omitempty"`
	Description   string              `json:"description,omitempty"`
	Email         string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string              `json:"phone,omitempty"`
	Website       string              `json:"website,omitempty" validate:"omitempty,url"`
	Address       *Address            `json:"address,omitempty"`
	BusinessHours map[string]DayHours `json:"business_hours,omitempty" validate:"omitempty,dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys"`
	SocialMedia   *SocialMedia        `json:"social_media,omitempty"`
	Branding      *Branding           `json:"branding,omitempty"`
	Settings      *BusinessSettings   `json:"settings,omitempty"`
	Features      map[string]bool     `json:"features,omitempty"`
	CreatedAt     string              `json:"created_at,omitempty"`
	UpdatedAt     string              `json:"updated_at,omitempty"`
}

// IsEmpty reports whether the record carries no fields at all.
func (r *BusinessRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	data, err := json.Marshal(r)
	if err != nil {
		return false
	}
	return string(data) == "{}"
}

// Touch stamps the record for a write at now. createdAt is the value already
// stored for the tenant, if any; it is used only when the record has none.
func (r *BusinessRecord) Touch(now time.Time, createdAt string) {
	stamp := now.UTC().Format(time.RFC3339Nano)
	if r.CreatedAt == "" {
		r.CreatedAt = createdAt
	}
	if r.CreatedAt == "" {
		r.CreatedAt = stamp
	}
	r.UpdatedAt = stamp
}

// NewDefaultBusinessRecord builds a blank profile with the portal's starting values.
// It is a form template and is never written on a tenant's behalf.
func NewDefaultBusinessRecord() *BusinessRecord {
	hours := make(map[string]DayHours, len(Weekdays))
	for _, day := range Weekdays {
		hours[day] = DayHours{Open: "09:00", Close: "22:00"}
	}

	return &BusinessRecord{
		BusinessName:  "My Restaurant",
		BusinessType:  "restaurant",
		Address:       &Address{Country: "US"},
		BusinessHours: hours,
		SocialMedia:   &SocialMedia{},
		Branding: &Branding{
			PrimaryColor:   "#1976d2",
			SecondaryColor: "#dc004e",
			Font:           "Roboto",
		},
		Settings: &BusinessSettings{
			Currency:       "USD",
			TaxRate:        8.5,
			ServiceCharge:  0,
			TipSuggestions: []float64{15, 18, 20},
			PaymentTypes:   []string{"cash", "card"},
		},
		Features: map[string]bool{
			"online_ordering": false,
			"reservations":    false,
			"delivery":        false,
			"loyalty":         false,
		},
	}
}
