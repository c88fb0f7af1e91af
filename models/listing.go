package models

import "time"

// Source column names as they appear in the CSV header.
const (
	ColPrice        = "price"
	ColModelYear    = "model_year"
	ColModel        = "model"
	ColCondition    = "condition"
	ColCylinders    = "cylinders"
	ColFuel         = "fuel"
	ColOdometer     = "odometer"
	ColTransmission = "transmission"
	ColType         = "type"
	ColPaintColor   = "paint_color"
	ColIs4WD        = "is_4wd"
	ColDatePosted   = "date_posted"
	ColDaysListed   = "days_listed"
)

// Display labels used by the dashboard once a listing has been cleaned.
const (
	Price        = "Price"
	ModelYear    = "Model Year"
	Model        = "Model"
	Condition    = "Condition"
	Cylinders    = "Cylinders"
	Fuel         = "Fuel"
	Odometer     = "Odometer"
	Transmission = "Transmission"
	Type         = "Type"
	PaintColor   = "Paint Color"
	Is4WD        = "Is 4WD"
	DatePosted   = "Date Posted"
	DaysListed   = "Days Listed"
)

// Column pairs a raw source column with its display label.
type Column struct {
	Source  string
	Display string
}

// Columns lists every required column in dataset order.
var Columns = []Column{
	{ColPrice, Price},
	{ColModelYear, ModelYear},
	{ColModel, Model},
	{ColCondition, Condition},
	{ColCylinders, Cylinders},
	{ColFuel, Fuel},
	{ColOdometer, Odometer},
	{ColTransmission, Transmission},
	{ColType, Type},
	{ColPaintColor, PaintColor},
	{ColIs4WD, Is4WD},
	{ColDatePosted, DatePosted},
	{ColDaysListed, DaysListed},
}

// ColumnBySource finds a column by its raw CSV name.
func ColumnBySource(source string) (Column, bool) {
	for _, c := range Columns {
		if c.Source == source {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnByDisplay finds a column by its dashboard label.
func ColumnByDisplay(display string) (Column, bool) {
	for _, c := range Columns {
		if c.Display == display {
			return c, true
		}
	}
	return Column{}, false
}

// RawListing holds the untouched text of one dataset row, keyed by source column.
// An absent key and an empty value are both treated as missing by the cleaner.
type RawListing map[string]string

// Listing is a fully populated, typed vehicle listing.
type Listing struct {
	Price        float64   `json:"Price"`
	ModelYear    int       `json:"Model Year"`
	Model        string    `json:"Model"`
	Condition    string    `json:"Condition"`
	Cylinders    int       `json:"Cylinders"`
	Fuel         string    `json:"Fuel"`
	Odometer     float64   `json:"Odometer"`
	Transmission string    `json:"Transmission"`
	Type         string    `json:"Type"`
	PaintColor   string    `json:"Paint Color"`
	Is4WD        int       `json:"Is 4WD"`
	DatePosted   time.Time `json:"Date Posted"`
	DaysListed   int       `json:"Days Listed"`
}

// Numeric returns the value of a numeric column addressed by display label.
func (l *Listing) Numeric(display string) (float64, bool) {
	switch display {
	case Price:
		return l.Price, true
	case ModelYear:
		return float64(l.ModelYear), true
	case Cylinders:
		return float64(l.Cylinders), true
	case Odometer:
		return l.Odometer, true
	case Is4WD:
		return float64(l.Is4WD), true
	case DaysListed:
		return float64(l.DaysListed), true
	}
	return 0, false
}

// Text returns the value of a text column addressed by display label.
func (l *Listing) Text(display string) (string, bool) {
	switch display {
	case Model:
		return l.Model, true
	case Condition:
		return l.Condition, true
	case Fuel:
		return l.Fuel, true
	case Transmission:
		return l.Transmission, true
	case Type:
		return l.Type, true
	case PaintColor:
		return l.PaintColor, true
	}
	return "", false
}

// Dataset is the cleaned table loaded at startup. It is never modified afterwards.
type Dataset struct {
	Listings []*Listing
	Source   string
	Checksum string
	LoadedAt time.Time
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalListings    int            `json:"total_listings"`
	UnknownModelYear int            `json:"unknown_model_year"`
	AveragePrice     float64        `json:"average_price"`
	MinPrice         float64        `json:"min_price"`
	MaxPrice         float64        `json:"max_price"`
	MostExpensive    *Listing       `json:"most_expensive,omitempty"`
	FastestSold      []*Listing     `json:"fastest_sold"`
	ListingsByType   map[string]int `json:"listings_by_type"`
}
