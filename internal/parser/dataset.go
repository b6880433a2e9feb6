package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"restaurant-chatbot/internal/models"
)

// Dataset is the structured restaurant dataset. Each semantic section of it
// becomes exactly one text unit with a fixed serialization, so retrieval
// context is deterministic and re-generatable.
type Dataset struct {
	Restaurant Restaurant `json:"restaurant"`
	Menu       Menu       `json:"menu"`
}

type Restaurant struct {
	Name         string              `json:"name"`
	About        string              `json:"about"`
	Address      Address             `json:"address"`
	Contact      Contact             `json:"contact"`
	Hours        map[string]DayHours `json:"hours"`
	CuisineTypes []string            `json:"cuisine_types"`
	Features     []string            `json:"features"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Menu struct {
	Categories []MenuCategory `json:"categories"`
	Specials   Specials       `json:"specials"`
}

type MenuCategory struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Items       []MenuItem `json:"items"`
}

type MenuItem struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	Vegetarian      bool    `json:"vegetarian"`
	Vegan           bool    `json:"vegan"`
	GlutenFree      bool    `json:"gluten_free"`
	Calories        int     `json:"calories"`
	Popular         bool    `json:"popular"`
	ChefRecommended bool    `json:"chef_recommended"`
}

type Specials struct {
	HappyHour      HappyHour       `json:"happy_hour"`
	WeeklySpecials []WeeklySpecial `json:"weekly_specials"`
}

type HappyHour struct {
	Times  string   `json:"times"`
	Days   []string `json:"days"`
	Offers []string `json:"offers"`
}

type WeeklySpecial struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ValidDays   []string `json:"valid_days"`
}

// Unit is one serialized dataset section, ready for chunking.
type Unit struct {
	Text string
	Kind string // restaurant_info, menu_item, special_event
}

// weekdayOrder fixes the hours serialization order; map iteration would not.
var weekdayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// LoadDataset reads and decodes the restaurant dataset JSON.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return &ds, nil
}

// Units serializes every dataset section into text units: one for the
// restaurant info block, one per menu item, one for happy hour, and one per
// weekly special.
func (d *Dataset) Units() []Unit {
	units := []Unit{{Text: d.restaurantInfoText(), Kind: "restaurant_info"}}

	for _, category := range d.Menu.Categories {
		for _, item := range category.Items {
			units = append(units, Unit{Text: menuItemText(category, item), Kind: "menu_item"})
		}
	}

	if hh := d.Menu.Specials.HappyHour; hh.Times != "" || len(hh.Offers) > 0 {
		units = append(units, Unit{Text: happyHourText(hh), Kind: "special_event"})
	}
	for _, special := range d.Menu.Specials.WeeklySpecials {
		units = append(units, Unit{Text: weeklySpecialText(special), Kind: "special_event"})
	}

	return units
}

// ChunkUnits chunks dataset units at the structured-data granularity and tags
// each chunk with the dataset file as its source.
func ChunkUnits(units []Unit, datasetPath string, opts Options) []models.Chunk {
	opts = opts.normalized()
	source := filepath.Base(datasetPath)
	var chunks []models.Chunk
	for i, unit := range units {
		// Dataset sections have no pages; the unit ordinal stands in so
		// citations can still point at a section.
		chunks = append(chunks, buildChunks(unit.Text, source, i+1, opts)...)
	}
	return chunks
}

func (d *Dataset) restaurantInfoText() string {
	r := d.Restaurant
	var b strings.Builder
	fmt.Fprintf(&b, "Restaurant Name: %s\n", r.Name)
	fmt.Fprintf(&b, "About: %s\n", r.About)
	fmt.Fprintf(&b, "Address: %s, %s, %s %s\n", r.Address.Street, r.Address.City, r.Address.State, r.Address.Zip)
	fmt.Fprintf(&b, "Phone: %s\n", r.Contact.Phone)
	fmt.Fprintf(&b, "Email: %s\n", r.Contact.Email)
	fmt.Fprintf(&b, "Website: %s\n", r.Contact.Website)
	b.WriteString("Opening Hours:\n")
	for _, day := range weekdayOrder {
		if hours, ok := r.Hours[day]; ok {
			fmt.Fprintf(&b, "%s: %s - %s\n", day, hours.Open, hours.Close)
		}
	}
	fmt.Fprintf(&b, "Cuisine Types: %s\n", strings.Join(r.CuisineTypes, ", "))
	fmt.Fprintf(&b, "Features: %s\n", strings.Join(r.Features, ", "))
	return b.String()
}

func menuItemText(category MenuCategory, item MenuItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Menu Item: %s\n", item.Name)
	fmt.Fprintf(&b, "Category: %s\n", category.Name)
	fmt.Fprintf(&b, "Category Description: %s\n", category.Description)
	fmt.Fprintf(&b, "Description: %s\n", item.Description)
	fmt.Fprintf(&b, "Price: $%.2f\n", item.Price)

	var dietaryTags []string
	if item.Vegetarian {
		dietaryTags = append(dietaryTags, "vegetarian")
	}
	if item.Vegan {
		dietaryTags = append(dietaryTags, "vegan")
	}
	if item.GlutenFree {
		dietaryTags = append(dietaryTags, "gluten-free")
	}
	if len(dietaryTags) > 0 {
		fmt.Fprintf(&b, "Dietary Tags: %s\n", strings.Join(dietaryTags, ", "))
	}

	if item.Calories > 0 {
		fmt.Fprintf(&b, "Calories: %d\n", item.Calories)
	}
	if item.Popular {
		b.WriteString("Popular Item: Yes\n")
	}
	if item.ChefRecommended {
		b.WriteString("Chef's Recommendation: Yes\n")
	}
	return b.String()
}

func happyHourText(hh HappyHour) string {
	var b strings.Builder
	b.WriteString("Happy Hour Specials:\n")
	fmt.Fprintf(&b, "Times: %s\n", hh.Times)
	fmt.Fprintf(&b, "Days: %s\n", strings.Join(hh.Days, ", "))
	b.WriteString("Offers:\n")
	for _, offer := range hh.Offers {
		fmt.Fprintf(&b, "- %s\n", offer)
	}
	return b.String()
}

func weeklySpecialText(special WeeklySpecial) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Special Event: %s\n", special.Name)
	fmt.Fprintf(&b, "Description: %s\n", special.Description)
	fmt.Fprintf(&b, "Valid Days: %s\n", strings.Join(special.ValidDays, ", "))
	return b.String()
}
