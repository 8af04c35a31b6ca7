package domain

type SpiceLevel string

const (
	SpiceMild   SpiceLevel = "MILD"
	SpiceMedium SpiceLevel = "MEDIUM"
	SpiceHot    SpiceLevel = "HOT"
)

func (s SpiceLevel) Valid() bool {
	switch s {
	case SpiceMild, SpiceMedium, SpiceHot:
		return true
	}
	return false
}

type MenuCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
}

// CustomizationChoice is one selectable extra with its own price.
type CustomizationChoice struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CustomizationOption struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Type     string                `json:"type"` // RADIO | CHECKBOX | SELECT
	Required bool                  `json:"required"`
	Choices  []CustomizationChoice `json:"choices"`
}

// MenuItem is a catalog entry. The cart never mutates it; the catalog
// service owns it.
type MenuItem struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	Price           float64               `json:"price"`
	Category        string                `json:"category"`
	ImageURL        string                `json:"image_url,omitempty"`
	IsAvailable     bool                  `json:"is_available"`
	IsVegetarian    bool                  `json:"is_vegetarian"`
	PreparationTime int                   `json:"preparation_time"` // minutes
	Customizations  []CustomizationOption `json:"customizations,omitempty"`
	Rating          float64               `json:"rating,omitempty"`
}
