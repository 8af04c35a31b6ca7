package menu

import "tiffinbox/internal/domain"

// seedMenu is the default catalog written on first run.
func seedMenu() []domain.MenuItem {
	extras := []domain.CustomizationOption{{
		ID:   "extras",
		Name: "Extras",
		Type: "CHECKBOX",
		Choices: []domain.CustomizationChoice{
			{ID: "extra-butter", Name: "Extra Butter", Price: 15},
			{ID: "extra-cheese", Name: "Extra Cheese", Price: 35},
			{ID: "extra-papad", Name: "Roasted Papad", Price: 20},
		},
	}}

	return []domain.MenuItem{
		{
			ID: "guj001", Name: "Gujarati Thali",
			Description:     "Traditional Gujarati thali with dal, kadhi, sabji, rotli, rice, and sweets",
			Price:           280, Category: "Gujarati", IsAvailable: true, IsVegetarian: true,
			PreparationTime: 25, Customizations: extras,
		},
		{
			ID: "guj002", Name: "Dhokla (4 pieces)",
			Description:     "Soft and spongy steamed gram flour cakes with green chutney",
			Price:           80, Category: "Gujarati", IsAvailable: true, IsVegetarian: true,
			PreparationTime: 5,
		},
		{
			ID: "guj003", Name: "Undhiyu",
			Description:     "Mixed vegetable curry with surti papdi, brinjal, and sweet potato",
			Price:           180, Category: "Gujarati", IsAvailable: true, IsVegetarian: true,
			PreparationTime: 30, Customizations: extras,
		},
		{
			ID: "pun001", Name: "Butter Chicken with 4 Rotis",
			Description:     "Creamy tomato-based chicken curry with fresh butter rotis",
			Price:           320, Category: "Punjabi", IsAvailable: true,
			PreparationTime: 25, Customizations: extras,
		},
		{
			ID: "pun002", Name: "Dal Makhani with Rice",
			Description:     "Rich black lentils cooked in butter and cream, served with basmati rice",
			Price:           250, Category: "Punjabi", IsAvailable: true, IsVegetarian: true,
			PreparationTime: 20, Customizations: extras,
		},
		{
			ID: "chi001", Name: "Hakka Noodles",
			Description:     "Stir-fried noodles with vegetables and soy sauce",
			Price:           180, Category: "Chinese", IsAvailable: true, IsVegetarian: true,
			PreparationTime: 12,
		},
		{
			ID: "chi002", Name: "Chicken Fried Rice",
			Description:     "Wok-tossed rice with chicken, vegetables, and Chinese seasonings",
			Price:           220, Category: "Chinese", IsAvailable: true,
			PreparationTime: 15,
		},
		{
			ID: "bev001", Name: "Masala Chaas",
			Description:     "Spiced buttermilk with roasted cumin and coriander",
			Price:           40, Category: "Beverages", IsAvailable: true, IsVegetarian: true,
			PreparationTime: 3,
		},
	}
}
