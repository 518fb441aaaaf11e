package watches

// Samples returns the fixed catalog inserted by POST /seed.
func Samples() []Watch {
	return []Watch{
		{
			Title:       "ChronoMaster Pro",
			Description: strPtr("Stainless steel chronograph with sapphire crystal."),
			Price:       599.0,
			Brand:       "Aeternum",
			Collection:  "chronograph",
			Image:       strPtr("https://images.unsplash.com/photo-1518081461904-9acda21b54fd?q=80&w=1200&auto=format&fit=crop"),
			Images: []string{
				"https://images.unsplash.com/photo-1518081461904-9acda21b54fd?q=80&w=1200&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1490367532201-b9bc1dc483f6?q=80&w=1200&auto=format&fit=crop",
			},
			InStock: true,
		},
		{
			Title:       "Elegance Dress 40",
			Description: strPtr("Ultra-thin automatic dress watch in rose gold tone."),
			Price:       749.0,
			Brand:       "Novelle",
			Collection:  "dress",
			Image:       strPtr("https://images.unsplash.com/photo-1516570161787-2fd917215a3d?q=80&w=1200&auto=format&fit=crop"),
			Images: []string{
				"https://images.unsplash.com/photo-1516570161787-2fd917215a3d?q=80&w=1200&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1524805444758-089113d48a6d?q=80&w=1200&auto=format&fit=crop",
			},
			InStock: true,
		},
		{
			Title:       "AquaSport 300",
			Description: strPtr("Professional diver with ceramic bezel and 300m WR."),
			Price:       899.0,
			Brand:       "Pelagos",
			Collection:  "sport",
			Image:       strPtr("https://images.unsplash.com/photo-1518546305927-5a555bb7020d?q=80&w=1200&auto=format&fit=crop"),
			Images: []string{
				"https://images.unsplash.com/photo-1518546305927-5a555bb7020d?q=80&w=1200&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1483721310020-03333e577078?q=80&w=1200&auto=format&fit=crop",
			},
			InStock: true,
		},
	}
}

func strPtr(s string) *string { return &s }
