package domain

// Equipment is a catalog entry owned by the remote store. It is read-only
// from this client's perspective; rates are snapshotted into cart line items
// at add time and never re-fetched.
type Equipment struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	SubCategory      string  `json:"subCategory"`
	Image            string  `json:"image"`
	RentPerHourCents int64   `json:"rentPerHour"`
	RentPerDayCents  int64   `json:"rentPerDay"`
	Rating           float64 `json:"rating"`
	Available        bool    `json:"available"`
}

// CategoryInfo describes a browsable top-level catalog category.
type CategoryInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Categories lists the catalog's top-level categories in display order.
func Categories() []CategoryInfo {
	return []CategoryInfo{
		{ID: "Camera", Name: "Camera & Lenses", Icon: "camera"},
		{ID: "Drone", Name: "Drones", Icon: "flight"},
		{ID: "Gaming", Name: "Gaming Consoles", Icon: "sports-esports"},
	}
}

// SubCategories returns the known sub-categories per category.
func SubCategories() map[string][]string {
	return map[string][]string{
		"Camera": {"DSLR", "Mirrorless", "Lens"},
		"Drone":  {"Mini Drone", "Camera Drone", "Professional Drone", "Compact Drone", "FPV Drone"},
		"Gaming": {"Console"},
	}
}
