package catalog

// RoomView is a room joined with its hotel, city and category names.
type RoomView struct {
	ID           string   `json:"id"`
	CategoryID   string   `json:"categoryId"`
	HotelID      string   `json:"hotelId"`
	CityID       string   `json:"cityId"`
	HotelName    string   `json:"hotelName"`
	CityName     string   `json:"cityName"`
	CategoryName string   `json:"categoryName"`
	Price        float64  `json:"price"`
	Amenities    []string `json:"amenities"`
	Image        string   `json:"image"`
}

type CategoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
