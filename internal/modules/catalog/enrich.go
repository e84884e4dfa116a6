package catalog

import "resortbooking/internal/domain"

const (
	UnknownHotel    = "Unknown Hotel"
	UnknownCity     = "Unknown City"
	UnknownCategory = "Unknown Category"
)

// Indexes holds the reference sets keyed by id.
type Indexes struct {
	Hotels     map[string]domain.Hotel
	Cities     map[string]domain.City
	Categories map[string]domain.RoomCategory
}

func BuildIndexes(cities []domain.City, hotels []domain.Hotel, categories []domain.RoomCategory) Indexes {
	idx := Indexes{
		Hotels:     make(map[string]domain.Hotel, len(hotels)),
		Cities:     make(map[string]domain.City, len(cities)),
		Categories: make(map[string]domain.RoomCategory, len(categories)),
	}
	for _, h := range hotels {
		idx.Hotels[h.ID] = h
	}
	for _, c := range cities {
		idx.Cities[c.ID] = c
	}
	for _, c := range categories {
		idx.Categories[c.ID] = c
	}
	return idx
}

// EnrichRoom joins a room with its reference data. Missing references resolve to the
// Unknown* labels; the city always comes from the hotel.
func EnrichRoom(room domain.Room, idx Indexes) RoomView {
	v := RoomView{
		ID:           room.ID,
		CategoryID:   room.CategoryID,
		HotelID:      room.HotelID,
		HotelName:    UnknownHotel,
		CityName:     UnknownCity,
		CategoryName: UnknownCategory,
		Price:        room.Price,
		Amenities:    domain.AmenitySet(room.Amenities),
		Image:        room.Image,
	}
	if h, ok := idx.Hotels[room.HotelID]; ok {
		v.HotelName = h.Name
		v.CityID = h.CityID
		if c, ok := idx.Cities[h.CityID]; ok {
			v.CityName = c.Name
		}
	}
	if c, ok := idx.Categories[room.CategoryID]; ok {
		v.CategoryName = c.Name
	}
	return v
}
