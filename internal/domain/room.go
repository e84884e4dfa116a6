package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type City struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at"`
}

func (City) TableName() string { return "cities" }

func (c *City) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Hotel struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	CityID    string    `json:"cityId" gorm:"column:city_id;index;not null"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at"`
}

func (Hotel) TableName() string { return "hotels" }

func (h *Hotel) BeforeCreate(_ *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

type RoomCategory struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at"`
}

func (RoomCategory) TableName() string { return "room_categories" }

func (c *RoomCategory) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c RoomCategory) Slug() string { return Slug(c.Name) }

// Room carries no city of its own; the city always comes from its hotel.
type Room struct {
	ID         string    `json:"id" gorm:"column:id;primaryKey"`
	HotelID    string    `json:"hotelId" gorm:"column:hotel_id;index;not null"`
	CategoryID string    `json:"categoryId" gorm:"column:category_id;index;not null"`
	Price      float64   `json:"price" gorm:"column:price;not null;check:price >= 0"`
	Amenities  []string  `json:"amenities" gorm:"column:amenities;serializer:json"`
	Image      string    `json:"image" gorm:"column:image"`
	CreatedAt  time.Time `json:"-" gorm:"column:created_at"`
}

func (Room) TableName() string { return "rooms" }

func (r *Room) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Room) BeforeSave(_ *gorm.DB) error {
	r.Amenities = AmenitySet(r.Amenities)
	return nil
}

// AmenitySet trims, de-duplicates and sorts amenity tags.
func AmenitySet(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
