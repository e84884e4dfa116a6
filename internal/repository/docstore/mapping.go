package docstore

import (
	"fmt"
	"strconv"
	"time"

	"resortbooking/internal/domain"
)

func str(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func num(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func strList(data map[string]any, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

func instant(data map[string]any, key string) time.Time {
	t, _ := domain.ParseInstant(data[key])
	return t
}

// roomIDs reads the room list of a booking. Older documents carry a single roomId.
func roomIDs(data map[string]any) []string {
	if ids := strList(data, "roomIds"); len(ids) > 0 {
		return ids
	}
	return strList(data, "roomId")
}

func cityFromData(id string, data map[string]any) domain.City {
	return domain.City{ID: id, Name: str(data, "name")}
}

func hotelFromData(id string, data map[string]any) domain.Hotel {
	return domain.Hotel{ID: id, Name: str(data, "name"), CityID: str(data, "cityId")}
}

func categoryFromData(id string, data map[string]any) domain.RoomCategory {
	return domain.RoomCategory{ID: id, Name: str(data, "name")}
}

func roomFromData(id string, data map[string]any) domain.Room {
	return domain.Room{
		ID:         id,
		HotelID:    str(data, "hotelId"),
		CategoryID: str(data, "categoryId"),
		Price:      num(data, "price"),
		Amenities:  domain.AmenitySet(strList(data, "amenities")),
		Image:      str(data, "image"),
	}
}

func stayFromData(id string, data map[string]any) domain.StayRecord {
	return domain.StayRecord{
		BookingID: id,
		Status:    domain.BookingStatus(str(data, "status")),
		RoomIDs:   roomIDs(data),
		CheckIn:   data["checkInDate"],
		CheckOut:  data["checkOutDate"],
	}
}

func bookingFromData(id string, data map[string]any) domain.Booking {
	return domain.Booking{
		ID:            id,
		UserID:        str(data, "userId"),
		CheckIn:       instant(data, "checkInDate"),
		CheckOut:      instant(data, "checkOutDate"),
		NumGuests:     int(num(data, "numGuests")),
		RoomIDs:       roomIDs(data),
		PaymentMethod: str(data, "paymentMethod"),
		Status:        domain.BookingStatus(str(data, "status")),
		CreatedAt:     instant(data, "createdAt"),
		UpdatedAt:     instant(data, "updatedAt"),
	}
}

func bookingToData(b *domain.Booking) map[string]any {
	return map[string]any{
		"userId":        b.UserID,
		"checkInDate":   b.CheckIn,
		"checkOutDate":  b.CheckOut,
		"numGuests":     b.NumGuests,
		"roomIds":       b.RoomIDs,
		"paymentMethod": b.PaymentMethod,
		"status":        string(b.Status),
		"createdAt":     b.CreatedAt,
		"updatedAt":     b.UpdatedAt,
	}
}

func paymentFromData(id string, data map[string]any) domain.Payment {
	p := domain.Payment{
		ID:          id,
		BookingID:   str(data, "bookingId"),
		Method:      str(data, "paymentType"),
		TotalAmount: num(data, "totalAmount"),
		Advance:     num(data, "advance"),
		PaidAmount:  num(data, "paidAmount"),
		Status:      domain.PaymentStatus(str(data, "status")),
		CreatedAt:   instant(data, "createdAt"),
	}
	if r := str(data, "receipt"); r != "" {
		p.ReceiptRef = &r
	}
	return p
}

func paymentToData(p *domain.Payment) map[string]any {
	data := map[string]any{
		"bookingId":   p.BookingID,
		"paymentType": p.Method,
		"totalAmount": p.TotalAmount,
		"advance":     p.Advance,
		"paidAmount":  p.PaidAmount,
		"status":      string(p.Status),
		"createdAt":   p.CreatedAt,
		"receipt":     nil,
	}
	if p.ReceiptRef != nil {
		data["receipt"] = *p.ReceiptRef
	}
	return data
}

func userFromData(id string, data map[string]any) domain.User {
	return domain.User{
		ID:           id,
		Email:        str(data, "email"),
		PasswordHash: str(data, "passwordHash"),
		Role:         domain.UserRole(str(data, "role")),
		Name:         str(data, "name"),
		Phone:        str(data, "phone"),
		CreatedAt:    instant(data, "createdAt"),
		UpdatedAt:    instant(data, "updatedAt"),
	}
}

func userToData(u *domain.User) map[string]any {
	return map[string]any{
		"email":        u.Email,
		"passwordHash": u.PasswordHash,
		"role":         string(u.Role),
		"name":         u.Name,
		"phone":        u.Phone,
		"createdAt":    u.CreatedAt,
		"updatedAt":    u.UpdatedAt,
	}
}

func holdFromData(id string, data map[string]any) domain.RoomHold {
	return domain.RoomHold{
		ID:        id,
		RoomID:    str(data, "roomId"),
		UserID:    str(data, "userId"),
		HolderID:  str(data, "holderId"),
		CheckIn:   instant(data, "checkInDate"),
		CheckOut:  instant(data, "checkOutDate"),
		ExpiresAt: instant(data, "expiresAt"),
		CreatedAt: instant(data, "createdAt"),
	}
}

func holdToData(h *domain.RoomHold) map[string]any {
	return map[string]any{
		"roomId":       h.RoomID,
		"userId":       h.UserID,
		"holderId":     h.HolderID,
		"checkInDate":  h.CheckIn,
		"checkOutDate": h.CheckOut,
		"expiresAt":    h.ExpiresAt,
		"createdAt":    h.CreatedAt,
	}
}

func uploadFromData(id string, data map[string]any) domain.Upload {
	return domain.Upload{
		ID:           id,
		UserID:       str(data, "userId"),
		OriginalName: str(data, "originalName"),
		FilePath:     str(data, "filePath"),
		FileURL:      str(data, "fileUrl"),
		MimeType:     str(data, "mimeType"),
		Size:         int64(num(data, "size")),
		CreatedAt:    instant(data, "createdAt"),
	}
}

func uploadToData(u *domain.Upload) map[string]any {
	return map[string]any{
		"userId":       u.UserID,
		"originalName": u.OriginalName,
		"filePath":     u.FilePath,
		"fileUrl":      u.FileURL,
		"mimeType":     u.MimeType,
		"size":         u.Size,
		"createdAt":    u.CreatedAt,
	}
}
