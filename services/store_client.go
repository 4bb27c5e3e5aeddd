package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"booking-calendar/models"
)

// ReservationStore is the calendar's view of the backend REST API.
type ReservationStore interface {
	GetCompany(ctx context.Context, id models.CompanyID) (models.Company, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	ListRooms(ctx context.Context, hotel models.HotelID) ([]models.Room, error)
	ListReservations(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, hotel models.HotelID, p models.ReservationPayload) (models.Reservation, error)
	UpdateReservation(ctx context.Context, hotel models.HotelID, id models.ReservationID, p models.ReservationPatch) (models.Reservation, error)
	DeleteReservation(ctx context.Context, hotel models.HotelID, id models.ReservationID) (models.Reservation, error)
	ListDeletedReservations(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error)
}

type bearerKey struct{}

// WithBearer attaches the caller's access token to ctx; StoreClient sends it
// as the Authorization header of every request made with that context.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFrom(ctx context.Context) string {
	s, _ := ctx.Value(bearerKey{}).(string)
	return s
}

const DefaultStoreTimeout = 10 * time.Second

// StoreClient talks JSON over HTTP to the reservation store.
type StoreClient struct {
	baseURL string
	http    *http.Client
}

func NewStoreClient(baseURL string, timeout time.Duration) *StoreClient {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &StoreClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *StoreClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := bearerFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		log.Printf("store %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrStoreUnavailable, err)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return ErrStoreUnauthorized
	case res.StatusCode >= 500:
		log.Printf("store %s %s answered %d", method, path, res.StatusCode)
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, storeDetail(payload, res.StatusCode))
	case res.StatusCode >= 300:
		return &StoreError{Status: res.StatusCode, Detail: storeDetail(payload, res.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// storeDetail pulls the "detail" field out of an error body. Structured
// details (lists of field errors) are passed through as compact JSON.
func storeDetail(payload []byte, status int) string {
	var body detailBody
	if err := json.Unmarshal(payload, &body); err != nil || len(body.Detail) == 0 {
		return http.StatusText(status)
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body.Detail); err != nil {
		return string(body.Detail)
	}
	return compact.String()
}

func dateQuery(start, end models.Date) url.Values {
	return url.Values{"start_date": {start.String()}, "end_date": {end.String()}}
}

func hotelPath(hotel models.HotelID, rest string) string {
	return "/hotels/" + url.PathEscape(string(hotel)) + rest
}

func (c *StoreClient) GetCompany(ctx context.Context, id models.CompanyID) (models.Company, error) {
	var out struct {
		Company *models.CompanyRecord `json:"company"`
	}
	if err := c.do(ctx, http.MethodGet, "/companies/"+url.PathEscape(string(id)), nil, nil, &out); err != nil {
		return models.Company{}, err
	}
	if out.Company == nil {
		return models.Company{}, ErrCompanyNotFound
	}
	return out.Company.Decode()
}

func (c *StoreClient) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	var out struct {
		Hotels []models.HotelRecord `json:"hotels"`
	}
	if err := c.do(ctx, http.MethodGet, "/hotels/", nil, nil, &out); err != nil {
		return nil, err
	}
	hotels := make([]models.Hotel, 0, len(out.Hotels))
	for _, rec := range out.Hotels {
		h, err := rec.Decode()
		if err != nil {
			log.Printf("skipping hotel record %q: %v", rec.PK, err)
			continue
		}
		hotels = append(hotels, h)
	}
	return hotels, nil
}

func (c *StoreClient) ListRooms(ctx context.Context, hotel models.HotelID) ([]models.Room, error) {
	var out struct {
		Rooms []models.RoomRecord `json:"rooms"`
	}
	if err := c.do(ctx, http.MethodGet, hotelPath(hotel, "/rooms"), nil, nil, &out); err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(out.Rooms))
	for _, rec := range out.Rooms {
		r, err := rec.Decode()
		if err != nil {
			log.Printf("skipping room record %q: %v", rec.PK, err)
			continue
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func decodeReservations(records []models.ReservationRecord) []models.Reservation {
	out := make([]models.Reservation, 0, len(records))
	for _, rec := range records {
		r, err := rec.Decode()
		if err != nil {
			log.Printf("skipping reservation record %q: %v", rec.PK, err)
			continue
		}
		out = append(out, r)
	}
	return out
}

func (c *StoreClient) ListReservations(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	var out struct {
		Reservations []models.ReservationRecord `json:"reservations"`
	}
	if err := c.do(ctx, http.MethodGet, hotelPath(hotel, "/reservations"), dateQuery(start, end), nil, &out); err != nil {
		return nil, err
	}
	return decodeReservations(out.Reservations), nil
}

func (c *StoreClient) ListDeletedReservations(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	var out struct {
		Reservations []models.ReservationRecord `json:"deleted_reservations"`
	}
	if err := c.do(ctx, http.MethodGet, hotelPath(hotel, "/reservations/deleted"), dateQuery(start, end), nil, &out); err != nil {
		return nil, err
	}
	return decodeReservations(out.Reservations), nil
}

type reservationEnvelope struct {
	Message     string                    `json:"message"`
	Reservation *models.ReservationRecord `json:"reservation"`
}

func (e reservationEnvelope) decode() (models.Reservation, error) {
	if e.Reservation == nil {
		return models.Reservation{}, errors.New("store response carries no reservation")
	}
	return e.Reservation.Decode()
}

func (c *StoreClient) CreateReservation(ctx context.Context, hotel models.HotelID, p models.ReservationPayload) (models.Reservation, error) {
	var out reservationEnvelope
	if err := c.do(ctx, http.MethodPost, hotelPath(hotel, "/reservations"), nil, p, &out); err != nil {
		return models.Reservation{}, err
	}
	return out.decode()
}

func (c *StoreClient) UpdateReservation(ctx context.Context, hotel models.HotelID, id models.ReservationID, p models.ReservationPatch) (models.Reservation, error) {
	var out reservationEnvelope
	path := hotelPath(hotel, "/reservations/"+url.PathEscape(string(id)))
	if err := c.do(ctx, http.MethodPut, path, nil, p, &out); err != nil {
		return models.Reservation{}, err
	}
	return out.decode()
}

func (c *StoreClient) DeleteReservation(ctx context.Context, hotel models.HotelID, id models.ReservationID) (models.Reservation, error) {
	var out reservationEnvelope
	path := hotelPath(hotel, "/reservations/"+url.PathEscape(string(id)))
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return models.Reservation{}, err
	}
	return out.decode()
}
