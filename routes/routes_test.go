package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"booking-calendar/controllers"
	"booking-calendar/middleware"
	"booking-calendar/models"
	"booking-calendar/services"
)

var testNow = time.Date(2025, time.September, 3, 9, 0, 0, 0, time.UTC)

type memCatalog struct{}

func (memCatalog) ListCompanies(context.Context) ([]models.Company, error) {
	return []models.Company{{ID: "comp1", Name: "Demo Hotels"}}, nil
}

func (memCatalog) GetCompany(_ context.Context, id models.CompanyID) (models.Company, error) {
	if id != "comp1" {
		return models.Company{}, services.ErrCompanyNotFound
	}
	return models.Company{ID: id, Name: "Demo Hotels"}, nil
}

func (memCatalog) ListHotels(context.Context) ([]models.Hotel, error) {
	return []models.Hotel{
		{ID: "hotel2", CompanyID: "comp1", Name: "Lakeside", SortNumber: 2},
		{ID: "hotel1", CompanyID: "comp1", Name: "Central", SortNumber: 1},
	}, nil
}

func (c memCatalog) GetHotel(ctx context.Context, id models.HotelID) (models.Hotel, error) {
	hotels, _ := c.ListHotels(ctx)
	for _, h := range hotels {
		if h.ID == id {
			return h, nil
		}
	}
	return models.Hotel{}, services.ErrHotelNotFound
}

func (memCatalog) ListRooms(_ context.Context, hotel models.HotelID) ([]models.Room, error) {
	if hotel != "hotel1" {
		return nil, nil
	}
	return []models.Room{
		{ID: "r102", HotelID: hotel, Number: "102", Type: "double", IsActive: true},
		{ID: "r101", HotelID: hotel, Number: "101", Type: "single", IsActive: true},
	}, nil
}

type memReservations struct {
	mu   sync.Mutex
	rows map[models.ReservationID]models.Reservation
}

func (m *memReservations) list(hotel models.HotelID, keep func(models.Reservation) bool) []models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, r := range m.rows {
		if r.HotelID == hotel && keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *memReservations) ListActive(_ context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	return m.list(hotel, func(r models.Reservation) bool {
		return !r.Deleted && !r.CheckIn.After(end) && !r.CheckOut.Before(start)
	}), nil
}

func (m *memReservations) ListDeleted(_ context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	return m.list(hotel, func(r models.Reservation) bool {
		return r.Deleted && r.DeletedOn.Within(start, end)
	}), nil
}

func (m *memReservations) Get(_ context.Context, hotel models.HotelID, id models.ReservationID) (models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.HotelID != hotel {
		return models.Reservation{}, services.ErrReservationNotFound
	}
	return r, nil
}

func (m *memReservations) Overlapping(_ context.Context, hotel models.HotelID, room string, in, out models.Date, exclude models.ReservationID) ([]models.Reservation, error) {
	candidate := models.Reservation{RoomNumber: room, CheckIn: in, CheckOut: out}
	return m.list(hotel, func(r models.Reservation) bool {
		return !r.Deleted && r.ID != exclude && r.Overlaps(candidate)
	}), nil
}

func (m *memReservations) Create(_ context.Context, r models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[r.ID]; ok {
		return services.ErrDuplicateID
	}
	m.rows[r.ID] = r
	return nil
}

func (m *memReservations) Save(_ context.Context, r models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.ID] = r
	return nil
}

// newTestServer serves the store and the calendar from one process, the
// calendar talking to the store over HTTP.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := services.NewFixedClock(testNow)
	catalog := memCatalog{}
	repo := &memReservations{rows: map[models.ReservationID]models.Reservation{}}

	srv := httptest.NewUnstartedServer(nil)
	client := services.NewStoreClient("http://"+srv.Listener.Addr().String(), 5*time.Second)
	sessions := services.NewSessionStore(client, clock, time.Hour)
	t.Cleanup(sessions.Close)

	router := SetupRouter(Controllers{
		Catalog:      controllers.NewCatalogController(services.NewCatalogService(catalog)),
		Reservations: controllers.NewReservationController(services.NewReservationService(repo, catalog, nil, clock)),
		Calendar:     controllers.NewCalendarController(sessions),
	}, middleware.NewAuthenticator(nil, "", "comp1"), nil)

	srv.Config.Handler = router
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return res.StatusCode
}

type gridBody struct {
	Grid struct {
		Company string `json:"company"`
		HotelID string `json:"hotel_id"`
		Dates   []string
		Rows    []struct {
			Room  string `json:"room"`
			Cells []struct {
				Date          string `json:"date"`
				Status        string `json:"status"`
				ReservationID string `json:"reservation_id"`
			} `json:"cells"`
		} `json:"rows"`
		Error string `json:"error"`
	} `json:"grid"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g gridBody) status(t *testing.T, room, date string) string {
	t.Helper()
	for _, row := range g.Grid.Rows {
		if row.Room != room {
			continue
		}
		for _, cell := range row.Cells {
			if cell.Date == date {
				return cell.Status
			}
		}
	}
	t.Fatalf("no cell %s/%s in grid", room, date)
	return ""
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	if code := call(t, srv, http.MethodGet, "/health", nil, &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestStoreAPI_ReservationLifecycle(t *testing.T) {
	srv := newTestServer(t)

	create := map[string]any{
		"room_number":    "101",
		"check_in_date":  "2025-09-01",
		"check_out_date": "2025-09-05",
		"contact_name":   "Ana",
	}
	var created struct {
		Message     string                   `json:"message"`
		Reservation models.ReservationRecord `json:"reservation"`
	}
	if code := call(t, srv, http.MethodPost, "/hotels/hotel1/reservations", create, &created); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if created.Reservation.UserID != "system" {
		t.Fatalf("expected system actor, got %q", created.Reservation.UserID)
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	clash := map[string]any{
		"room_number":    "101",
		"check_in_date":  "2025-09-04",
		"check_out_date": "2025-09-06",
		"contact_name":   "Bo",
	}
	if code := call(t, srv, http.MethodPost, "/hotels/hotel1/reservations", clash, &detail); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if detail.Detail != "Room 101 is not available for the selected dates" {
		t.Fatalf("unexpected detail %q", detail.Detail)
	}

	clash["check_in_date"] = "2025-09-05"
	if code := call(t, srv, http.MethodPost, "/hotels/hotel1/reservations", clash, nil); code != http.StatusCreated {
		t.Fatalf("expected back-to-back stay to be accepted, got %d", code)
	}

	var listed struct {
		Reservations []models.ReservationRecord `json:"reservations"`
	}
	if code := call(t, srv, http.MethodGet, "/hotels/hotel1/reservations?start_date=2025-09-01&end_date=2025-09-30", nil, &listed); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(listed.Reservations) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(listed.Reservations))
	}

	id := created.Reservation.PK
	path := "/hotels/hotel1/reservations/" + id[len("RESERVATION#"):]
	if code := call(t, srv, http.MethodDelete, path, nil, nil); code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", code)
	}
	var deleted struct {
		Deleted []models.ReservationRecord `json:"deleted_reservations"`
	}
	if code := call(t, srv, http.MethodGet, "/hotels/hotel1/reservations/deleted?start_date=2025-09-01&end_date=2025-09-30", nil, &deleted); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(deleted.Deleted) != 1 || deleted.Deleted[0].DeletedBy != "system" {
		t.Fatalf("unexpected deleted list %+v", deleted.Deleted)
	}
}

func TestStoreAPI_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "missing window", path: "/hotels/hotel1/reservations", want: http.StatusBadRequest},
		{name: "bad date", path: "/hotels/hotel1/reservations?start_date=09/01/2025&end_date=2025-09-30", want: http.StatusBadRequest},
		{name: "reversed window", path: "/hotels/hotel1/reservations?start_date=2025-09-30&end_date=2025-09-01", want: http.StatusBadRequest},
		{name: "unknown hotel", path: "/hotels/nowhere/reservations?start_date=2025-09-01&end_date=2025-09-30", want: http.StatusNotFound},
		{name: "unknown company", path: "/companies/nobody", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Detail string `json:"detail"`
			}
			if code := call(t, srv, http.MethodGet, tt.path, nil, &body); code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
			if body.Detail == "" {
				t.Fatalf("expected a detail message")
			}
		})
	}
}

func TestCalendarAPI_BookAndCancel(t *testing.T) {
	srv := newTestServer(t)

	var grid gridBody
	if code := call(t, srv, http.MethodPost, "/api/calendar/session", nil, &grid); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if grid.Grid.HotelID != "hotel1" || grid.Grid.Company != "Demo Hotels" {
		t.Fatalf("unexpected session header %q/%q", grid.Grid.HotelID, grid.Grid.Company)
	}
	if len(grid.Grid.Rows) != 2 || grid.Grid.Rows[0].Room != "101" {
		t.Fatalf("expected rooms sorted 101, 102; got %+v", grid.Grid.Rows)
	}
	if got := grid.status(t, "101", "2025-09-05"); got != "available" {
		t.Fatalf("expected available, got %s", got)
	}

	var form struct {
		Form struct {
			Mode       string `json:"mode"`
			RoomNumber string `json:"room_number"`
			CheckIn    string `json:"check_in_date"`
		} `json:"form"`
	}
	click := map[string]string{"room": "101", "date": "2025-09-05"}
	if code := call(t, srv, http.MethodPost, "/api/calendar/click", click, &form); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if form.Form.Mode != "create" || form.Form.RoomNumber != "101" || form.Form.CheckIn != "2025-09-05" {
		t.Fatalf("unexpected form %+v", form.Form)
	}

	var submitted gridBody
	in := map[string]any{"contact_name": "Ana", "check_out_date": "2025-09-07"}
	if code := call(t, srv, http.MethodPost, "/api/calendar/form/submit", in, &submitted); code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", code, submitted.Error)
	}
	for _, d := range []string{"2025-09-05", "2025-09-06", "2025-09-07"} {
		if got := submitted.status(t, "101", d); got != "booked" {
			t.Fatalf("%s: expected booked, got %s", d, got)
		}
	}

	if code := call(t, srv, http.MethodPost, "/api/calendar/click", map[string]string{"room": "101", "date": "2025-09-06"}, &form); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if form.Form.Mode != "edit" {
		t.Fatalf("expected edit form, got %s", form.Form.Mode)
	}

	var afterDelete gridBody
	if code := call(t, srv, http.MethodPost, "/api/calendar/form/delete", nil, &afterDelete); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, d := range []string{"2025-09-05", "2025-09-06", "2025-09-07"} {
		if got := afterDelete.status(t, "101", d); got != "available" {
			t.Fatalf("%s: expected available after delete, got %s", d, got)
		}
	}

	var deleted struct {
		Deleted []models.ReservationRecord `json:"deleted_reservations"`
	}
	if code := call(t, srv, http.MethodGet, "/api/calendar/deleted?start_date=2025-09-01&end_date=2025-09-30", nil, &deleted); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(deleted.Deleted) != 1 || deleted.Deleted[0].RoomID != "101" || !deleted.Deleted[0].IsDeleted {
		t.Fatalf("unexpected deleted list %+v", deleted.Deleted)
	}
	if code := call(t, srv, http.MethodGet, "/api/calendar/deleted?start_date=2025-09-30&end_date=2025-09-01", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a reversed window, got %d", code)
	}
}

func TestCalendarAPI_UnknownStatusRejectedByStore(t *testing.T) {
	srv := newTestServer(t)

	if code := call(t, srv, http.MethodPost, "/api/calendar/session", nil, nil); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if code := call(t, srv, http.MethodPost, "/api/calendar/click", map[string]string{"room": "101", "date": "2025-09-04"}, nil); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	var failed gridBody
	in := map[string]any{"contact_name": "Ana", "status": "Maybe"}
	if code := call(t, srv, http.MethodPost, "/api/calendar/form/submit", in, &failed); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if failed.Error.Code != "error.validation" || failed.Error.Message != `invalid reservation status: "Maybe"` {
		t.Fatalf("unexpected error %+v", failed.Error)
	}
}

func TestCalendarAPI_SubmitClashShowsStoreDetail(t *testing.T) {
	srv := newTestServer(t)

	seed := map[string]any{
		"room_number":    "102",
		"check_in_date":  "2025-09-04",
		"check_out_date": "2025-09-08",
		"contact_name":   "Bo",
	}
	if code := call(t, srv, http.MethodPost, "/hotels/hotel1/reservations", seed, nil); code != http.StatusCreated {
		t.Fatalf("seed: expected 201, got %d", code)
	}

	if code := call(t, srv, http.MethodPost, "/api/calendar/session", map[string]any{"width": 810}, nil); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if code := call(t, srv, http.MethodPost, "/api/calendar/click", map[string]string{"room": "102", "date": "2025-09-03"}, nil); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	var failed gridBody
	in := map[string]any{"contact_name": "Ana", "check_out_date": "2025-09-06"}
	if code := call(t, srv, http.MethodPost, "/api/calendar/form/submit", in, &failed); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if failed.Error.Code != "error.validation" || failed.Error.Message != "Room 102 is not available for the selected dates" {
		t.Fatalf("unexpected error %+v", failed.Error)
	}
	if len(failed.Grid.Rows) == 0 {
		t.Fatalf("expected the current grid alongside the error")
	}
}

func TestCalendarAPI_NoSession(t *testing.T) {
	srv := newTestServer(t)

	var body gridBody
	if code := call(t, srv, http.MethodGet, "/api/calendar/grid", nil, &body); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if body.Error.Code != "error.sessionNotFound" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}

	if code := call(t, srv, http.MethodPost, "/api/calendar/session", nil, nil); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if code := call(t, srv, http.MethodDelete, "/api/calendar/session", nil, nil); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if code := call(t, srv, http.MethodGet, "/api/calendar/grid", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 after ending the session, got %d", code)
	}
}

func TestCorsConfig(t *testing.T) {
	t.Parallel()

	if cfg := corsConfig(nil); cfg.AllowCredentials || cfg.AllowOrigins[0] != "*" {
		t.Fatalf("wildcard origins must not allow credentials: %+v", cfg)
	}
	if cfg := corsConfig([]string{"https://app.example.com"}); !cfg.AllowCredentials {
		t.Fatalf("explicit origins should allow credentials")
	}
}
