package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/parokya/parokya/internal/event_bus"
	"github.com/parokya/parokya/internal/utils"
	"github.com/parokya/parokya/pkg/sacrament"
	"github.com/parokya/parokya/pkg/slot"
	"github.com/parokya/parokya/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	handler *Handler
	slots   *slot.StubStore
	router  *mux.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	slots := slot.NewStubStore()
	clock := &utils.MockClock{FixedNow: time.Date(2025, 4, 1, 10, 0, 0, 0, time.Local)}
	coordinator := NewCoordinator(NewStubRepo(), slots, sacrament.NewStubCatalog("Baptism"), event_bus.NewEventBus(), clock)
	handler := NewHandler(coordinator)

	router := mux.NewRouter()
	router.HandleFunc("/api/appointment", handler.Book).Methods(http.MethodPost)
	router.HandleFunc("/api/appointment", handler.GetOwn).Methods(http.MethodGet)
	router.HandleFunc("/api/appointment/{appointmentId}", handler.Cancel).Methods(http.MethodDelete)

	return &handlerFixture{handler: handler, slots: slots, router: router}
}

func (f *handlerFixture) do(t *testing.T, method, target, body string, requesterId int) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if requesterId != 0 {
		ctx := user.WithUser(context.Background(), user.User{Id: requesterId, Uid: "stub-uid"})
		req = req.WithContext(ctx)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func TestBookHandlerCreatesAppointment(t *testing.T) {
	f := newHandlerFixture(t)
	created, err := f.slots.CreateSlots(context.Background(), "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	response := f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 1}`, 1)

	require.Equal(t, http.StatusCreated, response.Code)
	var dto AppointmentDTO
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &dto))
	assert.NotEmpty(t, dto.AppointmentId)
	assert.Equal(t, "Baptism", dto.SacramentType)
	assert.Equal(t, "2025-04-05", dto.Date)
	assert.Equal(t, created[0].ID, dto.TimeSlotID)
	assert.Equal(t, string(StatusConfirmed), dto.Status)
}

func TestBookHandlerRejectsIncompleteBody(t *testing.T) {
	f := newHandlerFixture(t)

	response := f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism"}`, 1)

	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestBookHandlerWithoutUser(t *testing.T) {
	f := newHandlerFixture(t)
	_, err := f.slots.CreateSlots(context.Background(), "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	response := f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 1}`, 0)

	assert.Equal(t, http.StatusForbidden, response.Code)
}

func TestBookHandlerTakenSlotConflicts(t *testing.T) {
	f := newHandlerFixture(t)
	_, err := f.slots.CreateSlots(context.Background(), "2025-04-05", []string{"10:00"})
	require.NoError(t, err)
	body := `{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 1}`

	first := f.do(t, http.MethodPost, "/api/appointment", body, 1)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.do(t, http.MethodPost, "/api/appointment", body, 2)
	require.Equal(t, http.StatusConflict, second.Code)
	var errResponse struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &errResponse))
	assert.Contains(t, errResponse.Error, "no longer available")
}

func TestBookHandlerUnknownSlot(t *testing.T) {
	f := newHandlerFixture(t)

	response := f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 42}`, 1)

	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestGetOwnReturnsOnlyOwnAppointments(t *testing.T) {
	f := newHandlerFixture(t)
	_, err := f.slots.CreateSlots(context.Background(), "2025-04-05", []string{"10:00", "11:00"})
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 1}`, 1).Code)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 2}`, 2).Code)

	response := f.do(t, http.MethodGet, "/api/appointment", "", 1)

	require.Equal(t, http.StatusOK, response.Code)
	var dtos []AppointmentDTO
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, 1, dtos[0].TimeSlotID)
}

func TestCancelHandler(t *testing.T) {
	f := newHandlerFixture(t)
	_, err := f.slots.CreateSlots(context.Background(), "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	booked := f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 1}`, 1)
	require.Equal(t, http.StatusCreated, booked.Code)
	var dto AppointmentDTO
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &dto))

	cancel := f.do(t, http.MethodDelete, "/api/appointment/"+dto.AppointmentId, "", 1)
	assert.Equal(t, http.StatusNoContent, cancel.Code)

	// A second cancel finds the appointment already CANCELLED.
	again := f.do(t, http.MethodDelete, "/api/appointment/"+dto.AppointmentId, "", 1)
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestCancelHandlerForeignAppointment(t *testing.T) {
	f := newHandlerFixture(t)
	_, err := f.slots.CreateSlots(context.Background(), "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	booked := f.do(t, http.MethodPost, "/api/appointment",
		`{"sacramentType": "Baptism", "date": "2025-04-05", "timeSlotId": 1}`, 1)
	require.Equal(t, http.StatusCreated, booked.Code)
	var dto AppointmentDTO
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &dto))

	response := f.do(t, http.MethodDelete, "/api/appointment/"+dto.AppointmentId, "", 2)
	assert.Equal(t, http.StatusNotFound, response.Code)
}
