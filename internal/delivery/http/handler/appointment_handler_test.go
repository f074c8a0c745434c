package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/delivery/http/middleware"
	"healthcare-plus-api/internal/domain/entity"
	"healthcare-plus-api/internal/usecase"
	"healthcare-plus-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAppointmentUsecase returns canned results so handler tests exercise the
// HTTP error mapping without a database.
type fakeAppointmentUsecase struct {
	createErr error
	getErr    error
	updateErr error
	cancelErr error
	statusErr error
	result    *dto.AppointmentResponse
}

func (f *fakeAppointmentUsecase) Create(ctx context.Context, actorID *uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.result, nil
}

func (f *fakeAppointmentUsecase) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool) (*dto.AppointmentResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.result, nil
}

func (f *fakeAppointmentUsecase) GetMine(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, nil
}

func (f *fakeAppointmentUsecase) GetAll(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, nil
}

func (f *fakeAppointmentUsecase) Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.result, nil
}

func (f *fakeAppointmentUsecase) Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool, req *dto.CancelAppointmentRequest) error {
	return f.cancelErr
}

func (f *fakeAppointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.result, nil
}

func (f *fakeAppointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeAppointmentUsecase) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	return &dto.StatsResponse{}, nil
}

func validCreateBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(dto.CreateAppointmentRequest{
		PatientName:    "Jane Roe",
		PatientContact: "5550001234",
		PatientAddress: "12 Main Street",
		Symptoms:       "Persistent cough",
		Department:     "Cardiology",
		DoctorName:     "Dr. John Smith",
		Date:           "2030-06-01",
		Time:           "09:30",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestAppointmentHandler_Create_SlotConflictReturns409(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{createErr: usecase.ErrSlotConflict}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", validCreateBody(t))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func TestAppointmentHandler_Create_UnknownDoctorReturns404(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{createErr: usecase.ErrDoctorNotFound}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", validCreateBody(t))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppointmentHandler_Create_PastDateReturns400(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{createErr: usecase.ErrPastDate}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", validCreateBody(t))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentHandler_Create_MissingFieldsFailValidation(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	body, err := json.Marshal(dto.CreateAppointmentRequest{PatientName: "Jane Roe"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp["message"])
}

func TestAppointmentHandler_Create_Success(t *testing.T) {
	want := &dto.AppointmentResponse{ID: uuid.New(), DoctorName: "Dr. John Smith", Status: "scheduled"}
	h := NewAppointmentHandler(&fakeAppointmentUsecase{result: want}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", validCreateBody(t))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAppointmentHandler_Update_NotOwnedReturns403(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{updateErr: usecase.ErrAppointmentNotOwned}, validator.NewValidator())

	body := bytes.NewBufferString(`{"time":"10:00"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+uuid.NewString(), body)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAppointmentHandler_Update_CancelledReturns409(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{updateErr: usecase.ErrAppointmentCancelled}, validator.NewValidator())

	body := bytes.NewBufferString(`{"time":"10:00"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+uuid.NewString(), body)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAppointmentHandler_Update_InvalidIDReturns400(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/not-a-uuid", bytes.NewBufferString(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentHandler_Cancel_IsIdempotent(t *testing.T) {
	// A repeated cancel surfaces as success, not as an error.
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/"+uuid.NewString()+"/cancel", bytes.NewBufferString(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))
	rec := httptest.NewRecorder()

	h.Cancel(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/appointments/"+uuid.NewString()+"/cancel", bytes.NewBufferString(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	h.Cancel(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppointmentHandler_UpdateStatus_InvalidTransitionReturns409(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{statusErr: usecase.ErrInvalidTransition}, validator.NewValidator())

	body := bytes.NewBufferString(`{"status":"scheduled"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/appointments/"+uuid.NewString()+"/status", body)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAppointmentHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	body := bytes.NewBufferString(`{"status":"archived"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/appointments/"+uuid.NewString()+"/status", body)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
