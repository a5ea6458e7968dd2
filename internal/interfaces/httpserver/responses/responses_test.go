package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var envelope ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not the error envelope: %v (body %q)", err, rec.Body.String())
	}
	return envelope
}

func TestHandleErrorMapsTypesToStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		errType    platformerrors.ErrorType
		wantStatus int
	}{
		{"validation", platformerrors.ErrorTypeValidation, http.StatusBadRequest},
		{"not found", platformerrors.ErrorTypeNotFound, http.StatusNotFound},
		{"unauthorized", platformerrors.ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"external", platformerrors.ErrorTypeExternal, http.StatusBadGateway},
		{"unavailable", platformerrors.ErrorTypeUnavailable, http.StatusServiceUnavailable},
		{"database", platformerrors.ErrorTypeDatabaseError, http.StatusInternalServerError},
		{"internal", platformerrors.ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			reqCtx, _ := gin.CreateTestContext(rec)

			err := platformerrors.NewError(context.Background(), platformerrors.LayerDomain, tt.errType, "it failed", nil, "11111111-2222-4333-8444-555555555555")
			HandleError(reqCtx, err, "fallback")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			envelope := decodeEnvelope(t, rec)
			if envelope.Error.Type != string(tt.errType) {
				t.Errorf("error.type = %q, want %q", envelope.Error.Type, tt.errType)
			}
			if envelope.Error.Message != "it failed" {
				t.Errorf("error.message = %q, want the platform error message", envelope.Error.Message)
			}
			if envelope.Error.Code != "11111111-2222-4333-8444-555555555555" {
				t.Errorf("error.code = %q, want the trace code", envelope.Error.Code)
			}
		})
	}
}

func TestHandleErrorPlainErrorIsInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	reqCtx, _ := gin.CreateTestContext(rec)

	HandleError(reqCtx, errors.New("boom"), "something went wrong")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error.Type != string(platformerrors.ErrorTypeInternal) {
		t.Errorf("error.type = %q, want internal", envelope.Error.Type)
	}
	if envelope.Error.Message != "something went wrong" {
		t.Errorf("error.message = %q, want the fallback message", envelope.Error.Message)
	}
}

func TestHandleNewError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	reqCtx, _ := gin.CreateTestContext(rec)

	HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "aaaabbbb-cccc-4ddd-8eee-ffff00001111")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error.Type != "unauthorized" {
		t.Errorf("error.type = %q", envelope.Error.Type)
	}
	if envelope.Error.Code != "aaaabbbb-cccc-4ddd-8eee-ffff00001111" {
		t.Errorf("error.code = %q", envelope.Error.Code)
	}
}

func TestHandleErrorWithStatusKeepsExplicitStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	reqCtx, _ := gin.CreateTestContext(rec)

	HandleErrorWithStatus(reqCtx, http.StatusUnauthorized, errors.New("parse token: signature invalid"), "unauthorized")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error.Type != "unauthorized" {
		t.Errorf("error.type = %q, want unauthorized", envelope.Error.Type)
	}
	if envelope.Error.Message != "unauthorized" {
		t.Errorf("error.message = %q, want the handler message, not the raw parse error", envelope.Error.Message)
	}
}
