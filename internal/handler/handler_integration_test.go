package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/gateway"
	"github.com/lifeconnect/response-engine/internal/service"
	"github.com/lifeconnect/response-engine/internal/transport"
	"go.uber.org/zap"
)

type stubBloodRequestService struct {
	submitFn       func(ctx context.Context, actorID string, req *domain.BloodRequest) (*service.SubmitRequestResult, error)
	listByStatusFn func(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error)
	respondFn      func(ctx context.Context, requestID string, accept bool) error
	sendSOSFn      func(ctx context.Context, donorID string, requestID string) error
}

func (s *stubBloodRequestService) Submit(ctx context.Context, actorID string, req *domain.BloodRequest) (*service.SubmitRequestResult, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, actorID, req)
	}
	return &service.SubmitRequestResult{}, nil
}

func (s *stubBloodRequestService) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error) {
	if s.listByStatusFn != nil {
		return s.listByStatusFn(ctx, status)
	}
	return nil, nil
}

func (s *stubBloodRequestService) Respond(ctx context.Context, requestID string, accept bool) error {
	if s.respondFn != nil {
		return s.respondFn(ctx, requestID, accept)
	}
	return nil
}

func (s *stubBloodRequestService) SendDirectSOS(ctx context.Context, donorID string, requestID string) error {
	if s.sendSOSFn != nil {
		return s.sendSOSFn(ctx, donorID, requestID)
	}
	return nil
}

type stubReportService struct {
	submitFn func(ctx context.Context, actorID string, report *domain.IncidentReport) (*service.SubmitReportResult, error)
	listFn   func(ctx context.Context, reporterID string) ([]domain.IncidentReport, error)
}

func (s *stubReportService) Submit(ctx context.Context, actorID string, report *domain.IncidentReport) (*service.SubmitReportResult, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, actorID, report)
	}
	return &service.SubmitReportResult{}, nil
}

func (s *stubReportService) ListByReporter(ctx context.Context, reporterID string) ([]domain.IncidentReport, error) {
	if s.listFn != nil {
		return s.listFn(ctx, reporterID)
	}
	return nil, nil
}

type stubDonorService struct {
	registerFn func(ctx context.Context, donor *domain.Donor) (*domain.Donor, error)
	listFn     func(ctx context.Context) ([]domain.Donor, error)
}

func (s *stubDonorService) Register(ctx context.Context, donor *domain.Donor) (*domain.Donor, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, donor)
	}
	return donor, nil
}

func (s *stubDonorService) List(ctx context.Context) ([]domain.Donor, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

type stubNotificationService struct {
	listFn     func(ctx context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error)
	markReadFn func(ctx context.Context, id string) error
}

func (s *stubNotificationService) ListForRecipient(ctx context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error) {
	if s.listFn != nil {
		return s.listFn(ctx, category, recipientID)
	}
	return nil, nil
}

func (s *stubNotificationService) MarkRead(ctx context.Context, id string) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, id)
	}
	return nil
}

func newTestApp(t *testing.T, register func(app *fiber.App) error) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(zap.NewNop()),
	})
	if err := register(app); err != nil {
		t.Fatalf("route registration error = %v", err)
	}
	return app
}

func performRequest(t *testing.T, app *fiber.App, method string, path string, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

func TestBloodRequestIntegration_Submit(t *testing.T) {
	t.Parallel()

	svc := &stubBloodRequestService{
		submitFn: func(_ context.Context, actorID string, req *domain.BloodRequest) (*service.SubmitRequestResult, error) {
			if actorID != "user-1" {
				t.Errorf("actor id = %s, want user-1", actorID)
			}
			if req.BloodType != domain.BloodONegative {
				t.Errorf("blood type = %s, want O-", req.BloodType)
			}
			return &service.SubmitRequestResult{
				RequestID: "req-1",
				MatchedDonors: []domain.Donor{
					{ID: "d1", Name: "Asha", BloodType: domain.BloodONegative, Contact: "+911111"},
				},
			}, nil
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterBloodRequestRoutes(app, svc)
	})

	body := `{"bloodType":"O-","unitsNeeded":2,"location":"Pune"}`
	resp, respBody := performRequest(t, app, http.MethodPost, "/v1/blood-requests", body, map[string]string{userIDHeader: "user-1"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(respBody))
	}

	var created submitRequestResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created.RequestID != "req-1" {
		t.Errorf("request id = %s, want req-1", created.RequestID)
	}
	if created.Status != "PENDING" {
		t.Errorf("status = %s, want PENDING", created.Status)
	}
	if len(created.MatchedDonors) != 1 || created.MatchedDonors[0].ID != "d1" {
		t.Errorf("matched donors = %+v, want [d1]", created.MatchedDonors)
	}
}

func TestBloodRequestIntegration_SubmitRejections(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterBloodRequestRoutes(app, &stubBloodRequestService{})
	})

	// Missing X-User-ID header.
	resp, _ := performRequest(t, app, http.MethodPost, "/v1/blood-requests",
		`{"bloodType":"A+","unitsNeeded":1,"location":"Pune"}`, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing user header", resp.StatusCode)
	}

	// Unknown blood type.
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/blood-requests",
		`{"bloodType":"C+","unitsNeeded":1,"location":"Pune"}`, map[string]string{userIDHeader: "user-1"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown blood type", resp.StatusCode)
	}
}

func TestBloodRequestIntegration_RespondConflict(t *testing.T) {
	t.Parallel()

	svc := &stubBloodRequestService{
		respondFn: func(context.Context, string, bool) error {
			return fmt.Errorf("%w: request already answered", domain.ErrConflict)
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterBloodRequestRoutes(app, svc)
	})

	resp, _ := performRequest(t, app, http.MethodPost, "/v1/blood-requests/req-1/respond",
		`{"accept":true}`, nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestBloodRequestIntegration_SendSOSGatewayOutage(t *testing.T) {
	t.Parallel()

	sendErr := fmt.Errorf("failed to send SOS: %w", &gateway.GatewayError{
		StatusCode: http.StatusServiceUnavailable,
		Message:    "provider overloaded",
		Transient:  true,
	})
	svc := &stubBloodRequestService{
		sendSOSFn: func(context.Context, string, string) error {
			return sendErr
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterBloodRequestRoutes(app, svc)
	})

	body := `{"donorId":"d1","requestId":"req-1"}`
	resp, _ := performRequest(t, app, http.MethodPost, "/v1/blood-requests/sos", body, map[string]string{userIDHeader: "user-1"})
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 for a transient gateway failure", resp.StatusCode)
	}

	// A permanent gateway rejection is not retryable and stays a server error.
	svc.sendSOSFn = func(context.Context, string, string) error {
		return fmt.Errorf("failed to send SOS: %w", &gateway.GatewayError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "invalid destination number",
		})
	}
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/blood-requests/sos", body, map[string]string{userIDHeader: "user-1"})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for a permanent gateway failure", resp.StatusCode)
	}
}

func TestBloodRequestIntegration_ListByStatus(t *testing.T) {
	t.Parallel()

	var gotStatus domain.RequestStatus
	svc := &stubBloodRequestService{
		listByStatusFn: func(_ context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error) {
			gotStatus = status
			return []domain.BloodRequest{{ID: "req-1", Status: status}}, nil
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterBloodRequestRoutes(app, svc)
	})

	resp, _ := performRequest(t, app, http.MethodGet, "/v1/blood-requests?status=accepted", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if gotStatus != domain.RequestStatusAccepted {
		t.Errorf("listed status = %s, want ACCEPTED", gotStatus)
	}

	// Default is pending.
	resp, _ = performRequest(t, app, http.MethodGet, "/v1/blood-requests", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if gotStatus != domain.RequestStatusPending {
		t.Errorf("default status = %s, want PENDING", gotStatus)
	}

	resp, _ = performRequest(t, app, http.MethodGet, "/v1/blood-requests?status=bogus", "", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown status filter", resp.StatusCode)
	}
}

func TestReportIntegration_Submit(t *testing.T) {
	t.Parallel()

	svc := &stubReportService{
		submitFn: func(_ context.Context, actorID string, report *domain.IncidentReport) (*service.SubmitReportResult, error) {
			if actorID != "user-1" {
				t.Errorf("actor id = %s, want user-1", actorID)
			}
			if report.Coordinate.Latitude != 18.52 {
				t.Errorf("latitude = %v, want 18.52", report.Coordinate.Latitude)
			}
			return &service.SubmitReportResult{
				ReportID: "r-1",
				Summary: &domain.DispatchSummary{
					CountsByCategory: map[domain.ServiceCategory]int{
						domain.CategoryHospital:  2,
						domain.CategoryAmbulance: 1,
					},
					TotalNotified: 3,
					Failures: []domain.DispatchFailure{
						{Category: domain.CategoryPolice, RecipientID: "p1", Reason: "timeout"},
					},
				},
			}, nil
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterReportRoutes(app, svc)
	})

	body := `{"latitude":18.52,"longitude":73.85,"description":"collision","contact":"+914444"}`
	resp, respBody := performRequest(t, app, http.MethodPost, "/v1/reports", body, map[string]string{userIDHeader: "user-1"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(respBody))
	}

	var created submitReportResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created.ReportID != "r-1" {
		t.Errorf("report id = %s, want r-1", created.ReportID)
	}
	if created.Summary == nil || created.Summary.TotalNotified != 3 {
		t.Fatalf("summary = %+v, want total notified 3", created.Summary)
	}
	if len(created.Summary.Failures) != 1 || created.Summary.Failures[0].Reason != "timeout" {
		t.Errorf("failures = %+v, want one timeout", created.Summary.Failures)
	}
	if len(created.Summary.Counts) != 3 {
		t.Errorf("counts = %+v, want all three categories", created.Summary.Counts)
	}
}

func TestReportIntegration_SubmitWarning(t *testing.T) {
	t.Parallel()

	svc := &stubReportService{
		submitFn: func(context.Context, string, *domain.IncidentReport) (*service.SubmitReportResult, error) {
			return &service.SubmitReportResult{
				ReportID: "r-1",
				Warning:  "responder discovery skipped: connection refused",
			}, nil
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterReportRoutes(app, svc)
	})

	body := `{"latitude":18.52,"longitude":73.85,"description":"collision","contact":"+914444"}`
	resp, respBody := performRequest(t, app, http.MethodPost, "/v1/reports", body, map[string]string{userIDHeader: "user-1"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201 even with a warning", resp.StatusCode)
	}

	var created submitReportResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created.Warning == "" {
		t.Error("expected warning in response")
	}
	if created.Summary != nil {
		t.Errorf("summary = %+v, want nil", created.Summary)
	}
}

func TestNotificationIntegration_ListForRecipient(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		listFn: func(_ context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error) {
			if category != domain.CategoryAmbulance {
				t.Errorf("category = %s, want AMBULANCE", category)
			}
			if recipientID != "a1" {
				t.Errorf("recipient id = %s, want a1", recipientID)
			}
			return []domain.Notification{
				{ID: "n1", RecipientCategory: category, RecipientID: recipientID, Status: domain.NotificationUnread},
			}, nil
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterNotificationRoutes(app, svc)
	})

	resp, respBody := performRequest(t, app, http.MethodGet, "/v1/notifications?category=ambulance&recipientId=a1", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(respBody))
	}

	var listed struct {
		Data []notificationResponse `json:"data"`
	}
	if err := json.Unmarshal(respBody, &listed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(listed.Data) != 1 || listed.Data[0].ID != "n1" {
		t.Errorf("data = %+v, want [n1]", listed.Data)
	}
	if listed.Data[0].Status != "UNREAD" {
		t.Errorf("status = %s, want UNREAD", listed.Data[0].Status)
	}

	resp, _ = performRequest(t, app, http.MethodGet, "/v1/notifications?category=clinic&recipientId=a1", "", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown category", resp.StatusCode)
	}
}

func TestNotificationIntegration_MarkRead(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		markReadFn: func(_ context.Context, id string) error {
			if id != "n1" {
				return fmt.Errorf("%w: notification not found", domain.ErrNotFound)
			}
			return nil
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterNotificationRoutes(app, svc)
	})

	resp, respBody := performRequest(t, app, http.MethodPost, "/v1/notifications/n1/read", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(respBody))
	}
	var marked map[string]any
	if err := json.Unmarshal(respBody, &marked); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if marked["status"] != "READ" {
		t.Errorf("status = %v, want READ", marked["status"])
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/v1/notifications/missing/read", "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown id", resp.StatusCode)
	}
}

func TestDonorIntegration_Register(t *testing.T) {
	t.Parallel()

	svc := &stubDonorService{
		registerFn: func(_ context.Context, donor *domain.Donor) (*domain.Donor, error) {
			donor.ID = "d-created"
			return donor, nil
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterDonorRoutes(app, svc)
	})

	body := `{"name":"Asha","bloodType":"AB+","contact":"+911111","location":"Pune"}`
	resp, respBody := performRequest(t, app, http.MethodPost, "/v1/donors", body, nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(respBody))
	}

	var created donorResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created.ID != "d-created" {
		t.Errorf("id = %s, want d-created", created.ID)
	}
	if created.BloodType != "AB+" {
		t.Errorf("blood type = %s, want AB+", created.BloodType)
	}
}

func TestDonorIntegration_RegisterConflict(t *testing.T) {
	t.Parallel()

	svc := &stubDonorService{
		registerFn: func(context.Context, *domain.Donor) (*domain.Donor, error) {
			return nil, fmt.Errorf("%w: contact already registered", domain.ErrConflict)
		},
	}
	app := newTestApp(t, func(app *fiber.App) error {
		return RegisterDonorRoutes(app, svc)
	})

	body := `{"name":"Asha","bloodType":"A+","contact":"+911111"}`
	resp, _ := performRequest(t, app, http.MethodPost, "/v1/donors", body, nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}
