package http

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"ngo-admin-backend/internal/analytics"
	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/report"
	"ngo-admin-backend/internal/security"
	"ngo-admin-backend/internal/service"
	"ngo-admin-backend/internal/storage"

	"github.com/gorilla/mux"
)

// Services holds everything the admin API calls.
type Services struct {
	Dashboard     service.DashboardService
	Reports       service.ReportService
	Review        service.ReviewService
	Notifications service.NotificationService
	Organizations service.OrganizationService
	Events        service.EventService
	Preferences   service.PreferencesService
}

// AdminHandler serves the /api/v1 admin console endpoints.
type AdminHandler struct {
	svc     Services
	archive storage.StorageInterface
}

func NewAdminHandler(svc Services, archive storage.StorageInterface) *AdminHandler {
	return &AdminHandler{svc: svc, archive: archive}
}

// NewRouter wires every route. The returned handler applies recovery,
// request logging and CORS ahead of routing so preflights never reach auth.
func NewRouter(svc Services, archive storage.StorageInterface, tm security.TokenManager, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	notify := NewNotificationHandler(svc.Notifications)
	mailAuth := Auth(tm, denyNotify)
	for route, kind := range map[string]service.NoticeKind{
		"/api/send-reject-org":           service.NoticeOrgRejection,
		"/api/send-reject-event":         service.NoticeEventRejection,
		"/api/send-removal-notification": service.NoticeRemoval,
	} {
		router.Handle(route, mailAuth(notify.send(kind))).Methods(http.MethodPost, http.MethodOptions)
	}

	h := NewAdminHandler(svc, archive)
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(Auth(tm, writeError))
	h.register(v1)

	return Recovery(RequestLogger(CORS(allowedOrigins)(router)))
}

func (h *AdminHandler) register(r *mux.Router) {
	r.HandleFunc("/dashboard", h.getDashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/filter", h.filterDashboard).Methods(http.MethodPost)

	r.HandleFunc("/reports", h.generateReport).Methods(http.MethodPost)
	r.HandleFunc("/reports/archive", h.archiveReport).Methods(http.MethodPost)
	r.HandleFunc("/reports/archive/{ngo}/{file}", h.downloadArchived).Methods(http.MethodGet)

	r.HandleFunc("/applications", h.listApplications).Methods(http.MethodGet)
	r.HandleFunc("/applications/{id:[0-9]+}/accept", h.acceptApplication).Methods(http.MethodPost)
	r.HandleFunc("/applications/{id:[0-9]+}/reject", h.rejectApplication).Methods(http.MethodPost)
	r.HandleFunc("/volunteers/{userId}/remove", h.removeVolunteer).Methods(http.MethodPost)

	r.HandleFunc("/ngos", h.listOrganizations).Methods(http.MethodGet)
	r.HandleFunc("/ngos", h.createOrganization).Methods(http.MethodPost)
	r.HandleFunc("/ngos/{code}", h.getOrganization).Methods(http.MethodGet)
	r.HandleFunc("/ngos/{code}", h.updateOrganization).Methods(http.MethodPut)

	r.HandleFunc("/events", h.listEvents).Methods(http.MethodGet)
	r.HandleFunc("/events", h.createEvent).Methods(http.MethodPost)
	r.HandleFunc("/events/{id:[0-9]+}", h.updateEvent).Methods(http.MethodPut)

	r.HandleFunc("/preferences", h.getPreferences).Methods(http.MethodGet)
	r.HandleFunc("/preferences", h.savePreferences).Methods(http.MethodPut)

	// bare OPTIONS answers 200 with no body, same as the notification routes
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func session(r *http.Request) domain.Session {
	sess, _ := SessionFromContext(r.Context())
	return sess
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("id", "invalid id")
	}
	return id, nil
}

// Dashboard

func (h *AdminHandler) getDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Dashboard.GetSnapshot(r.Context(), session(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, snap)
}

func (h *AdminHandler) filterDashboard(w http.ResponseWriter, r *http.Request) {
	var spec analytics.FilterSpec
	if err := decodeJSON(r, &spec); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Dashboard.ApplyFilter(r.Context(), session(r), spec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// Reports

func (h *AdminHandler) generateReport(w http.ResponseWriter, r *http.Request) {
	var period report.Period
	if err := decodeJSON(r, &period); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := h.svc.Reports.Generate(r.Context(), session(r), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rep.Content); err != nil {
		logger.Warn("report download interrupted", "file", rep.FileName, "error", err)
	}
}

func (h *AdminHandler) archiveReport(w http.ResponseWriter, r *http.Request) {
	var period report.Period
	if err := decodeJSON(r, &period); err != nil {
		writeError(w, r, err)
		return
	}
	key, err := h.svc.Reports.Archive(r.Context(), session(r), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": h.archive.DownloadURL(key),
	})
}

func (h *AdminHandler) downloadArchived(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess := session(r)
	if !sess.IsSuperAdmin() && vars["ngo"] != sess.OrgCode {
		writeError(w, r, domain.ErrForbidden)
		return
	}
	file := vars["file"]
	if !strings.HasSuffix(file, ".pdf") {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	key := path.Join(vars["ngo"], file)

	exists, size, err := h.archive.FileExists(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !exists {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	rc, err := h.archive.ReadFile(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("report download interrupted", "file", key, "error", err)
	}
}

// Review

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) listApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.Review.ListPending(r.Context(), session(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, apps)
}

func (h *AdminHandler) acceptApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Review.Accept(r.Context(), session(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *AdminHandler) rejectApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Review.Reject(r.Context(), session(r), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *AdminHandler) removeVolunteer(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Review.RemoveVolunteer(r.Context(), session(r), mux.Vars(r)["userId"], req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// Organizations

func (h *AdminHandler) listOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.svc.Organizations.ListOrganizations(r.Context(), session(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, orgs)
}

func (h *AdminHandler) getOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.svc.Organizations.GetOrganization(r.Context(), session(r), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, org)
}

func (h *AdminHandler) createOrganization(w http.ResponseWriter, r *http.Request) {
	var org domain.Organization
	if err := decodeJSON(r, &org); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Organizations.CreateOrganization(r.Context(), session(r), &org); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, org)
}

func (h *AdminHandler) updateOrganization(w http.ResponseWriter, r *http.Request) {
	var org domain.Organization
	if err := decodeJSON(r, &org); err != nil {
		writeError(w, r, err)
		return
	}
	org.Code = mux.Vars(r)["code"]
	if err := h.svc.Organizations.UpdateOrganization(r.Context(), session(r), &org); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, org)
}

// Events

func (h *AdminHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Events.ListEvents(r.Context(), session(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, events)
}

func (h *AdminHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	var e domain.Event
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Events.CreateEvent(r.Context(), session(r), &e); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, e)
}

func (h *AdminHandler) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var e domain.Event
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = id
	if err := h.svc.Events.UpdateEvent(r.Context(), session(r), &e); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, e)
}

// Preferences

func (h *AdminHandler) getPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.Preferences.GetPreferences(r.Context(), session(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, prefs)
}

func (h *AdminHandler) savePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := h.svc.Preferences.SavePreferences(r.Context(), session(r), &prefs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, saved)
}
