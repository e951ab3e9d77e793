package service

import (
	"encoding/json"
	"net/http"
	"strconv"

	"class-notifier/internal/registry"
	"class-notifier/internal/timetable"

	"github.com/go-chi/chi/v5"
)

type healthBody struct {
	Message string `json:"message"`
	// SqlServer is "Running" or "Down", the extension checks for "Running".
	SqlServer string `json:"sqlServer"`
}

// handleHealth always answers 200, a down database is reported in the body.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := healthBody{Message: "Alive and well", SqlServer: "Running"}
	err := s.registry.Ping(r.Context())
	if err != nil {
		s.tel.ReportWarning(report_service_health, err)
		body.SqlServer = "Down"
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSendNotification(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	message := chi.URLParam(r, "message")
	if topic == "" || message == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	err := s.dispatcher.Notify(r.Context(), message, topic)
	if err != nil {
		s.tel.ReportBroken(report_service_send_notification, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Notification sent successfully"})
}

type classesBody struct {
	Classes []timetable.ClassRecord `json:"classes"`
}

func (s *Server) handleFetchClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.notifier.Classes(r.Context(), s.opts.DemoUserID)
	if err != nil {
		s.tel.ReportWarning(report_service_classes, err)
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classesBody{Classes: classes})
}

func parseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleFetchClass(w http.ResponseWriter, r *http.Request) {
	period, err := strconv.Atoi(chi.URLParam(r, "period"))
	if err != nil || period < 1 {
		writeError(w, http.StatusBadRequest, "Invalid period")
		return
	}
	userID, ok := parseUserID(chi.URLParam(r, "userID"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid userID")
		return
	}

	_, err = s.notifier.NotifyClass(r.Context(), period, userID)
	if err != nil {
		s.tel.ReportWarning(report_service_class, userID, period, err)
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Notification sent"})
}

type uniformBody struct {
	Uniform string `json:"uniform"`
	Period  string `json:"period"`
}

func (s *Server) handleFetchUniform(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(chi.URLParam(r, "userID"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid userID")
		return
	}

	outcome, err := s.notifier.Uniform(r.Context(), userID)
	if err != nil {
		s.tel.ReportWarning(report_service_uniform, userID, err)
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uniformBody{Uniform: "True", Period: string(outcome)})
}

type addUserBody struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var user registry.NewUser
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&user)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}
	// validated here as well so a bad request never reaches the store
	err = user.Validate()
	if err != nil {
		s.tel.ReportDebug("add user rejected", err.Error())
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	id, err := s.registry.AddUser(r.Context(), user)
	if err != nil {
		s.tel.ReportBroken(report_service_add_user, err)
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addUserBody{Message: "User added", UserID: id})
}
