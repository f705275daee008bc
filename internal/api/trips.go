package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
)

type createTripRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	trip, err := s.Trips.CreateTrip(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Currency)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.Trips.ListTrips(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	if trips == nil {
		trips = []*models.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.Trips.GetTrip(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.Trips.DeleteTrip(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addParticipantRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req addParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.Trips.AddParticipant(r.Context(), chi.URLParam(r, "tripID"), req.Name)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.Trips.ListParticipants(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	if participants == nil {
		participants = []*models.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

func (s *Server) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.Trips.RemoveParticipant(r.Context(), chi.URLParam(r, "participantID")); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type directPaymentRequest struct {
	FromParticipantID string `json:"from_participant_id"`
	ToParticipantID   string `json:"to_participant_id"`
	AmountCents       int64  `json:"amount_cents"`
	Currency          string `json:"currency"`
	Date              string `json:"date"`
	Note              string `json:"note"`
}

func (s *Server) handleRecordDirectPayment(w http.ResponseWriter, r *http.Request) {
	var req directPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	payment := &models.DirectPayment{
		TripID:            chi.URLParam(r, "tripID"),
		FromParticipantID: req.FromParticipantID,
		ToParticipantID:   req.ToParticipantID,
		AmountCents:       req.AmountCents,
		Currency:          req.Currency,
		Date:              req.Date,
		Note:              req.Note,
	}
	if err := s.Trips.RecordDirectPayment(r.Context(), payment); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) handleListDirectPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.Trips.ListDirectPayments(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	if payments == nil {
		payments = []*models.DirectPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleDeleteDirectPayment(w http.ResponseWriter, r *http.Request) {
	if err := s.Trips.DeleteDirectPayment(r.Context(), chi.URLParam(r, "paymentID")); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
