package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"student-records/internal/models"
)

type LocationResponse struct {
	Status   string             `json:"status"`
	Message  string             `json:"message"`
	Location models.LocationFix `json:"location"`
}

type LocationsResponse struct {
	Items []models.LocationFix `json:"items"`
}

// UpdateLocation accepts any JSON object carrying the three keys, whatever their types.
func (s *Server) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		WriteError(w, http.StatusBadRequest, "Invalid or missing fields")
		return
	}
	lat, okLat := body["latitude"]
	lng, okLng := body["longitude"]
	ts, okTs := body["timestamp"]
	if !okLat || !okLng || !okTs {
		WriteError(w, http.StatusBadRequest, "Invalid or missing fields")
		return
	}
	fix := models.LocationFix{Latitude: lat, Longitude: lng, Timestamp: ts}
	if err := s.Locations.Append(fix); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, LocationResponse{
		Status:   statusSuccess,
		Message:  "Location updated successfully",
		Location: fix,
	})
}

func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	fixes, err := s.Locations.List()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, LocationsResponse{Items: fixes})
}

func (s *Server) LocationSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("location socket upgrade: %v", err)
		return
	}
	s.LocationHub.Add(conn)
	defer func() {
		s.LocationHub.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
