package httpapi

import (
	"bytes"
	"net/http"

	"student-records/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	sample, err := services.CaptureHealth(r.Context(), s.Store, s.Config.StoreBackend, s.Config.HealthDiskPath)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, sample)
}

func (s *Server) ExportStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.Students.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := services.WriteStudentsWorkbook(&buf, students); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="students.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
