package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"student-records/internal/config"
	"student-records/internal/services"
	"student-records/internal/store"
)

type Server struct {
	Config      config.Config
	Store       store.Store
	Students    *services.StudentService
	Locations   *services.LocationLog
	LocationHub *services.LocationHub
}

func NewServer(cfg config.Config, st store.Store, hub *services.LocationHub) *Server {
	return &Server{
		Config:      cfg,
		Store:       st,
		Students:    services.NewStudentService(st),
		Locations:   services.NewLocationLog(cfg.LocationsFile, hub),
		LocationHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Post("/login", s.Login)

	// username-keyed routes
	r.Post("/add-mark", s.AddMark)
	r.Get("/marks/{username}", s.Marks)
	r.Get("/student/{username}", s.Student)

	// name-keyed routes
	r.Post("/add_student", s.AddStudent)
	r.Post("/add_mark", s.AddSubjectMark)
	r.Get("/get_student", s.StudentByName)
	r.Get("/get_students", s.ListStudents)

	r.Post("/update-location", s.UpdateLocation)
	r.Get("/locations", s.ListLocations)
	r.Get("/ws/locations", s.LocationSocket)

	r.Get("/health", s.Health)
	r.Get("/export/students.xlsx", s.ExportStudents)
	return r
}
