// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/agencydesk/agencydesk-backend/internal/auth"
	"github.com/agencydesk/agencydesk-backend/internal/controller"
	"github.com/agencydesk/agencydesk-backend/internal/db"
	"github.com/agencydesk/agencydesk-backend/internal/handler"
	"github.com/agencydesk/agencydesk-backend/internal/lock"
	"github.com/agencydesk/agencydesk-backend/internal/metrics"
	"github.com/agencydesk/agencydesk-backend/internal/queue"
	"github.com/agencydesk/agencydesk-backend/internal/repository"
	"github.com/agencydesk/agencydesk-backend/internal/service"
	"github.com/agencydesk/agencydesk-backend/internal/sheets"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()
	queue.StartEventLogSubscriber(q, "sync_events", "incident_events")

	// Best-effort event forwarding to RabbitMQ for the archiving worker
	if url := os.Getenv("AMQP_URL"); url != "" {
		pub, err := queue.NewAMQPPublisher(url)
		if err != nil {
			log.Println("⚠️ RabbitMQ unavailable, events stay local:", err)
		} else {
			queue.StartEventForwarder(q, pub, "sync_events", "incident_events")
		}
	}

	customerRepo := &repository.CustomerRepository{DB: db.DB}
	leadRepo := &repository.LeadRepository{DB: db.DB}

	incidents := metrics.NewIncidents(q)
	locks := lock.NewOwnerLocks()
	healer := &service.Healer{Incidents: incidents}

	sheetClient := sheets.NewGatewayClient(os.Getenv("SHEET_GATEWAY_URL"))

	customerService := &service.CustomerService{Repo: customerRepo, Healer: healer}
	leadService := &service.LeadService{Repo: leadRepo, Healer: healer}
	syncService := service.NewSyncService(customerRepo, leadRepo, sheetClient, locks, q)

	customerHandler := &handler.CustomerHandler{Service: customerService}
	leadHandler := &handler.LeadHandler{Service: leadService}
	syncController := &controller.SyncController{
		SyncService: syncService,
		Incidents:   incidents,
	}

	r := chi.NewRouter()
	r.Use(auth.RequireOwner)

	// Customer routes
	r.Post("/customers", customerHandler.CreateCustomerHandler)
	r.Get("/customers", customerHandler.ListCustomersHandler)
	r.Get("/customers/{id}", customerHandler.GetCustomerHandler)
	r.Put("/customers/{id}", customerHandler.UpdateCustomerHandler)
	r.Delete("/customers/{id}", customerHandler.DeleteCustomerHandler)

	// Lead routes
	r.Post("/leads", leadHandler.CreateLeadHandler)
	r.Get("/leads", leadHandler.ListLeadsHandler)
	r.Get("/leads/{id}", leadHandler.GetLeadHandler)
	r.Put("/leads/{id}", leadHandler.UpdateLeadHandler)
	r.Delete("/leads/{id}", leadHandler.DeleteLeadHandler)

	// Sync routes
	r.Post("/sync/to-sheet", syncController.SyncToSheet)
	r.Post("/sync/from-sheet", syncController.SyncFromSheet)
	r.Get("/sync/status", syncController.SyncStatus)
	r.Get("/sync/jobs/{id}", syncController.GetJob)

	// Diagnostics
	r.Get("/admin/incidents", syncController.IncidentStats)
	r.Post("/admin/incidents/reset", syncController.ResetIncidents)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
