package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/auth"
	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/handlers"
	"github.com/frotaops/fleet-manager/internal/insight"
	"github.com/frotaops/fleet-manager/internal/middleware"
	"github.com/frotaops/fleet-manager/internal/store"
	"github.com/frotaops/fleet-manager/internal/telemetry"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to data service")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "fleet"
	}
	gateway := db.NewMongoGateway(client, dbName)
	userCollection := &db.MongoUserCollection{Collection: gateway.Database.Collection(db.TableAppUsers)}

	st := store.New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := st.Refresh(ctx, gateway); err != nil {
		// Stale-empty state until the next successful refresh; not fatal.
		log.WithError(err).Warn("Initial refresh failed")
	}
	cancel()

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	insightClient := insight.New()
	authHandler := handlers.NewAuthHandler(authService, userCollection)
	fleetHandler := handlers.NewFleetHandler(gateway, st, insightClient)

	if brokerURL := os.Getenv("MQTT_BROKER_URL"); brokerURL != "" {
		subscriber, err := telemetry.NewSubscriber(brokerURL, "fleet-manager-api", func(u telemetry.OdometerUpdate) bool {
			vehicle, applied := st.ApplyOdometer(u.Plate, u.Odometer)
			if !applied {
				return false
			}
			patchCtx, patchCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer patchCancel()
			err := gateway.Table(db.TableVehicles).UpdateRow(patchCtx, vehicle.ID, bson.M{"odometer": u.Odometer})
			if err != nil {
				log.WithError(err).WithField("plate", u.Plate).Error("Failed to persist odometer update")
			}
			return true
		})
		if err != nil {
			log.WithError(err).Warn("Odometer telemetry disabled")
		} else if err := subscriber.Start(); err != nil {
			log.WithError(err).Warn("Odometer telemetry disabled")
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)

	mux.HandleFunc("/api/vehicles", fleetHandler.Vehicles)
	mux.HandleFunc("/api/vehicles/", fleetHandler.VehicleByID)
	mux.HandleFunc("/api/orders", fleetHandler.Orders)
	mux.HandleFunc("/api/orders/", fleetHandler.OrderByID)
	mux.HandleFunc("/api/fuel", fleetHandler.FuelEntries)
	mux.HandleFunc("/api/fuel/", fleetHandler.FuelEntryByID)
	mux.HandleFunc("/api/shifts", fleetHandler.Shifts)
	mux.HandleFunc("/api/shifts/", fleetHandler.ShiftClose)
	mux.HandleFunc("/api/cost-centers", fleetHandler.CostCenters)
	mux.HandleFunc("/api/cost-centers/", fleetHandler.CostCenterByID)
	mux.HandleFunc("/api/suppliers", fleetHandler.Suppliers)
	mux.HandleFunc("/api/suppliers/", fleetHandler.SupplierByID)
	mux.HandleFunc("/api/quotes", fleetHandler.Quotes)
	mux.HandleFunc("/api/tires", fleetHandler.Tires)
	mux.HandleFunc("/api/dashboard/summary", fleetHandler.Summary)
	mux.HandleFunc("/api/dashboard/insight", fleetHandler.Insight)
	mux.HandleFunc("/api/dashboard/maintenance-alerts", fleetHandler.MaintenanceAlerts)

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("HTTP server stopped")
	}
}
