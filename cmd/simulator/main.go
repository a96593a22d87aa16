// Fleet simulator: seeds the API with cost centers, vehicles, service
// orders and fuel entries, then publishes odometer telemetry over MQTT so a
// running instance has live data to display.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

var authToken string

var costCenters = []struct {
	ID      string
	Name    string
	Company string
	Budget  float64
	Color   string
}{
	{"10", "Frota Norte", "FrotaOps Ltda", 50000, "#2563eb"},
	{"12", "Frota Sul", "FrotaOps Ltda", 35000, "#16a34a"},
	{"20", "Emergência", "FrotaOps Ltda", 80000, "#dc2626"},
	{"31", "Administrativo", "FrotaOps Ltda", 15000, "#9333ea"},
}

var vehicleTypes = []string{"Moto", "Carro Leve", "Ambulância", "Caminhão"}

var modelsByType = map[string][]string{
	"Moto":       {"CG 160", "XRE 300", "Factor 150"},
	"Carro Leve": {"Onix", "Gol", "HB20", "Strada"},
	"Ambulância": {"Sprinter", "Ducato", "Master"},
	"Caminhão":   {"Accelo", "Delivery", "Cargo"},
}

var taskTypes = []string{"Preventiva", "Corretiva", "Preditiva"}
var priorities = []string{"Baixa", "Média", "Alta", "Crítica"}
var drivers = []string{"Carlos Silva", "Ana Souza", "João Pereira", "Maria Lima", "Pedro Santos"}

func randomPlate() string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	plate := make([]byte, 7)
	for i := 0; i < 3; i++ {
		plate[i] = letters[rand.Intn(len(letters))]
	}
	plate[3] = byte('0' + rand.Intn(10))
	plate[4] = letters[rand.Intn(len(letters))]
	plate[5] = byte('0' + rand.Intn(10))
	plate[6] = byte('0' + rand.Intn(10))
	return string(plate)
}

func centerLabel(i int) string {
	c := costCenters[i%len(costCenters)]
	return fmt.Sprintf("%s - %s", c.ID, c.Name)
}

func authorizedPost(url string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func login(apiURL string) error {
	email := os.Getenv("SIM_EMAIL")
	password := os.Getenv("SIM_PASSWORD")
	if email == "" {
		email = "admin@frotaops.com"
		password = "simulador123"
		// First run against an empty database: register the admin.
		resp, err := authorizedPost(apiURL+"/api/auth/register", map[string]string{
			"name":     "Simulador",
			"email":    email,
			"password": password,
			"role":     "ADMIN",
		})
		if err == nil {
			resp.Body.Close()
		}
	}
	resp, err := authorizedPost(apiURL+"/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned %s", resp.Status)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	authToken = out.Token
	return nil
}

func seed(apiURL string, vehicleCount int) []string {
	for _, c := range costCenters {
		resp, err := authorizedPost(apiURL+"/api/cost-centers", map[string]interface{}{
			"id": c.ID, "name": c.Name, "company": c.Company, "budget": c.Budget, "color": c.Color,
		})
		if err != nil {
			log.WithError(err).Error("Failed to create cost center")
			continue
		}
		resp.Body.Close()
	}
	log.WithField("cost_centers", len(costCenters)).Info("Cost centers seeded")

	plates := make([]string, 0, vehicleCount)
	for i := 0; i < vehicleCount; i++ {
		vtype := vehicleTypes[rand.Intn(len(vehicleTypes))]
		model := modelsByType[vtype][rand.Intn(len(modelsByType[vtype]))]
		plate := randomPlate()
		resp, err := authorizedPost(apiURL+"/api/vehicles", map[string]interface{}{
			"plate":       plate,
			"model":       model,
			"type":        vtype,
			"status":      "ACTIVE",
			"odometer":    5000 + rand.Intn(90000),
			"cost_center": centerLabel(i),
		})
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		resp.Body.Close()
		plates = append(plates, plate)
	}
	log.WithField("created_vehicles", len(plates)).Info("Vehicle creation completed")

	for i, plate := range plates {
		resp, err := authorizedPost(apiURL+"/api/orders", map[string]interface{}{
			"plate":       plate,
			"description": "Revisão programada",
			"task_type":   taskTypes[rand.Intn(len(taskTypes))],
			"priority":    priorities[rand.Intn(len(priorities))],
			"mechanic":    drivers[rand.Intn(len(drivers))],
			"cost_center": centerLabel(i),
			"cost_value":  float64(200 + rand.Intn(3000)),
		})
		if err != nil {
			log.WithError(err).Error("Failed to create service order")
			continue
		}
		resp.Body.Close()

		quantity := 20 + rand.Float64()*40
		resp, err = authorizedPost(apiURL+"/api/fuel", map[string]interface{}{
			"plate":       plate,
			"driver":      drivers[rand.Intn(len(drivers))],
			"cost_center": centerLabel(i),
			"item_type":   "Diesel S10",
			"quantity":    quantity,
			"total_value": quantity * (5.5 + rand.Float64()),
		})
		if err != nil {
			log.WithError(err).Error("Failed to create fuel entry")
			continue
		}
		resp.Body.Close()
	}
	log.Info("Orders and fuel entries seeded")
	return plates
}

func publishOdometer(client mqtt.Client, plate string, km int) {
	payload, err := json.Marshal(map[string]int{"odometer": km})
	if err != nil {
		log.WithError(err).Error("Failed to marshal odometer reading")
		return
	}
	topic := fmt.Sprintf("fleet/vehicles/%s/odometer", plate)
	token := client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.WithError(token.Error()).Error("Failed to publish odometer reading")
		return
	}
	log.WithFields(log.Fields{"plate": plate, "odometer": km}).Info("Published odometer reading")
}

func main() {
	apiURL := os.Getenv("SIM_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	vehicleCount := 10
	if v := os.Getenv("SIM_VEHICLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			vehicleCount = n
		}
	}

	if err := login(apiURL); err != nil {
		log.WithError(err).Fatal("Login failed. Ensure the API is reachable.")
	}
	plates := seed(apiURL, vehicleCount)
	if len(plates) == 0 {
		log.Error("No vehicles created. Exiting.")
		os.Exit(1)
	}

	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		log.Info("MQTT_BROKER_URL not set, skipping odometer telemetry")
		return
	}
	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID("fleet-simulator")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}
	defer client.Disconnect(250)

	log.Info("Odometer telemetry simulation started")
	odometers := make(map[string]int, len(plates))
	for _, plate := range plates {
		odometers[plate] = 5000 + rand.Intn(90000)
	}
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		plate := plates[rand.Intn(len(plates))]
		odometers[plate] += 1 + rand.Intn(25)
		publishOdometer(client, plate, odometers[plate])
	}
}
