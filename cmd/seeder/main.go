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

	log "github.com/sirupsen/logrus"
)

// JobCard mirrors the intake payload accepted by the job-card API.
type JobCard struct {
	CustomerName  string   `json:"customer_name"`
	CompanyName   string   `json:"company_name,omitempty"`
	Mobile        string   `json:"mobile"`
	Email         string   `json:"email,omitempty"`
	Rego          string   `json:"rego"`
	VehicleMake   string   `json:"vehicle_make"`
	VehicleModel  string   `json:"vehicle_model"`
	VehicleType   []string `json:"vehicle_type"`
	ServiceLevel  string   `json:"service_level,omitempty"`
	InvoiceNumber string   `json:"invoice_number,omitempty"`

	VehicleManufactureYear  int     `json:"vehicle_manufacture_year"`
	VehicleManufactureMonth int     `json:"vehicle_manufacture_month"`
	OdometerKm              float64 `json:"odometer_km"`
}

// LineItem mirrors one billable line on the update payload.
type LineItem struct {
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
}

// Edit is the follow-up payload applied to a fraction of the seeded cards.
type Edit struct {
	AssignedWorker      string     `json:"assigned_worker,omitempty"`
	AssignedParts       string     `json:"assigned_parts,omitempty"`
	PartsAndConsumables []LineItem `json:"parts_and_consumables,omitempty"`
	LubricantsUsed      []LineItem `json:"lubricants_used,omitempty"`
	TotalLabor          float64    `json:"total_labor,omitempty"`
	PaymentStatus       string     `json:"payment_status,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

var customers = []string{
	"Alice Nguyen", "Bob Carter", "Carol Mensah", "Dan Okafor", "Erin Walsh",
	"Frank Petrov", "Grace Lim", "Hamid Shah", "Ines Moreau", "Jack Doyle",
}

var companies = []string{
	"", "", "Harbour Freight Pty Ltd", "Redline Logistics", "Summit Earthworks",
	"", "Coastal Haulage Co", "",
}

var fleet = map[string][]string{
	"Hino":     {"300 Series", "500 Series"},
	"Isuzu":    {"NPR", "FVZ"},
	"Kenworth": {"T410", "K200"},
	"Volvo":    {"FH16", "FM"},
	"Toyota":   {"HiAce", "LandCruiser"},
}

var workers = []string{"Worker 1", "Worker 2", "Worker 3", "Worker 4"}
var partsTeams = []string{"Parts 1", "Parts 2", "Parts 3", "Parts 4"}

var partNames = []string{
	"Brake pads", "Air filter", "Fuel filter", "Wiper blades", "Fan belt",
	"Wheel bearing kit", "Brake rotor", "Clutch kit",
}

var lubricantNames = []string{
	"Engine oil 15W-40", "Diff oil 85W-140", "Gearbox oil", "Coolant", "Grease cartridge",
}

func randomRego() string {
	letters := "ABCDEFGHJKLMNPRSTUVWXYZ"
	b := make([]byte, 3)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("%s%03d", string(b), rand.Intn(1000))
}

func randomJobCard() JobCard {
	makes := make([]string, 0, len(fleet))
	for m := range fleet {
		makes = append(makes, m)
	}
	vehicleMake := makes[rand.Intn(len(makes))]
	model := fleet[vehicleMake][rand.Intn(len(fleet[vehicleMake]))]

	types := []string{"Truck"}
	switch rand.Intn(4) {
	case 0:
		types = append(types, "Trailer")
	case 1:
		types = []string{"Other"}
	}

	level := ""
	if types[0] == "Truck" {
		level = []string{"A", "B"}[rand.Intn(2)]
	}

	name := customers[rand.Intn(len(customers))]
	return JobCard{
		CustomerName:            name,
		CompanyName:             companies[rand.Intn(len(companies))],
		Mobile:                  fmt.Sprintf("04%08d", rand.Intn(100000000)),
		Rego:                    randomRego(),
		VehicleMake:             vehicleMake,
		VehicleModel:            model,
		VehicleType:             types,
		ServiceLevel:            level,
		VehicleManufactureYear:  2010 + rand.Intn(15),
		VehicleManufactureMonth: 1 + rand.Intn(12),
		OdometerKm:              float64(20000 + rand.Intn(400000)),
	}
}

func randomLines(names []string, max int) []LineItem {
	n := 1 + rand.Intn(max)
	lines := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, LineItem{
			Description: names[rand.Intn(len(names))],
			Qty:         float64(1 + rand.Intn(4)),
			UnitPrice:   10 + rand.Float64()*240,
		})
	}
	return lines
}

func randomEdit() Edit {
	edit := Edit{
		AssignedWorker: workers[rand.Intn(len(workers))],
		AssignedParts:  partsTeams[rand.Intn(len(partsTeams))],
		TotalLabor:     float64(1+rand.Intn(8)) * 95,
	}
	if rand.Intn(2) == 0 {
		edit.PartsAndConsumables = randomLines(partNames, 4)
	}
	if rand.Intn(2) == 0 {
		edit.LubricantsUsed = randomLines(lubricantNames, 2)
	}
	if rand.Intn(4) == 0 {
		edit.PaymentStatus = "paid"
	}
	return edit
}

var authToken string

func authorizedRequest(method, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest(method, url, bytes.NewBuffer(body))
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

func createJobCard(apiURL string, job JobCard) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job card: %w", err)
	}

	resp, err := authorizedRequest(http.MethodPost, apiURL+"/jobcards", data)
	if err != nil {
		return "", fmt.Errorf("failed to create job card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("job card creation failed with status: %d", resp.StatusCode)
	}

	var result struct {
		ID        string `json:"id"`
		JobNumber string `json:"job_number"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	log.WithFields(log.Fields{
		"id":         result.ID,
		"job_number": result.JobNumber,
		"customer":   job.CustomerName,
		"rego":       job.Rego,
	}).Info("Created job card")

	return result.ID, nil
}

func applyEdit(apiURL, id string, edit Edit) error {
	data, err := json.Marshal(edit)
	if err != nil {
		return fmt.Errorf("failed to marshal edit: %w", err)
	}
	resp, err := authorizedRequest(http.MethodPut, apiURL+"/jobcards/"+id, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("edit failed with status: %d", resp.StatusCode)
	}
	return nil
}

func archiveJobCard(apiURL, id string) error {
	resp, err := authorizedRequest(http.MethodPost, apiURL+"/jobcards/"+id+"/archive", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("archive failed with status: %d", resp.StatusCode)
	}
	return nil
}

func main() {
	authToken = os.Getenv("SEED_AUTH_TOKEN")

	count := 25
	if val := os.Getenv("SEED_COUNT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			count = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	log.WithFields(log.Fields{
		"count":   count,
		"api_url": apiURL,
	}).Info("Seeding job cards")

	created := 0
	for i := 0; i < count; i++ {
		id, err := createJobCard(apiURL, randomJobCard())
		if err != nil {
			log.WithError(err).Error("Failed to create job card")
			continue
		}
		created++

		// Roughly two thirds of the cards get assignments and billing
		// lines so the list views have something to filter and sort.
		if rand.Intn(3) != 0 {
			if err := applyEdit(apiURL, id, randomEdit()); err != nil {
				log.WithError(err).WithField("id", id).Error("Failed to edit job card")
			}
		}

		if rand.Intn(5) == 0 {
			if err := archiveJobCard(apiURL, id); err != nil {
				log.WithError(err).WithField("id", id).Error("Failed to archive job card")
			}
		}
	}

	log.WithField("created", created).Info("Seeding completed")
	if created == 0 {
		log.Error("No job cards created. Ensure SEED_AUTH_TOKEN is valid and API is reachable.")
		os.Exit(1)
	}
}
