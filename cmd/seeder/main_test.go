package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

func TestRandomRego(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)
	for i := 0; i < 50; i++ {
		rego := randomRego()
		if !pattern.MatchString(rego) {
			t.Errorf("Rego has unexpected format: %s", rego)
		}
	}
}

func TestRandomJobCard(t *testing.T) {
	for i := 0; i < 100; i++ {
		job := randomJobCard()

		if job.CustomerName == "" {
			t.Error("Customer name should not be empty")
		}
		if job.VehicleMake == "" || job.VehicleModel == "" {
			t.Errorf("Vehicle make/model should not be empty: %s %s", job.VehicleMake, job.VehicleModel)
		}
		if len(job.VehicleType) == 0 {
			t.Error("Vehicle type should not be empty")
		}
		if job.VehicleManufactureYear < 2010 || job.VehicleManufactureYear > 2024 {
			t.Errorf("Manufacture year out of range: %d", job.VehicleManufactureYear)
		}
		if job.VehicleManufactureMonth < 1 || job.VehicleManufactureMonth > 12 {
			t.Errorf("Manufacture month out of range: %d", job.VehicleManufactureMonth)
		}
		if job.ServiceLevel != "" && job.ServiceLevel != "A" && job.ServiceLevel != "B" {
			t.Errorf("Invalid service level: %s", job.ServiceLevel)
		}
		if job.VehicleType[0] == "Other" && job.ServiceLevel != "" {
			t.Error("Other vehicles should not carry a service level")
		}
	}
}

func TestRandomEdit(t *testing.T) {
	for i := 0; i < 100; i++ {
		edit := randomEdit()

		if edit.AssignedWorker == "" || edit.AssignedParts == "" {
			t.Error("Edit should always carry assignments")
		}
		if edit.TotalLabor <= 0 {
			t.Errorf("Total labor out of range: %f", edit.TotalLabor)
		}
		for _, line := range edit.PartsAndConsumables {
			if line.Qty < 1 || line.UnitPrice <= 0 {
				t.Errorf("Line item out of range: %+v", line)
			}
		}
		if edit.PaymentStatus != "" && edit.PaymentStatus != "paid" {
			t.Errorf("Invalid payment status: %s", edit.PaymentStatus)
		}
	}
}

func TestCreateJobCard_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		var job JobCard
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			t.Errorf("Failed to decode job card: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"id":         "507f1f77bcf86cd799439011",
			"job_number": "JC-24-01-01",
		})
	}))
	defer server.Close()

	id, err := createJobCard(server.URL, randomJobCard())
	if err != nil {
		t.Fatalf("createJobCard failed: %v", err)
	}
	if id != "507f1f77bcf86cd799439011" {
		t.Errorf("Unexpected ID: %s", id)
	}
}

func TestCreateJobCard_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := createJobCard(server.URL, randomJobCard()); err == nil {
		t.Error("Expected error on server failure")
	}
}

func TestApplyEdit_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected PUT request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := applyEdit(server.URL, "some-id", randomEdit()); err != nil {
		t.Errorf("applyEdit failed: %v", err)
	}
}

func TestArchiveJobCard_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if err := archiveJobCard(server.URL, "missing-id"); err == nil {
		t.Error("Expected error on missing job card")
	}
}
