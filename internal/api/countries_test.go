package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/persistorai/borderhop/internal/api"
	"github.com/persistorai/borderhop/internal/models"
)

func TestListCountries_OK(t *testing.T) {
	t.Parallel()

	repo := &mockCountryRepo{countries: []models.Country{
		{Code: "RUS", Name: "Russia", Area: 17098242},
		{Code: "CAN", Name: "Canada", Area: 9984670},
	}}

	r := newTestRouter()
	h := api.NewCountryHandler(repo, testLogger())
	r.GET("/countries", h.List)

	w := doRequest(r, http.MethodGet, "/countries")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Countries []models.Country `json:"countries"`
		Count     int              `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body.Count != 2 || body.Countries[0].Code != "RUS" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestListCountries_Unavailable(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewCountryHandler(&mockCountryRepo{loadErr: errors.New("down")}, testLogger())
	r.GET("/countries", h.List)

	w := doRequest(r, http.MethodGet, "/countries")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
