//go:build staging

package staging

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestListSweeps(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/admin/sweeps", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var list struct {
		Sweeps []string `json:"sweeps"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("Failed to decode sweep list: %v", err)
	}
	names := list.Sweeps
	for _, want := range []string{"spawn", "income", "despawn"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Sweep %q not registered, got %v", want, names)
		}
	}
}

func TestTriggerDespawnSweep(t *testing.T) {
	resp, body := makeRequest(t, "POST", "/admin/sweeps/despawn", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var report struct {
		Sweep string `json:"sweep"`
	}
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.Sweep != "despawn" {
		t.Errorf("Expected despawn report, got %q", report.Sweep)
	}
}

func TestTriggerUnknownSweep(t *testing.T) {
	resp, _ := makeRequest(t, "POST", "/admin/sweeps/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestAdminRequiresAPIKey(t *testing.T) {
	req, err := http.NewRequest("GET", stagingURL+"/admin/sweeps", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}
