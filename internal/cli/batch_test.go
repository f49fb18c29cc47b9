package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/nepdate/internal/apitest"
	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// failJune answers like [apitest.Echo] except that June dates are rejected.
func failJune(r apitest.Request) apitest.Response {
	if r.Date.Month == 6 {
		return apitest.Response{Error: "Invalid date"}
	}
	return apitest.Echo(57)(r)
}

func TestBatchCommandJSON(t *testing.T) {
	srv := apitest.New(failJune)
	defer srv.Close()

	out, _, err := runCLI(t, "batch", "2024-01-01", "2024-06-15", "2024-12-31",
		"--base-url", srv.BaseURL(), "--retries", "1", "--delay", "0s", "--json")
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}

	var got batchJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Converted != 2 || got.Failed != 1 || len(got.Results) != 3 {
		t.Fatalf("batch = %+v", got)
	}
	if got.Results[1].Success || !strings.Contains(got.Results[1].Error, "Invalid date") {
		t.Errorf("result[1] = %+v, want API failure", got.Results[1])
	}
	if want := (nepdate.Date{Year: 2081, Month: 12, Day: 31}); *got.Results[2].Output != want {
		t.Errorf("result[2] = %v, want %v", *got.Results[2].Output, want)
	}
}

func TestBatchCommandTable(t *testing.T) {
	srv := apitest.New(failJune)
	defer srv.Close()

	out, _, err := runCLI(t, "batch", "2024-01-01", "2024-06-15",
		"--base-url", srv.BaseURL(), "--retries", "1", "--delay", "0s")
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}
	for _, want := range []string{"2024-01-01", "2081/01/01", "2024-06-15", "Invalid date", "1 of 2 conversions failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBatchCommandUsesCache(t *testing.T) {
	srv := apitest.New(apitest.Echo(57))
	defer srv.Close()

	args := []string{"batch", "2024-01-01", "2024-01-01", "--base-url", srv.BaseURL(), "--delay", "0s", "--json"}
	if _, _, err := runCLI(t, args...); err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if srv.Calls() != 1 {
		t.Errorf("cached batch calls = %d, want 1", srv.Calls())
	}

	if _, _, err := runCLI(t, append(args, "--no-cache")...); err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if srv.Calls() != 3 {
		t.Errorf("calls after --no-cache = %d, want 3", srv.Calls())
	}
}

func TestBatchCommandFile(t *testing.T) {
	srv := apitest.New(apitest.Echo(-57))
	defer srv.Close()

	path := writeFile(t, "dates.toml", `
direction = "bs-to-ad"

[[dates]]
year = 2081
month = 1
day = 1

[[dates]]
year = 2081
month = 6
day = 29
`)

	out, _, err := runCLI(t, "batch", "--file", path, "--base-url", srv.BaseURL(), "--delay", "0s", "--json")
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}

	var got batchJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Direction != nepdate.BSToAD || got.Converted != 2 {
		t.Errorf("batch = %+v", got)
	}
	for _, r := range srv.Requests() {
		if r.Direction != "bs-to-ad" {
			t.Errorf("request direction = %q", r.Direction)
		}
	}
}

func TestBatchCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no dates", []string{"batch"}},
		{"bad date", []string{"batch", "2024/13"}},
		{"bad direction", []string{"batch", "--direction", "sideways", "2024-01-01"}},
		{"negative delay", []string{"batch", "--delay", "-1s", "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("batch should fail")
			}
			if errs.GetCode(err) == "" {
				t.Errorf("error %v should carry a code", err)
			}
		})
	}
}

func TestRenderOutcomes(t *testing.T) {
	out := nepdate.Date{Year: 2081, Month: 6, Day: 29}
	table := renderOutcomes(nepdate.ADToBS, []nepdate.Outcome{
		{Input: nepdate.Date{Year: 2024, Month: 10, Day: 15}, Output: &out, Success: true},
		{Input: nepdate.Date{Year: 2024, Month: 6, Day: 15}, Error: "API_ERROR: Invalid date"},
	})

	for _, want := range []string{"AD", "BS", "2024-10-15", "2081/06/29", "API_ERROR: Invalid date", iconSuccess, iconError} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
}
