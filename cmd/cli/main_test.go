package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestParseAssignment(t *testing.T) {
	id, value, err := parseAssignment("8d54f3a0-0000-0000-0000-000000000001=40.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "8d54f3a0-0000-0000-0000-000000000001" {
		t.Errorf("unexpected id %s", id)
	}
	if value != "40.00" {
		t.Errorf("unexpected value %q", value)
	}

	if _, _, err := parseAssignment("not-an-id=1"); err == nil {
		t.Error("expected error for malformed id")
	}
	if _, _, err := parseAssignment("8d54f3a0-0000-0000-0000-000000000001"); err == nil {
		t.Error("expected error for missing value")
	}
}

func TestSplitPreviewCmd(t *testing.T) {
	cmd := splitPreviewCmd()
	cmd.SetArgs([]string{
		"--total", "10.01",
		"--currency", "EUR",
		"--even", "8d54f3a0-0000-0000-0000-000000000001",
		"--even", "8d54f3a0-0000-0000-0000-000000000002",
	})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	var result struct {
		Mode        string `json:"mode"`
		Allocations []struct {
			PersonID string `json:"person_id"`
			Amount   string `json:"amount"`
		} `json:"allocations"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse output %q: %v", out, err)
	}

	if result.Mode != "EVEN" {
		t.Errorf("expected mode EVEN, got %s", result.Mode)
	}
	if len(result.Allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(result.Allocations))
	}

	// 10.0100 divides exactly, 5.0050 each.
	for _, a := range result.Allocations {
		if a.Amount != "5.0050" {
			t.Errorf("participant %s: expected 5.0050, got %s", a.PersonID, a.Amount)
		}
	}
}

func TestSplitPreviewCmdRemainder(t *testing.T) {
	cmd := splitPreviewCmd()
	cmd.SetArgs([]string{
		"--total", "0.0005",
		"--currency", "EUR",
		"--even", "8d54f3a0-0000-0000-0000-000000000001",
		"--even", "8d54f3a0-0000-0000-0000-000000000002",
	})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	var result struct {
		Allocations []struct {
			PersonID string `json:"person_id"`
			Amount   string `json:"amount"`
		} `json:"allocations"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse output %q: %v", out, err)
	}

	want := map[string]string{
		"8d54f3a0-0000-0000-0000-000000000001": "0.0003",
		"8d54f3a0-0000-0000-0000-000000000002": "0.0002",
	}
	for _, a := range result.Allocations {
		if a.Amount != want[a.PersonID] {
			t.Errorf("participant %s: expected %s, got %s", a.PersonID, want[a.PersonID], a.Amount)
		}
	}
}

func TestSettleCmd(t *testing.T) {
	cmd := settleCmd()
	cmd.SetArgs([]string{
		"--algorithm", "MIN_TRANSFER",
		"--net", "8d54f3a0-0000-0000-0000-000000000001=40.00",
		"--net", "8d54f3a0-0000-0000-0000-000000000002=-40.00",
	})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	var result struct {
		Algorithm string `json:"algorithm"`
		Transfers []struct {
			FromPersonID string `json:"from_person_id"`
			ToPersonID   string `json:"to_person_id"`
			Amount       string `json:"amount"`
		} `json:"transfers"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse output %q: %v", out, err)
	}

	if result.Algorithm != "MIN_TRANSFER" {
		t.Errorf("expected algorithm MIN_TRANSFER, got %s", result.Algorithm)
	}
	if len(result.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(result.Transfers))
	}
	transfer := result.Transfers[0]
	if transfer.FromPersonID != "8d54f3a0-0000-0000-0000-000000000002" {
		t.Errorf("unexpected debtor %s", transfer.FromPersonID)
	}
	if transfer.ToPersonID != "8d54f3a0-0000-0000-0000-000000000001" {
		t.Errorf("unexpected creditor %s", transfer.ToPersonID)
	}
	if transfer.Amount != "40.0000" {
		t.Errorf("expected 40.0000, got %s", transfer.Amount)
	}
}

func TestSettleCmdUnknownAlgorithm(t *testing.T) {
	cmd := settleCmd()
	cmd.SetArgs([]string{"--algorithm", "MAGIC"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}
