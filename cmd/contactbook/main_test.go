package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/deppfellow/contactbook/internal/config"
)

func runCmd(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	return cfg
}

func TestListEmpty(t *testing.T) {
	stdout, _, err := runCmd(t, memoryConfig(), "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var list struct {
		Count    int   `json:"count"`
		Contacts []any `json:"contacts"`
	}
	if err := json.Unmarshal([]byte(stdout), &list); err != nil {
		t.Fatalf("stdout %q is not JSON: %v", stdout, err)
	}
	if list.Count != 0 || list.Contacts == nil || len(list.Contacts) != 0 {
		t.Fatalf("list = %+v", list)
	}
}

func TestExportNothingStored(t *testing.T) {
	stdout, _, err := runCmd(t, memoryConfig(), "export")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "No contacts file found") {
		t.Fatalf("error = %v", err)
	}
	if stdout != "" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestListMissingConfiguration(t *testing.T) {
	cfg := config.Default()
	cfg.Remote.Token = ""

	_, _, err := runCmd(t, cfg, "list")
	if err == nil || !strings.Contains(err.Error(), "REMOTE_TOKEN") {
		t.Fatalf("error = %v", err)
	}
}

func TestRejectsArguments(t *testing.T) {
	if _, _, err := runCmd(t, memoryConfig(), "list", "extra"); err == nil {
		t.Fatal("expected an error")
	}
}
