package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/ports"
	"github.com/mikey/bayes-spam-filter/internal/scheduler"
)

func writeDataset(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"spam/1.txt": "Subject: win money now\nwin money now",
		"spam/2.txt": "Subject: free prize\nclaim your free prize",
		"ham/1.txt":  "Subject: hello friend\nhello friend",
		"ham/2.txt":  "Subject: meeting\nmeet me later",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildCLIContainer(t *testing.T) {
	flags := &CLIFlags{
		ConfigFile:  writeConfig(t, "spam:\n  threshold: 0.7\n"),
		DatasetPath: writeDataset(t),
		StorageType: "memory",
		SmoothingK:  2,
	}

	container, err := BuildCLIContainer(flags)
	if err != nil {
		t.Fatalf("BuildCLIContainer() error = %v", err)
	}

	err = container.Invoke(func(cfg *config.Config, svc *core.ClassifierService, filter ports.MessageFilter) {
		if got := cfg.GetServer().FilterType; got != "cli" {
			t.Errorf("filter type = %q, want cli", got)
		}
		if got := cfg.GetSpam().Threshold; got != 0.7 {
			t.Errorf("threshold = %v, want 0.7 from the config file", got)
		}
		if got := cfg.GetClassifier().SmoothingK; got != 2 {
			t.Errorf("smoothing = %v, want 2 from the flags", got)
		}

		svc.Initialize(context.Background())
		if !svc.IsTrained() {
			t.Fatal("service did not auto-train from the dataset")
		}
		if p := svc.Predict("win free money"); p <= 0.5 {
			t.Errorf("Predict() = %v, want > 0.5", p)
		}
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
}

func TestBuildContainer(t *testing.T) {
	configFile := writeConfig(t, `
storage:
  type: memory
feedback:
  type: memory
logging:
  level: error
training:
  schedule: "@every 1h"
server:
  filter_type: smtp
  listen_address: 127.0.0.1:0
`)

	container, err := BuildContainer(configFile)
	if err != nil {
		t.Fatalf("BuildContainer() error = %v", err)
	}

	err = container.Invoke(func(store core.ModelStore, feedback core.FeedbackRepository, filter ports.MessageFilter, sched *scheduler.Scheduler) {
		if store == nil || feedback == nil || filter == nil || sched == nil {
			t.Error("container resolved a nil component")
		}
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
}

func TestBuildContainerRejectsUnknownStorage(t *testing.T) {
	container, err := BuildContainer(writeConfig(t, "storage:\n  type: tape\n"))
	if err != nil {
		t.Fatal(err)
	}

	if err := container.Invoke(func(core.ModelStore) {}); err == nil {
		t.Error("expected an error for an unknown storage type")
	}
}
