package feedback

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

var reported = []core.TrainingExample{
	{Text: "cheap pills online", IsSpam: true},
	{Text: "lunch tomorrow?\nsee you", IsSpam: false},
	{Text: "tab\tseparated spam", IsSpam: true},
}

func exerciseRepository(t *testing.T, repo core.FeedbackRepository) {
	t.Helper()
	ctx := context.Background()

	examples, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(examples) != 0 {
		t.Fatalf("new repository has %d examples", len(examples))
	}

	for _, ex := range reported {
		if err := repo.Add(ctx, ex); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	examples, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(examples, reported) {
		t.Errorf("List() = %+v, want %+v", examples, reported)
	}
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	defer repo.Close()
	exerciseRepository(t, repo)

	// callers cannot modify the stored examples
	examples, _ := repo.List(context.Background())
	examples[0].Text = "changed"
	again, _ := repo.List(context.Background())
	if again[0].Text != reported[0].Text {
		t.Error("List() exposed internal state")
	}
}

func TestSQLiteRepository(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "feedback.db")
	repo, err := NewSQLRepository(DialectSQLite, dbPath, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSQLRepository() error = %v", err)
	}
	exerciseRepository(t, repo)
	repo.Close()

	// data survives reopening
	reopened, err := NewSQLRepository(DialectSQLite, dbPath, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	examples, err := reopened.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(examples) != len(reported) {
		t.Errorf("reopened repository has %d examples, want %d", len(examples), len(reported))
	}
}

func TestMySQLRepository(t *testing.T) {
	dsn := os.Getenv("SPAM_FILTER_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("SPAM_FILTER_TEST_MYSQL_DSN not set, skipping test")
	}

	repo, err := NewSQLRepository(DialectMySQL, dsn, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSQLRepository() error = %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	before, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Add(ctx, reported[0]); err != nil {
		t.Fatal(err)
	}
	after, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before)+1 || after[len(after)-1] != reported[0] {
		t.Errorf("last example = %+v, want %+v", after[len(after)-1], reported[0])
	}
}

func TestUnsupportedDialect(t *testing.T) {
	if _, err := NewSQLRepository(Dialect("postgres"), "", zaptest.NewLogger(t)); err == nil {
		t.Error("expected an error for an unsupported dialect")
	}
}

func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 1})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

func TestRedisRepository(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	ctx := context.Background()
	repo, err := NewRedisRepository(ctx, "redis://localhost:6379/1", "bayes:test", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewRedisRepository() error = %v", err)
	}
	defer repo.Close()

	if err := repo.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	defer repo.Clear(ctx)

	exerciseRepository(t, repo)
}
