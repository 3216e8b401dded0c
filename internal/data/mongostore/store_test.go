package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

func TestOpenRequiresDatabaseName(t *testing.T) {
	if _, err := Open(context.Background(), "mongodb://localhost:27017", " "); err == nil {
		t.Fatal("expected error for empty database name")
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	if err := s.UpdateTask(ctx, &data.Task{ID: "zzz", Owner: "a@x.com"}); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := s.DeleteTask(ctx, "zzz", ""); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestTaskDocToTask(t *testing.T) {
	id := primitive.NewObjectID()
	task := taskDoc{ID: id, Title: "t", Description: "d", Owner: "a@x.com"}.toTask()
	if task.ID != id.Hex() || task.Title != "t" || task.Description != "d" || task.Owner != "a@x.com" {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error for nil store")
	}
}

// TestStoreAgainstServer runs only when MONGO_TEST_URI points at a server.
func TestStoreAgainstServer(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	dbName := "tasks_test_" + primitive.NewObjectID().Hex()

	s, err := Open(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.client.Database(dbName).Drop(context.Background())
		_ = s.Close()
	})

	if err := s.InsertUser(ctx, &data.User{Email: "a@x.com", PasswordHash: "h", Role: data.RoleUser}); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if err := s.InsertUser(ctx, &data.User{Email: "a@x.com", PasswordHash: "h", Role: data.RoleUser}); !errors.Is(err, data.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	task := &data.Task{Title: "t", Description: "d", Owner: "a@x.com"}
	if err := s.InsertTask(ctx, task); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	if err := s.UpdateTask(ctx, &data.Task{ID: task.ID, Title: "x", Owner: "b@x.com"}); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
	updated := &data.Task{ID: task.ID, Title: "t2", Description: "d2", Owner: "a@x.com"}
	if err := s.UpdateTask(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "t2" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	mine, err := s.ListTasks(ctx, data.TaskFilter{Owner: "a@x.com", Limit: 100})
	if err != nil || len(mine) != 1 {
		t.Fatalf("list owned: %v %+v", err, mine)
	}
	if err := s.DeleteTask(ctx, task.ID, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
