package employee

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestDirectory_LoadCachesUntilRefresh(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	repo.employees["emp-1"] = &Employee{ID: "emp-1", FullName: "Белов"}
	dir := NewDirectory(repo)
	ctx := context.Background()

	if _, err := dir.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := dir.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected a single repository read, got %d", repo.listCalls)
	}

	repo.employees["emp-2"] = &Employee{ID: "emp-2", FullName: "Агеев"}
	snap, err := dir.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected refresh to hit the repository, got %d calls", repo.listCalls)
	}

	names := snap.Names()
	if len(names) != 2 || names[0] != "Агеев" || names[1] != "Белов" {
		t.Fatalf("unexpected names: %v", names)
	}

	names[0] = "changed"
	if snap.Names()[0] != "Агеев" {
		t.Fatalf("snapshot names must not be mutable through the returned slice")
	}
}

func TestDirectory_LookupReturnsCopy(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	repo.employees["emp-1"] = &Employee{ID: "emp-1", FullName: "Белов", Warehouse: "Юг"}
	dir := NewDirectory(repo)

	snap, err := dir.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	e, ok := snap.Lookup("Белов")
	if !ok {
		t.Fatalf("expected lookup hit")
	}
	e.Warehouse = "Север"

	again, _ := snap.Lookup("Белов")
	if again.Warehouse != "Юг" {
		t.Fatalf("snapshot entry was mutated: %+v", again)
	}

	if _, ok := snap.Lookup("Неизвестный"); ok {
		t.Fatalf("expected lookup miss")
	}
}

func TestDirectory_RefreshErrorKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	repo.employees["emp-1"] = &Employee{ID: "emp-1", FullName: "Белов"}
	dir := NewDirectory(repo)
	ctx := context.Background()

	if _, err := dir.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	repo.listErr = errors.New("db down")
	if _, err := dir.Refresh(ctx); err == nil {
		t.Fatalf("expected refresh error")
	}

	snap, err := dir.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, ok := snap.Lookup("Белов"); !ok {
		t.Fatalf("expected previous snapshot to remain cached")
	}
}

// blockingListRepo は最初の List だけ release が閉じられるまで待たせます。
type blockingListRepo struct {
	Repository
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (r *blockingListRepo) List(ctx context.Context) ([]*Employee, error) {
	r.once.Do(func() {
		close(r.started)
		<-r.release
	})
	return r.Repository.List(ctx)
}

func TestDirectory_RefreshDoesNotCacheAcrossInvalidate(t *testing.T) {
	t.Parallel()

	inner := newFakeEmployeeRepo()
	inner.employees["emp-1"] = &Employee{ID: "emp-1", FullName: "Белов"}
	repo := &blockingListRepo{Repository: inner, started: make(chan struct{}), release: make(chan struct{})}
	dir := NewDirectory(repo)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := dir.Refresh(ctx)
		done <- err
	}()

	<-repo.started
	dir.Invalidate()
	close(repo.release)
	if err := <-done; err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	calls := inner.listCalls
	if _, err := dir.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if inner.listCalls != calls+1 {
		t.Fatalf("expected Load to reread after invalidation, got %d calls (was %d)", inner.listCalls, calls)
	}
}
