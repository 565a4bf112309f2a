package docs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func unlockQuietly(t *testing.T, lock *FileLock) {
	t.Helper()
	if err := lock.Unlock(); err != nil {
		t.Logf("Warning: Unlock failed: %v", err)
	}
}

func TestFileLock_TryLock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))
	defer unlockQuietly(t, lock)

	acquired, err := lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Error("Expected to acquire lock")
	}
	if !lock.IsLocked() {
		t.Error("Expected IsLocked to return true")
	}
}

func TestFileLock_TryLock_AlreadyHeld(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock1 := NewFileLock(lockPath)
	if acquired, err := lock1.TryLock(); err != nil || !acquired {
		t.Fatalf("First TryLock failed: acquired=%v err=%v", acquired, err)
	}
	defer unlockQuietly(t, lock1)

	// Contention is not an error: the caller gets acquired=false.
	lock2 := NewFileLock(lockPath)
	acquired, err := lock2.TryLock()
	if err != nil {
		t.Fatalf("Second TryLock returned error: %v", err)
	}
	if acquired {
		t.Error("Expected second acquisition to fail")
		unlockQuietly(t, lock2)
	}
	if lock2.IsLocked() {
		t.Error("Expected second lock's IsLocked to return false")
	}
}

func TestFileLock_Lock_Uncontended(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))
	defer unlockQuietly(t, lock)

	if err := lock.Lock(context.Background(), time.Second); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if !lock.IsLocked() {
		t.Error("Expected IsLocked to return true")
	}
}

func TestFileLock_Lock_Timeout(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock1 := NewFileLock(lockPath)
	if acquired, err := lock1.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to acquire first lock: %v", err)
	}
	defer unlockQuietly(t, lock1)

	lock2 := NewFileLock(lockPath)
	start := time.Now()
	err := lock2.Lock(context.Background(), 100*time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrLockTimeout) {
		t.Errorf("Expected ErrLockTimeout, got: %v", err)
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("Expected at least 100ms to elapse, got %v", elapsed)
	}
	if lock2.IsLocked() {
		t.Error("Timed-out lock should not report held")
	}
}

func TestFileLock_Lock_AcquiresAfterRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock1 := NewFileLock(lockPath)
	lock2 := NewFileLock(lockPath)

	if acquired, err := lock1.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to acquire first lock: %v", err)
	}

	var wg sync.WaitGroup
	var lock2Err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		lock2Err = lock2.Lock(context.Background(), 2*time.Second)
	}()

	time.Sleep(100 * time.Millisecond)
	if err := lock1.Unlock(); err != nil {
		t.Fatalf("Failed to unlock first lock: %v", err)
	}
	wg.Wait()

	if lock2Err != nil {
		t.Errorf("Expected second lock to succeed after release, got: %v", lock2Err)
	}
	if !lock2.IsLocked() {
		t.Error("Expected second lock to be held")
	}
	unlockQuietly(t, lock2)
}

func TestFileLock_Lock_ContextCanceled(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock1 := NewFileLock(lockPath)
	if acquired, err := lock1.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to acquire first lock: %v", err)
	}
	defer unlockQuietly(t, lock1)

	ctx, cancel := context.WithCancel(context.Background())
	lock2 := NewFileLock(lockPath)

	var wg sync.WaitGroup
	var lock2Err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		lock2Err = lock2.Lock(ctx, 10*time.Second)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	wg.Wait()

	if !errors.Is(lock2Err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", lock2Err)
	}
}

func TestFileLock_Unlock_ReleasesLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock1 := NewFileLock(lockPath)
	if acquired, err := lock1.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if err := lock1.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if lock1.IsLocked() {
		t.Error("Expected IsLocked to return false after unlock")
	}

	lock2 := NewFileLock(lockPath)
	acquired, err := lock2.TryLock()
	if err != nil || !acquired {
		t.Errorf("Expected to acquire lock after release: acquired=%v err=%v", acquired, err)
	}
	unlockQuietly(t, lock2)
}

func TestFileLock_Unlock_NoOp(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))

	// Never locked, then double-unlocked: both are harmless.
	if err := lock.Unlock(); err != nil {
		t.Errorf("Unlock without lock should be a no-op, got: %v", err)
	}

	if acquired, err := lock.TryLock(); err != nil || !acquired {
		t.Fatalf("TryLock failed: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Errorf("First unlock failed: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Errorf("Second unlock should be a no-op, got: %v", err)
	}
}

func TestFileLock_CreatesParentDirectories(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nested", "dirs", "test.lock")

	lock := NewFileLock(lockPath)
	defer unlockQuietly(t, lock)

	if acquired, err := lock.TryLock(); err != nil || !acquired {
		t.Fatalf("TryLock failed: acquired=%v err=%v", acquired, err)
	}

	info, err := os.Stat(filepath.Dir(lockPath))
	if err != nil {
		t.Fatalf("Parent directory should exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected parent path to be a directory")
	}
}

func TestFileLock_Path(t *testing.T) {
	lock := NewFileLock("/some/path/to/lock.file")
	if lock.Path() != "/some/path/to/lock.file" {
		t.Errorf("Path() = %q", lock.Path())
	}
}

func TestFileLock_ConcurrentGoroutines(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "concurrent.lock")

	const numGoroutines = 10
	const opsPerGoroutine = 5

	var wg sync.WaitGroup
	successCount := make(chan int, numGoroutines*opsPerGoroutine)

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range opsPerGoroutine {
				lock := NewFileLock(lockPath)
				if err := lock.Lock(context.Background(), 5*time.Second); err != nil {
					t.Errorf("Lock failed: %v", err)
					return
				}

				time.Sleep(time.Millisecond)
				successCount <- 1

				if err := lock.Unlock(); err != nil {
					t.Errorf("Unlock failed: %v", err)
				}
			}
		}()
	}

	wg.Wait()
	close(successCount)

	total := 0
	for range successCount {
		total++
	}
	if want := numGoroutines * opsPerGoroutine; total != want {
		t.Errorf("Expected %d successful acquisitions, got %d", want, total)
	}
}

func TestFileLock_CrossProcess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping cross-process test in short mode")
	}
	if _, err := exec.LookPath("flock"); err != nil {
		t.Skip("Skipping cross-process test: flock command not available")
	}

	lockPath := filepath.Join(t.TempDir(), "crossprocess.lock")

	lock := NewFileLock(lockPath)
	if acquired, err := lock.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to acquire lock in parent: %v", err)
	}
	defer unlockQuietly(t, lock)

	cmd := exec.Command("sh", "-c", `
		flock -n "$1" -c "echo acquired" 2>/dev/null || echo "blocked"
	`, "_", lockPath)
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("Child process failed: %v", err)
	}
	if string(output) != "blocked\n" {
		t.Errorf("Expected child to be blocked, got: %q", output)
	}
}

func TestFileLock_CrossProcess_AfterRelease(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping cross-process test in short mode")
	}
	if _, err := exec.LookPath("flock"); err != nil {
		t.Skip("Skipping cross-process test: flock command not available")
	}

	lockPath := filepath.Join(t.TempDir(), "release.lock")

	lock := NewFileLock(lockPath)
	if acquired, err := lock.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}

	cmd := exec.Command("sh", "-c", `
		flock -n "$1" -c "echo acquired" 2>/dev/null || echo "blocked"
	`, "_", lockPath)
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("Child process failed: %v", err)
	}
	if string(output) != "acquired\n" {
		t.Errorf("Expected child to acquire released lock, got: %q", output)
	}
}
