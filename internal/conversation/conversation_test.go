package conversation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAppendAndTurnsKeepOrder(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewStore(0)
	store.Clock = func() time.Time { return fixed }
	id := NewSessionID()

	if err := store.Append(id, Turn{Role: RoleUser, Content: "Show all investment projects"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(id, Turn{Role: RoleAssistant, Content: "2 rows", SQL: "SELECT * FROM General_Project_Detail"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	turns := store.Turns(id)
	if len(turns) != 2 || turns[0].Role != RoleUser || turns[1].SQL == "" {
		t.Fatalf("turns = %+v", turns)
	}
	if !turns[0].Timestamp.Equal(fixed) {
		t.Fatalf("Timestamp = %s", turns[0].Timestamp)
	}

	turns[0].Content = "mutated"
	if store.Turns(id)[0].Content != "Show all investment projects" {
		t.Fatal("Turns() exposed internal state")
	}
}

func TestClearAndUnknownSession(t *testing.T) {
	store := NewStore(0)
	_ = store.Append("a", Turn{Role: RoleUser, Content: "q"})
	store.Clear("a")
	if got := store.Turns("a"); len(got) != 0 {
		t.Fatalf("Turns() after Clear = %+v", got)
	}
	if got := store.Turns("missing"); got == nil || len(got) != 0 {
		t.Fatalf("Turns(missing) = %#v", got)
	}
}

func TestAppendValidates(t *testing.T) {
	store := NewStore(0)
	if err := store.Append("", Turn{Role: RoleUser}); err != ErrSessionRequired {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append("s", Turn{Role: "system"}); err != ErrInvalidRole {
		t.Fatalf("Append() error = %v", err)
	}
}

func TestMaxTurnsDropsOldest(t *testing.T) {
	store := NewStore(3)
	for i := 0; i < 5; i++ {
		_ = store.Append("s", Turn{Role: RoleUser, Content: fmt.Sprint(i)})
	}
	turns := store.Turns("s")
	if len(turns) != 3 || turns[0].Content != "2" || turns[2].Content != "4" {
		t.Fatalf("turns = %+v", turns)
	}
}

func TestConcurrentAppend(t *testing.T) {
	store := NewStore(0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append("s", Turn{Role: RoleUser, Content: "q"})
		}()
	}
	wg.Wait()
	if got := len(store.Turns("s")); got != 20 {
		t.Fatalf("turns = %d", got)
	}
}

func TestNewSessionIDIsUUID(t *testing.T) {
	if _, err := uuid.Parse(NewSessionID()); err != nil {
		t.Fatalf("NewSessionID() not a uuid: %v", err)
	}
}
