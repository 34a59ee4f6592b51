package logbook

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/faizmokh/belajar/internal/kv"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%04d", n)
	}
}

func newTestStore(t *testing.T, slot kv.Slot) *Store {
	t.Helper()
	store := NewStore(slot, WithIDGenerator(sequentialIDs()))
	store.Load(context.Background())
	return store
}

// failingSlot wraps a Slot and fails every Put once armed.
type failingSlot struct {
	kv.Slot
	failPuts bool
}

var errDiskFull = errors.New("disk full")

func (f *failingSlot) Put(ctx context.Context, key string, value []byte) error {
	if f.failPuts {
		return errDiskFull
	}
	return f.Slot.Put(ctx, key, value)
}

func TestLoadMissingBlobYieldsEmptyCollection(t *testing.T) {
	store := newTestStore(t, kv.NewMemory())
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
}

func TestLoadMalformedBlobYieldsEmptyCollection(t *testing.T) {
	cases := map[string]string{
		"not json":      "{{{",
		"object":        `{"date":"2024-01-01"}`,
		"wrong types":   `[{"date":"2024-01-01","subject":"Math","duration":"thirty"}]`,
		"literal null":  `null`,
		"empty payload": ``,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			slot := kv.NewMemory()
			if err := slot.Put(context.Background(), SessionsKey, []byte(payload)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			store := newTestStore(t, slot)
			if store.Len() != 0 {
				t.Fatalf("Len() = %d, want 0", store.Len())
			}
		})
	}
}

func TestLoadAssignsMissingIDsAndPersistsThem(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemory()
	legacy := `[{"date":"2024-01-01","subject":"Math","duration":30,"note":""},{"id":"keep-me","date":"2024-01-02","subject":"Art","duration":10,"note":"x"}]`
	if err := slot.Put(ctx, SessionsKey, []byte(legacy)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	store := newTestStore(t, slot)
	sessions := store.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "id-0001" {
		t.Fatalf("sessions[0].ID = %q, want id-0001", sessions[0].ID)
	}
	if sessions[1].ID != "keep-me" {
		t.Fatalf("sessions[1].ID = %q, want keep-me", sessions[1].ID)
	}

	reloaded := NewStore(slot)
	reloaded.Load(ctx)
	if got := reloaded.Sessions()[0].ID; got != "id-0001" {
		t.Fatalf("reloaded ID = %q, want id-0001", got)
	}
}

func TestAddPersistsAndAssignsID(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemory()
	store := newTestStore(t, slot)

	added, err := store.Add(ctx, Session{Date: "2024-01-01", Subject: "  Math ", Duration: 30, Note: " ch. 3 "})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID != "id-0001" {
		t.Fatalf("ID = %q, want id-0001", added.ID)
	}
	if added.Subject != "Math" || added.Note != "ch. 3" {
		t.Fatalf("added = %#v, want trimmed fields", added)
	}

	reloaded := NewStore(slot)
	reloaded.Load(ctx)
	if reloaded.Len() != 1 {
		t.Fatalf("reloaded Len() = %d, want 1", reloaded.Len())
	}
	if got := reloaded.Sessions()[0]; got != added {
		t.Fatalf("reloaded = %#v, want %#v", got, added)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		session Session
		want    error
	}{
		{"empty subject", Session{Date: "2024-01-01", Subject: "   ", Duration: 10}, ErrEmptySubject},
		{"zero duration", Session{Date: "2024-01-01", Subject: "Math", Duration: 0}, ErrInvalidDuration},
		{"negative duration", Session{Date: "2024-01-01", Subject: "Math", Duration: -5}, ErrInvalidDuration},
		{"missing date", Session{Subject: "Math", Duration: 10}, ErrInvalidDate},
		{"bad date", Session{Date: "01/02/2024", Subject: "Math", Duration: 10}, ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t, kv.NewMemory())
			_, err := store.Add(context.Background(), tc.session)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Add() error = %v, want %v", err, tc.want)
			}
			if store.Len() != 0 {
				t.Fatalf("Len() = %d, want 0", store.Len())
			}
		})
	}
}

func TestReplaceAddressesByIDAfterReordering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())

	older, _ := store.Add(ctx, Session{Date: "2024-01-01", Subject: "Math", Duration: 30})
	newer, _ := store.Add(ctx, Session{Date: "2024-02-01", Subject: "Art", Duration: 10})

	// Recent() reorders; the IDs must still point at the same records.
	recent := store.Recent()
	if recent[0].ID != newer.ID {
		t.Fatalf("Recent()[0] = %q, want %q", recent[0].ID, newer.ID)
	}

	updated, err := store.Replace(ctx, older.ID, Session{Date: "2024-01-03", Subject: "Physics", Duration: 45})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if updated.ID != older.ID {
		t.Fatalf("updated.ID = %q, want %q", updated.ID, older.ID)
	}

	got, err := store.Get(older.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Subject != "Physics" || got.Duration != 45 {
		t.Fatalf("got = %#v, want Physics/45", got)
	}
	if other, _ := store.Get(newer.ID); other.Subject != "Art" {
		t.Fatalf("untouched session changed: %#v", other)
	}
}

func TestReplaceUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())
	original, _ := store.Add(ctx, Session{Date: "2024-01-01", Subject: "Math", Duration: 30})

	_, err := store.Replace(ctx, "missing", Session{Date: "2024-01-01", Subject: "Art", Duration: 5})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Replace() error = %v, want ErrSessionNotFound", err)
	}
	if got := store.Sessions(); len(got) != 1 || got[0] != original {
		t.Fatalf("collection changed: %#v", got)
	}
}

func TestReplaceKeepsUncheckedImportedDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())
	added, err := store.Append(ctx, []Session{{Date: "01/02/2024", Subject: "Math", Duration: 30}})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	imported := added[0]

	edited := imported
	edited.Note = "x"
	saved, err := store.Replace(ctx, imported.ID, edited)
	if err != nil {
		t.Fatalf("Replace() with unchanged date error = %v", err)
	}
	if saved.Date != "01/02/2024" || saved.Note != "x" {
		t.Fatalf("saved = %#v", saved)
	}

	edited.Date = "02/03/2024"
	if _, err := store.Replace(ctx, imported.ID, edited); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("Replace() with a new bad date error = %v, want ErrInvalidDate", err)
	}
	if got, _ := store.Get(imported.ID); got != saved {
		t.Fatalf("session changed after rejected edit: %#v", got)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())
	first, _ := store.Add(ctx, Session{Date: "2024-01-01", Subject: "Math", Duration: 30})
	second, _ := store.Add(ctx, Session{Date: "2024-01-02", Subject: "Art", Duration: 10})

	removed, err := store.Remove(ctx, first.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed != first {
		t.Fatalf("removed = %#v, want %#v", removed, first)
	}
	if got := store.Sessions(); len(got) != 1 || got[0] != second {
		t.Fatalf("remaining = %#v, want only %#v", got, second)
	}

	if _, err := store.Remove(ctx, first.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second Remove() error = %v, want ErrSessionNotFound", err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemory()
	store := newTestStore(t, slot)

	if _, err := store.Clear(ctx); !errors.Is(err, ErrNothingToClear) {
		t.Fatalf("Clear() on empty error = %v, want ErrNothingToClear", err)
	}
	if data, _ := slot.Get(ctx, SessionsKey); data != nil {
		t.Fatalf("Clear() on empty wrote %q", data)
	}

	store.Add(ctx, Session{Date: "2024-01-01", Subject: "Math", Duration: 30})
	store.Add(ctx, Session{Date: "2024-01-02", Subject: "Art", Duration: 10})

	count, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if count != 2 {
		t.Fatalf("Clear() = %d, want 2", count)
	}
	data, _ := slot.Get(ctx, SessionsKey)
	if string(data) != "[]" {
		t.Fatalf("persisted = %q, want []", data)
	}
	if _, err := store.Clear(ctx); !errors.Is(err, ErrNothingToClear) {
		t.Fatalf("Clear() again error = %v, want ErrNothingToClear", err)
	}
}

func TestAppendKeepsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())
	store.Add(ctx, Session{Date: "2024-01-01", Subject: "Math", Duration: 30})

	added, err := store.Append(ctx, []Session{
		{Date: "2024-01-01", Subject: "Math", Duration: 30},
		{Date: "2024-01-01", Subject: "Math", Duration: 30},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("added = %d, want 2", len(added))
	}
	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", store.Len())
	}
	if added[0].ID == added[1].ID {
		t.Fatalf("duplicate records share ID %q", added[0].ID)
	}
}

func TestFailedPersistLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	slot := &failingSlot{Slot: kv.NewMemory()}
	store := newTestStore(t, slot)
	kept, err := store.Add(ctx, Session{Date: "2024-01-01", Subject: "Math", Duration: 30})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	slot.failPuts = true

	if _, err := store.Add(ctx, Session{Date: "2024-01-02", Subject: "Art", Duration: 10}); !errors.Is(err, errDiskFull) {
		t.Fatalf("Add() error = %v, want errDiskFull", err)
	}
	if _, err := store.Replace(ctx, kept.ID, Session{Date: "2024-01-02", Subject: "Art", Duration: 10}); !errors.Is(err, errDiskFull) {
		t.Fatalf("Replace() error = %v, want errDiskFull", err)
	}
	if _, err := store.Remove(ctx, kept.ID); !errors.Is(err, errDiskFull) {
		t.Fatalf("Remove() error = %v, want errDiskFull", err)
	}
	if _, err := store.Clear(ctx); !errors.Is(err, errDiskFull) {
		t.Fatalf("Clear() error = %v, want errDiskFull", err)
	}
	if _, err := store.Append(ctx, []Session{{Date: "2024-01-03", Subject: "Bio", Duration: 5}}); !errors.Is(err, errDiskFull) {
		t.Fatalf("Append() error = %v, want errDiskFull", err)
	}

	if got := store.Sessions(); len(got) != 1 || got[0] != kept {
		t.Fatalf("collection = %#v, want only %#v", got, kept)
	}
}

func TestResolveByPrefix(t *testing.T) {
	ids := []string{"abc12345-0000", "abd99999-0000"}
	i := 0
	store := NewStore(kv.NewMemory(), WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))
	store.Load(context.Background())
	store.Add(context.Background(), Session{Date: "2024-01-01", Subject: "Math", Duration: 30})
	store.Add(context.Background(), Session{Date: "2024-01-02", Subject: "Art", Duration: 10})

	got, err := store.Resolve("ABC1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Subject != "Math" {
		t.Fatalf("Resolve() subject = %q, want Math", got.Subject)
	}
	if _, err := store.Resolve("ab"); !errors.Is(err, ErrAmbiguousRef) {
		t.Fatalf("Resolve(ab) error = %v, want ErrAmbiguousRef", err)
	}
	if _, err := store.Resolve("zzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Resolve(zzz) error = %v, want ErrSessionNotFound", err)
	}
}

func TestRecentSortsNewestFirstAndIsStable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())
	store.Add(ctx, Session{Date: "2024-01-01", Subject: "A", Duration: 1})
	store.Add(ctx, Session{Date: "2024-03-01", Subject: "B", Duration: 1})
	store.Add(ctx, Session{Date: "2024-01-01", Subject: "C", Duration: 1})

	var order []string
	for _, s := range store.Recent() {
		order = append(order, s.Subject)
	}
	want := []string{"B", "A", "C"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Recent() order = %v, want %v", order, want)
		}
	}
	if store.Sessions()[0].Subject != "A" {
		t.Fatalf("Recent() mutated insertion order")
	}
}

func TestThemePreference(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, kv.NewMemory())

	if got := store.Theme(ctx); got != ThemeLight {
		t.Fatalf("default Theme() = %q, want light", got)
	}
	if err := store.SetTheme(ctx, ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if got := store.Theme(ctx); got != ThemeDark {
		t.Fatalf("Theme() = %q, want dark", got)
	}
	if ParseTheme("purple") != ThemeLight {
		t.Fatalf("unknown theme should read as light")
	}
	if ThemeDark.Toggle() != ThemeLight || ThemeLight.Toggle() != ThemeDark {
		t.Fatalf("Toggle() did not flip")
	}
}
