package entryp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/greghart/dbentry/errcmp"
)

// fakeExecutor records the commands it is given, and answers them with canned results.
type fakeExecutor struct {
	identity any
	rows     []*Entry
	affected int64
	err      error

	calls    []string
	template *Entry
	top      int
	search   []*Property
	extra    []*Property
}

func (f *fakeExecutor) InsertEntries(ctx context.Context, entries ...*Entry) (int64, error) {
	f.calls = append(f.calls, "InsertEntries")
	return int64(len(entries)), f.err
}

func (f *fakeExecutor) InsertIdentity(ctx context.Context, entry *Entry) (any, error) {
	f.calls = append(f.calls, "InsertIdentity")
	return f.identity, f.err
}

func (f *fakeExecutor) InsertScoped(ctx context.Context, entry *Entry, identity *Property, extra ...*Property) (*Entry, error) {
	f.calls = append(f.calls, "InsertScoped")
	f.extra = append([]*Property{identity}, extra...)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[0], nil
}

func (f *fakeExecutor) GetEntries(ctx context.Context, template *Entry, top int, search ...*Property) ([]*Entry, error) {
	f.calls = append(f.calls, "GetEntries")
	f.template, f.top, f.search = template, top, search
	return f.rows, f.err
}

func (f *fakeExecutor) UpdateEntry(ctx context.Context, entry *Entry, search ...*Property) (int64, error) {
	f.calls = append(f.calls, "UpdateEntry")
	f.search = search
	return f.affected, f.err
}

func (f *fakeExecutor) DeleteEntry(ctx context.Context, entry *Entry, search ...*Property) (int64, error) {
	f.calls = append(f.calls, "DeleteEntry")
	f.search = search
	return f.affected, f.err
}

var _ Executor = (*fakeExecutor)(nil)

func testUnique(t *testing.T) *UniqueEntry[int64] {
	t.Helper()
	u, err := NewUnique[int64]("ID", "dbo.People", Prop("Name", "Greg"), NewProperty("Age", int64(30), TypeBigInt))
	errcmp.MustMatch(t, err, "")
	return u
}

func TestUniqueInsert(t *testing.T) {
	ctx := context.Background()
	u := testUnique(t)
	if _, ok := u.ID(); ok || u.Linked() {
		t.Fatalf("expected new unique entry to be unlinked")
	}

	ex := &fakeExecutor{identity: []byte("42")}
	errcmp.MustMatch(t, u.Insert(ctx, ex), "")
	id, ok := u.ID()
	if !ok || id != 42 {
		t.Errorf("expected to be linked to 42, got %v (%v)", id, ok)
	}

	err := u.Insert(ctx, ex)
	if !errors.Is(err, ErrAlreadyLinked) {
		t.Errorf("expected ErrAlreadyLinked, got %v", err)
	}
	if !cmp.Equal(ex.calls, []string{"InsertIdentity"}) {
		t.Errorf("expected second insert to not reach the executor, got %v", ex.calls)
	}
}

func TestUniqueInsertFailure(t *testing.T) {
	ctx := context.Background()
	u := testUnique(t)
	errcmp.MustMatch(t, u.Insert(ctx, &fakeExecutor{err: errors.New("boom")}), "boom")
	if u.Linked() {
		t.Errorf("expected failed insert to leave entry unlinked")
	}
	errcmp.MustMatch(t, u.Insert(ctx, &fakeExecutor{identity: nil}), "cannot convert null to identity")
	if u.Linked() {
		t.Errorf("expected missing identity to leave entry unlinked")
	}
}

func TestUniqueLinkLifecycle(t *testing.T) {
	ctx := context.Background()
	u := testUnique(t)
	ex := &fakeExecutor{affected: 1}

	_, err := u.Update(ctx, ex)
	if !errors.Is(err, ErrUnlinked) {
		t.Errorf("expected update of unlinked entry to fail, got %v", err)
	}
	_, err = u.Delete(ctx, ex)
	if !errors.Is(err, ErrUnlinked) {
		t.Errorf("expected delete of unlinked entry to fail, got %v", err)
	}
	if len(ex.calls) != 0 {
		t.Errorf("expected no commands, got %v", ex.calls)
	}

	errcmp.MustMatch(t, u.Link(7), "")
	errcmp.MustMatch(t, u.Link(8), "already linked")

	n, err := u.Update(ctx, ex)
	errcmp.MustMatch(t, err, "")
	if n != 1 {
		t.Errorf("expected 1 row affected, got %d", n)
	}
	expectedSearch := []*Property{NewProperty("ID", int64(7), TypeBigInt)}
	if !cmp.Equal(expectedSearch, ex.search, entryCmp) {
		t.Errorf("unexpected update search:\n%s", cmp.Diff(expectedSearch, ex.search, entryCmp))
	}

	_, err = u.Delete(ctx, ex)
	errcmp.MustMatch(t, err, "")
	if !cmp.Equal(expectedSearch, ex.search, entryCmp) {
		t.Errorf("unexpected delete search:\n%s", cmp.Diff(expectedSearch, ex.search, entryCmp))
	}
	if !u.Linked() {
		t.Errorf("expected delete to keep the entry linked")
	}

	u.Unlink()
	u.Unlink()
	if _, ok := u.ID(); ok {
		t.Errorf("expected unlink to forget the identity")
	}
	errcmp.MustMatch(t, u.Link(9), "")
}

func TestUniqueMatchFromIdentity(t *testing.T) {
	ctx := context.Background()
	u := testUnique(t)
	errcmp.MustMatch(t, u.Link(1), "")

	row := MustNew("dbo.People",
		Prop("Name", "Ann"),
		NewProperty("Age", nil, TypeBigInt),
		NewProperty("ID", int64(5), TypeBigInt),
		NewProperty("Created", "today", TypeDateTime),
	)
	ex := &fakeExecutor{rows: []*Entry{row}}
	got, err := u.MatchFromIdentity(ctx, 5, ex, Col("Created", TypeDateTime))
	errcmp.MustMatch(t, err, "")
	if got != row {
		t.Errorf("expected the full row to be returned")
	}

	expectedTemplate := MustNew("dbo.People",
		Prop("Name", "Greg"),
		NewProperty("Age", int64(30), TypeBigInt),
		Col("ID", TypeBigInt),
		Col("Created", TypeDateTime),
	)
	if !cmp.Equal(expectedTemplate, ex.template, entryCmp) {
		t.Errorf("unexpected template:\n%s", cmp.Diff(expectedTemplate, ex.template, entryCmp))
	}
	if ex.top != 1 {
		t.Errorf("expected top 1, got %d", ex.top)
	}
	expectedSearch := []*Property{NewProperty("ID", int64(5), TypeBigInt)}
	if !cmp.Equal(expectedSearch, ex.search, entryCmp) {
		t.Errorf("unexpected search:\n%s", cmp.Diff(expectedSearch, ex.search, entryCmp))
	}

	if u.Value("Name") != "Ann" || u.Value("Age") != nil || u.Has("ID") {
		t.Errorf("expected values to be matched into the entry, got %v", u.Properties())
	}
	if id, ok := u.ID(); !ok || id != 5 {
		t.Errorf("expected entry to be re-linked to 5, got %v (%v)", id, ok)
	}

	_, err = u.MatchFromIdentity(ctx, 6, &fakeExecutor{})
	if !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}
	if id, _ := u.ID(); id != 5 {
		t.Errorf("expected failed match to keep the link, got %v", id)
	}
}

func TestUniqueInsertAndGetScoped(t *testing.T) {
	ctx := context.Background()
	u := testUnique(t)
	row := MustNew("dbo.People",
		Prop("Name", "Greg"),
		NewProperty("Age", int64(30), TypeBigInt),
		NewProperty("ID", int64(11), TypeIdentity),
	)
	ex := &fakeExecutor{rows: []*Entry{row}}
	got, err := u.InsertAndGetScoped(ctx, ex)
	errcmp.MustMatch(t, err, "")
	if got != row {
		t.Errorf("expected the scoped row to be returned")
	}
	expectedExtra := []*Property{Col("ID", TypeIdentity)}
	if !cmp.Equal(expectedExtra, ex.extra, entryCmp) {
		t.Errorf("unexpected identity property:\n%s", cmp.Diff(expectedExtra, ex.extra, entryCmp))
	}
	if id, ok := u.ID(); !ok || id != 11 {
		t.Errorf("expected to be linked to 11, got %v (%v)", id, ok)
	}

	_, err = u.InsertAndGetScoped(ctx, ex)
	if !errors.Is(err, ErrAlreadyLinked) {
		t.Errorf("expected ErrAlreadyLinked, got %v", err)
	}
}

func TestEntryDelegations(t *testing.T) {
	ctx := context.Background()
	e := testEntry()
	ex := &fakeExecutor{affected: 2}

	errcmp.MustMatch(t, e.Insert(ctx, ex), "")
	_, err := e.GetAll(ctx, ex, Prop("TestName", "x"))
	errcmp.MustMatch(t, err, "")
	if ex.top != -1 || ex.template != e {
		t.Errorf("expected GetAll to select everything with e as template, got top %d", ex.top)
	}
	_, err = e.GetTop(ctx, ex)
	if !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound from empty GetTop, got %v", err)
	}
	ex.rows = []*Entry{testEntry()}
	top, err := e.GetTop(ctx, ex)
	errcmp.MustMatch(t, err, "")
	if ex.top != 1 || !top.Equal(e) {
		t.Errorf("expected GetTop to return the first row")
	}
	n, err := e.Update(ctx, ex, Prop("TestName", "x"))
	errcmp.MustMatch(t, err, "")
	if n != 2 {
		t.Errorf("expected 2 rows updated, got %d", n)
	}
	_, err = e.Delete(ctx, ex, Prop("TestName", "x"))
	errcmp.MustMatch(t, err, "")

	expected := []string{"InsertEntries", "GetEntries", "GetEntries", "GetEntries", "UpdateEntry", "DeleteEntry"}
	if !cmp.Equal(expected, ex.calls) {
		t.Errorf("unexpected calls:\n%s", cmp.Diff(expected, ex.calls))
	}
}
