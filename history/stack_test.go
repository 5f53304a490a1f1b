package history

import (
	"context"
	"log/slog"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/oligo/textcore/doc"
	"github.com/oligo/textcore/internal/logging"
	"golang.org/x/image/math/fixed"
)

type testMetrics struct{}

func (testMetrics) StringWidth(style doc.Style, s string) fixed.Int26_6 {
	return fixed.I(utf8.RuneCountInString(s) * 8)
}

func (testMetrics) LineHeight(style doc.Style) fixed.Int26_6 { return fixed.I(16) }
func (testMetrics) Descent(style doc.Style) fixed.Int26_6   { return fixed.I(4) }

// testClock hands out a controllable time to exercise idle boundaries.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStack(cfg Config) (*doc.Document, *Stack, *int) {
	d := doc.New(testMetrics{})
	caret := 0
	s := NewStack(d, func(pos int) { caret = pos }, cfg)
	return d, s, &caret
}

func TestInsertUndoRedo(t *testing.T) {
	d, s, caret := newTestStack(Config{})

	s.RecordInsert("hello", 0, doc.Style{}, 0, 5)
	if d.Text() != "hello" || *caret != 5 {
		t.Logf("text %q caret %d", d.Text(), *caret)
		t.Fail()
	}

	if !s.Undo() {
		t.Fail()
	}
	if d.Text() != "" || *caret != 0 {
		t.Logf("after undo: text %q caret %d", d.Text(), *caret)
		t.Fail()
	}
	if s.Undo() {
		t.Fail()
	}

	if !s.Redo() {
		t.Fail()
	}
	if d.Text() != "hello" || *caret != 5 {
		t.Logf("after redo: text %q caret %d", d.Text(), *caret)
		t.Fail()
	}
	if s.Redo() {
		t.Fail()
	}
}

func TestRemoveUndoRestoresStyles(t *testing.T) {
	big := doc.Style{Font: doc.Font{Size: 16}}
	d, s, _ := newTestStack(Config{})
	d.Insert("hello ", 0, doc.Style{})
	d.Insert("brave ", 6, big)
	d.Insert("world", 12, doc.Style{})

	s.RecordRemove(doc.Range{Start: 3, End: 14}, 14, 3)
	if d.Text() != "helrld" {
		t.Logf("after remove: %q", d.Text())
		t.Fail()
	}

	if !s.Undo() {
		t.Fail()
	}
	if d.Text() != "hello brave world" {
		t.Logf("after undo: %q", d.Text())
		t.Fail()
	}
	if len(d.Runs()) != 3 {
		t.Logf("runs: %d", len(d.Runs()))
		t.Fail()
	}

	if !s.Redo() {
		t.Fail()
	}
	if d.Text() != "helrld" {
		t.Logf("after redo: %q", d.Text())
		t.Fail()
	}
}

func TestUndoRedoSymmetry(t *testing.T) {
	d, s, _ := newTestStack(Config{})

	s.RecordInsert("hello world", 0, doc.Style{}, 0, 11)
	s.CommitTransaction()
	s.RecordRemove(doc.Range{Start: 5, End: 11}, 11, 5)
	s.CommitTransaction()
	s.RecordInsert("!", 5, doc.Style{}, 5, 6)

	want := []string{"hello!", "hello", "hello world", ""}
	for i := 1; i < len(want); i++ {
		if !s.Undo() {
			t.Fatalf("undo %d failed", i)
		}
		if d.Text() != want[i] {
			t.Logf("undo %d: %q, want %q", i, d.Text(), want[i])
			t.Fail()
		}
	}

	for i := len(want) - 2; i >= 0; i-- {
		if !s.Redo() {
			t.Fatalf("redo to %d failed", i)
		}
		if d.Text() != want[i] {
			t.Logf("redo to %d: %q, want %q", i, d.Text(), want[i])
			t.Fail()
		}
	}
}

func TestTransactionGroupsActions(t *testing.T) {
	d, s, _ := newTestStack(Config{})

	// Typing burst without a commit: one transaction, one undo.
	s.RecordInsert("a", 0, doc.Style{}, 0, 1)
	s.RecordInsert("b", 1, doc.Style{}, 1, 2)
	s.RecordInsert("c", 2, doc.Style{}, 2, 3)

	if !s.Undo() {
		t.Fail()
	}
	if d.Text() != "" {
		t.Logf("after undo: %q", d.Text())
		t.Fail()
	}
	if s.CanUndo() {
		t.Fail()
	}
}

func TestCommitTransactionSplitsUndoUnits(t *testing.T) {
	d, s, _ := newTestStack(Config{})

	s.RecordInsert("aa", 0, doc.Style{}, 0, 2)
	s.CommitTransaction()
	s.RecordInsert("bb", 2, doc.Style{}, 2, 4)

	if !s.Undo() {
		t.Fail()
	}
	if d.Text() != "aa" {
		t.Logf("after first undo: %q", d.Text())
		t.Fail()
	}
	if !s.Undo() {
		t.Fail()
	}
	if d.Text() != "" {
		t.Logf("after second undo: %q", d.Text())
		t.Fail()
	}
}

func TestTransactionActionCap(t *testing.T) {
	_, s, _ := newTestStack(Config{MaxActionsPerTransaction: 2})

	for i := 0; i < 6; i++ {
		s.RecordInsert("x", i, doc.Style{}, i, i+1)
	}

	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != 2 {
		t.Logf("undo units: %d", undos)
		t.Fail()
	}
}

func TestIdleTimeoutStartsNewTransaction(t *testing.T) {
	clock := &testClock{t: time.Unix(1000, 0)}
	d := doc.New(testMetrics{})
	s := NewStack(d, nil, Config{
		IdleTimeout: time.Second,
		Now:         clock.now,
	})

	s.RecordInsert("aa", 0, doc.Style{}, 0, 2)
	clock.advance(500 * time.Millisecond)
	s.RecordInsert("bb", 2, doc.Style{}, 2, 4)
	clock.advance(2 * time.Second)
	s.RecordInsert("cc", 4, doc.Style{}, 4, 6)

	// The pause opened a second transaction.
	if !s.Undo() {
		t.Fail()
	}
	if d.Text() != "aabb" {
		t.Logf("after undo: %q", d.Text())
		t.Fail()
	}
	if !s.Undo() {
		t.Fail()
	}
	if d.Text() != "" {
		t.Logf("after undo: %q", d.Text())
		t.Fail()
	}
}

func TestCostEvictsOldestTransactions(t *testing.T) {
	d, s, _ := newTestStack(Config{MaxCost: 60})

	// Each insert costs its rune length plus overhead (16), so three
	// ten-rune transactions exceed the cap and the first is evicted.
	s.RecordInsert("aaaaaaaaaa", 0, doc.Style{}, 0, 10)
	s.CommitTransaction()
	s.RecordInsert("bbbbbbbbbb", 10, doc.Style{}, 10, 20)
	s.CommitTransaction()
	s.RecordInsert("cccccccccc", 20, doc.Style{}, 20, 30)

	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != 2 {
		t.Logf("undo units: %d", undos)
		t.Fail()
	}
	if d.Text() != "aaaaaaaaaa" {
		t.Logf("floor text: %q", d.Text())
		t.Fail()
	}
}

// captureHandler collects every record routed through it.
type captureHandler struct {
	records *[]slog.Record
}

func (h captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h captureHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}

func (h captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h captureHandler) WithGroup(string) slog.Handler { return h }

func TestEvictionLogsThroughInstalledLogger(t *testing.T) {
	var records []slog.Record
	logging.Set(slog.New(captureHandler{records: &records}))
	defer logging.Set(slog.Default())

	_, s, _ := newTestStack(Config{MaxCost: 20})
	s.RecordInsert("aaaaaaaaaa", 0, doc.Style{}, 0, 10)
	s.CommitTransaction()
	s.RecordInsert("bbbbbbbbbb", 10, doc.Style{}, 10, 20)

	if len(records) == 0 {
		t.Log("eviction produced no log records on the installed logger")
		t.Fail()
	}
}

func TestRecordClearsRedo(t *testing.T) {
	d, s, _ := newTestStack(Config{})

	s.RecordInsert("aa", 0, doc.Style{}, 0, 2)
	s.CommitTransaction()
	s.Undo()
	if !s.CanRedo() {
		t.Fail()
	}

	s.RecordInsert("bb", 0, doc.Style{}, 0, 2)
	if s.CanRedo() {
		t.Fail()
	}
	if d.Text() != "bb" {
		t.Logf("text: %q", d.Text())
		t.Fail()
	}
}

func TestActionCost(t *testing.T) {
	a := Action{Kind: KindInsert, Text: "hello"}
	if a.Cost() != 5+actionOverhead {
		t.Logf("insert cost: %d", a.Cost())
		t.Fail()
	}

	d := doc.New(testMetrics{})
	d.Insert("hello world", 0, doc.Style{})
	r := Action{
		Kind:      KindRemove,
		Range:     doc.Range{Start: 0, End: 11},
		Snapshots: d.Snapshot(doc.Range{Start: 0, End: 11}),
	}
	if r.Cost() != 11+actionOverhead {
		t.Logf("remove cost: %d", r.Cost())
		t.Fail()
	}
}
