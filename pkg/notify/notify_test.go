package notify

import (
	"testing"
	"time"

	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/schedule"
	"go.uber.org/zap/zaptest"
)

func newTestEmitter(t *testing.T) (*Emitter, *dom.Document, *schedule.Manual) {
	t.Helper()
	doc, err := dom.ParseString(`<html><body><main></main></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	sched := schedule.NewManual()
	return NewEmitter(doc, sched, 0, 0, zaptest.NewLogger(t)), doc, sched
}

func TestShow_Lifecycle(t *testing.T) {
	e, doc, sched := newTestEmitter(t)

	el := e.Show("Cake added to cart!", Success)
	if el == nil || !el.HasClass("alert-success") || !el.HasClass("show") {
		t.Fatalf("unexpected alert: %s", doc.String())
	}
	if el.Text() != " Cake added to cart!" {
		t.Fatalf("text = %q", el.Text())
	}

	sched.Advance(DefaultDismiss)
	if el.HasClass("show") || !el.Attached() {
		t.Fatal("alert should be fading but still attached")
	}
	sched.Advance(DefaultFade)
	if el.Attached() {
		t.Fatal("alert should be removed after fade")
	}
}

func TestShow_IndependentTimers(t *testing.T) {
	e, doc, sched := newTestEmitter(t)

	first := e.Show("first", Success)
	sched.Advance(2 * time.Second)
	second := e.Show("second", Error)
	if !second.HasClass("alert-danger") {
		t.Fatal("error kind should render as danger")
	}
	if got := len(doc.QueryAll(".alert")); got != 2 {
		t.Fatalf("alerts = %d, want 2 stacked", got)
	}

	sched.Advance(1300 * time.Millisecond)
	if first.Attached() || !second.Attached() {
		t.Fatal("first alert should be gone, second still visible")
	}
	sched.Advance(2 * time.Second)
	if second.Attached() {
		t.Fatal("second alert should be gone")
	}
}

func TestShow_NoBody(t *testing.T) {
	doc, _ := dom.ParseString(`<html><body></body></html>`)
	doc.Body().Remove()
	e := NewEmitter(doc, schedule.NewManual(), time.Second, time.Millisecond, zaptest.NewLogger(t))
	if e.Show("x", Success) != nil {
		t.Fatal("expected nil without a body")
	}
}
