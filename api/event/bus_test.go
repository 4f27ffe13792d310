package event

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

type pingEvent struct{ cause Cause }

func (p pingEvent) Cause() Cause { return p.cause }

func TestBus_OrderAndTypeMatching(t *testing.T) {
	b := NewBus(nil)
	var got []string
	Subscribe(b, func(e WorldOnExplosionEvent) { got = append(got, "late") }, WithOrder(OrderLate))
	Subscribe(b, func(e WorldEvent) { got = append(got, "pre") }, WithOrder(OrderPre))
	Subscribe(b, func(e WorldOnExplosionEvent) { got = append(got, "default1") })
	Subscribe(b, func(e WorldOnExplosionEvent) { got = append(got, "default2") })
	Subscribe(b, func(e pingEvent) { got = append(got, "ping") })

	ev, _, _ := newExplosionEvent(t)
	if b.Post(ev) {
		t.Fatalf("event should not be cancelled")
	}
	want := "pre,default1,default2,late"
	if s := strings.Join(got, ","); s != want {
		t.Fatalf("order=%s want %s", s, want)
	}
}

func TestBus_CancelledSkipsUnlessIncluded(t *testing.T) {
	b := NewBus(nil)
	var skipped, post bool
	var sawCancelled bool
	Subscribe(b, func(e WorldOnExplosionEvent) { e.SetCancelled(true) }, WithOrder(OrderEarly))
	Subscribe(b, func(e WorldOnExplosionEvent) { skipped = true }, WithOrder(OrderLate))
	Subscribe(b, func(e WorldOnExplosionEvent) {
		post = true
		sawCancelled = e.IsCancelled()
	}, WithOrder(OrderPost), IncludeCancelled())

	ev, _, _ := newExplosionEvent(t)
	if !b.Post(ev) {
		t.Fatalf("expected cancelled")
	}
	if skipped {
		t.Fatalf("late listener should have been skipped")
	}
	if !post || !sawCancelled {
		t.Fatalf("post listener post=%v sawCancelled=%v", post, sawCancelled)
	}
}

func TestBus_PanicRecovered(t *testing.T) {
	var buf bytes.Buffer
	b := NewBus(log.New(&buf, "", 0))
	var reported string
	b.OnPanic(func(name string, e Event, r any) { reported = name })
	ran := false
	Subscribe(b, func(e pingEvent) { panic("boom") }, Named("bad"))
	Subscribe(b, func(e pingEvent) { ran = true })

	b.Post(pingEvent{})
	if !ran {
		t.Fatalf("listener after panic did not run")
	}
	if reported != "bad" {
		t.Fatalf("reported=%q", reported)
	}
	if !strings.Contains(buf.String(), "listener bad (default) panicked") {
		t.Fatalf("log=%q", buf.String())
	}
}

func TestBus_Unregister(t *testing.T) {
	b := NewBus(nil)
	n := 0
	r := Subscribe(b, func(e pingEvent) { n++ })
	b.Post(pingEvent{})
	r.Unregister()
	r.Unregister()
	b.Post(pingEvent{})
	if n != 1 || b.Len() != 0 {
		t.Fatalf("n=%d len=%d", n, b.Len())
	}
}

func TestParseOrder(t *testing.T) {
	for o := OrderPre; o <= OrderPost; o++ {
		got, err := ParseOrder(o.String())
		if err != nil || got != o {
			t.Fatalf("ParseOrder(%s)=%v,%v", o, got, err)
		}
	}
	if _, err := ParseOrder("never"); err == nil {
		t.Fatalf("expected error")
	}
}
