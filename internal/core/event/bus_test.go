package event

import "testing"

func TestEventsReadableNextTick(t *testing.T) {
	b := NewBus()
	var got []TriggerFired
	Subscribe(b, func(ev TriggerFired) { got = append(got, ev) })

	Emit(b, TriggerFired{Trigger: "door", Uses: 1})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("expected no delivery before swap, got %d", len(got))
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].Trigger != "door" {
		t.Fatalf("expected door event after swap, got %+v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("expected event delivered once, got %d", len(got))
	}
}

func TestPendingAndNilBus(t *testing.T) {
	var nilBus *Bus
	Emit(nilBus, SoundRequested{Sound: "ignored"})

	b := NewBus()
	Emit(b, SoundRequested{Sound: "splash"})
	p := Pending[SoundRequested](b)
	if len(p) != 1 || p[0].Sound != "splash" {
		t.Fatalf("expected pending splash, got %+v", p)
	}
}
