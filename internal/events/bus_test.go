package events

import (
	"bytes"
	"strings"
	"testing"

	"termcanvas/internal/logger"

	"github.com/sirupsen/logrus"
)

func TestBusFanOutAndClose(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe(2)
	b := bus.Subscribe(2)

	bus.Notify(Event{Type: TypeScroll, Payload: Scroll{ScrollHeight: 10}})

	for _, ch := range []<-chan Event{a, b} {
		evt := <-ch
		if evt.Type != TypeScroll {
			t.Fatalf("unexpected event %+v", evt)
		}
	}

	bus.Close()
	bus.Close()
	if _, ok := <-a; ok {
		t.Fatalf("subscriber channel should be closed")
	}
	if _, ok := <-bus.Subscribe(1); ok {
		t.Fatalf("subscribe after close should return a closed channel")
	}
	bus.Publish(Event{Type: TypePaint})
}

func TestBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(1)
	bus.Publish(Event{Type: TypePaint})
	bus.Publish(Event{Type: TypePaint})
	if bus.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", bus.Dropped())
	}
	if len(ch) != 1 {
		t.Fatalf("buffered = %d, want 1", len(ch))
	}
}

func TestMultiAndFunc(t *testing.T) {
	var got []Type
	rec := NotifierFunc(func(evt Event) { got = append(got, evt.Type) })
	Multi{rec, nil, rec}.Notify(Event{Type: TypeCursor})
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	var nilFunc NotifierFunc
	nilFunc.Notify(Event{})
}

func TestLoggedWritesPayloadJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(logger.PlainFormatter{})
	l.SetOutput(buf)

	var forwarded int
	n := WithLogging(NotifierFunc(func(Event) { forwarded++ }), logrus.NewEntry(l))
	n.Notify(Event{Type: TypeCursor, WidgetID: "w1", Payload: Cursor{Left: 3, Top: 4, Visible: true}})

	out := buf.String()
	if forwarded != 1 {
		t.Fatalf("event not forwarded")
	}
	for _, want := range []string{"[widget=w1]", "type=cursor", `"visible":true`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %q", out, want)
		}
	}
}

func TestEncodePayload_StringIsRaw(t *testing.T) {
	if got := encodePayload("plain"); got != "plain" {
		t.Fatalf("expected raw string payload, got %q", got)
	}
	if got := encodePayload(nil); got != "" {
		t.Fatalf("expected empty payload, got %q", got)
	}
}
