package events_test

import (
	"testing"

	"github.com/adamwoolhether/htdfsign/foundation/events"
)

func TestEvents(t *testing.T) {
	evts := events.New()

	a := evts.Acquire("a")
	b := evts.Acquire("b")

	evts.Send("tx signed")

	if got := <-a; got != "tx signed" {
		t.Fatalf("Should deliver to the first receiver, got %q", got)
	}
	if got := <-b; got != "tx signed" {
		t.Fatalf("Should deliver to the second receiver, got %q", got)
	}

	if err := evts.Release("a"); err != nil {
		t.Fatalf("Should release a known id: %s", err)
	}
	if _, open := <-a; open {
		t.Fatal("Should close a released channel.")
	}
	if err := evts.Release("a"); err == nil {
		t.Fatal("Should fail to release an unknown id.")
	}

	for i := 0; i < 500; i++ {
		evts.Send("flood")
	}

	evts.Shutdown()

	n := 0
	for range b {
		n++
	}
	if n != 100 {
		t.Fatalf("Should buffer 100 messages and drop the rest, got %d", n)
	}
}
