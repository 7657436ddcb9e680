package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancelFlag_ZeroValueUsable(t *testing.T) {
	t.Parallel()

	var c CancelFlag
	assert.False(t, c.Cancelled())

	select {
	case <-c.Done():
		t.Fatal("Done must not be closed before Abandon")
	default:
	}
}

func TestCancelFlag_CancelDoesNotCloseDone(t *testing.T) {
	t.Parallel()

	c := &CancelFlag{}
	c.Cancel()
	assert.True(t, c.Cancelled())

	select {
	case <-c.Done():
		t.Fatal("Cancel must not imply the receiver is gone")
	default:
	}
}

func TestCancelFlag_AbandonClosesDone(t *testing.T) {
	t.Parallel()

	c := &CancelFlag{}
	done := c.Done()

	c.Abandon()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Done channel obtained before Abandon must still observe the close")
	}
}

func TestCancelFlag_AbandonIsIdempotent(t *testing.T) {
	t.Parallel()

	c := &CancelFlag{}
	assert.NotPanics(t, func() {
		c.Abandon()
		c.Abandon()
	})
	select {
	case <-c.Done():
	default:
		t.Fatal("Done must be closed after Abandon")
	}
}

func TestCancelFlag_AbandonUnblocksAlreadyWaitingSend(t *testing.T) {
	t.Parallel()

	c := &CancelFlag{}
	ch := make(chan int) // unbuffered: the send below blocks until someone acts.

	sent := make(chan bool, 1)
	go func() {
		select {
		case ch <- 1:
			sent <- true
		case <-c.Done():
			sent <- false
		}
	}()

	// Give the goroutine time to actually block on the select before
	// abandoning, so this exercises waking an already-blocked sender
	// rather than one that never started waiting.
	time.Sleep(10 * time.Millisecond)
	c.Abandon()

	select {
	case ok := <-sent:
		assert.False(t, ok, "send must be abandoned once Done is closed")
	case <-time.After(time.Second):
		t.Fatal("goroutine blocked on send did not wake up after Abandon")
	}
}
