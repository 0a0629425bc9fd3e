package game

import (
	"sync"
	"testing"
	"time"

	"wordchain/internal/models"
)

type firedEvent struct {
	channelID string
	fence     int
	gen       int
}

func collectFires() (*TurnScheduler, func() []firedEvent) {
	var mu sync.Mutex
	var fired []firedEvent

	scheduler := NewTurnScheduler()
	scheduler.SetTimeoutFunc(func(channelID string, fence, gen int) {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, firedEvent{channelID, fence, gen})
	})

	return scheduler, func() []firedEvent {
		mu.Lock()
		defer mu.Unlock()
		return append([]firedEvent(nil), fired...)
	}
}

func TestSchedulerFires(t *testing.T) {
	scheduler, fires := collectFires()
	defer scheduler.Shutdown()

	scheduler.Arm("chan-1", models.HumanPlayer("alice"), 3, 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(fires()) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	fired := fires()
	if len(fired) != 1 {
		t.Fatalf("expected one fire, got %d", len(fired))
	}
	if fired[0].channelID != "chan-1" || fired[0].fence != 3 {
		t.Errorf("fired %+v, want chan-1 fence 3", fired[0])
	}

	// the fire leaves the entry pending until the receiver confirms it
	if !scheduler.Confirm("chan-1", fired[0].gen) {
		t.Error("the fired arm should confirm")
	}
	if _, _, _, armed := scheduler.Armed("chan-1"); armed {
		t.Error("timer should be consumed after confirmation")
	}
}

func TestSchedulerCancelIsIdempotent(t *testing.T) {
	scheduler, fires := collectFires()
	defer scheduler.Shutdown()

	scheduler.Arm("chan-1", models.HumanPlayer("alice"), 0, 50*time.Millisecond)
	scheduler.Cancel("chan-1")
	scheduler.Cancel("chan-1")
	scheduler.Cancel("never-armed")

	time.Sleep(100 * time.Millisecond)
	if got := fires(); len(got) != 0 {
		t.Errorf("cancelled timer fired: %+v", got)
	}
}

func TestSchedulerRearmReplacesPending(t *testing.T) {
	scheduler, fires := collectFires()
	defer scheduler.Shutdown()

	scheduler.Arm("chan-1", models.HumanPlayer("alice"), 1, time.Hour)
	scheduler.Arm("chan-1", models.HumanPlayer("bob"), 2, 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(fires()) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	fired := fires()
	if len(fired) != 1 {
		t.Fatalf("expected one fire, got %d", len(fired))
	}
	if fired[0].fence != 2 {
		t.Errorf("stale timer fired with fence %d, want 2", fired[0].fence)
	}
}

func TestSchedulerIndependentChannels(t *testing.T) {
	scheduler, fires := collectFires()
	defer scheduler.Shutdown()

	scheduler.Arm("chan-1", models.HumanPlayer("alice"), 0, time.Hour)
	scheduler.Arm("chan-2", models.HumanPlayer("bob"), 0, 10*time.Millisecond)
	scheduler.Cancel("chan-1")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(fires()) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	fired := fires()
	if len(fired) != 1 || fired[0].channelID != "chan-2" {
		t.Fatalf("expected only chan-2 to fire, got %+v", fired)
	}
}

func TestSchedulerArmedReportsPlayer(t *testing.T) {
	scheduler, _ := collectFires()
	defer scheduler.Shutdown()

	scheduler.Arm("chan-1", models.HumanPlayer("alice"), 0, time.Hour)

	player, deadline, _, armed := scheduler.Armed("chan-1")
	if !armed {
		t.Fatal("timer should be armed")
	}
	if player.ID != "alice" {
		t.Errorf("armed player = %q, want alice", player.ID)
	}
	if time.Until(deadline) < 59*time.Minute {
		t.Error("deadline should be about an hour away")
	}
}

func TestSchedulerConfirmOnlyMatchesLiveArm(t *testing.T) {
	scheduler, _ := collectFires()
	defer scheduler.Shutdown()

	scheduler.Arm("chan-1", models.HumanPlayer("alice"), 0, time.Hour)
	_, _, staleGen, _ := scheduler.Armed("chan-1")

	// re-arming the same turn count replaces the arm
	scheduler.Arm("chan-1", models.HumanPlayer("bob"), 0, time.Hour)
	_, _, liveGen, _ := scheduler.Armed("chan-1")

	if scheduler.Confirm("chan-1", staleGen) {
		t.Error("a replaced arm should not confirm")
	}
	if _, _, _, armed := scheduler.Armed("chan-1"); !armed {
		t.Fatal("failed confirmation should leave the live timer pending")
	}
	if !scheduler.Confirm("chan-1", liveGen) {
		t.Error("the live arm should confirm")
	}
	if scheduler.Confirm("chan-1", liveGen) {
		t.Error("confirmation should consume the entry")
	}
}
