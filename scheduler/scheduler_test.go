package scheduler

import "testing"

func TestScheduleFiresInOrder(t *testing.T) {
	s := New()
	var fired []string

	s.Schedule(100, nil, func(ts int64, ctx interface{}) { fired = append(fired, "b") })
	s.Schedule(50, nil, func(ts int64, ctx interface{}) { fired = append(fired, "a") })

	s.Advance(100)

	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired = %v, want [a b]", fired)
	}
}

func TestAdvancePartialLeavesLaterEventsPending(t *testing.T) {
	s := New()
	fired := 0
	s.Schedule(1000, nil, func(ts int64, ctx interface{}) { fired++ })

	s.Advance(500)
	if fired != 0 {
		t.Fatalf("expected no events fired yet, got %d", fired)
	}
	if s.Pending() != 1 {
		t.Fatalf("expected 1 pending event, got %d", s.Pending())
	}

	s.Advance(500)
	if fired != 1 {
		t.Fatalf("expected event fired, got %d", fired)
	}
}

func TestSameTimestampOrdersBySchedulingSequence(t *testing.T) {
	s := New()
	var order []int
	s.Schedule(10, nil, func(ts int64, ctx interface{}) { order = append(order, 1) })
	s.Schedule(10, nil, func(ts int64, ctx interface{}) { order = append(order, 2) })
	s.Schedule(10, nil, func(ts int64, ctx interface{}) { order = append(order, 3) })

	s.Advance(10)

	for i, v := range order {
		if v != i+1 {
			t.Fatalf("order = %v, want [1 2 3]", order)
		}
	}
}

func TestCallbackCanRescheduleWithoutFiringThisAdvance(t *testing.T) {
	s := New()
	fired := 0
	var reschedule func(ts int64, ctx interface{})
	reschedule = func(ts int64, ctx interface{}) {
		fired++
		if fired == 1 {
			s.Schedule(5, nil, reschedule)
		}
	}
	s.Schedule(10, nil, reschedule)

	s.Advance(10)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	s.Advance(5)
	if fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}
}
