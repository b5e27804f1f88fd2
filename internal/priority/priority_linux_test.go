//go:build linux

package priority

import (
	"testing"

	"golang.org/x/sys/unix"
)

type schedStub struct {
	attrErr   error
	prioErr   error
	policy    uint32
	niceCalls []int
}

func (s *schedStub) install(t *testing.T) {
	t.Helper()
	origAttr, origPrio := schedSetAttr, setPriority
	schedSetAttr = func(_ int, attr *unix.SchedAttr, _ uint) error {
		s.policy = attr.Policy
		return s.attrErr
	}
	setPriority = func(_, _, prio int) error {
		s.niceCalls = append(s.niceCalls, prio)
		return s.prioErr
	}
	t.Cleanup(func() { schedSetAttr, setPriority = origAttr, origPrio })
}

func TestApplyIdle(t *testing.T) {
	s := &schedStub{}
	s.install(t)

	res, err := Apply(Idle)
	if err != nil {
		t.Fatalf("Apply(Idle) error = %v", err)
	}
	if res.Policy != "idle" || s.policy != unix.SCHED_IDLE || len(s.niceCalls) != 0 {
		t.Errorf("result = %+v, stub = %+v", res, s)
	}
}

func TestApplyIdleFallsBackToNice(t *testing.T) {
	s := &schedStub{attrErr: unix.EPERM}
	s.install(t)

	res, err := Apply(Idle)
	if err != nil {
		t.Fatalf("Apply(Idle) error = %v", err)
	}
	if res.Policy != "other" || res.Nice != idleNice || len(s.niceCalls) != 1 || s.niceCalls[0] != idleNice {
		t.Errorf("result = %+v, nice calls = %v", res, s.niceCalls)
	}
}

func TestApplyIdleBothFail(t *testing.T) {
	s := &schedStub{attrErr: unix.EPERM, prioErr: unix.EACCES}
	s.install(t)

	if _, err := Apply(Idle); err == nil {
		t.Error("Apply(Idle) should fail when both calls fail")
	}
}

func TestApplyLow(t *testing.T) {
	s := &schedStub{}
	s.install(t)

	res, err := Apply(Low)
	if err != nil {
		t.Fatalf("Apply(Low) error = %v", err)
	}
	if res.Nice != lowNice || len(s.niceCalls) != 1 || s.niceCalls[0] != lowNice {
		t.Errorf("result = %+v, nice calls = %v", res, s.niceCalls)
	}
}
