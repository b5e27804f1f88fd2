//go:build linux

package priority

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// replaced in tests
var (
	schedSetAttr = unix.SchedSetAttr
	setPriority  = unix.Setpriority
)

func apply(c Class) (Result, error) {
	res := Result{Class: c}
	switch c {
	case Normal:
		return res, nil
	case Low:
		if err := setPriority(unix.PRIO_PROCESS, 0, lowNice); err != nil {
			return res, fmt.Errorf("setpriority %d: %w", lowNice, err)
		}
		res.Policy, res.Nice = "other", lowNice
		return res, nil
	}

	attr := &unix.SchedAttr{Policy: unix.SCHED_IDLE, Nice: idleNice}
	idleErr := schedSetAttr(0, attr, 0)
	if idleErr == nil {
		res.Policy, res.Nice = "idle", idleNice
		return res, nil
	}

	if err := setPriority(unix.PRIO_PROCESS, 0, idleNice); err != nil {
		return res, errors.Join(
			fmt.Errorf("sched_setattr SCHED_IDLE: %w", idleErr),
			fmt.Errorf("setpriority %d: %w", idleNice, err),
		)
	}
	res.Policy, res.Nice = "other", idleNice
	return res, nil
}
