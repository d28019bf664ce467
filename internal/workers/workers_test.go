package workers

import "testing"

func TestCountRespectsLimit(t *testing.T) {
	if got := Count(100.0, 3); got != 3 {
		t.Errorf("Count(100.0, 3) = %d, want 3", got)
	}
}

func TestCountMinimumOne(t *testing.T) {
	if got := Count(0.0001, 0); got < 1 {
		t.Errorf("Count returned %d, want at least 1", got)
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("JOB_WORKERS", "5")

	if got := Count(1.0, 0); got != 5 {
		t.Errorf("Count with JOB_WORKERS=5 = %d, want 5", got)
	}
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Count with JOB_WORKERS=5 and limit 2 = %d, want 2", got)
	}
}

func TestCountOverrideInvalid(t *testing.T) {
	t.Setenv("JOB_WORKERS", "not-a-number")

	if got := Count(1.0, 0); got < 1 {
		t.Errorf("Count with invalid override returned %d, want at least 1", got)
	}
}

func TestForCPUAndForIO(t *testing.T) {
	cpu := ForCPU(0)
	io := ForIO(0)

	if cpu < 1 || io < 1 {
		t.Fatalf("ForCPU=%d ForIO=%d, want both >= 1", cpu, io)
	}
	if io < cpu {
		t.Errorf("ForIO=%d should be >= ForCPU=%d", io, cpu)
	}
}
