package reputation

import (
	"math/big"
	"testing"
)

func TestRecordRewardProofCaps(t *testing.T) {
	record := NewRecord()
	if record.Score != InitialScore {
		t.Fatalf("initial score = %d, want %d", record.Score, InitialScore)
	}
	for i := 0; i < 200; i++ {
		record.RewardProof()
	}
	if record.Score != MaxScore {
		t.Fatalf("score must cap at %d, got %d", MaxScore, record.Score)
	}
}

func TestRecordApplyReportFloorsAtZero(t *testing.T) {
	record := NewRecord()
	for i := 0; i < 10; i++ {
		record.ApplyReport()
	}
	if record.Score != 0 {
		t.Fatalf("score must floor at zero, got %d", record.Score)
	}
	if record.ViolationCount != 10 {
		t.Fatalf("violation count = %d, want 10", record.ViolationCount)
	}
}

func TestRecordApplyReportSlashThreshold(t *testing.T) {
	record := NewRecord()
	for i := 1; i <= SlashThreshold*2; i++ {
		slash := record.ApplyReport()
		expect := i%SlashThreshold == 0
		if slash != expect {
			t.Fatalf("report %d: slash=%v, want %v", i, slash, expect)
		}
	}
}

func TestSlashAmount(t *testing.T) {
	if got := SlashAmount(big.NewInt(1000)); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("slash of 1000 = %s, want 100", got)
	}
	if got := SlashAmount(big.NewInt(5)); got.Sign() != 0 {
		t.Fatalf("tiny stakes truncate to zero, got %s", got)
	}
	if got := SlashAmount(nil); got.Sign() != 0 {
		t.Fatalf("nil stake slashes zero")
	}
}

func TestNewViolationReport(t *testing.T) {
	var nodeID [32]byte
	var owner, reporter [20]byte
	reporter[0] = 1
	report, err := NewViolationReport(nodeID, owner, reporter, "  dropped messages  ", 99)
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	if report.Reason != "dropped messages" {
		t.Fatalf("reason not trimmed: %q", report.Reason)
	}
	if report.ID == "" {
		t.Fatalf("report id must be assigned")
	}
	if _, err := NewViolationReport(nodeID, owner, reporter, "   ", 99); err != ErrEmptyReason {
		t.Fatalf("expected empty reason error, got %v", err)
	}
}
