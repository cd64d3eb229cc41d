package models

import "testing"

func TestVerdictPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all passed", []Status{StatusPassed, StatusPassed}, StatusPassed},
		{"one failed", []Status{StatusPassed, StatusFailed}, StatusFailed},
		{"errored beats failed", []Status{StatusFailed, StatusErrored}, StatusErrored},
		{"canceled beats errored", []Status{StatusErrored, StatusCanceled}, StatusCanceled},
		{"empty run passes", nil, StatusPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := make([]JobResult, len(tt.statuses))
			for i, s := range tt.statuses {
				jobs[i] = JobResult{Name: "job", Status: s}
			}
			if got := Verdict(jobs); got != tt.want {
				t.Errorf("Verdict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceAddr(t *testing.T) {
	svc := Service{Name: "mongodb", Port: 27017}
	if got := svc.Addr(); got != "localhost:27017" {
		t.Errorf("Addr() = %q, want localhost:27017", got)
	}

	svc.Host = "10.0.0.5"
	if got := svc.Addr(); got != "10.0.0.5:27017" {
		t.Errorf("Addr() = %q, want 10.0.0.5:27017", got)
	}
}
