package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserToResponse_OmitsPasswordHash(t *testing.T) {
	u := User{ID: 7, Username: "alice", Email: "a@x.com", PasswordHash: "$argon2id$secret", Role: RoleUser}

	data, err := json.Marshal(u.ToResponse())
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if got := string(data); strings.Contains(got, "argon2id") || strings.Contains(got, "secret") {
		t.Errorf("response leaks password hash: %s", got)
	}
}

func TestTaskToResponse_DueDate(t *testing.T) {
	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	withDate := Task{ID: 1, Title: "t", DueDate: &due}.ToResponse()
	if withDate.DueDate != "2026-03-14" {
		t.Errorf("DueDate = %q, want %q", withDate.DueDate, "2026-03-14")
	}

	withoutDate := Task{ID: 2, Title: "t"}.ToResponse()
	if withoutDate.DueDate != "" {
		t.Errorf("DueDate = %q, want empty", withoutDate.DueDate)
	}
}
