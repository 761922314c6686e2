package api

import (
	"encoding/json"
	"testing"
)

func TestParseFeedParams(t *testing.T) {
	a := &FeedAPI{maxLimit: 100}

	tests := []struct {
		name       string
		params     string
		wantUserID string
		wantLimit  int
		wantCursor string
		wantErr    bool
	}{
		{
			name:       "all fields",
			params:     `{"user_id": "u1", "limit": 50, "cursor": "p42"}`,
			wantUserID: "u1",
			wantLimit:  50,
			wantCursor: "p42",
		},
		{
			name:       "defaults applied",
			params:     `{"user_id": "u1"}`,
			wantUserID: "u1",
			wantLimit:  20,
			wantCursor: "",
		},
		{
			name:       "limit clamped to max",
			params:     `{"user_id": "u1", "limit": 5000}`,
			wantUserID: "u1",
			wantLimit:  100,
		},
		{
			name:       "limit clamped to min",
			params:     `{"user_id": "u1", "limit": -3}`,
			wantUserID: "u1",
			wantLimit:  1,
		},
		{
			name:    "missing user_id",
			params:  `{"limit": 10}`,
			wantErr: true,
		},
		{
			name:    "empty user_id",
			params:  `{"user_id": ""}`,
			wantErr: true,
		},
		{
			name:    "malformed params",
			params:  `[1, 2, 3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := a.parseFeedParams(json.RawMessage(tt.params))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				apiErr, ok := err.(*Error)
				if !ok {
					t.Fatalf("expected *Error, got %T", err)
				}
				if apiErr.Code != ErrInvalidParams {
					t.Errorf("error code = %d, want %d", apiErr.Code, ErrInvalidParams)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.userID != tt.wantUserID {
				t.Errorf("userID = %q, want %q", p.userID, tt.wantUserID)
			}
			if p.limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", p.limit, tt.wantLimit)
			}
			if tt.wantCursor != "" && p.cursor != tt.wantCursor {
				t.Errorf("cursor = %q, want %q", p.cursor, tt.wantCursor)
			}
		})
	}
}
