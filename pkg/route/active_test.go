package route

import "testing"

func TestIsActiveWithParams(t *testing.T) {
	if !IsActive("/users/42", "/users/:id", map[string]string{"id": "42"}) {
		t.Error("exact param match reported inactive")
	}
	if IsActive("/users/42", "/users/:id", map[string]string{"id": "7"}) {
		t.Error("wrong param value reported active")
	}
}

func TestIsActiveSegmentWildcard(t *testing.T) {
	tests := []struct {
		current string
		pattern string
		want    bool
	}{
		{"/users/42", "/users/:id", true},
		{"/users/42/edit", "/users/:id", false},
		{"/users", "/users", true},
		{"/users/", "/users", true},
		{"/posts/42", "/users/:id", false},
		{"/", "/", true},
	}
	for _, tt := range tests {
		if got := IsActive(tt.current, tt.pattern, nil); got != tt.want {
			t.Errorf("IsActive(%q, %q) = %v, want %v", tt.current, tt.pattern, got, tt.want)
		}
	}
}

func TestIsActivePrefix(t *testing.T) {
	tests := []struct {
		current string
		pattern string
		params  map[string]string
		want    bool
	}{
		{"/users/42/edit", "/users/:id", nil, true},
		{"/users/42", "/users/:id", nil, true},
		{"/users", "/users/:id", nil, false},
		{"/users/42/edit", "/users/:id", map[string]string{"id": "42"}, true},
		{"/users/420", "/users/:id", map[string]string{"id": "42"}, false},
		{"/anything", "/", map[string]string{}, true},
	}
	for _, tt := range tests {
		if got := IsActivePrefix(tt.current, tt.pattern, tt.params); got != tt.want {
			t.Errorf("IsActivePrefix(%q, %q, %v) = %v, want %v", tt.current, tt.pattern, tt.params, got, tt.want)
		}
	}
}
