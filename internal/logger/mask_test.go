package logger

import (
	"net/http"
	"testing"
)

func TestMaskAuthorization(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"Bearer abcdef1234": "Bearer ****1234",
		"rawtoken99":        "****en99",
		"abc":               "****abc",
	}
	for in, want := range cases {
		if got := MaskAuthorization(in); got != want {
			t.Fatalf("MaskAuthorization(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secrettoken")
	h.Set("Cookie", "session=abcdefgh")
	h.Set("Accept", "application/json")

	got := MaskHeaders(h)
	if got["Authorization"] != "Bearer ****oken" {
		t.Fatalf("unexpected authorization %q", got["Authorization"])
	}
	if got["Cookie"] != "****efgh" {
		t.Fatalf("unexpected cookie %q", got["Cookie"])
	}
	if got["Accept"] != "application/json" {
		t.Fatalf("unexpected accept %q", got["Accept"])
	}
}

func TestMaskEmail(t *testing.T) {
	if got := MaskEmail("alice@example.com"); got != "a***@example.com" {
		t.Fatalf("unexpected %q", got)
	}
	if got := MaskEmail("nope"); got != "****nope" {
		t.Fatalf("unexpected %q", got)
	}
}
