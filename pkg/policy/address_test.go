package policy_test

import (
	"testing"

	"github.com/inbucket/mailcheck/pkg/policy"
)

func TestMailboxFromAddress(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{input: "alice@example.com", want: "alice"},
		{input: "first.last@sub.example.com", want: "first.last"},
		{input: "user+tag@example.com", want: "user+tag"},
		{input: "odd@two@example.com", want: "odd"},
		{input: "nodomain", want: "nodomain"},
		{input: "@example.com", want: ""},
		{input: "", want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := policy.MailboxFromAddress(tc.input)
			if got != tc.want {
				t.Errorf("Got %q for %q, want: %q", got, tc.input, tc.want)
			}
		})
	}
}
