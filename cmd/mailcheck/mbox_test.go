package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/inbucket/mailcheck/pkg/rest/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeFromLines(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "untouched", input: "Subject: hi\r\n\r\nbody\r\n", want: "Subject: hi\r\n\r\nbody\r\n"},
		{name: "from line", input: "a\r\nFrom here\r\nb", want: "a\r\n>From here\r\nb"},
		{name: "quoted from", input: ">From x\n>>From y\n", want: ">>From x\n>>>From y\n"},
		{name: "header not escaped", input: "From: admin@example.com\n", want: "From: admin@example.com\n"},
		{name: "mid line", input: "said From me\n", want: "said From me\n"},
		{name: "first line", input: "From the top", want: ">From the top"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(escapeFromLines([]byte(tc.input))))
		})
	}
}

func TestOutputMbox(t *testing.T) {
	router := mux.NewRouter()
	server := httptest.NewServer(router)
	defer server.Close()
	router.HandleFunc("/api/v1/mailbox/user1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"mailbox":"user1","id":"id1","from":"admin@example.com"}]`))
	})
	router.HandleFunc("/api/v1/mailbox/user1/id1/source", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Subject: hi\n\nFrom now on\n"))
	})

	c, err := client.New(server.URL)
	require.NoError(t, err)
	ctx := context.Background()
	headers, err := c.ListMailbox(ctx, "user1")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	err = outputMbox(ctx, buf, headers)
	require.NoError(t, err)

	assert.Equal(t, "From admin@example.com\nSubject: hi\n\n>From now on\n\n", buf.String())
}
