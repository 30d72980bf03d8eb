package mailcheck

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/inbucket/mailcheck/pkg/config"
	"github.com/inbucket/mailcheck/pkg/rest/model"
	"github.com/rs/zerolog"
)

// fakeInbucket serves the subset of the Inbucket v1 REST API used by Helper.
type fakeInbucket struct {
	mu         sync.Mutex
	messages   map[string][]*model.JSONMessageV1
	sources    map[string]string // keyed by message ID
	listCalls  map[string]int
	deletes    []string
	requestIDs []string
	failList   bool
	listDelay  time.Duration
	server     *httptest.Server
}

func newFakeInbucket(t *testing.T) *fakeInbucket {
	t.Helper()
	f := &fakeInbucket{
		messages:  make(map[string][]*model.JSONMessageV1),
		sources:   make(map[string]string),
		listCalls: make(map[string]int),
	}
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/mailbox/{name}", f.listHandler).Methods("GET")
	router.HandleFunc("/api/v1/mailbox/{name}", f.purgeHandler).Methods("DELETE")
	router.HandleFunc("/api/v1/mailbox/{name}/{id}", f.messageHandler).Methods("GET")
	router.HandleFunc("/api/v1/mailbox/{name}/{id}/source", f.sourceHandler).Methods("GET")
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

// deliver appends a message to mailbox, assigning the next sequential ID.
func (f *fakeInbucket) deliver(mailbox, text, html string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := mailbox + "-" + string(rune('a'+len(f.messages[mailbox])))
	f.messages[mailbox] = append(f.messages[mailbox], &model.JSONMessageV1{
		Mailbox: mailbox,
		ID:      id,
		Subject: "Subject " + id,
		Body:    &model.JSONMessageBodyV1{Text: text, HTML: html},
	})
	return id
}

func (f *fakeInbucket) setSource(id, source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources[id] = source
}

func (f *fakeInbucket) listCount(mailbox string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[mailbox]
}

func (f *fakeInbucket) recordRequest(req *http.Request) {
	if id := req.Header.Get("X-Request-ID"); id != "" {
		f.requestIDs = append(f.requestIDs, id)
	}
}

func (f *fakeInbucket) listHandler(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	delay := f.listDelay
	f.mu.Unlock()
	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordRequest(req)
	name := mux.Vars(req)["name"]
	f.listCalls[name]++
	if f.failList {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	headers := make([]*model.JSONMessageHeaderV1, 0)
	for _, m := range f.messages[name] {
		headers = append(headers, &model.JSONMessageHeaderV1{
			Mailbox: m.Mailbox,
			ID:      m.ID,
			Subject: m.Subject,
		})
	}
	_ = json.NewEncoder(w).Encode(headers)
}

func (f *fakeInbucket) messageHandler(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordRequest(req)
	vars := mux.Vars(req)
	for _, m := range f.messages[vars["name"]] {
		if m.ID == vars["id"] {
			_ = json.NewEncoder(w).Encode(m)
			return
		}
	}
	http.NotFound(w, req)
}

func (f *fakeInbucket) sourceHandler(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src, ok := f.sources[mux.Vars(req)["id"]]
	if !ok {
		http.NotFound(w, req)
		return
	}
	_, _ = w.Write([]byte(src))
}

func (f *fakeInbucket) purgeHandler(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordRequest(req)
	name := mux.Vars(req)["name"]
	f.deletes = append(f.deletes, name)
	delete(f.messages, name)
	_, _ = w.Write([]byte("OK"))
}

// conf returns a config pointing at the fake server with fast polling.
func (f *fakeInbucket) conf(t *testing.T) *config.Root {
	t.Helper()
	u, err := url.Parse(f.server.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	return &config.Root{
		Host:         host,
		Port:         port,
		WaitTimeout:  2 * time.Second,
		PollInterval: 10 * time.Millisecond,
		HTTPTimeout:  5 * time.Second,
	}
}

func newTestHelper(t *testing.T, f *fakeInbucket) *Helper {
	t.Helper()
	h, err := New(f.conf(t), WithLogger(zerolog.New(zerolog.NewTestWriter(t))))
	if err != nil {
		t.Fatal(err)
	}
	h.retryDelay = 10 * time.Millisecond
	return h
}

// fakeClock replaces wall clock and sleeping; sleeping advances the clock instantly.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	onTick func(total time.Duration)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) install(h *Helper) *fakeClock {
	h.now = c.Now
	h.sleep = c.Sleep
	return c
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	var total time.Duration
	for _, s := range c.sleeps {
		total += s
	}
	onTick := c.onTick
	c.mu.Unlock()
	if onTick != nil {
		onTick(total)
	}
	return nil
}
