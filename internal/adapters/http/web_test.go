package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	emailAdapter "komunitas/internal/adapters/email"
	"komunitas/internal/adapters/geo"
	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/adapters/http/perf"
	"komunitas/internal/adapters/storage/collection"
	"komunitas/internal/adapters/storage/slot"
	"komunitas/internal/application/forms"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/application/projections"
	"komunitas/internal/domain/account"
	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/review"
)

func init() {
	account.PasswordCost = bcrypt.MinCost
}

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// mockSender records decision notices.
type mockSender struct {
	mu   sync.Mutex
	sent []emailAdapter.SendRequest
}

// Send implements emailAdapter.Sender.
// PRE: none
// POST: req is recorded
func (m *mockSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: "msg", SentAt: testNow}, nil
}

// SendBatch implements emailAdapter.Sender.
// PRE: none
// POST: every request is recorded
func (m *mockSender) SendBatch(ctx context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	out := make([]emailAdapter.SendResult, 0, len(reqs))
	for _, r := range reqs {
		res, _ := m.Send(ctx, r)
		out = append(out, res)
	}
	return out, nil
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func seqIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type testServer struct {
	srv      *Server
	stores   *collection.Stores
	sessions *middleware.SessionStore
	sender   *mockSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	stores := collection.NewStores(slot.NewMemoryStore())
	now := func() time.Time { return testNow }
	ad := orchestrators.AuditDeps{AuditLog: stores.AuditLog, GenerateID: seqIDs("evt"), Now: now}
	registry := forms.NewRegistry(forms.RegistryDeps{
		Backend: forms.OrchestratorBackend{
			Activity: orchestrators.ActivityDeps{Activities: stores.Activities, AuditDeps: ad},
			Cashflow: orchestrators.CashflowDeps{Cashflow: stores.Cashflow, AuditDeps: ad},
		},
		Locator:       geo.DeviceFirst(geo.StaticLocator{Coords: geo.Coordinates{Lat: -6.2, Lng: 106.8}}),
		LocateTimeout: time.Second,
		GenerateID:    seqIDs("form"),
		Now:           now,
	})
	ts := &testServer{
		stores:   stores,
		sessions: middleware.NewSessionStore(nil),
		sender:   &mockSender{},
	}
	srv, err := NewServer(Deps{
		Stores:   stores,
		Forms:    registry,
		Sessions: ts.sessions,
		Perf:     perf.NewCollector(100),
		Notify:   orchestrators.NotifyDeps{EmailSender: ts.sender, FromAddress: "noreply@komunitas.id", OrgName: "Komunitas"},
		Now:      now,
	}, Config{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.Close)
	ts.srv = srv
	return ts
}

// session returns a cookie for a signed-in operator with role.
func (ts *testServer) session(t *testing.T, role string) *http.Cookie {
	t.Helper()
	token, err := ts.sessions.Create("acc-"+role, role+"@komunitas.id", role)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func (ts *testServer) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	ts.srv.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body %q)", v, err, rr.Body.String())
	}
	return v
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("GET", "/healthz", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestAccessControl(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.session(t, account.RoleStaff)
	admin := ts.session(t, account.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		cookie *http.Cookie
		want   int
	}{
		{"public agenda", "GET", "/api/public/activities", nil, http.StatusOK},
		{"public map", "GET", "/api/activities/map", nil, http.StatusOK},
		{"ledger needs a session", "GET", "/api/cashflow", nil, http.StatusUnauthorized},
		{"staff reads ledger", "GET", "/api/cashflow", staff, http.StatusOK},
		{"staff cannot decide", "POST", "/api/donations/don-1/status", staff, http.StatusForbidden},
		{"staff cannot see audit", "GET", "/api/admin/audit", staff, http.StatusForbidden},
		{"admin sees audit", "GET", "/api/admin/audit", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := ts.do(tt.method, tt.path, "", tt.cookie); rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestActivities_CRUD(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.session(t, account.RoleStaff)

	rr := ts.do("POST", "/api/activities", `{"title":"Kerja Bakti","description":"**Bawa** sapu","date":"2026-03-08","participants":"12"}`, staff)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rr.Code, rr.Body)
	}
	created := decode[activity.Activity](t, rr)
	if created.Participants != 12 || created.Status != activity.StatusUpcoming {
		t.Errorf("created = %+v", created)
	}

	list := decode[projections.ActivityListResult](t, ts.do("GET", "/api/activities?per_page=5", "", staff))
	if list.Page.Total != 7 || list.Activities[0].ID != created.ID {
		t.Errorf("list total %d first %q, want 7 and the new activity first", list.Page.Total, list.Activities[0].ID)
	}

	detail := decode[activityDetail](t, ts.do("GET", "/api/activities/"+created.ID, "", staff))
	if !strings.Contains(detail.DescriptionHTML, "<strong>Bawa</strong>") {
		t.Errorf("descriptionHtml = %q", detail.DescriptionHTML)
	}

	rr = ts.do("PUT", "/api/activities/"+created.ID, `{"title":"Kerja Bakti RW 05","status":"ongoing","participants":"abc"}`, staff)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d body %s", rr.Code, rr.Body)
	}
	if got := decode[activity.Activity](t, rr); got.Title != "Kerja Bakti RW 05" || got.Participants != 0 || got.Date != "" {
		t.Errorf("update should replace every field and coerce participants: %+v", got)
	}

	if rr := ts.do("DELETE", "/api/activities/"+created.ID, "", staff); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}
	if rr := ts.do("GET", "/api/activities/"+created.ID, "", staff); rr.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d", rr.Code)
	}
}

func TestActivities_MissingIDAndValidation(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.session(t, account.RoleStaff)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"update missing", "PUT", "/api/activities/nope", `{"title":"x","status":"upcoming"}`, http.StatusNotFound},
		{"delete missing", "DELETE", "/api/activities/nope", "", http.StatusNoContent},
		{"empty title", "POST", "/api/activities", `{"title":"  "}`, http.StatusBadRequest},
		{"unknown status", "POST", "/api/activities", `{"title":"x","status":"cancelled"}`, http.StatusBadRequest},
		{"unknown field", "POST", "/api/activities", `{"title":"x","colour":"red"}`, http.StatusBadRequest},
		{"not json", "POST", "/api/activities", `title=x`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := ts.do(tt.method, tt.path, tt.body, staff); rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body)
			}
		})
	}

	all, _ := ts.stores.Activities.Read(context.Background())
	if len(all) != len(activity.DefaultActivities()) {
		t.Errorf("rejected requests must not write; have %d activities", len(all))
	}
}

func TestCashflow_ListAndSummary(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.session(t, account.RoleStaff)

	list := decode[projections.CashflowListResult](t, ts.do("GET", "/api/cashflow?type=expense&sort=amount&dir=desc", "", staff))
	if len(list.Items) != 3 || list.Items[0].ID != "cf-4" {
		t.Errorf("expense by amount desc = %+v", list.Items)
	}
	if list.Totals.Balance != 8100000 {
		t.Errorf("balance = %d, want 8100000 over the whole ledger", list.Totals.Balance)
	}

	rr := ts.do("POST", "/api/cashflow", `{"title":"Infaq Jumat","amount":"150000","type":"income","category":"Donasi","date":"2026-02-27"}`, staff)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rr.Code, rr.Body)
	}
	summary := decode[projections.CashflowSummary](t, ts.do("GET", "/api/cashflow/summary", "", staff))
	if summary.Totals.Income != 14650000 {
		t.Errorf("income = %d, want 14650000", summary.Totals.Income)
	}
	if last := summary.Monthly[len(summary.Monthly)-1]; last.Month != "2026-02" || last.Income != 150000 {
		t.Errorf("latest month = %+v", last)
	}
}

func TestDonations_Review(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.session(t, account.RoleAdmin)

	rr := ts.do("POST", "/api/donations", `{"name":"Budi","email":"budi@mail.com","phone":"0812","amount":"100000"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("pledge status = %d body %s", rr.Code, rr.Body)
	}
	pledge := decode[donation.Request](t, rr)
	if pledge.Status != review.StatusPending || pledge.Amount != 100000 {
		t.Errorf("pledge = %+v", pledge)
	}

	path := "/api/donations/" + pledge.ID + "/status"
	rr = ts.do("POST", path, `{"status":"approved"}`, admin)
	if rr.Code != http.StatusOK || !decode[statusResponse](t, rr).Changed {
		t.Fatalf("approve status = %d body %s", rr.Code, rr.Body)
	}
	rr = ts.do("POST", path, `{"status":"approved"}`, admin)
	if rr.Code != http.StatusOK || decode[statusResponse](t, rr).Changed {
		t.Errorf("repeat should be an unchanged 200, got %d %s", rr.Code, rr.Body)
	}
	if rr := ts.do("POST", path, `{"status":"rejected"}`, admin); rr.Code != http.StatusConflict {
		t.Errorf("flip status = %d, want 409", rr.Code)
	}
	if rr := ts.do("POST", path, `{"status":"maybe"}`, admin); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid status = %d, want 400", rr.Code)
	}
	if rr := ts.do("POST", "/api/donations/nope/status", `{"status":"approved"}`, admin); rr.Code != http.StatusNotFound {
		t.Errorf("missing = %d, want 404", rr.Code)
	}
	if ts.sender.count() != 1 {
		t.Errorf("sent %d notices, want 1", ts.sender.count())
	}

	list := decode[projections.DonationListResult](t, ts.do("GET", "/api/donations?status=approved", "", admin))
	if list.Counts.Approved != 2 || list.Pledged != 600000 {
		t.Errorf("counts = %+v pledged %d", list.Counts, list.Pledged)
	}
}

func TestVolunteers_CreateAndDelete(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.session(t, account.RoleAdmin)

	rr := ts.do("POST", "/api/volunteers", `{"name":"Rina","email":"rina@mail.com","skills":["Medis"],"motivation":"Membantu"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("sign-up status = %d body %s", rr.Code, rr.Body)
	}
	list := decode[projections.VolunteerListResult](t, ts.do("GET", "/api/volunteers?q=medis", "", admin))
	if list.Page.Total == 0 || list.Volunteers[0].Name != "Rina" {
		t.Errorf("skill search = %+v", list.Volunteers)
	}
	if rr := ts.do("DELETE", "/api/volunteers/"+list.Volunteers[0].ID, "", admin); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}
}

func TestSubmissions_ApproveAndReject(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.session(t, account.RoleAdmin)

	rr := ts.do("POST", "/api/submissions", `{"type":"cashflow","title":"Kas RT","submittedBy":"Pak RT","amount":"75000","cashflowType":"income","category":"Donasi"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body %s", rr.Code, rr.Body)
	}

	queue := decode[projections.SubmissionListResult](t, ts.do("GET", "/api/admin/submissions", "", admin))
	if queue.Pending != 5 {
		t.Fatalf("pending = %d, want 5", queue.Pending)
	}
	newest := queue.Submissions[0]

	rr = ts.do("POST", "/api/admin/submissions/"+newest.ID+"/approve", "", admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve status = %d body %s", rr.Code, rr.Body)
	}
	approved := decode[orchestrators.ApproveResult](t, rr)
	item := decode[cashflow.Item](t, ts.do("GET", "/api/cashflow/"+approved.RecordID, "", admin))
	if item.Amount != 75000 || item.Type != cashflow.TypeIncome {
		t.Errorf("approved item = %+v", item)
	}

	if rr := ts.do("POST", "/api/admin/submissions/sub-4/reject", "", admin); rr.Code != http.StatusOK {
		t.Errorf("reject status = %d", rr.Code)
	}
	if rr := ts.do("POST", "/api/admin/submissions/sub-4/reject", "", admin); rr.Code != http.StatusNotFound {
		t.Errorf("second reject status = %d, want 404", rr.Code)
	}
	queue = decode[projections.SubmissionListResult](t, ts.do("GET", "/api/admin/submissions", "", admin))
	if queue.Pending != 3 {
		t.Errorf("pending after decisions = %d, want 3", queue.Pending)
	}
}

func TestReset_RestoresSeeds(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.session(t, account.RoleAdmin)

	ts.do("DELETE", "/api/activities/act-1", "", admin)
	ts.do("DELETE", "/api/cashflow/cf-1", "", admin)

	rr := ts.do("POST", "/api/admin/reset", "", admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rr.Code)
	}
	dash := decode[projections.DashboardResult](t, ts.do("GET", "/api/dashboard", "", admin))
	if dash.Totals.Income != 14500000 || dash.ActiveActivities != 3 {
		t.Errorf("dashboard after reset = %+v", dash)
	}

	log := decode[projections.AuditListResult](t, ts.do("GET", "/api/admin/audit?action=reset", "", admin))
	if len(log.Events) != 1 || log.Events[0].Collection != audit.CollectionSystem || log.Events[0].Actor != "admin@komunitas.id" {
		t.Errorf("reset audit = %+v", log.Events)
	}
}

func TestForms_EditLocateSubmit(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.session(t, account.RoleStaff)

	rr := ts.do("POST", "/api/forms", `{"entity":"activity","mode":"edit","id":"act-1"}`, staff)
	if rr.Code != http.StatusCreated {
		t.Fatalf("open status = %d body %s", rr.Code, rr.Body)
	}
	snap := decode[forms.Snapshot](t, rr)
	if snap.Activity.Title != "Bagi-bagi Takjil Ramadhan" {
		t.Errorf("seeded title = %q", snap.Activity.Title)
	}

	rr = ts.do("PATCH", "/api/forms/"+snap.ID, `{"participants":"40"}`, staff)
	if rr.Code != http.StatusOK || decode[forms.Snapshot](t, rr).Activity.Participants != 40 {
		t.Fatalf("patch status = %d body %s", rr.Code, rr.Body)
	}

	rr = ts.do("POST", "/api/forms/"+snap.ID+"/locate", `{"device":{"lat":-6.595,"lng":106.8166},"wait":true}`, staff)
	if rr.Code != http.StatusOK {
		t.Fatalf("locate status = %d body %s", rr.Code, rr.Body)
	}
	located := decode[forms.Snapshot](t, rr)
	if located.Locate.State != forms.LocateResolved || located.Activity.Location != "-6.595, 106.8166" {
		t.Errorf("locate = %+v location %q", located.Locate, located.Activity.Location)
	}

	rr = ts.do("POST", "/api/forms/"+snap.ID+"/submit", "", staff)
	if rr.Code != http.StatusOK || decode[submitResponse](t, rr).RecordID != "act-1" {
		t.Fatalf("submit status = %d body %s", rr.Code, rr.Body)
	}
	if rr := ts.do("GET", "/api/forms/"+snap.ID, "", staff); rr.Code != http.StatusNotFound {
		t.Errorf("submitted form should be gone, got %d", rr.Code)
	}

	pins := decode[[]projections.MapPin](t, ts.do("GET", "/api/activities/map", "", nil))
	found := false
	for _, p := range pins {
		found = found || p.ID == "act-1"
	}
	if !found {
		t.Error("located activity should appear on the map")
	}
}

func TestForms_DeniedAndReadOnly(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.session(t, account.RoleStaff)

	snap := decode[forms.Snapshot](t, ts.do("POST", "/api/forms", `{"entity":"activity","mode":"create"}`, staff))
	rr := ts.do("POST", "/api/forms/"+snap.ID+"/locate", `{"deviceError":"denied","wait":true}`, staff)
	denied := decode[forms.Snapshot](t, rr)
	if denied.Locate.State != forms.LocateFailed || denied.Locate.Notice == "" {
		t.Errorf("denied lookup = %+v", denied.Locate)
	}
	ts.do("DELETE", "/api/forms/"+snap.ID, "", staff)

	view := decode[forms.Snapshot](t, ts.do("POST", "/api/forms", `{"entity":"cashflow","mode":"view","id":"cf-2"}`, staff))
	if !view.ReadOnly {
		t.Error("view form should be read-only")
	}
	if rr := ts.do("PATCH", "/api/forms/"+view.ID, `{"title":"x"}`, staff); rr.Code != http.StatusConflict {
		t.Errorf("patch view status = %d, want 409", rr.Code)
	}
	if rr := ts.do("POST", "/api/forms/"+view.ID+"/submit", "", staff); rr.Code != http.StatusConflict {
		t.Errorf("submit view status = %d, want 409", rr.Code)
	}
	if rr := ts.do("POST", "/api/forms", `{"entity":"activity","mode":"edit","id":"nope"}`, staff); rr.Code != http.StatusNotFound {
		t.Errorf("open missing target status = %d, want 404", rr.Code)
	}
	if rr := ts.do("POST", "/api/forms", `{"entity":"member","mode":"create"}`, staff); rr.Code != http.StatusBadRequest {
		t.Errorf("open bad entity status = %d, want 400", rr.Code)
	}
}

func TestLoginLogout(t *testing.T) {
	ts := newTestServer(t)
	deps := orchestrators.CreateAccountDeps{
		Accounts:  ts.stores.Accounts,
		AuditDeps: orchestrators.AuditDeps{GenerateID: func() string { return "acc-1" }},
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), deps, "admin@komunitas.id", "rahasia-sekali-123"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	if rr := ts.do("POST", "/api/login", `{"email":"admin@komunitas.id","password":"salah-sekali-123"}`, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rr.Code)
	}

	rr := ts.do("POST", "/api/login", `{"email":"ADMIN@komunitas.id","password":"rahasia-sekali-123"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d body %s", rr.Code, rr.Body)
	}
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie")
	}
	if rr := ts.do("GET", "/api/admin/submissions", "", cookie); rr.Code != http.StatusOK {
		t.Errorf("admin route with fresh session = %d", rr.Code)
	}

	ts.do("POST", "/api/logout", "", cookie)
	if rr := ts.do("GET", "/api/admin/submissions", "", cookie); rr.Code != http.StatusUnauthorized {
		t.Errorf("after logout = %d, want 401", rr.Code)
	}
}

func TestAccounts_CreateAndChangePassword(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.session(t, account.RoleAdmin)

	if rr := ts.do("POST", "/api/admin/accounts", `{"email":"staf@komunitas.id","password":"pendek","role":"staff"}`, admin); rr.Code != http.StatusBadRequest {
		t.Errorf("short password status = %d, want 400", rr.Code)
	}
	rr := ts.do("POST", "/api/admin/accounts", `{"email":"staf@komunitas.id","password":"rahasia-sekali-123","role":"staff"}`, admin)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rr.Code, rr.Body)
	}
	if rr := ts.do("POST", "/api/admin/accounts", `{"email":"staf@komunitas.id","password":"rahasia-sekali-123","role":"staff"}`, admin); rr.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rr.Code)
	}

	rr = ts.do("POST", "/api/login", `{"email":"staf@komunitas.id","password":"rahasia-sekali-123"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d", rr.Code)
	}
	var staff *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			staff = c
		}
	}
	if staff == nil {
		t.Fatal("no session cookie")
	}
	if rr := ts.do("POST", "/api/admin/accounts", `{"email":"lain@komunitas.id","password":"rahasia-sekali-123","role":"staff"}`, staff); rr.Code != http.StatusForbidden {
		t.Errorf("staff creating accounts = %d, want 403", rr.Code)
	}

	tests := []struct {
		body string
		want int
	}{
		{`{"currentPassword":"salah-sekali-123","newPassword":"baru-sekali-4567"}`, http.StatusBadRequest},
		{`{"currentPassword":"rahasia-sekali-123","newPassword":"rahasia-sekali-123"}`, http.StatusBadRequest},
		{`{"currentPassword":"rahasia-sekali-123","newPassword":"baru-sekali-4567"}`, http.StatusNoContent},
	}
	for _, tt := range tests {
		if rr := ts.do("POST", "/api/account/password", tt.body, staff); rr.Code != tt.want {
			t.Errorf("change password %s = %d, want %d", tt.body, rr.Code, tt.want)
		}
	}
	if rr := ts.do("POST", "/api/login", `{"email":"staf@komunitas.id","password":"baru-sekali-4567"}`, nil); rr.Code != http.StatusOK {
		t.Errorf("login with new password = %d", rr.Code)
	}
}

func TestPerf_RecordsRoutes(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.session(t, account.RoleAdmin)

	ts.do("GET", "/api/activities/act-1", "", admin)
	ts.do("GET", "/api/activities/act-2", "", admin)

	snap := decode[perf.Snapshot](t, ts.do("GET", "/api/admin/perf", "", admin))
	for _, r := range snap.SlowestRoutes {
		if r.Name == "GET /api/activities/{id}" && r.Count == 2 {
			return
		}
	}
	t.Errorf("routes = %+v, want GET /api/activities/{id} x2", snap.SlowestRoutes)
}

func TestLoadCSRFKey(t *testing.T) {
	if _, err := LoadCSRFKey("", true); err != ErrCSRFKeyRequired {
		t.Errorf("production without key err = %v", err)
	}
	if _, err := LoadCSRFKey("abcd", false); err == nil {
		t.Error("short key should fail")
	}
	key, err := LoadCSRFKey(strings.Repeat("ab", 32), true)
	if err != nil || len(key) != 32 {
		t.Errorf("valid key = %d bytes, err %v", len(key), err)
	}
	if key, err := LoadCSRFKey("", false); err != nil || len(key) != 32 {
		t.Errorf("dev key = %d bytes, err %v", len(key), err)
	}
}
