package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/voting-service/internal/api/http/handlers"
	"github.com/spec-kit/voting-service/internal/auth"
	"github.com/spec-kit/voting-service/internal/config"
	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/imagehost"
	"github.com/spec-kit/voting-service/internal/observability"
	"github.com/spec-kit/voting-service/internal/persistence"
	"github.com/spec-kit/voting-service/internal/service"
)

type testEnv struct {
	app      *fiber.App
	metrics  *observability.Metrics
	accounts *service.AccountService
	imageURL string
	failWith int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}

	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.failWith != 0 {
			w.WriteHeader(env.failWith)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"secure_url": env.imageURL})
	}))
	t.Cleanup(host.Close)
	env.imageURL = host.URL + "/img/photo.png"

	logger := zap.NewNop()
	stores := persistence.NewStores(&persistence.Postgres{}, &persistence.Redis{}, 0)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	env.metrics = metrics
	authCfg := config.AuthConfig{JWTSecret: "router-test", AccessTokenTTLMinutes: 5, BcryptCost: bcrypt.MinCost}

	authService := service.NewAuthService(authCfg, service.AuthDependencies{AdminRepo: stores.Admins, VoterRepo: stores.Voters, Denylist: stores.Denylist})
	env.accounts = service.NewAccountService(service.AccountDependencies{
		AdminRepo:  stores.Admins,
		VoterRepo:  stores.Voters,
		Dispatcher: dispatcher,
		BcryptCost: authCfg.BcryptCost,
	})
	candidates := service.NewCandidateService(service.CandidateDependencies{
		CandidateRepo: stores.Candidates,
		Uploader:      imagehost.NewHTTPUploader(config.ImageHostConfig{UploadURL: host.URL, UploadPreset: "p", TimeoutSeconds: 5}, logger),
		MaxImageBytes: 1 << 20,
		Dispatcher:    dispatcher,
	})
	ballots := service.NewBallotService(service.BallotDependencies{
		CandidateRepo:  stores.Candidates,
		VoterRepo:      stores.Voters,
		SelectionStore: stores.Selections,
		Dispatcher:     dispatcher,
		MaxSelections:  2,
	})

	env.app = NewApp("voting-service", 0)
	RegisterMiddlewares(env.app, logger, metrics, 0)
	RegisterRoutes(env.app, RouteConfig{
		Health:         handlers.NewHealthHandler("voting-service", "test", &persistence.Postgres{}, &persistence.Redis{}, metrics),
		Auth:           handlers.NewAuthHandler(authService, false),
		Candidates:     handlers.NewCandidatesHandler(candidates, logger),
		Accounts:       handlers.NewAccountsHandler(env.accounts),
		Ballot:         handlers.NewBallotHandler(ballots, candidates),
		Dashboard:      handlers.NewDashboardHandler(service.NewTallyService(stores.Candidates, stores.Voters)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), stores.Denylist, stores.Admins, stores.Voters),
	})

	if _, err := env.accounts.CreateAdmin(context.Background(), "", "root", "rootpw"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	return env
}

type response struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    map[string]any
}

func (env *testEnv) do(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := response{status: resp.StatusCode, header: resp.Header, cookies: resp.Cookies()}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := json.Unmarshal(raw, &out.body); err != nil {
			t.Fatalf("decode %s: %v (%s)", req.URL.Path, err, raw)
		}
	}
	return out
}

func jsonRequest(method, path string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func candidateForm(t *testing.T, method, path, name string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	_ = form.WriteField("name", name)
	_ = form.WriteField("description", name+" for council")
	if withImage {
		part, err := form.CreateFormFile("image", strings.ToLower(name)+".png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write([]byte("\x89PNG fake image bytes"))
	}
	_ = form.Close()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, form.FormDataContentType())
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

func withCookie(req *http.Request, c *http.Cookie) *http.Request {
	req.AddCookie(c)
	return req
}

func errorCode(r response) string {
	e, _ := r.body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func data(r response) map[string]any {
	d, _ := r.body["data"].(map[string]any)
	return d
}

func (env *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	resp := env.do(t, jsonRequest(http.MethodPost, "/auth/admin/login", map[string]string{"username": "root", "password": "rootpw"}))
	if resp.status != http.StatusOK {
		t.Fatalf("admin login status %d: %v", resp.status, resp.body)
	}
	for _, c := range resp.cookies {
		if c.Name == auth.SessionCookie {
			if !c.HttpOnly {
				t.Fatal("session cookie must be HttpOnly")
			}
			return &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	t.Fatal("admin login did not set session cookie")
	return nil
}

func (env *testEnv) voterToken(t *testing.T, username string) string {
	t.Helper()
	resp := env.do(t, jsonRequest(http.MethodPost, "/auth/voter/login", map[string]string{"username": username, "password": "pw"}))
	if resp.status != http.StatusOK {
		t.Fatalf("voter login status %d: %v", resp.status, resp.body)
	}
	authData, _ := data(resp)["auth"].(map[string]any)
	token, _ := authData["token"].(string)
	if token == "" {
		t.Fatalf("missing voter token in %v", resp.body)
	}
	return token
}

func (env *testEnv) createCandidate(t *testing.T, cookie *http.Cookie, name string) string {
	t.Helper()
	resp := env.do(t, withCookie(candidateForm(t, http.MethodPost, "/admin/candidates", name, true), cookie))
	if resp.status != http.StatusCreated {
		t.Fatalf("create candidate status %d: %v", resp.status, resp.body)
	}
	id, _ := data(resp)["id"].(string)
	return id
}

func TestHealthAndUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(t, httptest.NewRequest(http.MethodGet, "/health/live", nil)); resp.status != http.StatusOK {
		t.Fatalf("live status %d", resp.status)
	}
	ready := env.do(t, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if ready.status != http.StatusOK {
		t.Fatalf("ready status %d: %v", ready.status, ready.body)
	}

	missing := env.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if missing.status != http.StatusNotFound || errorCode(missing) != "NOT_FOUND" {
		t.Fatalf("unexpected unknown route response %d %v", missing.status, missing.body)
	}

	metrics := env.do(t, httptest.NewRequest(http.MethodGet, "/health/metrics", nil))
	if metrics.status != http.StatusOK || data(metrics)["requests"] == nil {
		t.Fatalf("unexpected metrics response %d %v", metrics.status, metrics.body)
	}
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)

	browser := httptest.NewRequest(http.MethodGet, "/admin/candidates", nil)
	browser.Header.Set(fiber.HeaderAccept, "text/html,application/xhtml+xml")
	resp := env.do(t, browser)
	if resp.status != http.StatusSeeOther || resp.header.Get(fiber.HeaderLocation) != AdminLoginPath {
		t.Fatalf("expected redirect to login, got %d %q", resp.status, resp.header.Get(fiber.HeaderLocation))
	}

	api := env.do(t, httptest.NewRequest(http.MethodGet, "/admin/candidates", nil))
	if api.status != http.StatusUnauthorized || errorCode(api) != "UNAUTHORIZED" {
		t.Fatalf("expected 401 JSON, got %d %v", api.status, api.body)
	}

	login := env.do(t, httptest.NewRequest(http.MethodGet, AdminLoginPath, nil))
	if login.status != http.StatusOK {
		t.Fatalf("login page status %d", login.status)
	}

	bad := env.do(t, jsonRequest(http.MethodPost, "/auth/admin/login", map[string]string{"username": "root", "password": "wrong"}))
	if bad.status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", bad.status)
	}

	cookie := env.adminCookie(t)
	ok := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/dashboard/tally", nil), cookie))
	if ok.status != http.StatusOK {
		t.Fatalf("dashboard with cookie: %d %v", ok.status, ok.body)
	}

	if _, err := env.accounts.CreateVoter(context.Background(), "", "alice", "pw"); err != nil {
		t.Fatalf("CreateVoter: %v", err)
	}
	voter := env.voterToken(t, "alice")
	forbidden := env.do(t, withBearer(httptest.NewRequest(http.MethodGet, "/admin/accounts", nil), voter))
	if forbidden.status != http.StatusForbidden {
		t.Fatalf("voter on admin route: %d", forbidden.status)
	}

	anonymous := env.do(t, httptest.NewRequest(http.MethodPost, "/auth/admin/logout", nil))
	if anonymous.status != http.StatusNoContent {
		t.Fatalf("anonymous logout status %d", anonymous.status)
	}

	logout := env.do(t, withCookie(httptest.NewRequest(http.MethodPost, "/auth/admin/logout", nil), cookie))
	if logout.status != http.StatusNoContent {
		t.Fatalf("logout status %d", logout.status)
	}
	reused := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/dashboard/tally", nil), cookie))
	if reused.status != http.StatusUnauthorized {
		t.Fatalf("cookie reused after logout: %d %v", reused.status, reused.body)
	}
	fresh := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/dashboard/tally", nil), env.adminCookie(t)))
	if fresh.status != http.StatusOK {
		t.Fatalf("new session after logout: %d %v", fresh.status, fresh.body)
	}

	if resp := env.do(t, withBearer(httptest.NewRequest(http.MethodPost, "/auth/voter/logout", nil), voter)); resp.status != http.StatusNoContent {
		t.Fatalf("voter logout status %d", resp.status)
	}
	if resp := env.do(t, withBearer(httptest.NewRequest(http.MethodGet, "/ballot", nil), voter)); resp.status != http.StatusUnauthorized {
		t.Fatalf("voter token reused after logout: %d %v", resp.status, resp.body)
	}
	if resp := env.do(t, httptest.NewRequest(http.MethodPost, "/auth/voter/logout", nil)); resp.status != http.StatusUnauthorized {
		t.Fatalf("voter logout without token: %d", resp.status)
	}
}

func TestCandidateAdministration(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	id := env.createCandidate(t, cookie, "Alice")

	list := env.do(t, httptest.NewRequest(http.MethodGet, "/candidates", nil))
	items, _ := list.body["data"].([]any)
	if list.status != http.StatusOK || len(items) != 1 {
		t.Fatalf("public list: %d %v", list.status, list.body)
	}
	first, _ := items[0].(map[string]any)
	if first["image_url"] != env.imageURL {
		t.Fatalf("unexpected image url %v", first["image_url"])
	}

	noImage := env.do(t, withCookie(candidateForm(t, http.MethodPost, "/admin/candidates", "Bob", false), cookie))
	if noImage.status != http.StatusBadRequest || errorCode(noImage) != "VALIDATION_FAILED" {
		t.Fatalf("expected validation failure, got %d %v", noImage.status, noImage.body)
	}

	update := env.do(t, withCookie(candidateForm(t, http.MethodPut, "/admin/candidates/"+id, "Alicia", false), cookie))
	if update.status != http.StatusOK || data(update)["name"] != "Alicia" || data(update)["image_url"] != env.imageURL {
		t.Fatalf("update: %d %v", update.status, update.body)
	}

	fetched := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/candidates/"+id, nil), cookie))
	if fetched.status != http.StatusOK || data(fetched)["id"] != id || data(fetched)["name"] != "Alicia" {
		t.Fatalf("get: %d %v", fetched.status, fetched.body)
	}

	env.failWith = http.StatusBadRequest
	failed := env.do(t, withCookie(candidateForm(t, http.MethodPost, "/admin/candidates", "Carol", true), cookie))
	if failed.status != http.StatusBadGateway || errorCode(failed) != "UPLOAD_FAILED" {
		t.Fatalf("expected upload failure, got %d %v", failed.status, failed.body)
	}
	details, _ := failed.body["error"].(map[string]any)["details"].(map[string]any)
	if details["status"] != float64(http.StatusBadRequest) {
		t.Fatalf("expected details.status 400, got %v", details)
	}
	env.failWith = 0

	del := env.do(t, withCookie(httptest.NewRequest(http.MethodDelete, "/admin/candidates/"+id, nil), cookie))
	if del.status != http.StatusNoContent {
		t.Fatalf("delete status %d", del.status)
	}
	again := env.do(t, withCookie(httptest.NewRequest(http.MethodDelete, "/admin/candidates/"+id, nil), cookie))
	if again.status != http.StatusNotFound || errorCode(again) != "NOT_FOUND" {
		t.Fatalf("second delete: %d %v", again.status, again.body)
	}

	other := "7d3f0c1e-0000-4000-8000-000000000000"
	env.do(t, withCookie(httptest.NewRequest(http.MethodDelete, "/admin/candidates/"+other, nil), cookie))

	gone := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/candidates/"+id, nil), cookie))
	if gone.status != http.StatusNotFound || errorCode(gone) != "NOT_FOUND" {
		t.Fatalf("get after delete: %d %v", gone.status, gone.body)
	}

	errs := env.metrics.Snapshot().Errors
	if errs["/admin/candidates/:id|DELETE|NOT_FOUND"] != 2 {
		t.Fatalf("expected errors counted per route, got %v", errs)
	}
	for key := range errs {
		if strings.Contains(key, id) || strings.Contains(key, other) {
			t.Fatalf("error counter keyed on a raw id: %s", key)
		}
	}
}

func TestAccountAdministration(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	tests := []struct {
		name       string
		payload    map[string]string
		wantStatus int
		wantCode   string
	}{
		{"voter", map[string]string{"role": "voter", "username": "dan", "password": "pw"}, http.StatusCreated, ""},
		{"admin", map[string]string{"role": "admin", "username": "ops", "password": "pw"}, http.StatusCreated, ""},
		{"duplicate", map[string]string{"role": "voter", "username": "dan", "password": "pw"}, http.StatusConflict, "CONFLICT"},
		{"bad role", map[string]string{"role": "owner", "username": "eve", "password": "pw"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"missing password", map[string]string{"role": "voter", "username": "eve"}, http.StatusBadRequest, "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, withCookie(jsonRequest(http.MethodPost, "/admin/accounts", tt.payload), cookie))
			if resp.status != tt.wantStatus || (tt.wantCode != "" && errorCode(resp) != tt.wantCode) {
				t.Fatalf("got %d %v", resp.status, resp.body)
			}
		})
	}

	list := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/accounts", nil), cookie))
	admins, _ := data(list)["admins"].([]any)
	voters, _ := data(list)["voters"].([]any)
	if len(admins) != 2 || len(voters) != 1 {
		t.Fatalf("unexpected accounts %v", list.body)
	}
}

func TestBallotFlow(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)
	a := env.createCandidate(t, cookie, "A")
	b := env.createCandidate(t, cookie, "B")
	c := env.createCandidate(t, cookie, "C")

	ctx := context.Background()
	for _, name := range []string{"v1", "v2"} {
		if _, err := env.accounts.CreateVoter(ctx, "", name, "pw"); err != nil {
			t.Fatalf("CreateVoter: %v", err)
		}
	}
	v1 := env.voterToken(t, "v1")
	v2 := env.voterToken(t, "v2")

	for _, id := range []string{a, b} {
		resp := env.do(t, withBearer(httptest.NewRequest(http.MethodPost, "/ballot/selection/"+id, nil), v1))
		if resp.status != http.StatusOK {
			t.Fatalf("toggle %s: %d %v", id, resp.status, resp.body)
		}
	}
	capped := env.do(t, withBearer(httptest.NewRequest(http.MethodPost, "/ballot/selection/"+c, nil), v1))
	if capped.status != http.StatusUnprocessableEntity || errorCode(capped) != "SELECTION_CAP_EXCEEDED" {
		t.Fatalf("expected cap rejection, got %d %v", capped.status, capped.body)
	}

	view := env.do(t, withBearer(httptest.NewRequest(http.MethodGet, "/ballot", nil), v1))
	ballot, _ := data(view)["ballot"].(map[string]any)
	if ballot["state"] != "NOT_VOTED" || ballot["remaining"] != float64(0) {
		t.Fatalf("unexpected ballot view %v", view.body)
	}

	submit := env.do(t, withBearer(httptest.NewRequest(http.MethodPost, "/ballot/submit", nil), v1))
	if submit.status != http.StatusOK || data(submit)["state"] != "VOTED" {
		t.Fatalf("submit: %d %v", submit.status, submit.body)
	}
	resubmit := env.do(t, withBearer(jsonRequest(http.MethodPost, "/ballot/submit", map[string][]string{"candidate_ids": {c}}), v1))
	if resubmit.status != http.StatusConflict || errorCode(resubmit) != "ALREADY_VOTED" {
		t.Fatalf("expected already voted, got %d %v", resubmit.status, resubmit.body)
	}

	empty := env.do(t, withBearer(jsonRequest(http.MethodPost, "/ballot/submit", map[string][]string{"candidate_ids": {}}), v2))
	if empty.status != http.StatusUnprocessableEntity || errorCode(empty) != "EMPTY_SELECTION" {
		t.Fatalf("expected empty selection, got %d %v", empty.status, empty.body)
	}
	unknown := env.do(t, withBearer(jsonRequest(http.MethodPost, "/ballot/submit", map[string][]string{"candidate_ids": {"missing"}}), v2))
	if unknown.status != http.StatusUnprocessableEntity || errorCode(unknown) != "UNKNOWN_CANDIDATE" {
		t.Fatalf("expected unknown candidate, got %d %v", unknown.status, unknown.body)
	}
	direct := env.do(t, withBearer(jsonRequest(http.MethodPost, "/ballot/submit", map[string][]string{"candidate_ids": {b}}), v2))
	if direct.status != http.StatusOK {
		t.Fatalf("direct submit: %d %v", direct.status, direct.body)
	}

	receipt := env.do(t, withBearer(httptest.NewRequest(http.MethodGet, "/ballot/receipt", nil), v1))
	chosen, _ := data(receipt)["chosen"].([]any)
	notChosen, _ := data(receipt)["not_chosen"].([]any)
	if len(chosen) != 2 || len(notChosen) != 1 {
		t.Fatalf("unexpected receipt %v", receipt.body)
	}

	tally := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/dashboard/tally", nil), cookie))
	counts, _ := data(tally)["counts"].(map[string]any)
	if counts[a] != float64(1) || counts[b] != float64(2) || counts[c] != float64(0) {
		t.Fatalf("unexpected tally %v", tally.body)
	}
}

func TestBallotToggleKeepsEarlierPicks(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)
	a := env.createCandidate(t, cookie, "A")
	b := env.createCandidate(t, cookie, "B")
	if _, err := env.accounts.CreateVoter(context.Background(), "", "v1", "pw"); err != nil {
		t.Fatalf("CreateVoter: %v", err)
	}
	token := env.voterToken(t, "v1")

	for _, id := range []string{a, b} {
		resp := env.do(t, withBearer(httptest.NewRequest(http.MethodPost, "/ballot/selection/"+id, nil), token))
		if resp.status != http.StatusOK {
			t.Fatalf("toggle %s: %d %v", id, resp.status, resp.body)
		}
	}

	view := env.do(t, withBearer(httptest.NewRequest(http.MethodGet, "/ballot", nil), token))
	ballot, _ := data(view)["ballot"].(map[string]any)
	selection, _ := ballot["selection"].([]any)
	picked := map[any]bool{}
	for _, id := range selection {
		picked[id] = true
	}
	if len(selection) != 2 || !picked[a] || !picked[b] {
		t.Fatalf("expected both picks kept, got %v", ballot["selection"])
	}

	if resp := env.do(t, withBearer(httptest.NewRequest(http.MethodPost, "/ballot/submit", nil), token)); resp.status != http.StatusOK {
		t.Fatalf("submit: %d %v", resp.status, resp.body)
	}
	// Unrelated traffic reuses the request buffers.
	for i := 0; i < 3; i++ {
		env.do(t, httptest.NewRequest(http.MethodGet, "/candidates", nil))
	}

	tally := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/admin/dashboard/tally", nil), cookie))
	counts, _ := data(tally)["counts"].(map[string]any)
	if counts[a] != float64(1) || counts[b] != float64(1) {
		t.Fatalf("unexpected tally %v", counts)
	}
}
