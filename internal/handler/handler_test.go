package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/matryer/is"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ldflores83/falconcore/internal/config"
	"github.com/ldflores83/falconcore/internal/contentgen"
	"github.com/ldflores83/falconcore/internal/identity"
	"github.com/ldflores83/falconcore/internal/notify"
	"github.com/ldflores83/falconcore/internal/service"
	"github.com/ldflores83/falconcore/internal/store/gormstore"
)

type staticGenerator struct{}

func (staticGenerator) Generate(_ context.Context, req contentgen.Request) (string, error) {
	return "Post about " + req.Prompt + " for " + req.TenantName, nil
}

type testServer struct {
	e      *echo.Echo
	tokens *identity.JWTVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	is := is.New(t)

	db, err := gormstore.Open(config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "api.db"),
		LogLevel: gormlogger.Silent,
	})
	is.NoErr(err)
	is.NoErr(gormstore.Migrate(db))
	st := gormstore.New(db)
	t.Cleanup(func() { _ = st.Close() })

	log := zap.NewNop()
	keyer := service.NewMemberKeyer("salt")
	points := service.NewPointsService(st, log)
	h := New(Services{
		Tenants:   service.NewTenantService(st, nil, keyer, "ahau", log),
		Members:   service.NewMembershipService(st, nil, notify.NopMailer{}, keyer, time.Second, log),
		Drafts:    service.NewDraftService(st, points, log),
		Content:   service.NewContentService(st, staticGenerator{}, time.Second, log),
		Profiles:  service.NewProfileService(st, log),
		Templates: service.NewTemplateService(st, log),
		Calendar:  service.NewCalendarService(st, points, log),
		Points:    points,
		DB:        st,
	})

	tokens := identity.NewJWTVerifier("test-signing-key", time.Hour)
	e := NewEcho(log)
	Register(e, h, RouterConfig{Verifier: tokens, ContentRate: 1, ContentBurst: 2})
	return &testServer{e: e, tokens: tokens}
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorBody      `json:"error"`
}

// do sends a request as uid (anonymous when uid is empty) and decodes the
// envelope.
func (s *testServer) do(t *testing.T, method, path, uid, body string) (int, response) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if uid != "" {
		token, err := s.tokens.Issue(uid, uid+"@example.com", uid)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, out
}

func (s *testServer) createTenant(t *testing.T, uid, name string) string {
	t.Helper()
	code, res := s.do(t, http.MethodPost, "/api/ahau/tenants.create", uid, `{"name":"`+name+`"}`)
	if code != http.StatusOK {
		t.Fatalf("create tenant: %d %+v", code, res.Error)
	}
	var data struct {
		TenantID string `json:"tenantId"`
	}
	_ = json.Unmarshal(res.Data, &data)
	return data.TenantID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health?check=db", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	is.Equal(rec.Code, http.StatusOK)
	is.True(strings.Contains(rec.Body.String(), `"db_status":"ok"`))
}

func TestIdentityGateErrors(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)

	code, res := s.do(t, http.MethodPost, "/api/ahau/session/verify", "", "")
	is.Equal(code, http.StatusUnauthorized)
	is.True(!res.Success)
	is.Equal(res.Error.Code, "auth/missing-bearer")

	req := httptest.NewRequest(http.MethodPost, "/api/ahau/session/verify", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	is.Equal(rec.Code, http.StatusUnauthorized)
	is.True(strings.Contains(rec.Body.String(), `"auth/invalid-token"`))
}

func TestSessionAndTenantCreation(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)

	code, res := s.do(t, http.MethodPost, "/api/ahau/session/verify", "ana", "")
	is.Equal(code, http.StatusOK)
	is.True(strings.Contains(string(res.Data), `"tenantId":null`))

	code, res = s.do(t, http.MethodPost, "/api/ahau/tenants.create", "ana", `{"name":"ab"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid/name")

	tenantID := s.createTenant(t, "ana", "My Co")
	is.True(strings.HasPrefix(tenantID, "ahau_my-co_"))

	code, res = s.do(t, http.MethodPost, "/api/ahau/tenants.create", "ana", `{"name":"My Co"}`)
	is.Equal(code, http.StatusConflict)
	is.Equal(res.Error.Code, "tenant/already-assigned")
	is.Equal(decode[map[string]string](t, res.Data)["tenantId"], tenantID)

	sess := decode[service.Session](t, mustData(t, s, "ana"))
	is.Equal(*sess.TenantID, tenantID)
	is.Equal(string(*sess.Role), "admin")
}

func mustData(t *testing.T, s *testServer, uid string) json.RawMessage {
	t.Helper()
	_, res := s.do(t, http.MethodPost, "/api/ahau/session/verify", uid, "")
	return res.Data
}

func TestTenantGuard(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	tenantID := s.createTenant(t, "ana", "Acme")

	code, res := s.do(t, http.MethodGet, "/api/ahau/users.list", "ana", "")
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "missing-tenant-id")

	code, res = s.do(t, http.MethodGet, "/api/ahau/tenants/"+tenantID, "bob", "")
	is.Equal(code, http.StatusForbidden)
	is.Equal(res.Error.Code, "tenant-access-denied")

	code, res = s.do(t, http.MethodGet, "/api/ahau/tenants/"+tenantID, "ana", "")
	is.Equal(code, http.StatusOK)
	is.True(strings.Contains(string(res.Data), `"name":"Acme"`))
}

func TestInviteAcceptFlow(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	tenantID := s.createTenant(t, "ana", "Acme")
	base := "/api/ahau/tenants/" + tenantID

	code, res := s.do(t, http.MethodPost, "/api/ahau/users.invite", "ana", `{"tenantId":"`+tenantID+`","email":"not-an-email"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid-email")

	code, res = s.do(t, http.MethodPost, base+"/members/invite", "ana", `{"email":"bob@example.com","role":"owner"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid-role")

	code, res = s.do(t, http.MethodPost, base+"/members/invite", "ana", `{"email":"bob@example.com"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "missing-required-fields")

	code, res = s.do(t, http.MethodPost, "/api/ahau/users.invite", "ana", `{"tenantId":"`+tenantID+`","email":"bob@example.com"}`)
	is.Equal(code, http.StatusOK)
	invite := decode[map[string]string](t, res.Data)
	is.Equal(invite["status"], "invited")
	is.Equal(invite["role"], "member")

	// invited members already pass the guard but are not admins
	code, res = s.do(t, http.MethodGet, base+"/members", "bob", "")
	is.Equal(code, http.StatusForbidden)
	is.Equal(res.Error.Code, "admin-required")

	code, res = s.do(t, http.MethodPost, "/api/ahau/users.acceptInvite", "bob", `{"tenantId":"`+tenantID+`"}`)
	is.Equal(code, http.StatusOK)
	is.Equal(decode[map[string]string](t, res.Data)["status"], "active")

	code, res = s.do(t, http.MethodGet, "/api/ahau/users.list?tenantId="+tenantID, "bob", "")
	is.Equal(code, http.StatusOK)
	is.Equal(len(decode[[]map[string]any](t, res.Data)), 2)

	code, res = s.do(t, http.MethodPatch, base+"/members/"+invite["inviteId"], "bob", `{"role":"admin"}`)
	is.Equal(code, http.StatusForbidden)
	is.Equal(res.Error.Code, "admin-required")
	bob := s.member(t, base, invite["inviteId"])
	is.Equal(bob["role"], "member")
	is.Equal(bob["status"], "active")

	code, res = s.do(t, http.MethodPatch, base+"/members/"+invite["inviteId"], "ana", `{"role":"admin","status":"suspended"}`)
	is.Equal(code, http.StatusOK)
	member := decode[map[string]any](t, res.Data)
	is.Equal(member["role"], "admin")
	is.Equal(member["status"], "suspended")

	code, res = s.do(t, http.MethodGet, base, "bob", "")
	is.Equal(code, http.StatusForbidden)
	is.Equal(res.Error.Code, "inactive-member")

	code, _ = s.do(t, http.MethodDelete, base+"/members/"+invite["inviteId"], "ana", "")
	is.Equal(code, http.StatusOK)
}

// member returns the membership memberID as listed to the tenant owner ana.
func (s *testServer) member(t *testing.T, base, memberID string) map[string]any {
	t.Helper()
	code, res := s.do(t, http.MethodGet, base+"/members", "ana", "")
	if code != http.StatusOK {
		t.Fatalf("list members: %d %+v", code, res.Error)
	}
	for _, m := range decode[[]map[string]any](t, res.Data) {
		if m["id"] == memberID {
			return m
		}
	}
	t.Fatalf("member %s not listed", memberID)
	return nil
}

func TestUpdateMemberAppliesAllOrNothing(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	tenantID := s.createTenant(t, "ana", "Acme")
	base := "/api/ahau/tenants/" + tenantID

	code, res := s.do(t, http.MethodPost, base+"/members/invite", "ana", `{"email":"bob@example.com","role":"member"}`)
	is.Equal(code, http.StatusOK)
	inviteID := decode[map[string]string](t, res.Data)["inviteId"]

	code, res = s.do(t, http.MethodPatch, base+"/members/"+inviteID, "ana", `{"role":"admin","status":"active"}`)
	is.Equal(code, http.StatusConflict)
	is.Equal(res.Error.Code, "invalid-transition")

	bob := s.member(t, base, inviteID)
	is.Equal(bob["role"], "member")
	is.Equal(bob["status"], "invited")

	code, res = s.do(t, http.MethodPatch, base+"/members/"+inviteID, "ana", `{}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "no-updates")
}

func TestSettingsAndDrafts(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	tenantID := s.createTenant(t, "ana", "Acme")
	base := "/api/ahau/tenants/" + tenantID

	code, res := s.do(t, http.MethodGet, base+"/settings", "ana", "")
	is.Equal(code, http.StatusOK)
	is.True(strings.Contains(string(res.Data), `"primaryTopic":""`))

	code, res = s.do(t, http.MethodPut, base+"/settings", "ana", `{"tenantName":"Acme"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "missing-required-fields")

	code, _ = s.do(t, http.MethodPut, base+"/settings", "ana", `{"tenantName":"Acme","primaryTopic":"cloud"}`)
	is.Equal(code, http.StatusOK)

	code, res = s.do(t, http.MethodPost, "/api/ahau/drafts.create", "ana", `{"tenantId":"`+tenantID+`","content":"x"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid-title")

	code, res = s.do(t, http.MethodPost, base+"/drafts", "ana", `{"title":"Hello","content":"body","status":"live"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid-status")

	code, res = s.do(t, http.MethodPost, base+"/drafts", "ana", `{"title":"Hello","content":"body"}`)
	is.Equal(code, http.StatusOK)
	draft := decode[map[string]any](t, res.Data)
	draftID := draft["id"].(string)

	code, res = s.do(t, http.MethodPost, base+"/drafts/"+draftID+"/review", "ana", `{"status":"approved","notes":"ok"}`)
	is.Equal(code, http.StatusOK)
	is.Equal(decode[map[string]any](t, res.Data)["status"], "approved")

	code, res = s.do(t, http.MethodGet, "/api/ahau/drafts.list?tenantId="+tenantID, "ana", "")
	is.Equal(code, http.StatusOK)
	is.Equal(len(decode[[]map[string]any](t, res.Data)), 1)

	code, res = s.do(t, http.MethodGet, base+"/drafts/missing", "ana", "")
	is.Equal(code, http.StatusNotFound)
	is.Equal(res.Error.Code, "draft-not-found")
}

func TestGenerateContentRateLimited(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	tenantID := s.createTenant(t, "ana", "Acme")
	body := `{"tenantId":"` + tenantID + `","prompt":"hiring"}`

	code, res := s.do(t, http.MethodPost, "/api/ahau/content/generate", "ana", body)
	is.Equal(code, http.StatusOK)
	is.Equal(decode[map[string]string](t, res.Data)["text"], "Post about hiring for Acme")

	code, _ = s.do(t, http.MethodPost, "/api/ahau/content/generate", "ana", body)
	is.Equal(code, http.StatusOK)

	code, res = s.do(t, http.MethodPost, "/api/ahau/content/generate", "ana", body)
	is.Equal(code, http.StatusTooManyRequests)
	is.Equal(res.Error.Code, "rate-limited")
}

func TestUnknownRoute(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)

	code, res := s.do(t, http.MethodGet, "/nope", "", "")
	is.Equal(code, http.StatusNotFound)
	is.Equal(res.Error.Code, "not-found")
}

func TestEditorialRoutes(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	tenantID := s.createTenant(t, "ana", "Acme")
	base := "/api/ahau/tenants/" + tenantID

	code, _ := s.do(t, http.MethodPost, base+"/members/invite", "ana", `{"email":"bob@example.com","role":"member"}`)
	is.Equal(code, http.StatusOK)
	code, _ = s.do(t, http.MethodPost, "/api/ahau/users.acceptInvite", "bob", `{"tenantId":"`+tenantID+`"}`)
	is.Equal(code, http.StatusOK)

	code, res := s.do(t, http.MethodPost, base+"/profiles", "bob", `{"displayName":"Bob","role":"CTO","tone":{}}`)
	is.Equal(code, http.StatusForbidden)
	is.Equal(res.Error.Code, "admin-required")

	code, res = s.do(t, http.MethodPost, base+"/profiles", "ana", `{"displayName":"Ana","role":"CEO","tone":{"clarity":12}}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid-tone")

	code, res = s.do(t, http.MethodPost, base+"/profiles", "ana", `{"displayName":"Ana","role":"CEO","tone":{"warmth":7},"dos":["stories"]}`)
	is.Equal(code, http.StatusOK)
	profileID := decode[map[string]any](t, res.Data)["id"].(string)

	code, res = s.do(t, http.MethodPut, base+"/profiles/"+profileID, "ana", `{"role":"Founder"}`)
	is.Equal(code, http.StatusOK)
	is.Equal(decode[map[string]any](t, res.Data)["role"], "Founder")

	code, res = s.do(t, http.MethodGet, base+"/profiles", "bob", "")
	is.Equal(code, http.StatusOK)
	profiles := decode[[]map[string]any](t, res.Data)
	is.Equal(len(profiles), 1)
	is.Equal(profiles[0]["dos"], []any{"stories"})

	code, res = s.do(t, http.MethodPost, base+"/templates", "ana", `{"name":"Story","blocks":["hook","cta"]}`)
	is.Equal(code, http.StatusOK)
	templateID := decode[map[string]any](t, res.Data)["id"].(string)

	code, res = s.do(t, http.MethodGet, base+"/templates", "bob", "")
	is.Equal(code, http.StatusOK)
	is.Equal(len(decode[[]map[string]any](t, res.Data)), 1)

	code, res = s.do(t, http.MethodPost, "/api/ahau/content/generate", "bob",
		`{"tenantId":"`+tenantID+`","prompt":"hiring","profileId":"`+profileID+`","templateId":"`+templateID+`"}`)
	is.Equal(code, http.StatusOK)
	generated := decode[map[string]string](t, res.Data)
	is.Equal(generated["profile"], "Ana")
	is.Equal(generated["template"], "Story")

	code, res = s.do(t, http.MethodPost, base+"/drafts", "bob", `{"title":"Hello","content":"body"}`)
	is.Equal(code, http.StatusOK)
	draftID := decode[map[string]any](t, res.Data)["id"].(string)

	schedule := `{"dateISO":"2026-03-09","time":"09:30","ownerProfileId":"` + profileID + `","draftId":"` + draftID + `"}`
	code, _ = s.do(t, http.MethodPost, base+"/calendar/schedule", "bob", schedule)
	is.Equal(code, http.StatusForbidden)

	code, res = s.do(t, http.MethodPost, base+"/calendar/schedule", "ana", `{"dateISO":"2026-03-09","time":"9am","ownerProfileId":"`+profileID+`","draftId":"`+draftID+`"}`)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid-schedule")

	code, res = s.do(t, http.MethodPost, base+"/calendar/schedule", "ana", schedule)
	is.Equal(code, http.StatusOK)
	is.Equal(decode[map[string]any](t, res.Data)["slotId"], "2026-03-09_09-30")

	code, res = s.do(t, http.MethodGet, base+"/calendar?month=2026-03", "bob", "")
	is.Equal(code, http.StatusOK)
	is.Equal(len(decode[[]map[string]any](t, res.Data)), 1)

	code, res = s.do(t, http.MethodGet, base+"/points", "bob", "")
	is.Equal(code, http.StatusOK)
	board := decode[[]map[string]any](t, res.Data)
	is.Equal(len(board), 1)
	is.Equal(board[0]["points"], float64(5))

	code, res = s.do(t, http.MethodGet, base+"/points?week=11", "bob", "")
	is.Equal(code, http.StatusBadRequest)
	is.Equal(res.Error.Code, "invalid-request")
}
