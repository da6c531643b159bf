package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/starcharter/orbits/internal/domain"
	"github.com/starcharter/orbits/internal/infrastructure/repository"
	"github.com/starcharter/orbits/internal/lexicon"
	"github.com/starcharter/orbits/internal/present/rest/middleware"
	"github.com/starcharter/orbits/internal/service"
	"github.com/starcharter/orbits/internal/usecase"
)

const adminSecret = "hunter2"

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	repo, err := repository.NewMemoryRecordRepository()
	if err != nil {
		t.Fatalf("new repo failed: %v", err)
	}

	conf := domain.Config{
		FQDN:        "orbits.example.com",
		ServiceDID:  "did:web:orbits.example.com",
		AdminSecret: adminSecret,
	}

	validator := lexicon.NewValidator(lexicon.Registry{
		domain.NSIDOrbitRecord: &lexicon.Document{
			Lexicon: 1,
			ID:      domain.NSIDOrbitRecord,
			Defs: map[string]lexicon.Def{
				"main": {
					Type: "record",
					Record: &lexicon.Object{
						Type:     "object",
						Required: []string{"name", "createdAt"},
						Properties: map[string]lexicon.Property{
							"name":        {Type: "string"},
							"description": {Type: "string"},
							"feeds":       {Type: "object"},
							"createdAt":   {Type: "string"},
							"updatedAt":   {Type: "string"},
						},
					},
				},
			},
		},
	})

	signal := service.NewLocalSignalService()
	orbit := usecase.NewOrbitUsecase(conf, repo, validator, signal)

	e := echo.New()
	e.Validator = NewValidator()
	h := NewHandler(conf, orbit, signal)
	h.RegisterRoutes(e, middleware.NewAdminMiddleware(conf))

	return e
}

func doJSON(e *echo.Echo, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

func adminHeader() map[string]string {
	return map[string]string{"x-orbits-admin": adminSecret}
}

func errorKind(t *testing.T, res *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("unparsable error body: %v", err)
	}
	return body.Error
}

func TestCreateRequiresAdmin(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitCreate,
		map[string]any{"name": "Photography"}, nil)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
	if kind := errorKind(t, res); kind != "AuthMissing" {
		t.Fatalf("expected AuthMissing got %q", kind)
	}

	// nothing may have been persisted
	list := doJSON(e, http.MethodGet, "/xrpc/"+domain.NSIDOrbitList, nil, nil)
	var listBody struct {
		Records []any `json:"records"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("unparsable list body: %v", err)
	}
	if len(listBody.Records) != 0 {
		t.Fatalf("record persisted despite missing auth")
	}
}

func TestCreateRejectsWrongSecret(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitCreate,
		map[string]any{"name": "Photography"},
		map[string]string{"x-admin-password": "wrong"})

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
}

func TestCreateAcceptsHeaderSynonyms(t *testing.T) {
	e := newTestServer(t)

	for _, header := range []string{"x-orbits-admin", "x-admin-secret", "admin-password"} {
		res := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitCreate,
			map[string]any{"name": "Photography"},
			map[string]string{header: adminSecret})
		if res.Code != http.StatusOK {
			t.Fatalf("header %s: expected 200 got %d: %s", header, res.Code, res.Body)
		}
	}
}

func TestCreateMissingName(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitCreate,
		map[string]any{"description": "no name"}, adminHeader())

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
	if kind := errorKind(t, res); kind != "InvalidRequest" {
		t.Fatalf("expected InvalidRequest got %q", kind)
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitCreate,
		map[string]any{
			"name":  "Photography",
			"feeds": map[string]string{"photo": "at://x"},
		}, adminHeader())
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body)
	}

	var ref struct {
		URI string `json:"uri"`
		CID string `json:"cid"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &ref); err != nil {
		t.Fatalf("unparsable create body: %v", err)
	}
	if ref.URI == "" || ref.CID == "" {
		t.Fatalf("expected uri and cid, got %+v", ref)
	}

	got := doJSON(e, http.MethodGet, "/xrpc/"+domain.NSIDOrbitGet+"?uri="+ref.URI, nil, nil)
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", got.Code, got.Body)
	}

	var view struct {
		URI   string         `json:"uri"`
		CID   string         `json:"cid"`
		Value map[string]any `json:"value"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &view); err != nil {
		t.Fatalf("unparsable get body: %v", err)
	}
	if view.URI != ref.URI || view.CID != ref.CID {
		t.Fatalf("identity mismatch: %+v vs %+v", view, ref)
	}
	if view.Value["name"] != "Photography" {
		t.Fatalf("unexpected value %+v", view.Value)
	}
}

func TestGetErrors(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(e, http.MethodGet, "/xrpc/"+domain.NSIDOrbitGet, nil, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing uri, got %d", res.Code)
	}

	res = doJSON(e, http.MethodGet,
		"/xrpc/"+domain.NSIDOrbitGet+"?uri=at://did:web:orbits.example.com/"+domain.NSIDOrbitRecord+"/missing",
		nil, nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
	if kind := errorKind(t, res); kind != "NotFound" {
		t.Fatalf("expected NotFound got %q", kind)
	}
}

func TestListBounded(t *testing.T) {
	e := newTestServer(t)

	for i := 0; i < 4; i++ {
		res := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitCreate,
			map[string]any{"name": "orbit"}, adminHeader())
		if res.Code != http.StatusOK {
			t.Fatalf("create failed: %d %s", res.Code, res.Body)
		}
	}

	res := doJSON(e, http.MethodGet, "/xrpc/"+domain.NSIDOrbitList+"?limit=2", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var body struct {
		Records []any `json:"records"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("unparsable list body: %v", err)
	}
	if len(body.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(body.Records))
	}

	// unparsable limit falls back to the default instead of failing
	res = doJSON(e, http.MethodGet, "/xrpc/"+domain.NSIDOrbitList+"?limit=bogus", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
}

func TestUpdateFlow(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitCreate,
		map[string]any{
			"name":  "Photography",
			"feeds": map[string]string{"photo": "at://x"},
		}, adminHeader())
	var ref struct {
		URI string `json:"uri"`
		CID string `json:"cid"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &ref); err != nil {
		t.Fatalf("unparsable create body: %v", err)
	}

	// update requires admin
	noAuth := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitUpdate,
		map[string]any{"uri": ref.URI, "name": "Updated"}, nil)
	if noAuth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", noAuth.Code)
	}

	// unknown target
	missing := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitUpdate,
		map[string]any{
			"uri":  "at://did:web:orbits.example.com/" + domain.NSIDOrbitRecord + "/missing",
			"name": "x",
		}, adminHeader())
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", missing.Code)
	}

	updated := doJSON(e, http.MethodPost, "/xrpc/"+domain.NSIDOrbitUpdate,
		map[string]any{"uri": ref.URI, "name": "Updated"}, adminHeader())
	if updated.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", updated.Code, updated.Body)
	}

	var newRef struct {
		URI string `json:"uri"`
		CID string `json:"cid"`
	}
	if err := json.Unmarshal(updated.Body.Bytes(), &newRef); err != nil {
		t.Fatalf("unparsable update body: %v", err)
	}
	if newRef.URI != ref.URI {
		t.Fatalf("uri changed across update")
	}
	if newRef.CID == ref.CID {
		t.Fatalf("cid did not change")
	}

	got := doJSON(e, http.MethodGet, "/xrpc/"+domain.NSIDOrbitGet+"?uri="+ref.URI, nil, nil)
	var view struct {
		Value map[string]any `json:"value"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &view); err != nil {
		t.Fatalf("unparsable get body: %v", err)
	}
	if view.Value["name"] != "Updated" {
		t.Fatalf("expected updated name, got %v", view.Value["name"])
	}
	feeds, _ := view.Value["feeds"].(map[string]any)
	if feeds["photo"] != "at://x" {
		t.Fatalf("feeds were not preserved: %v", view.Value["feeds"])
	}
	if view.Value["updatedAt"] == nil {
		t.Fatalf("expected updatedAt to be present")
	}
}

func TestWellKnown(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(e, http.MethodGet, "/.well-known/orbits", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var body struct {
		DID       string            `json:"did"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("unparsable body: %v", err)
	}
	if body.DID != "did:web:orbits.example.com" {
		t.Fatalf("unexpected did %q", body.DID)
	}
	if body.Endpoints[domain.NSIDOrbitCreate] == "" {
		t.Fatalf("missing create endpoint")
	}
}
