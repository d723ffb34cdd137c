package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/evorgs/calendar-backend/internal/storage"
)

func TestCreateAndListSources(t *testing.T) {
	db := newTestDB(t)
	sources := storage.NewSourceRepository(db)

	body := strings.NewReader(`{"vendor_name":"Acme Catering","url":"https://feeds.example.com/acme.json","sync_interval_min":30,"enabled":true}`)
	req := httptest.NewRequest("POST", "/api/sources", body)
	rec := httptest.NewRecorder()
	CreateSource(sources, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created SourceResponse
	json.NewDecoder(rec.Body).Decode(&created)
	if created.ID == "" {
		t.Error("source id is empty")
	}
	if created.SyncStatus != "pending" {
		t.Errorf("sync_status = %q, want pending", created.SyncStatus)
	}

	listReq := httptest.NewRequest("GET", "/api/sources", nil)
	listRec := httptest.NewRecorder()
	ListSources(sources)(listRec, listReq)

	var list []SourceResponse
	json.NewDecoder(listRec.Body).Decode(&list)
	if len(list) != 1 || list[0].VendorName != "Acme Catering" {
		t.Errorf("list = %+v, want one source", list)
	}
}

func TestCreateSourceValidation(t *testing.T) {
	db := newTestDB(t)
	sources := storage.NewSourceRepository(db)

	body := strings.NewReader(`{"vendor_name":"","url":""}`)
	req := httptest.NewRequest("POST", "/api/sources", body)
	rec := httptest.NewRecorder()
	CreateSource(sources, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateSourceClampsInterval(t *testing.T) {
	db := newTestDB(t)
	sources := storage.NewSourceRepository(db)

	body := strings.NewReader(`{"vendor_name":"Acme","url":"https://feeds.example.com/a.json","sync_interval_min":1,"enabled":false}`)
	req := httptest.NewRequest("POST", "/api/sources", body)
	rec := httptest.NewRecorder()
	CreateSource(sources, nil)(rec, req)

	var created SourceResponse
	json.NewDecoder(rec.Body).Decode(&created)
	if created.SyncIntervalMin != 15 {
		t.Errorf("sync_interval_min = %d, want default 15", created.SyncIntervalMin)
	}
}

func TestUpdateSourceValidation(t *testing.T) {
	db := newTestDB(t)
	sources := storage.NewSourceRepository(db)

	body := strings.NewReader(`{"vendor_name":"Acme","url":"https://feeds.example.com/a.json","sync_interval_min":30,"enabled":true}`)
	rec := httptest.NewRecorder()
	CreateSource(sources, nil)(rec, httptest.NewRequest("POST", "/api/sources", body))

	var created SourceResponse
	json.NewDecoder(rec.Body).Decode(&created)

	update := strings.NewReader(`{"vendor_name":"","url":""}`)
	req := mux.SetURLVars(httptest.NewRequest("PUT", "/api/sources/"+created.ID, update), map[string]string{"id": created.ID})
	rec = httptest.NewRecorder()
	UpdateSource(sources, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update with empty fields status = %d, want 400", rec.Code)
	}

	update = strings.NewReader(`{"vendor_name":"Acme","url":"https://feeds.example.com/a.json","sync_interval_min":1,"enabled":true}`)
	req = mux.SetURLVars(httptest.NewRequest("PUT", "/api/sources/"+created.ID, update), map[string]string{"id": created.ID})
	rec = httptest.NewRecorder()
	UpdateSource(sources, nil)(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d, want 204", rec.Code)
	}

	req = mux.SetURLVars(httptest.NewRequest("GET", "/api/sources/"+created.ID, nil), map[string]string{"id": created.ID})
	rec = httptest.NewRecorder()
	GetSource(sources)(rec, req)

	var got SourceResponse
	json.NewDecoder(rec.Body).Decode(&got)
	if got.VendorName != "Acme" || got.SyncIntervalMin != 15 {
		t.Errorf("got = %+v, want original vendor and clamped interval", got)
	}
}

func TestUpdateAndDeleteSource(t *testing.T) {
	db := newTestDB(t)
	sources := storage.NewSourceRepository(db)

	body := strings.NewReader(`{"vendor_name":"Acme","url":"https://feeds.example.com/a.json","sync_interval_min":30,"enabled":true}`)
	rec := httptest.NewRecorder()
	CreateSource(sources, nil)(rec, httptest.NewRequest("POST", "/api/sources", body))

	var created SourceResponse
	json.NewDecoder(rec.Body).Decode(&created)

	update := strings.NewReader(`{"vendor_name":"Acme Renamed","url":"https://feeds.example.com/b.json","sync_interval_min":60,"enabled":false}`)
	req := mux.SetURLVars(httptest.NewRequest("PUT", "/api/sources/"+created.ID, update), map[string]string{"id": created.ID})
	rec = httptest.NewRecorder()
	UpdateSource(sources, nil)(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d, want 204", rec.Code)
	}

	req = mux.SetURLVars(httptest.NewRequest("GET", "/api/sources/"+created.ID, nil), map[string]string{"id": created.ID})
	rec = httptest.NewRecorder()
	GetSource(sources)(rec, req)

	var got SourceResponse
	json.NewDecoder(rec.Body).Decode(&got)
	if got.VendorName != "Acme Renamed" || got.SyncIntervalMin != 60 || got.Enabled {
		t.Errorf("got = %+v after update", got)
	}

	req = mux.SetURLVars(httptest.NewRequest("DELETE", "/api/sources/"+created.ID, nil), map[string]string{"id": created.ID})
	rec = httptest.NewRecorder()
	DeleteSource(sources, nil)(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	req = mux.SetURLVars(httptest.NewRequest("GET", "/api/sources/"+created.ID, nil), map[string]string{"id": created.ID})
	rec = httptest.NewRecorder()
	GetSource(sources)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}
