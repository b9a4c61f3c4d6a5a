/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/config"
	"github.com/iambriccardo/distribuito/internal/storage"
)

func newTestState(t *testing.T) *DatabaseState {
	t.Helper()
	cfg := &config.Config{DatabaseName: "default", DatabasePath: t.TempDir()}
	backend := storage.NewFileBackend(t.TempDir())
	return NewDatabaseState(cfg, backend)
}

func doRequest(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateInsertQueryEndToEnd(t *testing.T) {
	state := newTestState(t)

	createResp := doRequest(t, state.CreateTable, CreateTableRequest{
		Name: "people",
		Columns: []Column{
			{Name: "name", Type: column.String},
			{Name: "age", Type: column.Integer},
		},
	})
	var createStatus string
	if err := json.Unmarshal(createResp.Body.Bytes(), &createStatus); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if createStatus != "table created successfully" {
		t.Fatalf("unexpected create status: %q", createStatus)
	}

	insertResp := doRequest(t, state.Insert, InsertRequest{
		Insert: []string{"name", "age"},
		Into:   "people",
		Values: [][]any{{"alice", 30}, {"bob", 25}},
	})
	var insertStatus string
	if err := json.Unmarshal(insertResp.Body.Bytes(), &insertStatus); err != nil {
		t.Fatalf("decode insert response: %v", err)
	}
	if insertStatus != "data inserted successfully" {
		t.Fatalf("unexpected insert status: %q", insertStatus)
	}

	queryResp := doRequest(t, state.Query, QueryRequest{Select: []string{"name", "age"}, From: "people"})
	var resp QueryResponse
	if err := json.Unmarshal(queryResp.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode query response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 rows, got %+v", resp)
	}
}

func TestQueryUnknownTableIsEmpty(t *testing.T) {
	state := newTestState(t)
	resp := doRequest(t, state.Query, QueryRequest{Select: []string{"x"}, From: "missing"})

	var out QueryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Columns != nil || out.Errors == nil {
		t.Errorf("expected Empty variant for unknown table, got %+v", out)
	}
}
