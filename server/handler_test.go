/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chainguard.dev/depreview/review"
)

type fakeAnalyzer struct {
	analysis *review.Analysis
	err      error

	got *review.Resource
}

func (f *fakeAnalyzer) Analyze(_ context.Context, res *review.Resource) (*review.Analysis, error) {
	f.got = res
	return f.analysis, f.err
}

func TestAnalyzePR(t *testing.T) {
	fake := &fakeAnalyzer{
		analysis: &review.Analysis{
			Resource: &review.Resource{Owner: "acme", Repo: "webapp", Number: 42},
			Title:    "Bump lodash from 4.17.20 to 4.17.21",
			Steps: []review.Step{
				{Name: "metadata", Status: review.StatusCompleted},
				{Name: "verdict", Status: review.StatusCompleted},
			},
		},
	}
	handler := NewHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze-pr?prUrl=https://github.com/acme/webapp/pull/42", nil)
	rec := httptest.NewRecorder()
	handler.AnalyzePR(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, wanted 200: %s", rec.Code, rec.Body.String())
	}
	if fake.got == nil || fake.got.Owner != "acme" || fake.got.Number != 42 {
		t.Errorf("analyzer got %+v, wanted acme/webapp#42", fake.got)
	}

	var body review.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Steps) != 2 || body.Steps[0].Status != review.StatusCompleted {
		t.Errorf("steps = %+v", body.Steps)
	}
}

func TestAnalyzePRMissingParam(t *testing.T) {
	handler := NewHandler(&fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/api/analyze-pr", nil)
	rec := httptest.NewRecorder()
	handler.AnalyzePR(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, wanted 400", rec.Code)
	}
}

func TestAnalyzePRBadURL(t *testing.T) {
	handler := NewHandler(&fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/api/analyze-pr?prUrl=https://github.com/acme/webapp/issues/1", nil)
	rec := httptest.NewRecorder()
	handler.AnalyzePR(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, wanted 400", rec.Code)
	}
}

func TestAnalyzePRAnalyzerError(t *testing.T) {
	fake := &fakeAnalyzer{
		analysis: &review.Analysis{
			Steps: []review.Step{{Name: "metadata", Status: review.StatusError, Error: "not an upgrade"}},
		},
		err: errors.New("not an upgrade"),
	}
	handler := NewHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze-pr?prUrl=https://github.com/acme/webapp/pull/42", nil)
	rec := httptest.NewRecorder()
	handler.AnalyzePR(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, wanted 422", rec.Code)
	}
	var body struct {
		Error string        `json:"error"`
		Steps []review.Step `json:"steps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Error == "" || len(body.Steps) != 1 {
		t.Errorf("body = %+v, wanted error and steps", body)
	}
}

func TestHealthz(t *testing.T) {
	handler := NewHandler(&fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, wanted 200", rec.Code)
	}
}
