package docintel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsAvailable(t *testing.T) {
	if NewClient("", "").IsAvailable() {
		t.Fatal("unconfigured client must be unavailable")
	}
	if NewClient("https://example.com", "").IsAvailable() {
		t.Fatal("client without key must be unavailable")
	}
	if !NewClient("https://example.com", "key").IsAvailable() {
		t.Fatal("configured client must be available")
	}
}

func TestAnalyze_UnconfiguredReturnsUnavailable(t *testing.T) {
	c := NewClient("", "")
	_, err := c.Analyze(context.Background(), []byte("data"), "application/pdf")
	if !IsUnavailable(err) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
}

func TestAnalyze_SubmitAndPoll(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if r.Header.Get("Ocp-Apim-Subscription-Key") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Operation-Location", srv.URL+"/op/123")
			w.WriteHeader(http.StatusAccepted)
		case http.MethodGet:
			resp := map[string]any{
				"status": "succeeded",
				"analyzeResult": map[string]any{
					"content": "Patient: Jane Doe\nDiagnosis: lumbar strain",
					"pages": []map[string]any{
						{"words": []map[string]any{{"confidence": 0.9}, {"confidence": 0.8}}},
					},
					"tables": []map[string]any{
						{"rowCount": 2, "columnCount": 2, "cells": []map[string]any{{"content": "CPT"}, {"content": "99213"}}},
					},
					"keyValuePairs": []map[string]any{
						{"key": map[string]any{"content": "Patient"}, "value": map[string]any{"content": "Jane Doe"}},
					},
				},
			}
			json.NewEncoder(w).Encode(resp)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	c.PollInterval = time.Millisecond

	result, err := c.Analyze(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Text == "" {
		t.Fatal("expected extracted text")
	}
	if result.PageCount != 1 {
		t.Fatalf("expected 1 page, got %d", result.PageCount)
	}
	if result.Confidence < 0.84 || result.Confidence > 0.86 {
		t.Fatalf("expected averaged confidence ~0.85, got %f", result.Confidence)
	}
	if len(result.Tables) != 1 || result.Tables[0].RowCount != 2 {
		t.Fatalf("unexpected tables: %+v", result.Tables)
	}
	if len(result.KeyValuePairs) != 1 || result.KeyValuePairs[0].Value != "Jane Doe" {
		t.Fatalf("unexpected key value pairs: %+v", result.KeyValuePairs)
	}
}

func TestAnalyze_AuthRejectedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong")
	c.PollInterval = time.Millisecond
	_, err := c.Analyze(context.Background(), []byte("data"), "application/pdf")
	if !IsUnavailable(err) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
}

func TestAnalyze_FailedOperation(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Header().Set("Operation-Location", srv.URL+"/op/9")
			w.WriteHeader(http.StatusAccepted)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "failed",
			"error":  map[string]any{"message": "unsupported content"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	c.PollInterval = time.Millisecond
	_, err := c.Analyze(context.Background(), []byte("data"), "application/pdf")
	if err == nil {
		t.Fatal("expected error for failed operation")
	}
	if IsUnavailable(err) {
		t.Fatal("a failed analysis is not a service outage")
	}
}
