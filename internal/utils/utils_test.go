package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content-type and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := map[string]string{"key": "value"}
		WriteJSON(w, http.StatusOK, body)

		if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("encodes body as JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := map[string]string{"foo": "bar"}
		WriteJSON(w, http.StatusCreated, body)

		var got map[string]string
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("body is not valid JSON: %v", err)
		}
		if got["foo"] != "bar" {
			t.Errorf("body[foo] = %q; want bar", got["foo"])
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	status := http.StatusBadRequest
	msg := "invalid input"
	WriteError(w, status, msg)

	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
	}
	if w.Code != status {
		t.Errorf("Code = %d; want %d", w.Code, status)
	}

	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got["error"] != http.StatusText(status) {
		t.Errorf("error = %q; want %q", got["error"], http.StatusText(status))
	}
	if got["message"] != msg {
		t.Errorf("message = %q; want %q", got["message"], msg)
	}
}

func TestWriteHTML(t *testing.T) {
	t.Run("writes rendered body", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := WriteHTML(w, http.StatusCreated, func(out io.Writer) error {
			_, err := io.WriteString(out, "<p>ok</p>")
			return err
		})
		if err != nil {
			t.Fatalf("WriteHTML() = %v", err)
		}
		if w.Code != http.StatusCreated {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusCreated)
		}
		if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q", got)
		}
		if w.Body.String() != "<p>ok</p>" {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("render error leaves response untouched", func(t *testing.T) {
		w := httptest.NewRecorder()
		renderErr := errors.New("boom")
		err := WriteHTML(w, http.StatusOK, func(out io.Writer) error {
			_, _ = io.WriteString(out, "<p>partial")
			return renderErr
		})
		if !errors.Is(err, renderErr) {
			t.Fatalf("WriteHTML() = %v; want %v", err, renderErr)
		}
		if w.Body.Len() != 0 || w.Header().Get("Content-Type") != "" {
			t.Errorf("response written on render error: %q", w.Body.String())
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"Well"}`},
		{name: "malformed", body: `{"name":`, wantErr: "invalid JSON body"},
		{name: "unknown field", body: `{"nom":"Well"}`, wantErr: "unknown field"},
		{name: "trailing data", body: `{"name":"Well"} {}`, wantErr: "unexpected data"},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: "exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var p payload
			err := DecodeJSON(w, r, &p)
			if tt.wantErr == "" {
				if err != nil || p.Name != "Well" {
					t.Fatalf("DecodeJSON() = %v, %+v", err, p)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DecodeJSON() error = %v; want %q", err, tt.wantErr)
			}
		})
	}
}
