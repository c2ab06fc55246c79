package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/shopmall/backend/pkg/errors"
)

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMessage(w, http.StatusOK, "操作成功")

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "操作成功" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "部分产品库存不足或不可用").
		WithDetails(map[string]any{
			"unavailable_products": []map[string]any{{"product_id": "p1"}},
		})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "部分产品库存不足或不可用" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["unavailable_products"] == nil {
		t.Fatalf("expected details merged into body, got %v", body)
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "internal server error" {
		t.Fatalf("internal errors must not leak causes, got %v", body["message"])
	}
	if len(body) != 1 {
		t.Fatalf("details should be omitted for internal errors, got %v", body)
	}
}

func TestWriteErrorMessageKeyCannotBeOverridden(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "无效的输入").
		WithDetails(map[string]any{"message": "spoofed", "field": "email"})
	WriteError(context.Background(), nil, w, err)

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "无效的输入" {
		t.Fatalf("details must not shadow the message, got %v", body["message"])
	}
	if body["field"] != "email" {
		t.Fatalf("expected field detail, got %v", body)
	}
}
