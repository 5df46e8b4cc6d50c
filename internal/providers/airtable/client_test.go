package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{APIKey: "key_test", BaseID: "appBase", TableName: "Payment Failures"}
}

func TestCreateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v0/appBase/Payment%20Failures", r.URL.EscapedPath())
		require.Equal(t, "Bearer key_test", r.Header.Get("Authorization"))

		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "pi_1", body.Fields["Payment ID"])
		require.Equal(t, "Failed", body.Fields["Status"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"recABC123","createdTime":"2026-08-31T12:00:00Z"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig()).WithBaseURL(srv.URL)
	id, err := client.CreateRecord(context.Background(), map[string]any{
		"Payment ID": "pi_1",
		"Status":     "Failed",
	})
	require.NoError(t, err)
	require.Equal(t, "recABC123", id)
}

func TestCreateRecordAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"UNKNOWN_FIELD_NAME","message":"Unknown field name"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig()).WithBaseURL(srv.URL)
	_, err := client.CreateRecord(context.Background(), map[string]any{"Bogus": 1})
	require.EqualError(t, err, "Unknown field name")
}

func TestListRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "1", r.URL.Query().Get("maxRecords"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig()).WithBaseURL(srv.URL)
	require.NoError(t, client.ListRecords(context.Background(), 1))
}

func TestSchemaDescription(t *testing.T) {
	schema := SchemaDescription()
	for _, field := range []string{"Payment ID", "Customer Email", "Customer Name", "Amount", "Currency", "Failure Reason", "Failed At", "Status"} {
		require.Contains(t, schema, field)
	}
}
