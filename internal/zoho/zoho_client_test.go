package zoho_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"hr-ops/internal/config"
	"hr-ops/internal/shared/apperror"
	"hr-ops/internal/zoho"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeZoho struct {
	tokenCalls  atomic.Int32
	leaveCalls  atomic.Int32
	tokenStatus int
	leaveTotal  int
}

func (f *fakeZoho) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"invalid_code"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	})
	mux.HandleFunc("GET /projects/portal/777/timelogs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Zoho-oauthtoken tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, `{"type":"task"}`, r.URL.Query().Get("module"))
		assert.Equal(t, "day", r.URL.Query().Get("view_type"))
		if r.URL.Query().Get("start_date") == "2025-12-31" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"no access"}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"time_logs":[{"date":"%s","log_details":[{
			"added_by":{"email":"john@example.com"},
			"project":{"name":"Payroll"},
			"module_detail":{"name":"Import"},
			"start_time":"09:00 AM","end_time":"11:00 AM","log_hour":"02:00"}]}]}`,
			r.URL.Query().Get("start_date"))
	})
	mux.HandleFunc("GET /people/leavetracker/leaves/records", func(w http.ResponseWriter, r *http.Request) {
		f.leaveCalls.Add(1)
		assert.Equal(t, "Zoho-oauthtoken tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "yyyy-MM-dd", r.URL.Query().Get("dateFormat"))
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		body := `{"records":{`
		for i := start; i < min(start+limit, f.leaveTotal); i++ {
			if i > start {
				body += ","
			}
			body += fmt.Sprintf(`"rec-%d":{"Employee":"John Doe","ApprovalStatus":"Approved","Leavetype":"Casual","Days":{"2025-01-0%d":{"LeaveCount":"0.5","Session":1}}}`, i, i%9+1)
		}
		body += `}}`
		_, _ = w.Write([]byte(body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server, pageSize int) *zoho.Client {
	return zoho.NewClient(config.ZohoOptions{
		TokenURL:        srv.URL + "/oauth/token",
		PortalID:        "777",
		ProjectsBaseURL: srv.URL + "/projects",
		PeopleBaseURL:   srv.URL + "/people/",
		PageSize:        pageSize,
		Timeout:         5 * time.Second,
	})
}

func TestClient_FetchTimelogs(t *testing.T) {
	f := &fakeZoho{}
	c := newClient(f.server(t), 200)
	ctx := context.Background()
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	days, err := c.FetchTimelogs(ctx, from, from)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-10-01", days[0].Date)
	require.Len(t, days[0].LogDetails, 1)
	log := days[0].LogDetails[0]
	assert.Equal(t, "john@example.com", log.AddedBy.Email)
	assert.Equal(t, "Payroll", log.Project.Name)
	assert.Equal(t, "Import", log.ModuleDetail.Name)
	assert.Equal(t, "02:00", log.LogHour)

	_, err = c.FetchTimelogs(ctx, from.AddDate(0, 0, 1), from.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.tokenCalls.Load(), "token is reused until expiry")
}

func TestClient_FetchTimelogs_APIError(t *testing.T) {
	f := &fakeZoho{}
	c := newClient(f.server(t), 200)
	day := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := c.FetchTimelogs(context.Background(), day, day)
	var apiErr *zoho.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Body, "no access")
	assert.Equal(t, http.StatusBadGateway, apperror.ToHTTP(err).Status)
}

func TestClient_FetchLeaveRecords_Paginates(t *testing.T) {
	f := &fakeZoho{leaveTotal: 5}
	c := newClient(f.server(t), 2)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	records, err := c.FetchLeaveRecords(context.Background(), from, from.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, int32(3), f.leaveCalls.Load())

	rec := records["rec-0"]
	assert.True(t, rec.Approved())
	assert.Equal(t, "Casual", rec.LeaveType)
	assert.Equal(t, zoho.Number(0.5), rec.Days["2025-01-01"].LeaveCount)
	assert.Equal(t, zoho.Number(1), rec.Days["2025-01-01"].Session)
}

func TestClient_FetchLeaveRecords_ExactPageBoundary(t *testing.T) {
	f := &fakeZoho{leaveTotal: 4}
	c := newClient(f.server(t), 2)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	records, err := c.FetchLeaveRecords(context.Background(), from, from)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, int32(3), f.leaveCalls.Load(), "an empty page ends pagination")
}

func TestClient_TokenFailure(t *testing.T) {
	f := &fakeZoho{tokenStatus: http.StatusUnauthorized}
	c := newClient(f.server(t), 200)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := c.FetchLeaveRecords(context.Background(), from, from)
	var tokenErr *zoho.TokenError
	require.True(t, errors.As(err, &tokenErr))
	var apiErr *zoho.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, int32(0), f.leaveCalls.Load())
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var day zoho.LeaveDay
	require.NoError(t, json.Unmarshal([]byte(`{"LeaveCount":1,"Session":"2"}`), &day))
	assert.Equal(t, zoho.Number(1), day.LeaveCount)
	assert.Equal(t, zoho.Number(2), day.Session)

	assert.Error(t, json.Unmarshal([]byte(`{"LeaveCount":"half"}`), &day))
}
