package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "tollfee/internal/http"
	"tollfee/internal/modules/toll"
)

func TestMigrationFile(t *testing.T) {
	tables, err := extractTables("../../migrations/0001_holidays.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"holiday_dates"}, tables)

	stmts := splitSQL("-- header\nCREATE TABLE a (x int);\n\nINSERT INTO a VALUES (1);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x int)", "INSERT INTO a VALUES (1)"}, stmts)
}

func TestCasesAgainstInProcessServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dates, err := toll.ParseHolidayDates(toll.DefaultHolidayDates())
	require.NoError(t, err)
	svc := toll.NewService(toll.NewExemptions(toll.NewDateCalendar(dates)), toll.DefaultSchedule(), toll.DefaultRules())
	srv := httptest.NewServer(httptransport.NewServer(httptransport.ServerDeps{Toll: svc, Currency: "SEK"}).Routes())
	t.Cleanup(srv.Close)

	r := NewRunner(Config{BaseURL: srv.URL, Concurrency: 4})
	for _, tc := range r.cases() {
		if tc.Focus != "HTTP API" && tc.Name != "API: health" && tc.Name != "Concurrency: identical requests agree" {
			continue
		}
		t.Run(tc.Name, func(t *testing.T) {
			res := tc.Run(context.Background(), r)
			assert.Equal(t, statusPass, res.Status, res.Note)
		})
	}
}

func TestRunner_Post_SendsToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	r := NewRunner(Config{BaseURL: srv.URL, Token: "abc"})
	code, _, _, err := r.post(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, "Bearer abc", got)
}
