package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/askdata/askdata/internal/auth"
	"github.com/askdata/askdata/internal/conversation"
	"github.com/askdata/askdata/internal/nl2sql"
	"github.com/askdata/askdata/internal/pipeline"
	"github.com/askdata/askdata/internal/query"
	"github.com/askdata/askdata/internal/sqlguard"
)

type fakeAnswerer struct {
	answer    pipeline.Answer
	err       error
	translate nl2sql.Result
	statement *sqlguard.Statement
	stats     []pipeline.Stat

	readOnly    bool
	lastSession string
	lastInput   string
}

func (f *fakeAnswerer) Ask(_ context.Context, question string, opts ...pipeline.Option) (pipeline.Answer, error) {
	f.lastInput = question
	f.readOnly, f.lastSession = pipeline.Resolve(opts...)
	answer := f.answer
	answer.Question = question
	return answer, f.err
}

func (f *fakeAnswerer) Run(_ context.Context, sqlText string, opts ...pipeline.Option) (pipeline.Answer, error) {
	f.lastInput = sqlText
	f.readOnly, f.lastSession = pipeline.Resolve(opts...)
	answer := f.answer
	if answer.SQL == "" {
		answer.SQL = sqlText
	}
	return answer, f.err
}

func (f *fakeAnswerer) Translate(context.Context, string) (nl2sql.Result, *sqlguard.Statement, error) {
	return f.translate, f.statement, f.err
}

func (f *fakeAnswerer) QuickStats(context.Context) ([]pipeline.Stat, error) {
	return f.stats, f.err
}

func okAnswer() pipeline.Answer {
	return pipeline.Answer{
		SQL:     "SELECT COUNT(*) AS total FROM General_Project_Detail",
		Outcome: pipeline.OutcomeOK,
		Table:   &query.Table{Columns: []string{"total"}, Rows: [][]any{{int64(42)}}},
	}
}

func postJSON(h http.Handler, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAskReturnsAnswerAndRecordsTurns(t *testing.T) {
	answerer := &fakeAnswerer{answer: okAnswer()}
	store := conversation.NewStore(0)
	h := NewHandler(loadConfig(t, nil), Dependencies{Answerer: answerer, Conversations: store})

	rr := postJSON(h, "/v1/ask", `{"question":"  how many projects?  "}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("session_id missing: %#v", body)
	}
	if body["outcome"] != string(pipeline.OutcomeOK) {
		t.Fatalf("outcome = %v", body["outcome"])
	}
	if answerer.lastInput != "how many projects?" {
		t.Fatalf("question = %q", answerer.lastInput)
	}
	if answerer.lastSession != sessionID {
		t.Fatalf("pipeline session = %q, want %q", answerer.lastSession, sessionID)
	}

	turns := store.Turns(sessionID)
	if len(turns) != 2 {
		t.Fatalf("turns = %#v", turns)
	}
	if turns[0].Role != conversation.RoleUser || turns[1].Role != conversation.RoleAssistant {
		t.Fatalf("roles = %s, %s", turns[0].Role, turns[1].Role)
	}
	if turns[1].Content != "Found 1 rows." || turns[1].SQL == "" {
		t.Fatalf("assistant turn = %#v", turns[1])
	}

	rr = postJSON(h, "/v1/ask", `{"question":"and last year?","session_id":"`+sessionID+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := len(store.Turns(sessionID)); got != 4 {
		t.Fatalf("turns after follow-up = %d", got)
	}
}

func TestAskRejectsBlankQuestionAndUnknownFields(t *testing.T) {
	h := NewHandler(loadConfig(t, nil), Dependencies{Answerer: &fakeAnswerer{answer: okAnswer()}})

	rr := postJSON(h, "/v1/ask", `{"question":"   "}`)
	if rr.Code != http.StatusBadRequest || decodeBody(t, rr)["error_code"] != "QUESTION_REQUIRED" {
		t.Fatalf("blank question: status = %d body=%s", rr.Code, rr.Body.String())
	}

	rr = postJSON(h, "/v1/ask", `{"question":"x","tenant":"t1"}`)
	if rr.Code != http.StatusBadRequest || decodeBody(t, rr)["error_code"] != "INVALID_JSON" {
		t.Fatalf("unknown field: status = %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAskMapsFailureOutcomes(t *testing.T) {
	cases := []struct {
		name      string
		answer    pipeline.Answer
		err       error
		status    int
		code      string
		retryable bool
	}{
		{
			name:   "generation",
			answer: pipeline.Answer{Outcome: pipeline.OutcomeGenerationFailed, Error: "completion service returned 500"},
			err:    &nl2sql.UpstreamError{Op: "complete", StatusCode: 500, Retryable: true, Err: errors.New("boom")},
			status: http.StatusBadGateway, code: "GENERATION_FAILED", retryable: true,
		},
		{
			name:   "rejected",
			answer: pipeline.Answer{SQL: "SELECT * FROM Secrets", Outcome: pipeline.OutcomeRejected, Error: "query rejected"},
			err:    &sqlguard.RejectionError{Reason: sqlguard.ReasonUnknownTable, Detail: "Secrets"},
			status: http.StatusUnprocessableEntity, code: "QUERY_REJECTED",
		},
		{
			name:   "mutation",
			answer: pipeline.Answer{SQL: "DELETE FROM General_Project_Detail", Outcome: pipeline.OutcomeRejected, Error: "query rejected"},
			err:    &sqlguard.RejectionError{Reason: sqlguard.ReasonMutation, Detail: "DELETE requires the operator role"},
			status: http.StatusForbidden, code: "QUERY_REJECTED",
		},
		{
			name:   "statement",
			answer: pipeline.Answer{SQL: "SELECT nope", Outcome: pipeline.OutcomeQueryFailed, Error: "Invalid column name 'nope'."},
			err:    &query.ExecutionError{Kind: query.ErrorStatement, Err: errors.New("Invalid column name 'nope'.")},
			status: http.StatusUnprocessableEntity, code: "QUERY_FAILED",
		},
		{
			name:   "connectivity",
			answer: pipeline.Answer{SQL: "SELECT 1", Outcome: pipeline.OutcomeConnectivityFailed, Error: "connection refused"},
			err:    &query.ExecutionError{Kind: query.ErrorConnectivity, Err: errors.New("connection refused")},
			status: http.StatusServiceUnavailable, code: "DATABASE_UNAVAILABLE", retryable: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(loadConfig(t, nil), Dependencies{Answerer: &fakeAnswerer{answer: tc.answer, err: tc.err}})
			rr := postJSON(h, "/v1/ask", `{"question":"anything"}`)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d, body=%s", rr.Code, tc.status, rr.Body.String())
			}
			body := decodeBody(t, rr)
			if body["error_code"] != tc.code || body["retryable"] != tc.retryable {
				t.Fatalf("body = %#v", body)
			}
			if body["message"] != tc.answer.Error {
				t.Fatalf("message = %v, want %q", body["message"], tc.answer.Error)
			}
			ctx, _ := body["context"].(map[string]any)
			if ctx["outcome"] != string(tc.answer.Outcome) {
				t.Fatalf("context = %#v", ctx)
			}
			if tc.answer.SQL != "" && ctx["sql"] != tc.answer.SQL {
				t.Fatalf("context sql = %v", ctx["sql"])
			}
		})
	}
}

func TestQueryIsReadOnlyForAnalysts(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"ASKDATA_AUTH_REQUIRED": "true"})
	validator, err := auth.NewStaticAPIKeyValidator("ka:ana:analyst,ko:oli:operator")
	if err != nil {
		t.Fatalf("validator setup failed: %v", err)
	}
	answerer := &fakeAnswerer{answer: pipeline.Answer{Outcome: pipeline.OutcomeMutationOK, RowsAffected: 1, Message: "1 row affected"}}
	h := NewHandler(cfg, Dependencies{AuthMiddleware: auth.Middleware(nil, validator), Answerer: answerer})

	rr := postJSON(h, "/v1/query", `{"sql":"UPDATE General_Project_Detail SET Project_Status = 'E1'"}`, "X-API-Key", "ka")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !answerer.readOnly {
		t.Fatal("analyst query should run read-only")
	}

	rr = postJSON(h, "/v1/query", `{"sql":"UPDATE General_Project_Detail SET Project_Status = 'E1'"}`, "X-API-Key", "ko")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if answerer.readOnly {
		t.Fatal("operator query should allow mutations")
	}
	if decodeBody(t, rr)["rows_affected"] != float64(1) {
		t.Fatalf("body = %s", rr.Body.String())
	}

	rr = postJSON(h, "/v1/query", `{"sql":"  "}`, "X-API-Key", "ka")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank sql status = %d", rr.Code)
	}
}

func TestTranslateReturnsStatementWithoutExecuting(t *testing.T) {
	answerer := &fakeAnswerer{
		translate: nl2sql.Result{SQL: "SELECT 1", Model: "test-model"},
		statement: &sqlguard.Statement{Verb: "SELECT", Kind: query.KindRead},
	}
	h := NewHandler(loadConfig(t, nil), Dependencies{Answerer: answerer})

	rr := postJSON(h, "/v1/translate", `{"question":"one"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["sql"] != "SELECT 1" || body["model"] != "test-model" {
		t.Fatalf("body = %#v", body)
	}

	answerer.err = pipeline.ErrTranslatorNotEnabled
	rr = postJSON(h, "/v1/translate", `{"question":"one"}`)
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	answerer := &fakeAnswerer{stats: []pipeline.Stat{{Label: "Total Projects", SQL: "SELECT 1", Value: int64(10)}}}
	h := NewHandler(loadConfig(t, nil), Dependencies{Answerer: answerer, Schema: mustSchema(t)})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Total Projects") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}
